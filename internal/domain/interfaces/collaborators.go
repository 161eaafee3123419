package interfaces

import (
	"context"

	domaintypes "vaultlink/internal/domain/types"
)

// Grant is the opaque authenticated context produced by the external
// authenticator and handed to vault mutations.
type Grant struct {
	IssuedUTC int64
}

// Authenticator is the device's human-in-the-loop authenticator
// (biometric, passcode, terminal confirm). It blocks with no protocol
// timeout; cancellation is owned by the device and surfaces as an error.
type Authenticator interface {
	Authenticate(ctx context.Context, prompt string) (Grant, error)
}

// Analytics receives one event per authorization outcome. Sinks are
// best-effort and must not fail the flow.
type Analytics interface {
	Event(name string, fields map[string]any)
}

// Verifier supplies the expected out-of-band verification code for a
// session, when the request type demands one.
type Verifier interface {
	ExpectedCode(sessionID domaintypes.SessionID) (string, error)
}
