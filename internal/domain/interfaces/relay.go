package interfaces

import (
	"context"
	"time"

	domaintypes "vaultlink/internal/domain/types"
)

// RelayClient is how the vault talks to the untrusted relay server. The
// relay only ever sees ciphertexts and session identifiers.
type RelayClient interface {
	// Publish posts a fire-and-forget ciphertext for the peer of sessionID.
	Publish(ctx context.Context, sessionID domaintypes.SessionID, cipher []byte) error

	// PollPersistent fetches queued messages for sessionID. A zero wait is
	// a short poll; a positive wait asks the relay to hold the request up
	// to that long before answering (bounded long poll).
	PollPersistent(
		ctx context.Context,
		sessionID domaintypes.SessionID,
		wait time.Duration,
	) ([]domaintypes.QueuedMessage, error)

	// Acknowledge deletes one queued message by its delivery token.
	Acknowledge(ctx context.Context, sessionID domaintypes.SessionID, token domaintypes.AckToken) error

	// FetchRotationEntries returns the pending re-key chain for a team
	// session, in the order it must be applied.
	FetchRotationEntries(
		ctx context.Context,
		sessionID domaintypes.SessionID,
	) ([]domaintypes.RotationEntry, error)

	// RegisterNewSigningKey installs the post-rotation signing public key,
	// fenced by the length of the rotation list the vault consumed.
	RegisterNewSigningKey(
		ctx context.Context,
		sessionID domaintypes.SessionID,
		pub domaintypes.Ed25519Public,
		fence int,
	) error
}
