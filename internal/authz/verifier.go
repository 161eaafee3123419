package authz

import (
	"fmt"

	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
	"vaultlink/internal/kdf"
)

// SessionVerifier derives the expected verification code from the
// session's shared secret, so both ends can display and compare the same
// six digits without the relay ever carrying them.
type SessionVerifier struct {
	Sessions domain.SessionService
}

// ExpectedCode returns the code for sessionID.
func (v *SessionVerifier) ExpectedCode(sessionID domaintypes.SessionID) (string, error) {
	session, ok, err := v.Sessions.Get(sessionID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("session %s: %w", sessionID, domain.ErrNotFound)
	}
	return kdf.VerificationCode(session.SharedSecret)
}

var _ domain.Verifier = (*SessionVerifier)(nil)
