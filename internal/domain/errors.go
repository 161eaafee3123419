package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingData reports a request that lacks fields its type requires.
	// Raised at authorizer construction; such a request never executes.
	ErrMissingData = errors.New("request is missing required data")

	// ErrVerificationMismatch reports a supplied verification code that does
	// not match the expected one.
	ErrVerificationMismatch = errors.New("verification code mismatch")

	// ErrAuthenticationFailed reports that the external authenticator
	// declined or was cancelled.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrNotFound reports a referenced account or identity that is absent.
	ErrNotFound = errors.New("not found")

	// ErrCannotChangeSharedAccount reports a password change attempted on a
	// shared account by a non-admin session.
	ErrCannotChangeSharedAccount = errors.New("cannot change a shared account")

	// ErrCryptoFailure reports a decryption, signature, or hash failure.
	// Always fail-closed; no fallback decoding is attempted.
	ErrCryptoFailure = errors.New("cryptographic operation failed")

	// ErrChainDesync reports a rotation hop that could not be decrypted,
	// leaving the session keys at their pre-rotation values.
	ErrChainDesync = errors.New("rotation chain out of sync")

	// ErrDuplicateSession reports a pairing attempt for a session id that
	// already exists.
	ErrDuplicateSession = errors.New("session already exists")

	// ErrUnknownMessageType reports a request type with no registered
	// authorizer.
	ErrUnknownMessageType = errors.New("unknown message type")
)

// RelayError reports a failed relay call: transport failure or a non-2xx
// status from the relay.
type RelayError struct {
	Endpoint string
	Status   int
	Err      error
}

// Error implements the error interface.
func (e *RelayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("relay %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("relay %s: status %d", e.Endpoint, e.Status)
}

// Unwrap returns the underlying transport error, if any.
func (e *RelayError) Unwrap() error { return e.Err }
