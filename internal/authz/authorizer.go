package authz

import (
	"context"

	"vaultlink/internal/domain"
)

// Stage names one step of the authorization flow, reported through the
// engine's progress callback.
type Stage string

const (
	StageVerify       Stage = "verify"
	StageAuthenticate Stage = "authenticate"
	StageExecute      Stage = "execute"
	StageRespond      Stage = "respond"
	StageAudit        Stage = "audit"
)

// Authorizer is the per-request-type handler. Constructing one validates
// that every field the type requires is present; construction never
// performs I/O. Execute runs the type-specific domain action with the
// authenticated grant and builds the response; vault writes go through tx
// so they commit together with the request's processed-token record.
type Authorizer interface {
	Type() domain.MessageType

	// RequiresVerification declares whether the out-of-band verification
	// code must match before the authenticator is invoked.
	RequiresVerification() bool

	// Prompt is the human-readable description handed to the external
	// authenticator. Not interpreted here.
	Prompt() string

	Execute(ctx context.Context, grant domain.Grant, tx domain.Tx) (domain.Response, error)
}

// constructor builds an authorizer from a decrypted request, failing with
// domain.ErrMissingData when required fields are absent.
type constructor func(e *Engine, session domain.Session, request domain.Request) (Authorizer, error)

// constructors is the closed type-to-handler mapping. A type without an
// entry fails the request; there is no default handler.
var constructors = map[domain.MessageType]constructor{
	domain.MessageLogin:          newLogin,
	domain.MessageAccountAdd:     newAccountAdd,
	domain.MessagePasswordChange: newPasswordChange,
	domain.MessageBulkImport:     newBulkImport,
	domain.MessageWebAuthnSign:   newWebAuthnSign,
	domain.MessageSSHSign:        newSSHSign,
	domain.MessageOTPCode:        newOTPCode,
	domain.MessageExport:         newExport,
}
