package authz

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vaultlink/internal/domain"
)

// requestWindow is how long after issue a request stays acceptable.
const requestWindow = 5 * time.Minute

// ResponseSender is the slice of the messaging channel the engine needs.
type ResponseSender interface {
	SendResponse(ctx context.Context, session domain.Session, response domain.Response) error
}

// Engine turns a decrypted request into a policy-checked, authenticated,
// logged response.
//
// The flow is fixed: verify (when the type demands it), authenticate,
// execute, respond, audit. The audit entry and analytics event are written
// on every exit path, success or not.
type Engine struct {
	root      []byte
	accounts  domain.AccountStore
	txs       domain.TxStore
	audit     domain.AuditStore
	authn     domain.Authenticator
	verifier  domain.Verifier
	analytics domain.Analytics
	log       *logrus.Logger

	sender ResponseSender
	now    func() time.Time

	// OnProgress, when set, observes each stage of the flow.
	OnProgress func(Stage)
}

// New constructs the engine. The response sender is bound separately
// because the channel that provides it is itself constructed with the
// engine as its request processor.
func New(
	root []byte,
	accounts domain.AccountStore,
	txs domain.TxStore,
	audit domain.AuditStore,
	authn domain.Authenticator,
	verifier domain.Verifier,
	analytics domain.Analytics,
	log *logrus.Logger,
) *Engine {
	if log == nil {
		log = logrus.New()
	}
	return &Engine{
		root:      root,
		accounts:  accounts,
		txs:       txs,
		audit:     audit,
		authn:     authn,
		verifier:  verifier,
		analytics: analytics,
		log:       log,
		now:       time.Now,
	}
}

// Bind installs the response sender. Called once during wiring.
func (e *Engine) Bind(sender ResponseSender) { e.sender = sender }

func (e *Engine) progress(stage Stage) {
	if e.OnProgress != nil {
		e.OnProgress(stage)
	}
}

// Process consumes one decrypted request end to end.
func (e *Engine) Process(ctx context.Context, session domain.Session, request domain.Request) error {
	ctor, ok := constructors[request.Type]
	if !ok {
		// Closed dispatch: unknown types are rejected before any vault
		// mutation, with an audit trail of their own.
		err := fmt.Errorf("%w: %d", domain.ErrUnknownMessageType, int(request.Type))
		e.reject(ctx, session, request, err)
		return err
	}

	az, err := ctor(e, session, request)
	if err != nil {
		// Construction failure: the handler never ran, no side effects.
		e.reject(ctx, session, request, err)
		return err
	}

	if request.IssuedUTC != 0 && e.now().Unix()-request.IssuedUTC > int64(requestWindow.Seconds()) {
		e.consume(session.ID, request.Token)
		e.respondAndAudit(ctx, session, az, domain.Response{
			Type:     az.Type(),
			TabID:    request.TabID,
			Rejected: true,
			Error:    domain.ErrorCodeRequestExpired,
		}, fmt.Errorf("request expired"))
		return fmt.Errorf("request expired")
	}

	// Verification strictly precedes authentication: a mismatched code
	// must never reach the authenticator.
	if az.RequiresVerification() {
		e.progress(StageVerify)
		expected, err := e.verifier.ExpectedCode(session.ID)
		if err != nil {
			e.reject(ctx, session, request, err)
			return err
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(request.VerificationCode)) != 1 {
			err := domain.ErrVerificationMismatch
			e.reject(ctx, session, request, err)
			return err
		}
	}

	e.progress(StageAuthenticate)
	grant, err := e.authn.Authenticate(ctx, az.Prompt())
	if err != nil {
		err = fmt.Errorf("%w: %v", domain.ErrAuthenticationFailed, err)
		e.reject(ctx, session, request, err)
		return err
	}

	e.progress(StageExecute)
	tx := e.txs.Begin()
	response, execErr := az.Execute(ctx, grant, tx)
	if execErr == nil {
		// The mutation and the processed-token record commit as one store
		// transaction: a replayed delivery token can never re-apply the
		// request, and a failed commit applies neither.
		if request.Token != "" {
			execErr = tx.MarkProcessed(session.ID, request.Token)
		}
		if execErr == nil {
			execErr = tx.Commit()
		}
	}
	if execErr != nil {
		// Execution errors after the authenticator discard the staged
		// writes, are still audited, and answered with a generic rejection;
		// which check failed is not disclosed to a relay-observed peer.
		e.consume(session.ID, request.Token)
		e.respondAndAudit(ctx, session, az, domain.Response{
			Type:     az.Type(),
			TabID:    request.TabID,
			Rejected: true,
		}, execErr)
		return execErr
	}

	e.respondAndAudit(ctx, session, az, response, nil)
	return nil
}

// consume durably marks a resolved request's delivery token so a
// redelivery is re-acknowledged instead of re-run. A marking failure is
// logged, not surfaced: the request itself is already resolved and the
// worst case is one repeated rejection on redelivery.
func (e *Engine) consume(sessionID domain.SessionID, token domain.AckToken) {
	if token == "" {
		return
	}
	tx := e.txs.Begin()
	err := tx.MarkProcessed(sessionID, token)
	if err == nil {
		err = tx.Commit()
	}
	if err != nil {
		e.log.WithError(err).WithField("session", sessionID).Warn("delivery token not recorded; expecting redelivery")
	}
}

// reject answers with a minimal rejected response and records the audit
// entry without touching vault data. It never fails past the audit write.
func (e *Engine) reject(ctx context.Context, session domain.Session, request domain.Request, cause error) {
	e.consume(session.ID, request.Token)
	e.progress(StageRespond)
	if e.sender != nil {
		resp := domain.Response{Type: request.Type, TabID: request.TabID, Rejected: true}
		if err := e.sender.SendResponse(ctx, session, resp); err != nil {
			e.log.WithError(err).Warn("rejection response not delivered")
		}
	}
	e.writeAudit(domain.AuditEntry{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Type:      request.Type,
		Rejected:  true,
		Error:     cause.Error(),
		TimeUTC:   e.now().Unix(),
	})
	e.analytics.Event("request_rejected", map[string]any{
		"type":    request.Type.String(),
		"session": session.ID.String(),
	})
}

// respondAndAudit sends the response (fire-and-forget) and writes the
// audit entry and analytics event on every path.
func (e *Engine) respondAndAudit(
	ctx context.Context,
	session domain.Session,
	az Authorizer,
	response domain.Response,
	execErr error,
) {
	e.progress(StageRespond)
	if e.sender != nil {
		if err := e.sender.SendResponse(ctx, session, response); err != nil {
			e.log.WithError(err).WithField("type", az.Type()).Warn("response not delivered")
		}
	}

	e.progress(StageAudit)
	entry := domain.AuditEntry{
		ID:        uuid.NewString(),
		SessionID: session.ID,
		Type:      az.Type(),
		Rejected:  response.Rejected,
		Success:   execErr == nil && !response.Rejected,
		Failed:    response.Failed,
		TimeUTC:   e.now().Unix(),
	}
	if execErr != nil {
		entry.Error = execErr.Error()
	}
	e.writeAudit(entry)

	event := "request_authorized"
	if execErr != nil || response.Rejected {
		event = "request_failed"
	}
	e.analytics.Event(event, map[string]any{
		"type":    az.Type().String(),
		"session": session.ID.String(),
		"failed":  response.Failed,
	})
}

func (e *Engine) writeAudit(entry domain.AuditEntry) {
	if err := e.audit.AppendAudit(entry); err != nil {
		e.log.WithError(err).Error("audit append failed")
	}
}

// missing reports a construction-time validation failure.
func missing(field string) error {
	return fmt.Errorf("%w: %s", domain.ErrMissingData, field)
}

// IsRepairRequired reports whether err means the session can no longer
// decrypt its peer and must be re-paired.
func IsRepairRequired(err error) bool {
	return errors.Is(err, domain.ErrCryptoFailure) || errors.Is(err, domain.ErrChainDesync)
}

var _ domain.RequestProcessor = (*Engine)(nil)
