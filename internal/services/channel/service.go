package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"vaultlink/internal/authz"
	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
	"vaultlink/internal/kdf"
)

// Service is the encrypted duplex messaging channel.
//
// Outbound responses ride the fire-and-forget model: encrypt, sign,
// publish once. Inbound requests ride the guaranteed model: poll, decrypt,
// process, then acknowledge — in that order, so a crash before the
// acknowledgment redelivers the message rather than losing it.
type Service struct {
	relay     domain.RelayClient
	sessions  domain.SessionService
	tokens    domain.TokenStore
	processor domain.RequestProcessor
	log       *logrus.Logger
}

// New constructs the channel service.
func New(
	relay domain.RelayClient,
	sessions domain.SessionService,
	tokens domain.TokenStore,
	processor domain.RequestProcessor,
	log *logrus.Logger,
) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		relay:     relay,
		sessions:  sessions,
		tokens:    tokens,
		processor: processor,
		log:       log,
	}
}

// SendResponse encrypts and publishes a response for the session's peer.
// These are best-effort UI feedback for an already-resolved action, so a
// publish failure is logged and reported, never retried.
func (s *Service) SendResponse(
	ctx context.Context,
	session domaintypes.Session,
	response domaintypes.Response,
) error {
	keys, err := kdf.SessionKeys(session.SharedSecret)
	if err != nil {
		return err
	}
	plaintext, err := json.Marshal(response)
	if err != nil {
		return err
	}
	cipher, err := sealEnvelope(session.Version, keys, plaintext)
	if err != nil {
		return err
	}
	if err := s.relay.Publish(ctx, session.ID, cipher); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"session": session.ID,
			"type":    response.Type,
		}).Warn("response publish failed")
		return err
	}
	return nil
}

// Poll runs one cycle on the guaranteed channel for one session. Messages
// are processed in relay delivery order; a token already marked processed
// is acknowledged again without re-running its side effects. Returns how
// many messages were processed this cycle.
func (s *Service) Poll(
	ctx context.Context,
	sessionID domaintypes.SessionID,
	wait time.Duration,
) (int, error) {
	msgs, err := s.relay.PollPersistent(ctx, sessionID, wait)
	if err != nil {
		return 0, err
	}
	processed := 0
	for _, msg := range msgs {
		if err := s.handle(ctx, sessionID, msg); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

func (s *Service) handle(ctx context.Context, sessionID domaintypes.SessionID, msg domaintypes.QueuedMessage) error {
	// Reload per message: a rotation between messages changes the keys.
	session, ok, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("poll %s: %w", sessionID, domain.ErrNotFound)
	}

	seen, err := s.tokens.WasProcessed(sessionID, msg.Token)
	if err != nil {
		return err
	}
	if seen {
		// Redelivery after a lost acknowledgment: just ack again.
		s.log.WithFields(logrus.Fields{
			"session": sessionID,
			"token":   msg.Token,
		}).Debug("skipping already-processed message")
		return s.relay.Acknowledge(ctx, sessionID, msg.Token)
	}

	keys, err := kdf.SessionKeys(session.SharedSecret)
	if err != nil {
		return err
	}
	plaintext, err := openEnvelope(keys, msg.Cipher)
	if err != nil {
		// Fail closed: consume the undecryptable message so it cannot
		// poison the queue, then surface the failure; the caller treats it
		// as a re-pair-required state for this session.
		if ackErr := s.relay.Acknowledge(ctx, sessionID, msg.Token); ackErr != nil {
			s.log.WithError(ackErr).Warn("acknowledge of undecryptable message failed")
		}
		return fmt.Errorf("session %s: %w", sessionID, err)
	}

	var request domaintypes.Request
	if err := json.Unmarshal(plaintext, &request); err != nil {
		if ackErr := s.relay.Acknowledge(ctx, sessionID, msg.Token); ackErr != nil {
			s.log.WithError(ackErr).Warn("acknowledge of malformed message failed")
		}
		return fmt.Errorf("session %s: malformed request: %w", sessionID, err)
	}
	request.Token = msg.Token

	// Authorization runs under the session lock so it serializes against
	// rotation and metadata writes on the same session. The processor
	// records the token in the same store transaction as the request's
	// side effects; the channel never marks it itself.
	processErr := s.sessions.WithLock(sessionID, func() error {
		return s.processor.Process(ctx, session, request)
	})
	if processErr != nil {
		s.log.WithError(processErr).WithFields(logrus.Fields{
			"session": sessionID,
			"type":    request.Type,
		}).Warn("request processing failed")
		seen, err := s.tokens.WasProcessed(sessionID, msg.Token)
		if err != nil {
			return err
		}
		if !seen {
			// The request never resolved: no response went out and no token
			// record was committed. Leave the message queued so redelivery
			// retries it from scratch.
			return processErr
		}
	}

	// Side effects and the token record are durable; only now may the
	// relay drop the message.
	if err := s.relay.Acknowledge(ctx, sessionID, msg.Token); err != nil {
		// The message will be redelivered; the processed-token record
		// makes the replay a no-op.
		s.log.WithError(err).WithField("session", sessionID).Warn("acknowledge failed; expecting redelivery")
	}
	return nil
}

// Listen polls every session concurrently until ctx is cancelled. Each
// session runs its own independent poll loop; one failing session does not
// stop the others. A session whose messages can no longer be decrypted is
// beyond retrying: its loop stops and the session must be re-paired.
func (s *Service) Listen(ctx context.Context, wait time.Duration) error {
	sessions, err := s.sessions.List()
	if err != nil {
		return err
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, session := range sessions {
		id := session.ID
		g.Go(func() error {
			for {
				if _, err := s.Poll(ctx, id, wait); err != nil {
					if ctx.Err() != nil {
						return nil
					}
					if authz.IsRepairRequired(err) {
						s.log.WithError(err).WithField("session", id).Error("session can no longer decrypt its peer; re-pair required")
						return nil
					}
					s.log.WithError(err).WithField("session", id).Warn("poll cycle failed")
					select {
					case <-time.After(time.Second):
					case <-ctx.Done():
						return nil
					}
				}
				if ctx.Err() != nil {
					return nil
				}
			}
		})
	}
	return g.Wait()
}

var _ domain.ChannelService = (*Service)(nil)
