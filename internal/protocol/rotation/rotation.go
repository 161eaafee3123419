package rotation

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
	"vaultlink/internal/kdf"
)

// Service applies a team session's pending re-key chain.
//
// The chain is a sequential ratchet: each entry is sealed under the
// previous hop's shared secret and wraps the next peer public key. Entries
// must be consumed in server order; there is no out-of-band ordering
// signal, and a hop that fails to decrypt aborts the whole rotation with
// the session keys untouched.
type Service struct {
	sessions domain.SessionService
	relay    domain.RelayClient
	log      *logrus.Logger
}

// New constructs the rotation service.
func New(sessions domain.SessionService, relay domain.RelayClient, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{sessions: sessions, relay: relay, log: log}
}

// Rotate fetches and applies the pending rotation entries for sessionID.
// An empty chain is a no-op. On success the new signing key is registered
// with the relay, fenced by the consumed list length, before the session
// is persisted.
func (s *Service) Rotate(ctx context.Context, sessionID domaintypes.SessionID) error {
	entries, err := s.relay.FetchRotationEntries(ctx, sessionID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	return s.sessions.Update(sessionID, func(sess *domaintypes.Session) error {
		if sess.Kind != domaintypes.SessionTeam {
			return fmt.Errorf("rotate %s: not a team session", sessionID)
		}

		secret := sess.SharedSecret
		var peerPub domaintypes.X25519Public
		for i, entry := range entries {
			var hopKey domaintypes.SymmetricKey
			copy(hopKey[:], secret)

			pub, err := crypto.SymmetricOpen(hopKey, entry.Cipher)
			if err != nil || len(pub) != 32 {
				return fmt.Errorf("rotation hop %d of %d: %w", i+1, len(entries), domain.ErrChainDesync)
			}
			copy(peerPub[:], pub)

			secret, err = crypto.DH(sess.DevicePriv, peerPub)
			if err != nil {
				return fmt.Errorf("rotation hop %d: %w", i+1, err)
			}
		}

		keys, err := kdf.SessionKeys(secret)
		if err != nil {
			return err
		}
		if err := s.relay.RegisterNewSigningKey(ctx, sessionID, keys.SigningPub, len(entries)); err != nil {
			return fmt.Errorf("register rotated signing key: %w", err)
		}

		sess.SharedSecret = secret
		sess.PeerPub = peerPub
		sess.LastChangeUTC = time.Now().Unix()

		s.log.WithFields(logrus.Fields{
			"session": sessionID,
			"hops":    len(entries),
		}).Info("applied rotation chain")
		return nil
	})
}

// Seal wraps a new peer public key under the given hop secret, producing
// one rotation entry. The server side of the chain uses this; the vault
// only consumes entries, but tests exercise both directions.
func Seal(hopSecret []byte, newPeerPub domaintypes.X25519Public) (domaintypes.RotationEntry, error) {
	var key domaintypes.SymmetricKey
	copy(key[:], hopSecret)
	ct, err := crypto.SymmetricSeal(key, newPeerPub.Slice())
	if err != nil {
		return domaintypes.RotationEntry{}, err
	}
	return domaintypes.RotationEntry{Cipher: ct}, nil
}

var _ domain.RotationService = (*Service)(nil)
