package pairing

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/kdf"
	"vaultlink/internal/util/memzero"
)

// Service runs the one-shot pairing handshake.
//
// The linear flow: generate the device key pair, compute the ECDH shared
// secret against the peer's out-of-band public key, derive the session
// keys, build and sign the pairing response under a single-use pairing
// channel key, seal it to the peer, publish, then persist. Persisting last
// means any failure aborts without partial state.
type Service struct {
	root     []byte
	sessions domain.SessionService
	relay    domain.RelayClient
	log      *logrus.Logger
}

// New constructs the pairing service. root is the unlocked root secret,
// injected once at wiring time.
func New(root []byte, sessions domain.SessionService, relay domain.RelayClient, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{root: root, sessions: sessions, relay: relay, log: log}
}

// signedResponse is what gets sealed to the peer: the response payload,
// the single-use pairing channel public key, and the detached signature.
type signedResponse struct {
	Payload    []byte `json:"payload"`
	PairingPub []byte `json:"pairing_pub"`
	Signature  []byte `json:"signature"`
}

// Pair turns an out-of-band pairing request into a persisted session.
func (s *Service) Pair(ctx context.Context, req domain.PairingRequest) (domain.Session, error) {
	if req.SessionID == "" {
		return domain.Session{}, fmt.Errorf("pairing: %w: session id", domain.ErrMissingData)
	}
	if req.PeerPub == (domain.X25519Public{}) {
		return domain.Session{}, fmt.Errorf("pairing: %w: peer public key", domain.ErrMissingData)
	}
	if _, exists, err := s.sessions.Get(req.SessionID); err != nil {
		return domain.Session{}, err
	} else if exists {
		return domain.Session{}, fmt.Errorf("pairing %s: %w", req.SessionID, domain.ErrDuplicateSession)
	}

	devicePriv, devicePub, err := crypto.GenerateX25519()
	if err != nil {
		return domain.Session{}, fmt.Errorf("pairing: generate device key: %w", err)
	}

	shared, err := crypto.DH(devicePriv, req.PeerPub)
	if err != nil {
		return domain.Session{}, fmt.Errorf("pairing: %w", err)
	}

	keys, err := kdf.SessionKeys(shared)
	if err != nil {
		return domain.Session{}, err
	}

	payload, err := json.Marshal(domain.PairingResponse{
		SessionID:  req.SessionID,
		DevicePub:  devicePub,
		SigningPub: keys.SigningPub,
		Version:    req.Version,
	})
	if err != nil {
		return domain.Session{}, err
	}

	// The pairing channel key is distinct from the session's signing
	// identity so the relay cannot correlate the handshake with later
	// traffic. A random index makes it single-use.
	idx, err := crypto.RandomBytes(4)
	if err != nil {
		return domain.Session{}, err
	}
	pairPriv, pairPub, err := kdf.PairingKeys(s.root, binary.BigEndian.Uint32(idx))
	if err != nil {
		return domain.Session{}, err
	}
	blob, err := json.Marshal(signedResponse{
		Payload:    payload,
		PairingPub: pairPub.Slice(),
		Signature:  crypto.Sign(pairPriv, payload),
	})
	memzero.Zero(pairPriv[:])
	if err != nil {
		return domain.Session{}, err
	}

	cipher, err := crypto.SealedEncrypt(blob, req.PeerPub)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.relay.Publish(ctx, req.SessionID, cipher); err != nil {
		return domain.Session{}, fmt.Errorf("pairing publish: %w", err)
	}

	kind := domain.SessionIndividual
	if req.Team {
		kind = domain.SessionTeam
	}
	session := domain.Session{
		ID:             req.SessionID,
		Kind:           kind,
		Title:          req.Title,
		Version:        req.Version,
		PeerPub:        req.PeerPub,
		PeerSigningKey: req.PeerSigKey,
		DevicePriv:     devicePriv,
		DevicePub:      devicePub,
		SharedSecret:   shared,
		CreatedUTC:     time.Now().Unix(),
	}
	if req.Team {
		session.IsAdmin = req.IsAdmin
		session.CreatedByUs = req.CreatedByUs
		session.OrganisationKey = req.OrganisationKey
		session.LastChangeUTC = time.Now().Unix()
	}
	if err := s.sessions.Create(session); err != nil {
		return domain.Session{}, fmt.Errorf("pairing persist: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"session": req.SessionID,
		"kind":    kind,
		"peer":    crypto.Fingerprint(req.PeerPub.Slice()),
	}).Info("paired new session")
	return session, nil
}

var _ domain.PairingService = (*Service)(nil)
