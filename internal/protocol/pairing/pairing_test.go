package pairing

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
	"vaultlink/internal/kdf"
	sessionsvc "vaultlink/internal/services/session"
)

type memSessionStore struct {
	mu sync.Mutex
	m  map[domaintypes.SessionID]domaintypes.Session
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{m: make(map[domaintypes.SessionID]domaintypes.Session)}
}

func (s *memSessionStore) SaveSession(session domaintypes.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[session.ID] = session
	return nil
}

func (s *memSessionStore) LoadSession(id domaintypes.SessionID) (domaintypes.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	return sess, ok, nil
}

func (s *memSessionStore) ListSessions() ([]domaintypes.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domaintypes.Session, 0, len(s.m))
	for _, sess := range s.m {
		out = append(out, sess)
	}
	return out, nil
}

func (s *memSessionStore) DeleteSession(id domaintypes.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

type fakeRelay struct {
	published [][]byte
	pubErr    error
}

func (r *fakeRelay) Publish(_ context.Context, _ domaintypes.SessionID, cipher []byte) error {
	if r.pubErr != nil {
		return r.pubErr
	}
	r.published = append(r.published, cipher)
	return nil
}

func (r *fakeRelay) PollPersistent(
	context.Context, domaintypes.SessionID, time.Duration,
) ([]domaintypes.QueuedMessage, error) {
	return nil, nil
}

func (r *fakeRelay) Acknowledge(context.Context, domaintypes.SessionID, domaintypes.AckToken) error {
	return nil
}

func (r *fakeRelay) FetchRotationEntries(
	context.Context, domaintypes.SessionID,
) ([]domaintypes.RotationEntry, error) {
	return nil, nil
}

func (r *fakeRelay) RegisterNewSigningKey(
	context.Context, domaintypes.SessionID, domaintypes.Ed25519Public, int,
) error {
	return nil
}

func testRoot(t *testing.T) []byte {
	t.Helper()
	root, err := kdf.NewRootSecret()
	require.NoError(t, err)
	return root
}

func TestPair_PeerConvergesOnSameKeys(t *testing.T) {
	peerPriv, peerPub, err := crypto.GenerateX25519()
	require.NoError(t, err)

	relay := &fakeRelay{}
	sessions := sessionsvc.New(newMemSessionStore(), nil)
	svc := New(testRoot(t), sessions, relay, nil)

	session, err := svc.Pair(context.Background(), domaintypes.PairingRequest{
		SessionID: "sess-1",
		PeerPub:   peerPub,
		Version:   2,
		Title:     "laptop",
	})
	require.NoError(t, err)
	require.Len(t, relay.published, 1)

	// The peer opens the sealed response with its own key pair, then
	// recomputes the shared secret from the device public key inside.
	blob, err := crypto.SealedOpen(relay.published[0], peerPub, peerPriv)
	require.NoError(t, err)

	var signed signedResponse
	require.NoError(t, json.Unmarshal(blob, &signed))

	var pairPub domaintypes.Ed25519Public
	copy(pairPub[:], signed.PairingPub)
	require.True(t, crypto.Verify(pairPub, signed.Payload, signed.Signature))

	var response domaintypes.PairingResponse
	require.NoError(t, json.Unmarshal(signed.Payload, &response))
	require.Equal(t, domaintypes.SessionID("sess-1"), response.SessionID)

	peerShared, err := crypto.DH(peerPriv, response.DevicePub)
	require.NoError(t, err)
	require.Equal(t, session.SharedSecret, peerShared)

	// Same shared secret, same derived session keys on both ends.
	peerKeys, err := kdf.SessionKeys(peerShared)
	require.NoError(t, err)
	require.Equal(t, response.SigningPub, peerKeys.SigningPub)
}

func TestPair_PersistsSession(t *testing.T) {
	_, peerPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	sessions := sessionsvc.New(newMemSessionStore(), nil)
	svc := New(testRoot(t), sessions, &fakeRelay{}, nil)

	orgKey := bytes.Repeat([]byte{0x5a}, 32)
	_, err = svc.Pair(context.Background(), domaintypes.PairingRequest{
		SessionID:       "team-1",
		PeerPub:         peerPub,
		Version:         2,
		Team:            true,
		IsAdmin:         true,
		CreatedByUs:     true,
		OrganisationKey: orgKey,
	})
	require.NoError(t, err)

	got, ok, err := sessions.Get("team-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domaintypes.SessionTeam, got.Kind)
	require.True(t, got.IsAdmin)
	require.True(t, got.CreatedByUs)
	require.Equal(t, orgKey, got.OrganisationKey)
	require.NotZero(t, got.LastChangeUTC)
	require.NotEmpty(t, got.SharedSecret)
}

func TestPair_IndividualCarriesNoTeamState(t *testing.T) {
	_, peerPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	sessions := sessionsvc.New(newMemSessionStore(), nil)
	svc := New(testRoot(t), sessions, &fakeRelay{}, nil)

	_, err = svc.Pair(context.Background(), domaintypes.PairingRequest{
		SessionID: "solo-1",
		PeerPub:   peerPub,
		Version:   2,
		IsAdmin:   true, // ignored outside team pairing
	})
	require.NoError(t, err)

	got, _, err := sessions.Get("solo-1")
	require.NoError(t, err)
	require.Equal(t, domaintypes.SessionIndividual, got.Kind)
	require.False(t, got.IsAdmin)
	require.Empty(t, got.OrganisationKey)
	require.Zero(t, got.LastChangeUTC)
}

func TestPair_DuplicateSessionRefused(t *testing.T) {
	_, peerPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	sessions := sessionsvc.New(newMemSessionStore(), nil)
	svc := New(testRoot(t), sessions, &fakeRelay{}, nil)

	request := domaintypes.PairingRequest{SessionID: "sess-1", PeerPub: peerPub, Version: 2}
	_, err = svc.Pair(context.Background(), request)
	require.NoError(t, err)

	_, err = svc.Pair(context.Background(), request)
	require.ErrorIs(t, err, domain.ErrDuplicateSession)
}

func TestPair_MissingFieldsRefused(t *testing.T) {
	sessions := sessionsvc.New(newMemSessionStore(), nil)
	svc := New(testRoot(t), sessions, &fakeRelay{}, nil)

	_, err := svc.Pair(context.Background(), domaintypes.PairingRequest{})
	require.ErrorIs(t, err, domain.ErrMissingData)

	_, peerPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	_, err = svc.Pair(context.Background(), domaintypes.PairingRequest{PeerPub: peerPub})
	require.ErrorIs(t, err, domain.ErrMissingData)
}

func TestPair_PublishFailureLeavesNoSession(t *testing.T) {
	_, peerPub, err := crypto.GenerateX25519()
	require.NoError(t, err)
	sessions := sessionsvc.New(newMemSessionStore(), nil)
	svc := New(testRoot(t), sessions, &fakeRelay{pubErr: &domain.RelayError{Endpoint: "/publish", Status: 502}}, nil)

	_, err = svc.Pair(context.Background(), domaintypes.PairingRequest{
		SessionID: "sess-1",
		PeerPub:   peerPub,
		Version:   2,
	})
	require.Error(t, err)

	_, ok, err := sessions.Get("sess-1")
	require.NoError(t, err)
	require.False(t, ok)
}
