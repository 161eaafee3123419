package session

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

type memStore struct {
	mu sync.Mutex
	m  map[domaintypes.SessionID]domaintypes.Session
}

func newMemStore() *memStore {
	return &memStore{m: make(map[domaintypes.SessionID]domaintypes.Session)}
}

func (s *memStore) SaveSession(session domaintypes.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[session.ID] = session
	return nil
}

func (s *memStore) LoadSession(id domaintypes.SessionID) (domaintypes.Session, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.m[id]
	return sess, ok, nil
}

func (s *memStore) ListSessions() ([]domaintypes.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domaintypes.Session, 0, len(s.m))
	for _, sess := range s.m {
		out = append(out, sess)
	}
	return out, nil
}

func (s *memStore) DeleteSession(id domaintypes.SessionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, id)
	return nil
}

func TestCreate_RefusesDuplicate(t *testing.T) {
	svc := New(newMemStore(), nil)
	require.NoError(t, svc.Create(domaintypes.Session{ID: "a"}))
	require.ErrorIs(t, svc.Create(domaintypes.Session{ID: "a"}), domain.ErrDuplicateSession)
}

func TestUpdate_PersistsMutation(t *testing.T) {
	svc := New(newMemStore(), nil)
	require.NoError(t, svc.Create(domaintypes.Session{ID: "a", Title: "old"}))

	require.NoError(t, svc.Update("a", func(sess *domaintypes.Session) error {
		sess.Title = "new"
		return nil
	}))

	got, ok, err := svc.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "new", got.Title)
}

func TestUpdate_ErrorAbortsWithoutPersisting(t *testing.T) {
	svc := New(newMemStore(), nil)
	require.NoError(t, svc.Create(domaintypes.Session{ID: "a", Title: "old"}))

	boom := fmt.Errorf("boom")
	err := svc.Update("a", func(sess *domaintypes.Session) error {
		sess.Title = "new"
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _, err := svc.Get("a")
	require.NoError(t, err)
	require.Equal(t, "old", got.Title)
}

func TestUpdate_MissingSession(t *testing.T) {
	svc := New(newMemStore(), nil)
	err := svc.Update("nope", func(*domaintypes.Session) error { return nil })
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdate_CannotReassignID(t *testing.T) {
	svc := New(newMemStore(), nil)
	require.NoError(t, svc.Create(domaintypes.Session{ID: "a"}))

	require.NoError(t, svc.Update("a", func(sess *domaintypes.Session) error {
		sess.ID = "b"
		return nil
	}))

	_, ok, err := svc.Get("b")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = svc.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestWithLock_SerializesPerSession(t *testing.T) {
	svc := New(newMemStore(), nil)

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = svc.WithLock("a", func() error {
				counter++
				return nil
			})
		}()
	}
	wg.Wait()
	require.Equal(t, 50, counter)
}
