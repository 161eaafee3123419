package session

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

// Service owns session records and the per-session write lock.
//
// Sessions are processed concurrently and independently; there is no
// global lock. Within one session, anything that mutates the persisted
// record (rotation, metadata) serializes against authorization flows
// through the same lock, so a shared secret can never be half-updated
// under a concurrent reader.
type Service struct {
	store domain.SessionStore
	log   *logrus.Logger

	mu    sync.Mutex
	locks map[domaintypes.SessionID]*sync.Mutex
}

// New constructs the session service.
func New(store domain.SessionStore, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		store: store,
		log:   log,
		locks: make(map[domaintypes.SessionID]*sync.Mutex),
	}
}

func (s *Service) lockFor(id domaintypes.SessionID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

// Create persists a new session. A session id is immutable once assigned;
// creating over an existing id fails.
func (s *Service) Create(session domaintypes.Session) error {
	l := s.lockFor(session.ID)
	l.Lock()
	defer l.Unlock()

	if _, exists, err := s.store.LoadSession(session.ID); err != nil {
		return err
	} else if exists {
		return fmt.Errorf("create session %s: %w", session.ID, domain.ErrDuplicateSession)
	}
	return s.store.SaveSession(session)
}

// Get returns the session record for id.
func (s *Service) Get(id domaintypes.SessionID) (domaintypes.Session, bool, error) {
	return s.store.LoadSession(id)
}

// List returns every persisted session.
func (s *Service) List() ([]domaintypes.Session, error) {
	return s.store.ListSessions()
}

// Remove deletes the session; the store cascades to queued-message state.
func (s *Service) Remove(id domaintypes.SessionID) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	if err := s.store.DeleteSession(id); err != nil {
		return err
	}
	s.log.WithField("session", id).Info("removed session")
	return nil
}

// Update applies fn to the stored session under its lock and persists the
// result. An error from fn aborts without persisting.
func (s *Service) Update(id domaintypes.SessionID, fn func(*domaintypes.Session) error) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()

	sess, ok, err := s.store.LoadSession(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("session %s: %w", id, domain.ErrNotFound)
	}
	if err := fn(&sess); err != nil {
		return err
	}
	sess.ID = id // immutable
	return s.store.SaveSession(sess)
}

// WithLock runs fn while holding the session's lock, without persisting.
func (s *Service) WithLock(id domaintypes.SessionID, fn func() error) error {
	l := s.lockFor(id)
	l.Lock()
	defer l.Unlock()
	return fn()
}

var _ domain.SessionService = (*Service)(nil)
