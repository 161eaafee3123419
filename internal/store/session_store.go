package store

import (
	"encoding/json"
	"fmt"

	domainifaces "vaultlink/internal/domain/interfaces"
	domaintypes "vaultlink/internal/domain/types"
)

// SaveSession persists a session record.
func (s *Store) SaveSession(session domaintypes.Session) error {
	if session.ID == "" {
		return fmt.Errorf("session has no id")
	}
	blob, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.put(nsSession, session.ID.String(), blob)
}

// LoadSession returns the session record for id.
func (s *Store) LoadSession(id domaintypes.SessionID) (domaintypes.Session, bool, error) {
	blob, ok, err := s.get(nsSession, id.String())
	if err != nil || !ok {
		return domaintypes.Session{}, false, err
	}
	var session domaintypes.Session
	if err := json.Unmarshal(blob, &session); err != nil {
		return domaintypes.Session{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return session, true, nil
}

// ListSessions returns every persisted session.
func (s *Store) ListSessions() ([]domaintypes.Session, error) {
	blobs, err := s.list(nsSession)
	if err != nil {
		return nil, err
	}
	out := make([]domaintypes.Session, 0, len(blobs))
	for _, blob := range blobs {
		var session domaintypes.Session
		if err := json.Unmarshal(blob, &session); err != nil {
			return nil, fmt.Errorf("decode session: %w", err)
		}
		out = append(out, session)
	}
	return out, nil
}

// DeleteSession removes the record and cascades to the session's processed
// delivery tokens.
func (s *Store) DeleteSession(id domaintypes.SessionID) error {
	if err := s.delete(nsSession, id.String()); err != nil {
		return err
	}
	return s.deletePrefix(nsToken, tokenIDPrefix(id))
}

var _ domainifaces.SessionStore = (*Store)(nil)
