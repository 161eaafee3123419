package store

import (
	"encoding/json"
	"fmt"

	domainifaces "vaultlink/internal/domain/interfaces"
	domaintypes "vaultlink/internal/domain/types"
)

func auditID(sessionID domaintypes.SessionID, entryID string) string {
	return sessionID.String() + "\x00" + entryID
}

// AppendAudit persists one authorization audit entry.
func (s *Store) AppendAudit(entry domaintypes.AuditEntry) error {
	if entry.ID == "" {
		return fmt.Errorf("audit entry has no id")
	}
	blob, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return s.put(nsAudit, auditID(entry.SessionID, entry.ID), blob)
}

// ListAudit returns the audit entries recorded for one session.
func (s *Store) ListAudit(sessionID domaintypes.SessionID) ([]domaintypes.AuditEntry, error) {
	blobs, err := s.list(nsAudit)
	if err != nil {
		return nil, err
	}
	var out []domaintypes.AuditEntry
	for _, blob := range blobs {
		var entry domaintypes.AuditEntry
		if err := json.Unmarshal(blob, &entry); err != nil {
			return nil, fmt.Errorf("decode audit entry: %w", err)
		}
		if entry.SessionID == sessionID {
			out = append(out, entry)
		}
	}
	return out, nil
}

var _ domainifaces.AuditStore = (*Store)(nil)
