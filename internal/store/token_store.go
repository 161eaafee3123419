package store

import (
	domainifaces "vaultlink/internal/domain/interfaces"
	domaintypes "vaultlink/internal/domain/types"
)

func tokenIDPrefix(sessionID domaintypes.SessionID) string {
	return sessionID.String() + "\x00"
}

func tokenID(sessionID domaintypes.SessionID, token domaintypes.AckToken) string {
	return tokenIDPrefix(sessionID) + token.String()
}

// MarkProcessed records that a queued message's side effects are durably
// applied. Request flows write this through a Tx so it commits with the
// mutation; the direct form is the standalone counterpart of WasProcessed.
func (s *Store) MarkProcessed(sessionID domaintypes.SessionID, token domaintypes.AckToken) error {
	return s.put(nsToken, tokenID(sessionID, token), []byte{1})
}

// WasProcessed reports whether token was already handled for sessionID.
func (s *Store) WasProcessed(sessionID domaintypes.SessionID, token domaintypes.AckToken) (bool, error) {
	_, ok, err := s.get(nsToken, tokenID(sessionID, token))
	return ok, err
}

var _ domainifaces.TokenStore = (*Store)(nil)
var _ domainifaces.RootStore = (*Store)(nil)
