package store

import (
	"encoding/json"
	"fmt"

	domainifaces "vaultlink/internal/domain/interfaces"
	domaintypes "vaultlink/internal/domain/types"
)

// SaveAccount persists a vault account.
func (s *Store) SaveAccount(account domaintypes.Account) error {
	if account.ID == "" {
		return fmt.Errorf("account has no id")
	}
	blob, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return s.put(nsAccount, account.ID.String(), blob)
}

// LoadAccount returns the account for id.
func (s *Store) LoadAccount(id domaintypes.AccountID) (domaintypes.Account, bool, error) {
	blob, ok, err := s.get(nsAccount, id.String())
	if err != nil || !ok {
		return domaintypes.Account{}, false, err
	}
	var account domaintypes.Account
	if err := json.Unmarshal(blob, &account); err != nil {
		return domaintypes.Account{}, false, fmt.Errorf("decode account %s: %w", id, err)
	}
	return account, true, nil
}

// ListAccounts returns every stored account.
func (s *Store) ListAccounts() ([]domaintypes.Account, error) {
	blobs, err := s.list(nsAccount)
	if err != nil {
		return nil, err
	}
	out := make([]domaintypes.Account, 0, len(blobs))
	for _, blob := range blobs {
		var account domaintypes.Account
		if err := json.Unmarshal(blob, &account); err != nil {
			return nil, fmt.Errorf("decode account: %w", err)
		}
		out = append(out, account)
	}
	return out, nil
}

// DeleteAccount removes the account for id.
func (s *Store) DeleteAccount(id domaintypes.AccountID) error {
	return s.delete(nsAccount, id.String())
}

var _ domainifaces.AccountStore = (*Store)(nil)
