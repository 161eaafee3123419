package store

import (
	"encoding/json"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"vaultlink/internal/crypto"
	domainifaces "vaultlink/internal/domain/interfaces"
	domaintypes "vaultlink/internal/domain/types"
)

// Tx stages sealed record writes and commits them in a single badger
// transaction. The authorization engine uses one per request so the vault
// mutation and the processed-token record land together or not at all; a
// crash between them can then never replay a half-applied request.
type Tx struct {
	s      *Store
	staged []stagedWrite
}

type stagedWrite struct {
	key   []byte
	value []byte
}

// Begin opens a staged write transaction.
func (s *Store) Begin() domainifaces.Tx { return &Tx{s: s} }

func (t *Tx) stage(ns, id string, plaintext []byte) error {
	key, err := t.s.sealKey()
	if err != nil {
		return err
	}
	blob, err := crypto.SymmetricSeal(key, plaintext)
	if err != nil {
		return err
	}
	t.staged = append(t.staged, stagedWrite{key: recordKey(ns, id), value: blob})
	return nil
}

// SaveAccount stages an account write.
func (t *Tx) SaveAccount(account domaintypes.Account) error {
	if account.ID == "" {
		return fmt.Errorf("account has no id")
	}
	blob, err := json.Marshal(account)
	if err != nil {
		return err
	}
	return t.stage(nsAccount, account.ID.String(), blob)
}

// MarkProcessed stages the processed-token record for a queued message.
func (t *Tx) MarkProcessed(sessionID domaintypes.SessionID, token domaintypes.AckToken) error {
	return t.stage(nsToken, tokenID(sessionID, token), []byte{1})
}

// Commit writes every staged record in one transaction. An empty Tx is a
// no-op.
func (t *Tx) Commit() error {
	if len(t.staged) == 0 {
		return nil
	}
	return t.s.db.Update(func(txn *badger.Txn) error {
		for _, w := range t.staged {
			if err := txn.Set(w.key, w.value); err != nil {
				return err
			}
		}
		return nil
	})
}

var _ domainifaces.TxStore = (*Store)(nil)
