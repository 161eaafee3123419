package store

import (
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"vaultlink/internal/crypto"
	domaintypes "vaultlink/internal/domain/types"
	"vaultlink/internal/util/memzero"
)

// Namespaces of the on-device vault. Every record key is the namespace,
// a zero byte, then the record id.
const (
	nsRoot    = "root"
	nsSession = "session"
	nsAccount = "account"
	nsAudit   = "audit"
	nsToken   = "token"
)

// Store is the on-device authenticated key/value vault, backed by badger.
// Record values are AEAD-sealed with a key derived from the root secret;
// the root record itself is sealed under a passphrase KEK instead (it has
// to be readable before the store key exists).
type Store struct {
	db  *badger.DB
	log *logrus.Logger

	mu       sync.RWMutex
	storeKey domaintypes.SymmetricKey
	unlocked bool
}

// Open opens (or creates) the vault database at dir.
func Open(dir string, log *logrus.Logger) (*Store, error) {
	if log == nil {
		log = logrus.New()
	}
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open vault store: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

// Close wipes the store key and releases the database.
func (s *Store) Close() error {
	s.mu.Lock()
	memzero.Zero(s.storeKey[:])
	s.unlocked = false
	s.mu.Unlock()
	return s.db.Close()
}

// SetStoreKey installs the record-sealing key (derived from the root
// secret). Until it is set, only the root record is accessible.
func (s *Store) SetStoreKey(key []byte) error {
	if len(key) != 32 {
		return fmt.Errorf("store key must be 32 bytes, got %d", len(key))
	}
	s.mu.Lock()
	copy(s.storeKey[:], key)
	s.unlocked = true
	s.mu.Unlock()
	return nil
}

func (s *Store) sealKey() (domaintypes.SymmetricKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.unlocked {
		return domaintypes.SymmetricKey{}, fmt.Errorf("vault store is locked")
	}
	return s.storeKey, nil
}

func recordKey(ns, id string) []byte {
	k := make([]byte, 0, len(ns)+1+len(id))
	k = append(k, ns...)
	k = append(k, 0)
	k = append(k, id...)
	return k
}

func nsPrefix(ns string) []byte { return recordKey(ns, "") }

// put seals plaintext and writes it under (ns, id).
func (s *Store) put(ns, id string, plaintext []byte) error {
	key, err := s.sealKey()
	if err != nil {
		return err
	}
	blob, err := crypto.SymmetricSeal(key, plaintext)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(ns, id), blob)
	})
}

// get reads and unseals the record at (ns, id).
func (s *Store) get(ns, id string) ([]byte, bool, error) {
	key, err := s.sealKey()
	if err != nil {
		return nil, false, err
	}
	var blob []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(ns, id))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s/%s: %w", ns, id, err)
	}
	pt, err := crypto.SymmetricOpen(key, blob)
	if err != nil {
		return nil, false, fmt.Errorf("unseal %s/%s: %w", ns, id, err)
	}
	return pt, true, nil
}

// delete removes the record at (ns, id). Missing records are not an error.
func (s *Store) delete(ns, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(recordKey(ns, id))
	})
}

// list unseals every record in ns, in key order.
func (s *Store) list(ns string) ([][]byte, error) {
	key, err := s.sealKey()
	if err != nil {
		return nil, err
	}
	var out [][]byte
	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := nsPrefix(ns)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			blob, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			pt, err := crypto.SymmetricOpen(key, blob)
			if err != nil {
				return fmt.Errorf("unseal %s record: %w", ns, err)
			}
			out = append(out, pt)
		}
		return nil
	})
	return out, err
}

// deletePrefix drops every record whose id starts with idPrefix.
func (s *Store) deletePrefix(ns, idPrefix string) error {
	prefix := recordKey(ns, idPrefix)
	return s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{PrefetchValues: false})
		defer it.Close()
		var keys [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		for _, k := range keys {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// has reports whether a record exists without unsealing it.
func (s *Store) has(ns, id string) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(recordKey(ns, id))
		return err
	})
	if err == badger.ErrKeyNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// putRaw and getRaw bypass store-key sealing; only the root record uses
// them, carrying its own passphrase envelope.
func (s *Store) putRaw(ns, id string, blob []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(recordKey(ns, id), blob)
	})
}

func (s *Store) getRaw(ns, id string) ([]byte, bool, error) {
	var blob []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(recordKey(ns, id))
		if err != nil {
			return err
		}
		blob, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return blob, true, nil
}
