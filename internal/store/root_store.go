package store

import (
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	"vaultlink/internal/util/memzero"
)

const (
	rootRecordID = "secret"
	saltBytes    = 16
)

// rootEnvelope is the passphrase envelope around the root secret.
type rootEnvelope struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	CT    []byte `json:"ct"`
}

// deriveKEK derives the key-encryption key from a passphrase and salt
// using Argon2id.
func deriveKEK(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1<<16, 8, 1, chacha20poly1305.KeySize)
}

// SaveRoot seals the root secret under a passphrase KEK and persists it.
func (s *Store) SaveRoot(passphrase string, secret []byte) error {
	salt, err := crypto.RandomBytes(saltBytes)
	if err != nil {
		return err
	}
	kek := deriveKEK(passphrase, salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return err
	}
	nonce, err := crypto.RandomBytes(chacha20poly1305.NonceSize)
	if err != nil {
		return err
	}
	env := rootEnvelope{
		Salt:  salt,
		Nonce: nonce,
		CT:    aead.Seal(nil, nonce, secret, salt),
	}
	blob, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.putRaw(nsRoot, rootRecordID, blob)
}

// LoadRoot unseals and returns the root secret.
func (s *Store) LoadRoot(passphrase string) ([]byte, error) {
	blob, ok, err := s.getRaw(nsRoot, rootRecordID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("root secret: %w", domain.ErrNotFound)
	}
	var env rootEnvelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("root envelope: %w", err)
	}
	kek := deriveKEK(passphrase, env.Salt)
	defer memzero.Zero(kek)

	aead, err := chacha20poly1305.New(kek)
	if err != nil {
		return nil, err
	}
	secret, err := aead.Open(nil, env.Nonce, env.CT, env.Salt)
	if err != nil {
		return nil, fmt.Errorf("unseal root secret: %w", domain.ErrCryptoFailure)
	}
	return secret, nil
}

// HasRoot reports whether the vault has been initialized.
func (s *Store) HasRoot() (bool, error) {
	return s.has(nsRoot, rootRecordID)
}
