package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/secretbox"

	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

// SymmetricSeal encrypts plaintext with ChaCha20-Poly1305 under key. The
// random nonce is prepended to the ciphertext.
func SymmetricSeal(key domaintypes.SymmetricKey, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key.Slice())
	if err != nil {
		return nil, fmt.Errorf("symmetric seal: %w", err)
	}
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// SymmetricOpen decrypts a SymmetricSeal ciphertext.
func SymmetricOpen(key domaintypes.SymmetricKey, cipher []byte) ([]byte, error) {
	if len(cipher) < chacha20poly1305.NonceSize {
		return nil, fmt.Errorf("symmetric open: short ciphertext: %w", domain.ErrCryptoFailure)
	}
	aead, err := chacha20poly1305.New(key.Slice())
	if err != nil {
		return nil, fmt.Errorf("symmetric open: %w", err)
	}
	nonce, ct := cipher[:chacha20poly1305.NonceSize], cipher[chacha20poly1305.NonceSize:]
	pt, err := aead.Open(nil, nonce, ct, nil)
	if err != nil {
		return nil, fmt.Errorf("symmetric open: %w", domain.ErrCryptoFailure)
	}
	return pt, nil
}

// SecretboxSeal encrypts plaintext with NaCl secretbox. This is the
// envelope layout of protocol version 1; new sessions use SymmetricSeal.
// The 24-byte random nonce is prepended to the ciphertext.
func SecretboxSeal(key domaintypes.SymmetricKey, plaintext []byte) ([]byte, error) {
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, err
	}
	k := [32]byte(key)
	return secretbox.Seal(nonce[:], plaintext, &nonce, &k), nil
}

// SecretboxOpen decrypts a SecretboxSeal ciphertext.
func SecretboxOpen(key domaintypes.SymmetricKey, cipher []byte) ([]byte, error) {
	if len(cipher) < 24 {
		return nil, fmt.Errorf("secretbox open: short ciphertext: %w", domain.ErrCryptoFailure)
	}
	var nonce [24]byte
	copy(nonce[:], cipher[:24])
	k := [32]byte(key)
	pt, ok := secretbox.Open(nil, cipher[24:], &nonce, &k)
	if !ok {
		return nil, fmt.Errorf("secretbox open: %w", domain.ErrCryptoFailure)
	}
	return pt, nil
}
