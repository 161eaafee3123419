package kdf

import "vaultlink/internal/crypto"

// RootBytes is the size of the vault's long-term root secret.
const RootBytes = 32

// NewRootSecret draws a fresh root secret from the system CSPRNG. Called
// once at vault initialization; every other key derives from the result.
func NewRootSecret() ([]byte, error) {
	return crypto.RandomBytes(RootBytes)
}
