package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"

	domaintypes "vaultlink/internal/domain/types"
)

// Hash returns the SHA-256 digest of b.
func Hash(b []byte) []byte {
	sum := sha256.Sum256(b)
	return sum[:]
}

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub []byte) domaintypes.Fingerprint {
	sum := sha256.Sum256(pub)
	return domaintypes.Fingerprint(hex.EncodeToString(sum[:10]))
}

// RandomBytes returns n bytes from the system CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, err
	}
	return b, nil
}
