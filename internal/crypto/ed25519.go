package crypto

import (
	"crypto/ed25519"
	"crypto/rand"

	domaintypes "vaultlink/internal/domain/types"
)

// GenerateEd25519 returns a new Ed25519 signing key pair.
func GenerateEd25519() (priv domaintypes.Ed25519Private, pub domaintypes.Ed25519Public, err error) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return priv, pub, err
	}
	copy(priv[:], sk)
	copy(pub[:], pk)
	return priv, pub, nil
}

// Ed25519FromSeed derives a signing key pair deterministically from a
// 32-byte seed. Callers use this to make session signing keys a pure
// function of the session's shared secret.
func Ed25519FromSeed(seed []byte) (priv domaintypes.Ed25519Private, pub domaintypes.Ed25519Public) {
	sk := ed25519.NewKeyFromSeed(seed)
	copy(priv[:], sk)
	copy(pub[:], sk.Public().(ed25519.PublicKey))
	return priv, pub
}

// Sign signs msg with priv and returns the detached signature.
func Sign(priv domaintypes.Ed25519Private, msg []byte) []byte {
	return ed25519.Sign(ed25519.PrivateKey(priv[:]), msg)
}

// Verify verifies sig over msg with pub.
func Verify(pub domaintypes.Ed25519Public, msg, sig []byte) bool {
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig)
}
