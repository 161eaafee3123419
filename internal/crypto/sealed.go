package crypto

import (
	"crypto/rand"
	"fmt"

	"golang.org/x/crypto/nacl/box"

	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

// SealedEncrypt encrypts plaintext to the recipient's X25519 public key
// using an anonymous sealed box. Only the holder of the matching private
// key can open it; the sender is not authenticated.
func SealedEncrypt(plaintext []byte, recipient domaintypes.X25519Public) ([]byte, error) {
	pub := [32]byte(recipient)
	ct, err := box.SealAnonymous(nil, plaintext, &pub, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("sealed encrypt: %w", err)
	}
	return ct, nil
}

// SealedOpen opens an anonymous sealed box with the recipient key pair.
func SealedOpen(
	cipher []byte,
	pub domaintypes.X25519Public,
	priv domaintypes.X25519Private,
) ([]byte, error) {
	pk := [32]byte(pub)
	sk := [32]byte(priv)
	pt, ok := box.OpenAnonymous(nil, cipher, &pk, &sk)
	if !ok {
		return nil, fmt.Errorf("sealed open: %w", domain.ErrCryptoFailure)
	}
	return pt, nil
}
