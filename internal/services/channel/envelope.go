package channel

import (
	"encoding/json"
	"fmt"

	"vaultlink/internal/crypto"
	"vaultlink/internal/domain"
	domaintypes "vaultlink/internal/domain/types"
)

// Protocol versions of the encrypted envelope.
const (
	// VersionSecretbox is the original envelope layout (NaCl secretbox).
	// Sessions paired before the format change still speak it.
	VersionSecretbox = 1
	// VersionAEAD is the current layout (ChaCha20-Poly1305).
	VersionAEAD = 2
)

// envelope is the wire form of one encrypted payload. Sig authenticates CT
// with the session's signing key on the fire-and-forget direction.
type envelope struct {
	V   int    `json:"v"`
	CT  []byte `json:"ct"`
	Sig []byte `json:"sig,omitempty"`
}

// sealEnvelope encrypts plaintext in the layout of the given version and
// signs the ciphertext with the session signing key.
func sealEnvelope(version int, keys domaintypes.SessionKeys, plaintext []byte) ([]byte, error) {
	var (
		ct  []byte
		err error
	)
	switch version {
	case VersionSecretbox:
		ct, err = crypto.SecretboxSeal(keys.Symmetric, plaintext)
	case VersionAEAD:
		ct, err = crypto.SymmetricSeal(keys.Symmetric, plaintext)
	default:
		return nil, fmt.Errorf("seal envelope: unsupported version %d", version)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(envelope{V: version, CT: ct, Sig: crypto.Sign(keys.SigningPriv, ct)})
}

// openEnvelope decrypts one received envelope, branching on the version it
// carries. Unknown versions fail closed.
func openEnvelope(keys domaintypes.SessionKeys, blob []byte) ([]byte, error) {
	var env envelope
	if err := json.Unmarshal(blob, &env); err != nil {
		return nil, fmt.Errorf("open envelope: %w: %v", domain.ErrCryptoFailure, err)
	}
	switch env.V {
	case VersionSecretbox:
		return crypto.SecretboxOpen(keys.Symmetric, env.CT)
	case VersionAEAD:
		return crypto.SymmetricOpen(keys.Symmetric, env.CT)
	default:
		return nil, fmt.Errorf("open envelope: unsupported version %d: %w", env.V, domain.ErrCryptoFailure)
	}
}
