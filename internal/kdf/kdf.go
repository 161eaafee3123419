package kdf

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	"vaultlink/internal/crypto"
	domaintypes "vaultlink/internal/domain/types"
	"vaultlink/internal/util/memzero"
)

// KeyBytes is the size of every derived key.
const KeyBytes = 32

// Purpose labels of the derivation hierarchy. Contexts are free-form
// strings; Derive hashes and truncates them, so arbitrarily long
// human-readable labels are safe.
const (
	ContextPasswordGen      = "vaultlink password generation"
	ContextBackup           = "vaultlink backup"
	ContextWebAuthn         = "vaultlink webauthn"
	ContextSSH              = "vaultlink ssh"
	ContextLocalStore       = "vaultlink local store"
	ContextPairingChannel   = "vaultlink pairing channel"
	ContextSessionSigning   = "vaultlink session signing"
	ContextSessionSymmetric = "vaultlink session symmetric"
	ContextVerification     = "vaultlink verification code"
)

// labelBytes is how much of the hashed context survives as the KDF label.
const labelBytes = 8

// Derive expands secret into a purpose-scoped sub-key. It is deterministic
// and collision-resistant across distinct (context, index) pairs.
func Derive(secret []byte, context string, index uint32) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("derive %q: empty secret", context)
	}
	label := sha256.Sum256([]byte(context))
	info := make([]byte, 0, labelBytes+4)
	info = append(info, label[:labelBytes]...)
	info = binary.BigEndian.AppendUint32(info, index)

	out := make([]byte, KeyBytes)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, info), out); err != nil {
		return nil, fmt.Errorf("derive %q: %w", context, err)
	}
	return out, nil
}

// SessionKeys derives the per-session signing key pair and symmetric
// channel key from an ECDH shared secret. Both ends of a pairing compute
// identical results.
func SessionKeys(shared []byte) (domaintypes.SessionKeys, error) {
	seed, err := Derive(shared, ContextSessionSigning, 0)
	if err != nil {
		return domaintypes.SessionKeys{}, err
	}
	defer memzero.Zero(seed)

	sym, err := Derive(shared, ContextSessionSymmetric, 0)
	if err != nil {
		return domaintypes.SessionKeys{}, err
	}

	priv, pub := crypto.Ed25519FromSeed(seed)
	keys := domaintypes.SessionKeys{SigningPriv: priv, SigningPub: pub}
	copy(keys.Symmetric[:], sym)
	memzero.Zero(sym)
	return keys, nil
}

// PairingKeys derives the single-use signing key pair for one pairing
// handshake. The index makes each handshake's channel key distinct, so the
// relay cannot correlate a handshake with later session traffic.
func PairingKeys(root []byte, index uint32) (domaintypes.Ed25519Private, domaintypes.Ed25519Public, error) {
	seed, err := Derive(root, ContextPairingChannel, index)
	if err != nil {
		return domaintypes.Ed25519Private{}, domaintypes.Ed25519Public{}, err
	}
	defer memzero.Zero(seed)
	priv, pub := crypto.Ed25519FromSeed(seed)
	return priv, pub, nil
}

// VerificationCode derives the six-digit out-of-band code both ends of a
// session can compute from the shared secret.
func VerificationCode(shared []byte) (string, error) {
	b, err := Derive(shared, ContextVerification, 0)
	if err != nil {
		return "", err
	}
	defer memzero.Zero(b)
	n := binary.BigEndian.Uint32(b[:4]) % 1000000
	return fmt.Sprintf("%06d", n), nil
}

// passwordCharset is the alphabet site passwords are minted from.
const passwordCharset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!#$%&*+-=?@_"

// passwordLength is the length of generated site passwords.
const passwordLength = 20

// SitePassword deterministically mints a password for a site. Bumping the
// index rotates the password without touching the root secret.
func SitePassword(root []byte, site string, index uint32) (string, error) {
	key, err := Derive(root, ContextPasswordGen+": "+site, index)
	if err != nil {
		return "", err
	}
	defer memzero.Zero(key)

	out := make([]byte, passwordLength)
	for i := range out {
		out[i] = passwordCharset[int(key[i])%len(passwordCharset)]
	}
	return string(out), nil
}
