// Package kdf implements the vault's key-derivation hierarchy.
//
// A single root secret expands into purpose-labeled sub-keys through
// HKDF-SHA256. Context strings are hashed and truncated before use as KDF
// labels, so human-readable contexts of any length stay safe. The same
// derivation also produces per-session signing and channel keys from an
// ECDH shared secret, single-use pairing channel keys, verification codes,
// and deterministic site passwords.
//
// The root secret round-trips through a checksummed recovery mnemonic; two
// checksum formulas are accepted on recovery for backward compatibility.
package kdf
