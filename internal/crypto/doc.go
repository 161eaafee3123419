// Package crypto exposes the primitives used by vaultlink.
//
// Contents
//
//   - X25519 key generation, clamping and Diffie–Hellman (GenerateX25519, DH)
//   - Ed25519 key generation, seed derivation, signing and verification
//     (GenerateEd25519, Ed25519FromSeed, Sign, Verify)
//   - Anonymous sealed boxes for pairing payloads (SealedEncrypt,
//     SealedOpen)
//   - Symmetric AEAD in two layouts: ChaCha20-Poly1305 for protocol v2 and
//     NaCl secretbox for v1 sessions (SymmetricSeal/Open, SecretboxSeal/Open)
//   - SHA-256 hashing, short public-key fingerprints, CSPRNG bytes, and
//     RFC 6238 one-time codes
//
// # Notes
//
// All functions are total over byte buffers: malformed input or a failed
// authentication tag returns an error wrapping domain.ErrCryptoFailure,
// never silently corrupted plaintext. Fixed-size key types live in
// internal/domain to avoid accidental reallocation.
package crypto
