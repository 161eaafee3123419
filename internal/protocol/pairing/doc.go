// Package pairing implements the one-shot handshake that turns an
// out-of-band exchanged peer public key into a persisted session.
//
// The peer never sees the vault's root secret or root-derived keys; it
// learns only the per-session ECDH result and the keys derived from it.
package pairing
