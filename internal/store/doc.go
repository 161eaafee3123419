// Package store implements the on-device vault as an authenticated
// key/value store on badger.
//
// Records are grouped by namespace (sessions, accounts, audit entries,
// processed delivery tokens) and sealed with ChaCha20-Poly1305 under a key
// derived from the root secret. The root secret itself is the one record
// sealed differently: an Argon2id passphrase KEK, since it must open
// before any derived key exists. The store is the single source of truth;
// nothing cached in memory survives a restart authoritatively.
package store
