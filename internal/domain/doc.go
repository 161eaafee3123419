// Package domain defines the vault's shared vocabulary: persisted and wire
// types, the error taxonomy, and the contracts between components.
//
// Types live in internal/domain/types and contracts in
// internal/domain/interfaces; this package re-exports both through aliases
// so callers import a single package.
package domain
