package interfaces

import domaintypes "vaultlink/internal/domain/types"

// SessionStore persists paired-session records.
type SessionStore interface {
	SaveSession(session domaintypes.Session) error
	LoadSession(id domaintypes.SessionID) (domaintypes.Session, bool, error)
	ListSessions() ([]domaintypes.Session, error)
	// DeleteSession removes the record and everything queued under it.
	DeleteSession(id domaintypes.SessionID) error
}

// AccountStore persists vault accounts.
type AccountStore interface {
	SaveAccount(account domaintypes.Account) error
	LoadAccount(id domaintypes.AccountID) (domaintypes.Account, bool, error)
	ListAccounts() ([]domaintypes.Account, error)
	DeleteAccount(id domaintypes.AccountID) error
}

// AuditStore persists authorization audit entries.
type AuditStore interface {
	AppendAudit(entry domaintypes.AuditEntry) error
	ListAudit(sessionID domaintypes.SessionID) ([]domaintypes.AuditEntry, error)
}

// TokenStore remembers processed delivery tokens so an at-least-once
// redelivery is a safe no-op. Tokens are marked through a Tx, in the same
// store transaction as the request's side effects.
type TokenStore interface {
	MarkProcessed(sessionID domaintypes.SessionID, token domaintypes.AckToken) error
	WasProcessed(sessionID domaintypes.SessionID, token domaintypes.AckToken) (bool, error)
}

// Tx stages vault writes that commit together in one store transaction.
// A Tx that is never committed discards everything it staged.
type Tx interface {
	SaveAccount(account domaintypes.Account) error
	MarkProcessed(sessionID domaintypes.SessionID, token domaintypes.AckToken) error
	Commit() error
}

// TxStore opens staged write transactions against the vault.
type TxStore interface {
	Begin() Tx
}

// RootStore holds the passphrase-sealed root secret.
type RootStore interface {
	SaveRoot(passphrase string, secret []byte) error
	LoadRoot(passphrase string) ([]byte, error)
	HasRoot() (bool, error)
}
