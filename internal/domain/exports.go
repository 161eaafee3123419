package domain

import (
	interfaces "vaultlink/internal/domain/interfaces"
	types "vaultlink/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	SessionID       = types.SessionID
	AccountID       = types.AccountID
	TabID           = types.TabID
	AckToken        = types.AckToken
	Fingerprint     = types.Fingerprint
	SessionKind     = types.SessionKind
	Session         = types.Session
	RotationEntry   = types.RotationEntry
	MessageType     = types.MessageType
	Request         = types.Request
	Response        = types.Response
	ErrorCode       = types.ErrorCode
	BulkResult      = types.BulkResult
	ImportAccount   = types.ImportAccount
	QueuedMessage   = types.QueuedMessage
	Account         = types.Account
	AuditEntry      = types.AuditEntry
	PairingRequest  = types.PairingRequest
	PairingResponse = types.PairingResponse
	X25519Public    = types.X25519Public
	X25519Private   = types.X25519Private
	Ed25519Public   = types.Ed25519Public
	Ed25519Private  = types.Ed25519Private
	SymmetricKey    = types.SymmetricKey
	SessionKeys     = types.SessionKeys
)

// Value aliases for the closed enums.
const (
	SessionIndividual = types.SessionIndividual
	SessionTeam       = types.SessionTeam

	MessageUnknown        = types.MessageUnknown
	MessageLogin          = types.MessageLogin
	MessageAccountAdd     = types.MessageAccountAdd
	MessagePasswordChange = types.MessagePasswordChange
	MessageBulkImport     = types.MessageBulkImport
	MessageWebAuthnSign   = types.MessageWebAuthnSign
	MessageSSHSign        = types.MessageSSHSign
	MessageOTPCode        = types.MessageOTPCode
	MessageExport         = types.MessageExport

	ErrorCodeAccountExists         = types.ErrorCodeAccountExists
	ErrorCodeRequestExpired        = types.ErrorCodeRequestExpired
	ErrorCodeDiscloseAccountExists = types.ErrorCodeDiscloseAccountExists
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	RelayClient      = interfaces.RelayClient
	SessionStore     = interfaces.SessionStore
	AccountStore     = interfaces.AccountStore
	AuditStore       = interfaces.AuditStore
	TokenStore       = interfaces.TokenStore
	Tx               = interfaces.Tx
	TxStore          = interfaces.TxStore
	RootStore        = interfaces.RootStore
	Grant            = interfaces.Grant
	Authenticator    = interfaces.Authenticator
	Analytics        = interfaces.Analytics
	Verifier         = interfaces.Verifier
	SessionService   = interfaces.SessionService
	ChannelService   = interfaces.ChannelService
	RequestProcessor = interfaces.RequestProcessor
	PairingService   = interfaces.PairingService
	RotationService  = interfaces.RotationService
)
