package types

// MessageType tags a decrypted request with the operation it asks for.
// The set is closed: a type without a registered authorizer fails the
// request before any vault state is touched.
type MessageType int

const (
	MessageUnknown        MessageType = 0
	MessageLogin          MessageType = 1
	MessageAccountAdd     MessageType = 2
	MessagePasswordChange MessageType = 3
	MessageBulkImport     MessageType = 4
	MessageWebAuthnSign   MessageType = 5
	MessageSSHSign        MessageType = 6
	MessageOTPCode        MessageType = 7
	MessageExport         MessageType = 8
)

// String returns a short name for the message type.
func (t MessageType) String() string {
	switch t {
	case MessageLogin:
		return "login"
	case MessageAccountAdd:
		return "account-add"
	case MessagePasswordChange:
		return "password-change"
	case MessageBulkImport:
		return "bulk-import"
	case MessageWebAuthnSign:
		return "webauthn-sign"
	case MessageSSHSign:
		return "ssh-sign"
	case MessageOTPCode:
		return "otp-code"
	case MessageExport:
		return "export"
	default:
		return "unknown"
	}
}

// ImportAccount is one candidate entry of a bulk-import request.
type ImportAccount struct {
	Site     string `json:"site"`
	Username string `json:"username"`
	Password string `json:"password"`
	Notes    string `json:"notes,omitempty"`
}

// Request is the decrypted inbound command as it appears on the wire.
// Every field except Type is optional; per-type validation happens when an
// authorizer is constructed from it.
type Request struct {
	Type  MessageType `json:"type"`
	TabID TabID       `json:"tab_id,omitempty"`

	Site      string    `json:"site,omitempty"`
	AccountID AccountID `json:"account_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	Password  string    `json:"password,omitempty"`
	Notes     string    `json:"notes,omitempty"`

	VerificationCode string `json:"verification_code,omitempty"`

	RelyingPartyID string `json:"rp_id,omitempty"`
	Challenge      []byte `json:"challenge,omitempty"`
	Algorithms     []int  `json:"algorithms,omitempty"`
	SSHChallenge   []byte `json:"ssh_challenge,omitempty"`

	Accounts []ImportAccount `json:"accounts,omitempty"`
	Count    int             `json:"count,omitempty"`

	IssuedUTC int64 `json:"issued_utc,omitempty"`

	Passphrase string `json:"passphrase,omitempty"`

	// Token is the delivery token of the queued message that carried this
	// request. Set by the channel after decryption, never on the wire; the
	// engine records it with the request's mutation so a redelivery is
	// detectable.
	Token AckToken `json:"-"`
}

// ErrorCode is a peer-visible failure code carried in a response.
type ErrorCode string

const (
	// ErrorCodeAccountExists reports that an add was a no-op because the
	// account is already present.
	ErrorCodeAccountExists ErrorCode = "account-already-exists"
	// ErrorCodeRequestExpired reports that the request's issue time was
	// outside the acceptance window.
	ErrorCodeRequestExpired ErrorCode = "request-expired"
	// ErrorCodeDiscloseAccountExists is sent instead of a bare not-found so
	// a peer cannot probe which accounts exist.
	ErrorCodeDiscloseAccountExists ErrorCode = "disclose-account-exists"
)

// BulkResult reports one tab's outcome of a bulk operation.
type BulkResult struct {
	TabID   TabID  `json:"tab_id"`
	Site    string `json:"site"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// Response is the outbound payload keyed to a request's correlation fields.
type Response struct {
	Type  MessageType `json:"type"`
	TabID TabID       `json:"tab_id,omitempty"`

	Rejected bool      `json:"rejected,omitempty"`
	Error    ErrorCode `json:"error,omitempty"`

	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
	NewPassword string `json:"new_password,omitempty"`
	OTP         string `json:"otp,omitempty"`

	Signature        []byte   `json:"signature,omitempty"`
	CertificateChain [][]byte `json:"certificate_chain,omitempty"`
	PublicKey        []byte   `json:"public_key,omitempty"`

	Results   []BulkResult `json:"results,omitempty"`
	Succeeded int          `json:"succeeded,omitempty"`
	Failed    int          `json:"failed,omitempty"`

	Export []byte `json:"export,omitempty"`
}

// QueuedMessage is one entry of the guaranteed-delivery channel as returned
// by a relay poll: the opaque ciphertext plus the token that deletes it.
type QueuedMessage struct {
	Cipher []byte   `json:"cipher"`
	Token  AckToken `json:"token"`
}
