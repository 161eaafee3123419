package types

// SessionID identifies a paired remote peer. Assigned during pairing and
// immutable afterwards.
type SessionID string

// String returns the string form of the session identifier.
func (id SessionID) String() string { return string(id) }

// AccountID identifies a stored vault account.
type AccountID string

// String returns the string form of the account identifier.
func (id AccountID) String() string { return string(id) }

// TabID correlates a response with the browser tab that issued the request.
type TabID string

// String returns the string form of the tab identifier.
func (id TabID) String() string { return string(id) }

// AckToken is the relay's delivery-acknowledgment token for a queued message.
type AckToken string

// String returns the string form of the token.
func (t AckToken) String() string { return string(t) }

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }
