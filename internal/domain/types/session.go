package types

// SessionKind distinguishes a one-to-one pairing from a shared team vault.
type SessionKind int

const (
	// SessionIndividual is a pairing with a single remote client.
	SessionIndividual SessionKind = iota
	// SessionTeam is a pairing with a shared vault whose membership can
	// change; its keys are rotated through the rotation chain.
	SessionTeam
)

// String returns a short name for the session kind.
func (k SessionKind) String() string {
	switch k {
	case SessionTeam:
		return "team"
	default:
		return "individual"
	}
}

// Session is the persisted record of one paired remote peer.
//
// SharedSecret and DevicePriv are local-only: they are computed during
// pairing (and recomputed by rotation) and never leave the device. The
// session's signing key pair and channel key are derived from SharedSecret
// on demand rather than persisted.
type Session struct {
	ID      SessionID    `json:"id"`
	Kind    SessionKind  `json:"kind"`
	Title   string       `json:"title"`
	Version int          `json:"version"`
	PeerPub X25519Public `json:"peer_pub"`

	// PeerSigningKey is the signing key the peer presented during pairing,
	// used to verify payloads the peer signs outside the channel key.
	PeerSigningKey Ed25519Public `json:"peer_signing_key"`

	DevicePriv   X25519Private `json:"device_priv"`
	DevicePub    X25519Public  `json:"device_pub"`
	SharedSecret []byte        `json:"shared_secret"`

	CreatedUTC int64 `json:"created_utc"`

	// Team-only fields.
	IsAdmin         bool   `json:"is_admin,omitempty"`
	CreatedByUs     bool   `json:"created_by_us,omitempty"`
	OrganisationKey []byte `json:"organisation_key,omitempty"`
	LastChangeUTC   int64  `json:"last_change_utc,omitempty"`
}

// RotationEntry is one ratchet hop of a team re-key chain: a ciphertext
// wrapping the next peer public key, sealed under the previous hop's shared
// secret. Entries are consumed once, in server order, and never persisted.
type RotationEntry struct {
	Cipher []byte `json:"cipher"`
}
