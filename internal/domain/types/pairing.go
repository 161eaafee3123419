package types

// PairingRequest is the out-of-band payload (QR code or copy-paste blob) a
// remote client produces to start pairing. It carries everything the vault
// needs to compute the session: the peer's public key material, the session
// id the peer chose, and the protocol version the peer speaks.
type PairingRequest struct {
	SessionID  SessionID     `json:"session_id"`
	PeerPub    X25519Public  `json:"peer_pub"`
	PeerSigKey Ed25519Public `json:"peer_sig_key"`
	Version    int           `json:"version"`
	Title      string        `json:"title,omitempty"`

	// Team pairing blobs additionally carry the organisation key shared
	// records are sealed under, and whether this device's owner created
	// the vault.
	Team            bool   `json:"team,omitempty"`
	IsAdmin         bool   `json:"is_admin,omitempty"`
	CreatedByUs     bool   `json:"created_by_us,omitempty"`
	OrganisationKey []byte `json:"organisation_key,omitempty"`
}

// PairingResponse is published to the relay, sealed to the peer's public
// key and signed with the single-use pairing channel key. It tells the peer
// which device public key to run ECDH against.
type PairingResponse struct {
	SessionID  SessionID     `json:"session_id"`
	DevicePub  X25519Public  `json:"device_pub"`
	SigningPub Ed25519Public `json:"signing_pub"`
	Version    int           `json:"version"`
}
