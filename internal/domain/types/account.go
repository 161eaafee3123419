package types

// Account is one stored credential in the vault.
type Account struct {
	ID        AccountID `json:"id"`
	Site      string    `json:"site"`
	Username  string    `json:"username"`
	Password  string    `json:"password"`
	OTPSecret []byte    `json:"otp_secret,omitempty"`
	Notes     string    `json:"notes,omitempty"`

	// PasswordIndex is the derivation index of the current generated
	// password; bumping it mints the next one.
	PasswordIndex uint32 `json:"password_index,omitempty"`

	// Shared marks a team-vault account; password changes on shared
	// accounts are restricted to admins.
	Shared bool `json:"shared,omitempty"`

	CreatedUTC int64 `json:"created_utc"`
	UpdatedUTC int64 `json:"updated_utc"`
}
