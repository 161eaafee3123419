package types

// AuditEntry records one authorization outcome. Exactly one entry is
// written per handled request, rejected or not, succeeded or not.
type AuditEntry struct {
	ID        string      `json:"id"`
	SessionID SessionID   `json:"session_id"`
	Type      MessageType `json:"type"`
	Rejected  bool        `json:"rejected"`
	Success   bool        `json:"success"`
	Failed    int         `json:"failed,omitempty"`
	Error     string      `json:"error,omitempty"`
	TimeUTC   int64       `json:"time_utc"`
}
