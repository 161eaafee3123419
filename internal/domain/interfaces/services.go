package interfaces

import (
	"context"
	"time"

	domaintypes "vaultlink/internal/domain/types"
)

// SessionService owns session persistence and the per-session write lock.
type SessionService interface {
	Create(session domaintypes.Session) error
	Get(id domaintypes.SessionID) (domaintypes.Session, bool, error)
	List() ([]domaintypes.Session, error)
	Remove(id domaintypes.SessionID) error

	// Update loads the session, applies fn under the session's lock, and
	// persists the result. Rotation and metadata writes go through here so
	// they serialize against authorization flows on the same session.
	Update(id domaintypes.SessionID, fn func(*domaintypes.Session) error) error

	// WithLock runs fn while holding the session's lock without writing.
	WithLock(id domaintypes.SessionID, fn func() error) error
}

// ChannelService is the encrypted duplex messaging channel.
type ChannelService interface {
	// SendResponse encrypts and publishes a response on the
	// fire-and-forget channel. Publish failures are logged, not retried.
	SendResponse(ctx context.Context, session domaintypes.Session, response domaintypes.Response) error

	// Poll runs one poll cycle on the guaranteed channel: fetch, decrypt,
	// hand to the processor, acknowledge. Returns how many messages were
	// fully processed.
	Poll(ctx context.Context, sessionID domaintypes.SessionID, wait time.Duration) (int, error)

	// Listen polls all sessions concurrently until ctx is cancelled.
	Listen(ctx context.Context, wait time.Duration) error
}

// RequestProcessor consumes one decrypted request. The channel calls it
// before acknowledging the underlying queued message; a processor that
// resolves the request must durably mark request.Token before returning,
// in the same store transaction as any vault mutation, or the channel
// leaves the message queued for redelivery.
type RequestProcessor interface {
	Process(ctx context.Context, session domaintypes.Session, request domaintypes.Request) error
}

// PairingService runs the one-shot pairing handshake.
type PairingService interface {
	Pair(ctx context.Context, request domaintypes.PairingRequest) (domaintypes.Session, error)
}

// RotationService applies a team session's pending re-key chain.
type RotationService interface {
	Rotate(ctx context.Context, sessionID domaintypes.SessionID) error
}
