package driven

import (
	"context"

	"github.com/docchat-io/docchat/internal/core/domain"
)

// ChatStore persists sessions and messages. It is the narrow surface the
// chat orchestrator consumes from the relational persistence collaborator.
//
// Implementations must serialise writes at the granularity of one session's
// message sequence, so concurrent saves never interleave persisted history.
type ChatStore interface {
	// CreateSession creates a session for owner with the given title.
	CreateSession(ctx context.Context, owner, title string) (*domain.Session, error)

	// GetSession retrieves a session by ID. Returns an error wrapping
	// domain.ErrSessionNotFound when it does not exist.
	GetSession(ctx context.Context, id int64) (*domain.Session, error)

	// SaveMessage appends a message to a session and bumps the session's
	// updated_at in the same transaction.
	SaveMessage(ctx context.Context, sessionID int64, role domain.Role, content string) (*domain.Message, error)

	// RecentMessages returns up to limit messages for a session, newest
	// first. Callers re-order to chronological before use.
	RecentMessages(ctx context.Context, sessionID int64, limit int) ([]domain.Message, error)

	// SessionMessages returns all messages for a session in chronological
	// order.
	SessionMessages(ctx context.Context, sessionID int64) ([]domain.Message, error)

	// SessionsForOwner returns the owner's sessions, most recently
	// updated first.
	SessionsForOwner(ctx context.Context, owner string) ([]domain.Session, error)

	// DeleteSession removes a session and its messages, only when owner
	// matches. Returns false when no such session exists for the owner.
	DeleteSession(ctx context.Context, sessionID int64, owner string) (bool, error)

	// Ping verifies the store is reachable. Used by readiness probes.
	Ping(ctx context.Context) error
}
