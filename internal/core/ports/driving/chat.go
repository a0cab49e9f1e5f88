package driving

import (
	"context"

	"github.com/docchat-io/docchat/internal/core/domain"
)

// ChatService answers user questions grounded in the indexed document.
type ChatService interface {
	// Ask runs one complete chat exchange and returns the full reply.
	Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error)

	// AskStream runs one chat exchange, delivering the answer
	// incrementally through emit. The event sequence is zero or more
	// StreamChunk events followed by exactly one StreamDone or
	// StreamError. A non-nil error from emit cancels the exchange;
	// nothing is persisted for the assistant turn in that case.
	AskStream(ctx context.Context, req domain.ChatRequest, emit func(domain.StreamEvent) error) error

	// Sessions lists the owner's sessions, most recently updated first.
	Sessions(ctx context.Context, owner string) ([]domain.Session, error)

	// SessionMessages returns a session's messages in chronological
	// order, verifying ownership first.
	SessionMessages(ctx context.Context, owner string, sessionID int64) ([]domain.Message, error)

	// CreateSession creates an empty session for the owner.
	CreateSession(ctx context.Context, owner, title string) (*domain.Session, error)

	// DeleteSession removes an owned session and its messages.
	DeleteSession(ctx context.Context, owner string, sessionID int64) error
}

// RetrievalService finds document passages relevant to a query.
type RetrievalService interface {
	// Search embeds the query and returns up to k passage texts ordered
	// by ascending distance (best match first). May return an empty
	// slice when the corpus holds nothing relevant.
	Search(ctx context.Context, query string, k int) ([]string, error)

	// CorpusSize returns the number of indexed passages.
	CorpusSize() int
}
