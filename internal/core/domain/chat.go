package domain

import "time"

// Role identifies the author of a conversation message.
type Role string

const (
	// RoleUser marks a message written by the user.
	RoleUser Role = "user"

	// RoleAssistant marks a message produced by the model.
	RoleAssistant Role = "assistant"
)

// Session is a persisted, owned conversation thread.
type Session struct {
	// ID is the session identifier assigned by the persistence layer.
	ID int64

	// Owner identifies the user the session belongs to.
	Owner string

	// Title is derived from the first question of the conversation.
	Title string

	// CreatedAt is when the session was created.
	CreatedAt time.Time

	// UpdatedAt is bumped whenever a message is appended.
	UpdatedAt time.Time
}

// Message is a single turn within a session. Ordering by Timestamp is the
// sole sequencing guarantee.
type Message struct {
	// ID is the message identifier assigned by the persistence layer.
	ID int64

	// SessionID links to the parent session.
	SessionID int64

	// Role is RoleUser or RoleAssistant.
	Role Role

	// Content is the message text.
	Content string

	// Timestamp is when the message was persisted.
	Timestamp time.Time
}

// ChatRequest carries one user question through the chat pipeline.
type ChatRequest struct {
	// Owner identifies the requesting user. Supplied by the caller;
	// authentication happens upstream.
	Owner string

	// Question is the user's message.
	Question string

	// SessionID is the existing session to continue, or zero to create
	// a new session titled after the question.
	SessionID int64

	// TopK is the number of passages to retrieve. Zero means the
	// configured default.
	TopK int
}

// ChatReply is the blocking chat response.
type ChatReply struct {
	// Reply is the user-visible answer. May be the fixed fallback
	// sentence when no passage was retrieved.
	Reply string `json:"reply"`

	// SourcesUsed lists the retrieved passage texts that grounded the
	// answer, best match first.
	SourcesUsed []string `json:"sources_used"`

	// SessionID is the resolved session, echoed so clients can continue
	// the conversation.
	SessionID int64 `json:"session_id"`
}

// StreamEventType discriminates streaming chat events.
type StreamEventType string

const (
	// StreamChunk carries a partial answer fragment.
	StreamChunk StreamEventType = "chunk"

	// StreamDone terminates a successful stream and carries the session ID.
	StreamDone StreamEventType = "done"

	// StreamError terminates a failed stream and carries a message.
	StreamError StreamEventType = "error"
)

// StreamEvent is one server-pushed event of a streaming chat response.
// A stream is zero or more StreamChunk events followed by exactly one
// StreamDone or StreamError event.
type StreamEvent struct {
	Type StreamEventType

	// Text is the fragment content for StreamChunk, or the error message
	// for StreamError.
	Text string

	// SessionID is set on StreamDone.
	SessionID int64
}
