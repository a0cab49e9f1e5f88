package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driving"
)

// MaxTitleLength bounds client-supplied session titles.
const MaxTitleLength = 100

// SessionHandler handles session-related HTTP endpoints.
type SessionHandler struct {
	chat driving.ChatService
	log  *slog.Logger
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(chat driving.ChatService, log *slog.Logger) *SessionHandler {
	return &SessionHandler{chat: chat, log: log}
}

// RegisterRoutes registers session routes on the given mux.
func (h *SessionHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sessions", h.list)
	mux.HandleFunc("POST /api/sessions", h.create)
	mux.HandleFunc("GET /api/sessions/{id}/messages", h.messages)
	mux.HandleFunc("DELETE /api/sessions/{id}", h.remove)
}

// sessionView is the JSON shape of a session.
type sessionView struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// messageView is the JSON shape of a message.
type messageView struct {
	ID        int64     `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// list returns the caller's sessions, most recently updated first.
func (h *SessionHandler) list(w http.ResponseWriter, r *http.Request) {
	caller := owner(r)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return
	}

	sessions, err := h.chat.Sessions(r.Context(), caller)
	if err != nil {
		h.log.Error("failed to list sessions", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to list sessions")
		return
	}

	views := make([]sessionView, len(sessions))
	for i, s := range sessions {
		views[i] = sessionView{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"sessions": views,
		"total":    len(views),
	})
}

// CreateSessionRequest is the request body for creating a session.
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// create creates a new, empty session.
func (h *SessionHandler) create(w http.ResponseWriter, r *http.Request) {
	caller := owner(r)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}
	if len(req.Title) > MaxTitleLength {
		writeError(w, http.StatusBadRequest, "invalid_request", "title too long (max 100 characters)")
		return
	}

	session, err := h.chat.CreateSession(r.Context(), caller, req.Title)
	if err != nil {
		h.log.Error("failed to create session", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to create session")
		return
	}

	writeJSON(w, http.StatusCreated, sessionView{
		ID:        session.ID,
		Title:     session.Title,
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	})
}

// messages returns a session transcript in chronological order.
func (h *SessionHandler) messages(w http.ResponseWriter, r *http.Request) {
	caller := owner(r)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return
	}

	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	msgs, err := h.chat.SessionMessages(r.Context(), caller, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		h.log.Error("failed to load messages", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to load messages")
		return
	}

	views := make([]messageView, len(msgs))
	for i, m := range msgs {
		views[i] = messageView{ID: m.ID, Role: string(m.Role), Content: m.Content, Timestamp: m.Timestamp}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"messages":   views,
	})
}

// remove deletes an owned session.
func (h *SessionHandler) remove(w http.ResponseWriter, r *http.Request) {
	caller := owner(r)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return
	}

	sessionID, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.chat.DeleteSession(r.Context(), caller, sessionID); err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "session not found")
			return
		}
		h.log.Error("failed to delete session", "session_id", sessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to delete session")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// pathID parses the {id} path segment, writing a 400 on failure.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid session id")
		return 0, false
	}
	return id, true
}
