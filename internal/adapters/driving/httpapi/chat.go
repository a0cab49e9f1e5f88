package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driving"
)

// ChatHandler handles chat endpoints.
//
// Endpoints:
//   - POST /api/chat        - blocking chat (JSON request/response)
//   - POST /api/chat/stream - streaming chat (SSE)
type ChatHandler struct {
	chat driving.ChatService
	log  *slog.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chat driving.ChatService, log *slog.Logger) *ChatHandler {
	return &ChatHandler{chat: chat, log: log}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
	mux.HandleFunc("POST /api/chat/stream", h.handleStream)
}

// ChatRequestBody is the request body for both chat endpoints.
type ChatRequestBody struct {
	// User is the question text.
	User string `json:"user"`

	// SessionID continues an existing session when non-zero.
	SessionID int64 `json:"session_id,omitempty"`

	// TopK overrides how many passages are retrieved.
	TopK int `json:"top_k,omitempty"`
}

// handleChat runs one blocking chat exchange.
func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	caller := owner(r)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return
	}

	var body ChatRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	reply, err := h.chat.Ask(r.Context(), domain.ChatRequest{
		Owner:     caller,
		Question:  body.User,
		SessionID: body.SessionID,
		TopK:      body.TopK,
	})
	if err != nil {
		h.writeChatError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

// handleStream runs one streaming chat exchange over Server-Sent Events.
//
// Wire format:
//
//	data: <fragment>            (repeated)
//	event: done
//	data: <session id>
//
// or, on failure:
//
//	event: error
//	data: <message>
func (h *ChatHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	caller := owner(r)
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-ID header is required")
		return
	}

	var body ChatRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.log.Error("streaming not supported")
		writeError(w, http.StatusInternalServerError, "internal", "streaming not supported")
		return
	}

	// SSE headers are written lazily on the first event, so validation
	// failures surfaced before any output can still map to a proper
	// HTTP status instead of a 200 stream.
	started := false
	startStream := func() {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
		started = true
	}

	ctx := r.Context()
	err := h.chat.AskStream(ctx, domain.ChatRequest{
		Owner:     caller,
		Question:  body.User,
		SessionID: body.SessionID,
		TopK:      body.TopK,
	}, func(ev domain.StreamEvent) error {
		// Bail out promptly once the client is gone.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !started {
			startStream()
		}
		switch ev.Type {
		case domain.StreamChunk:
			fmt.Fprintf(w, "data: %s\n\n", ev.Text)
		case domain.StreamDone:
			fmt.Fprintf(w, "event: done\ndata: %d\n\n", ev.SessionID)
		case domain.StreamError:
			fmt.Fprintf(w, "event: error\ndata: %s\n\n", ev.Text)
		}
		flusher.Flush()
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			h.log.Debug("client disconnected mid-stream")
			return
		}
		if !started {
			// Nothing was sent yet; report a real HTTP status.
			h.writeChatError(w, err)
			return
		}
		// Headers are gone; all we can do is emit a terminal error event.
		h.log.Error("stream failed mid-flight", "error", err)
		fmt.Fprintf(w, "event: error\ndata: %s\n\n", err.Error())
		flusher.Flush()
	}
}

// writeChatError maps orchestration errors to HTTP status codes.
func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "not_found", "session not found")
	case errors.Is(err, domain.ErrEmptyInput), errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		h.log.Error("model backend unavailable", "error", err)
		writeError(w, http.StatusBadGateway, "backend_unavailable", "model backend unavailable")
	default:
		h.log.Error("chat exchange failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "chat exchange failed")
	}
}
