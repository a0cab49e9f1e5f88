package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/docchat-io/docchat/internal/core/ports/driven"
	"github.com/docchat-io/docchat/internal/core/ports/driving"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	store     driven.ChatStore
	llm       driven.LLMService
	retrieval driving.RetrievalService
	log       *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(store driven.ChatStore, llm driven.LLMService, retrieval driving.RetrievalService, log *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, llm: llm, retrieval: retrieval, log: log}
}

// RegisterRoutes registers health routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /ready", h.readiness)
}

// liveness returns 200 OK if the process is alive.
func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness returns 200 OK once the index is built and the chat store and
// model backend answer.
func (h *HealthHandler) readiness(w http.ResponseWriter, r *http.Request) {
	if h.retrieval == nil || h.retrieval.CorpusSize() == 0 {
		http.Error(w, "index not ready", http.StatusServiceUnavailable)
		return
	}
	if err := h.store.Ping(r.Context()); err != nil {
		h.log.Error("readiness check failed", "dependency", "store", "error", err)
		http.Error(w, "store not ready", http.StatusServiceUnavailable)
		return
	}
	if err := h.llm.Ping(r.Context()); err != nil {
		h.log.Error("readiness check failed", "dependency", "llm", "error", err)
		http.Error(w, "model backend not ready", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
