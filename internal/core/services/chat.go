package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
	"github.com/docchat-io/docchat/internal/core/ports/driving"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// emptyQuestionReply is returned by the blocking path when the question is
// blank. Nothing is persisted or retrieved in that case.
const emptyQuestionReply = "Please send a non-empty question."

// titleLimit is the maximum session title length before truncation.
const titleLimit = 50

// ChatConfig tunes the orchestrator.
type ChatConfig struct {
	// DefaultTopK is used when a request does not specify top_k.
	DefaultTopK int

	// HistoryLimit is how many recent messages feed the prompt.
	HistoryLimit int

	// MaxTokens caps completion length. Zero means the backend default.
	MaxTokens int

	// Temperature is passed through to the model.
	Temperature float64
}

// ChatService orchestrates one chat exchange: session resolution, message
// persistence, retrieval, prompt assembly and generation.
type ChatService struct {
	cfg       ChatConfig
	retrieval driving.RetrievalService
	llm       driven.LLMService
	store     driven.ChatStore
	log       *slog.Logger
}

// NewChatService creates the chat orchestrator.
func NewChatService(
	cfg ChatConfig,
	retrieval driving.RetrievalService,
	llm driven.LLMService,
	store driven.ChatStore,
	log *slog.Logger,
) *ChatService {
	if cfg.DefaultTopK < 1 {
		cfg.DefaultTopK = 3
	}
	if cfg.HistoryLimit < 1 {
		cfg.HistoryLimit = 5
	}
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{
		cfg:       cfg,
		retrieval: retrieval,
		llm:       llm,
		store:     store,
		log:       log,
	}
}

// exchange carries the shared state of one prepared chat turn.
type exchange struct {
	sessionID int64
	prompt    string
	passages  []string
}

// Ask runs one complete chat exchange and returns the full reply.
func (s *ChatService) Ask(ctx context.Context, req domain.ChatRequest) (*domain.ChatReply, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return &domain.ChatReply{Reply: emptyQuestionReply, SourcesUsed: []string{}}, nil
	}
	req.Question = question

	ex, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}

	answer, err := s.llm.Generate(ctx, ex.prompt, s.generateOptions())
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}
	answer = strings.TrimSpace(answer)

	// History records what the model actually said, even when the
	// client-visible reply is overridden below.
	if _, err := s.store.SaveMessage(ctx, ex.sessionID, domain.RoleAssistant, answer); err != nil {
		return nil, fmt.Errorf("persisting assistant message: %w", err)
	}

	if len(ex.passages) == 0 {
		return &domain.ChatReply{
			Reply:       FallbackReply,
			SourcesUsed: []string{},
			SessionID:   ex.sessionID,
		}, nil
	}

	return &domain.ChatReply{
		Reply:       answer,
		SourcesUsed: ex.passages,
		SessionID:   ex.sessionID,
	}, nil
}

// streamState tracks the lifecycle of one streaming exchange. Persistence
// of the assistant turn is bound to the Completed transition only.
type streamState int

const (
	streaming streamState = iota
	completed
	failed
	cancelled
)

// AskStream runs one chat exchange, delivering the answer incrementally
// through emit.
func (s *ChatService) AskStream(ctx context.Context, req domain.ChatRequest, emit func(domain.StreamEvent) error) error {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return fmt.Errorf("question is empty: %w", domain.ErrEmptyInput)
	}
	req.Question = question

	ex, err := s.prepare(ctx, req)
	if err != nil {
		return err
	}

	// With nothing retrieved the reply is the fixed fallback sentence.
	// The model still runs so history records its actual output.
	if len(ex.passages) == 0 {
		answer, err := s.llm.Generate(ctx, ex.prompt, s.generateOptions())
		if err != nil {
			return s.emitError(emit, ex.sessionID, err)
		}
		if _, err := s.store.SaveMessage(ctx, ex.sessionID, domain.RoleAssistant, strings.TrimSpace(answer)); err != nil {
			return s.emitError(emit, ex.sessionID, err)
		}
		if err := emit(domain.StreamEvent{Type: domain.StreamChunk, Text: FallbackReply}); err != nil {
			return err
		}
		return emit(domain.StreamEvent{Type: domain.StreamDone, SessionID: ex.sessionID})
	}

	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	chunks, err := s.llm.GenerateStream(streamCtx, ex.prompt, s.generateOptions())
	if err != nil {
		return s.emitError(emit, ex.sessionID, err)
	}

	state := streaming
	var accumulated strings.Builder
	var streamErr error

	for chunk := range chunks {
		if chunk.Err != nil {
			state = failed
			streamErr = chunk.Err
			break
		}
		accumulated.WriteString(chunk.Text)
		if err := emit(domain.StreamEvent{Type: domain.StreamChunk, Text: chunk.Text}); err != nil {
			// The client went away. Stop generation, persist nothing.
			state = cancelled
			streamErr = err
			break
		}
	}
	if state == streaming {
		state = completed
	}

	switch state {
	case completed:
		answer := strings.TrimSpace(accumulated.String())
		if _, err := s.store.SaveMessage(ctx, ex.sessionID, domain.RoleAssistant, answer); err != nil {
			return s.emitError(emit, ex.sessionID, err)
		}
		return emit(domain.StreamEvent{Type: domain.StreamDone, SessionID: ex.sessionID})

	case failed:
		return s.emitError(emit, ex.sessionID, streamErr)

	default: // cancelled
		cancel()
		// Drain so the producer goroutine can exit.
		for range chunks {
		}
		return streamErr
	}
}

// prepare resolves the session, persists the user message and assembles
// the prompt. Shared by the blocking and streaming paths.
func (s *ChatService) prepare(ctx context.Context, req domain.ChatRequest) (*exchange, error) {
	sessionID := req.SessionID
	if sessionID == 0 {
		session, err := s.store.CreateSession(ctx, req.Owner, sessionTitle(req.Question))
		if err != nil {
			return nil, fmt.Errorf("creating session: %w", err)
		}
		sessionID = session.ID
	} else {
		session, err := s.store.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session.Owner != req.Owner {
			// Indistinguishable from a missing session.
			return nil, domain.ErrSessionNotFound
		}
	}

	if _, err := s.store.SaveMessage(ctx, sessionID, domain.RoleUser, req.Question); err != nil {
		return nil, fmt.Errorf("persisting user message: %w", err)
	}

	recent, err := s.store.RecentMessages(ctx, sessionID, s.cfg.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	// Newest-first from the store; the prompt wants chronological.
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}

	k := req.TopK
	if k < 1 {
		k = s.cfg.DefaultTopK
	}
	passages, err := s.retrieval.Search(ctx, req.Question, k)
	if err != nil {
		return nil, fmt.Errorf("retrieving passages: %w", err)
	}

	s.log.Debug("chat exchange prepared",
		"session_id", sessionID,
		"retrieved", len(passages),
		"history", len(recent))

	return &exchange{
		sessionID: sessionID,
		prompt:    BuildPrompt(req.Question, FormatHistory(recent), FormatContext(passages)),
		passages:  passages,
	}, nil
}

// emitError reports a failed exchange to the client. The emit error, if
// any, wins because it means the client never saw the event.
func (s *ChatService) emitError(emit func(domain.StreamEvent) error, sessionID int64, cause error) error {
	s.log.Error("streaming exchange failed", "session_id", sessionID, "error", cause)
	if err := emit(domain.StreamEvent{Type: domain.StreamError, Text: cause.Error()}); err != nil {
		return err
	}
	return nil
}

func (s *ChatService) generateOptions() driven.GenerateOptions {
	return driven.GenerateOptions{
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	}
}

// Sessions lists the owner's sessions, most recently updated first.
func (s *ChatService) Sessions(ctx context.Context, owner string) ([]domain.Session, error) {
	return s.store.SessionsForOwner(ctx, owner)
}

// SessionMessages returns a session's messages after verifying ownership.
func (s *ChatService) SessionMessages(ctx context.Context, owner string, sessionID int64) ([]domain.Message, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Owner != owner {
		return nil, domain.ErrSessionNotFound
	}
	return s.store.SessionMessages(ctx, sessionID)
}

// CreateSession creates an empty session for the owner.
func (s *ChatService) CreateSession(ctx context.Context, owner, title string) (*domain.Session, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "New chat"
	}
	return s.store.CreateSession(ctx, owner, sessionTitle(title))
}

// DeleteSession removes an owned session and its messages.
func (s *ChatService) DeleteSession(ctx context.Context, owner string, sessionID int64) error {
	deleted, err := s.store.DeleteSession(ctx, sessionID, owner)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrSessionNotFound
	}
	return nil
}

// sessionTitle derives a session title from the first question: the first
// 50 characters, with an ellipsis when truncated. Truncation counts runes
// so a multibyte question is never cut mid-character.
func sessionTitle(question string) string {
	runes := []rune(question)
	if len(runes) > titleLimit {
		return string(runes[:titleLimit]) + "..."
	}
	return question
}
