package cli

import (
	"fmt"
	"log/slog"

	ollamaembed "github.com/docchat-io/docchat/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docchat-io/docchat/internal/adapters/driven/embedding/openai"
	"github.com/docchat-io/docchat/internal/adapters/driven/index/disk"
	"github.com/docchat-io/docchat/internal/adapters/driven/index/flat"
	ollamallm "github.com/docchat-io/docchat/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docchat-io/docchat/internal/adapters/driven/llm/openai"
	"github.com/docchat-io/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/docchat-io/docchat/internal/config"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
	"github.com/docchat-io/docchat/internal/core/services"
	"github.com/docchat-io/docchat/internal/extractors"
	"github.com/docchat-io/docchat/internal/extractors/docx"
	"github.com/docchat-io/docchat/internal/extractors/html"
	"github.com/docchat-io/docchat/internal/extractors/pdf"
	"github.com/docchat-io/docchat/internal/extractors/plaintext"
)

// app holds the wired services shared by the CLI commands.
type app struct {
	cfg *config.Config
	log *slog.Logger

	store     *sqlite.Store
	embedder  driven.EmbeddingService
	llm       driven.LLMService
	retrieval *services.RetrievalService
	chat      *services.ChatService
}

// newApp loads the configuration and wires adapters into the core
// services. Callers must Close the returned app.
func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log := newLogger()

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening chat store: %w", err)
	}

	indexStore, err := disk.NewStore(cfg.Storage.IndexDir)
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening index store: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	llm, err := newLLM(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	registry := extractors.NewRegistry(pdf.New(), plaintext.New(), html.New(), docx.New())

	retrieval := services.NewRetrievalService(
		services.RetrievalConfig{
			DocumentPath: cfg.Document.Path,
			MaxTopK:      cfg.Chat.MaxTopK,
		},
		registry,
		embedder,
		indexStore,
		flatBuilder,
		log,
	)

	chat := services.NewChatService(
		services.ChatConfig{
			DefaultTopK:  cfg.Chat.TopK,
			HistoryLimit: cfg.Chat.HistoryLimit,
			MaxTokens:    cfg.LLM.MaxTokens,
			Temperature:  cfg.LLM.Temperature,
		},
		retrieval,
		llm,
		store,
		log,
	)

	return &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		embedder:  embedder,
		llm:       llm,
		retrieval: retrieval,
		chat:      chat,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() error {
	return a.store.Close()
}

// flatBuilder adapts the flat index constructor to the builder signature
// the retrieval service expects.
func flatBuilder(vectors [][]float32) (driven.VectorIndex, error) {
	return flat.Build(vectors)
}

func newEmbedder(cfg *config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Backend {
	case config.BackendOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
		}), nil
	case config.BackendOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.Embedding.APIKey,
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimensions,
		})
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding.Backend)
	}
}

func newLLM(cfg *config.Config) (driven.LLMService, error) {
	switch cfg.LLM.Backend {
	case config.BackendOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		}), nil
	case config.BackendOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   cfg.LLM.Model,
		})
	default:
		return nil, fmt.Errorf("unknown llm backend %q", cfg.LLM.Backend)
	}
}
