package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
	"github.com/docchat-io/docchat/internal/core/ports/driving"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// IndexBuilder constructs a vector index from embeddings. Injected so the
// service stays independent of the index implementation.
type IndexBuilder func(vectors [][]float32) (driven.VectorIndex, error)

// Extractor is the subset of the extractor registry the service needs.
type Extractor interface {
	Extract(ctx context.Context, path string) ([]string, error)
}

// RetrievalConfig tunes the retrieval service.
type RetrievalConfig struct {
	// DocumentPath is the source document the corpus is built from.
	DocumentPath string

	// MaxTopK bounds the per-query k. Queries asking for more are capped.
	MaxTopK int
}

// RetrievalService owns the passage corpus and its vector index. The live
// snapshot is swapped atomically so searches never block behind a rebuild.
type RetrievalService struct {
	cfg       RetrievalConfig
	extractor Extractor
	embedder  driven.EmbeddingService
	store     driven.IndexStore
	build     IndexBuilder
	log       *slog.Logger

	snap atomic.Pointer[driven.IndexSnapshot]
}

// NewRetrievalService creates a retrieval service. Prepare must be called
// before Search.
func NewRetrievalService(
	cfg RetrievalConfig,
	extractor Extractor,
	embedder driven.EmbeddingService,
	store driven.IndexStore,
	build IndexBuilder,
	log *slog.Logger,
) *RetrievalService {
	if log == nil {
		log = slog.Default()
	}
	return &RetrievalService{
		cfg:       cfg,
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		build:     build,
		log:       log,
	}
}

// Prepare makes the index ready: it restores the persisted snapshot when
// one exists and still matches the configured embedding model, and builds
// from the source document otherwise. The freshly built snapshot is
// persisted before Prepare returns.
func (s *RetrievalService) Prepare(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	switch {
	case err != nil && errors.Is(err, domain.ErrIndexCorrupt):
		s.log.Warn("persisted index unreadable, rebuilding", "error", err)
	case err != nil:
		return fmt.Errorf("loading index: %w", err)
	case snap != nil && snap.EmbeddingModel != s.embedder.ModelName():
		s.log.Info("persisted index built with different embedding model, rebuilding",
			"persisted", snap.EmbeddingModel, "configured", s.embedder.ModelName())
		snap = nil
	}

	if snap != nil {
		s.snap.Store(snap)
		s.log.Info("index restored",
			"passages", len(snap.Passages), "dimensions", snap.Index.Dimensions())
		return nil
	}

	return s.Rebuild(ctx)
}

// Rebuild extracts, embeds and indexes the source document from scratch,
// swaps the live snapshot, and persists it. Searches keep serving the old
// snapshot until the swap.
func (s *RetrievalService) Rebuild(ctx context.Context) error {
	started := time.Now()

	texts, err := s.extractor.Extract(ctx, s.cfg.DocumentPath)
	if err != nil {
		return fmt.Errorf("extracting %s: %w", s.cfg.DocumentPath, err)
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding %d passages: %w", len(texts), err)
	}

	index, err := s.build(vectors)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}

	passages := make([]domain.Passage, len(texts))
	for i, text := range texts {
		passages[i] = domain.Passage{Ordinal: i, Text: text}
	}

	snap := &driven.IndexSnapshot{
		Index:          index,
		Passages:       passages,
		EmbeddingModel: s.embedder.ModelName(),
	}

	if err := s.store.Save(ctx, snap); err != nil {
		return fmt.Errorf("persisting index: %w", err)
	}

	s.snap.Store(snap)
	s.log.Info("index built",
		"passages", len(passages),
		"dimensions", index.Dimensions(),
		"took", time.Since(started))
	return nil
}

// Search embeds the query and returns up to k passage texts, best match
// first. k is clamped to [1, MaxTopK].
func (s *RetrievalService) Search(ctx context.Context, query string, k int) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("query is empty: %w", domain.ErrEmptyInput)
	}

	snap := s.snap.Load()
	if snap == nil {
		return nil, fmt.Errorf("index not prepared: %w", domain.ErrEmptyCorpus)
	}

	if k < 1 {
		k = 1
	}
	if s.cfg.MaxTopK > 0 && k > s.cfg.MaxTopK {
		k = s.cfg.MaxTopK
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	hits, err := snap.Index.Search(queryVec, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	texts := make([]string, 0, len(hits))
	for _, hit := range hits {
		if hit.Ordinal < 0 || hit.Ordinal >= len(snap.Passages) {
			continue
		}
		texts = append(texts, snap.Passages[hit.Ordinal].Text)
	}
	return texts, nil
}

// CorpusSize returns the number of indexed passages, zero before Prepare.
func (s *RetrievalService) CorpusSize() int {
	snap := s.snap.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Passages)
}

// Watch rebuilds the index whenever the source document changes on disk.
// It blocks until ctx is cancelled. Rapid successive events are coalesced
// with a short settle delay so half-written files are not indexed.
func (s *RetrievalService) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.cfg.DocumentPath); err != nil {
		return fmt.Errorf("watching %s: %w", s.cfg.DocumentPath, err)
	}

	const settle = 500 * time.Millisecond
	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(settle)
			} else {
				timer.Reset(settle)
			}
			pending = timer.C

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn("watcher error", "error", err)

		case <-pending:
			pending = nil
			s.log.Info("document changed, rebuilding index", "path", s.cfg.DocumentPath)
			if err := s.Rebuild(ctx); err != nil {
				s.log.Error("rebuild failed, keeping previous index", "error", err)
			}
			// Editors replace files by rename; re-add in case the inode changed.
			if err := watcher.Add(s.cfg.DocumentPath); err != nil {
				s.log.Warn("re-watching document failed", "error", err)
			}
		}
	}
}
