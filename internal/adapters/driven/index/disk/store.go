// Package disk persists index snapshots as durable files, so the corpus is
// embedded once and reloaded on subsequent starts.
package disk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/docchat-io/docchat/internal/adapters/driven/index/flat"
	"github.com/docchat-io/docchat/internal/core/domain"
	"github.com/docchat-io/docchat/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// Artifact file names within the index directory.
const (
	indexFile    = "index.bin"
	passagesFile = "passages.json"
	manifestFile = "manifest.json"
)

// Store persists an index snapshot as three files in one directory: the
// serialised vector index, the ordered passage list, and a manifest
// recording the embedding model identity. Writes go to a temp file in the
// same directory followed by a rename, so a crash mid-save never leaves a
// partially written artifact in place.
type Store struct {
	dir string
}

// manifest records how a snapshot was built.
type manifest struct {
	EmbeddingModel string `json:"embedding_model"`
	Dimensions     int    `json:"dimensions"`
	PassageCount   int    `json:"passage_count"`
}

// NewStore creates a snapshot store rooted at dir, creating it if needed.
// If dir is empty, defaults to ~/.docchat/index.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, ".docchat", "index")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	return &Store{dir: dir}, nil
}

// Dir returns the index directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Load restores the persisted snapshot. It returns (nil, nil) when no
// snapshot exists, and an error wrapping domain.ErrIndexCorrupt when the
// artifacts are unreadable or inconsistent with each other, so callers
// treat any damaged snapshot as a cache miss and rebuild.
func (s *Store) Load(_ context.Context) (*driven.IndexSnapshot, error) {
	manBytes, err := s.readArtifact(manifestFile)
	if err != nil || manBytes == nil {
		return nil, err
	}

	var man manifest
	if err := json.Unmarshal(manBytes, &man); err != nil {
		return nil, fmt.Errorf("decoding manifest: %w", domain.ErrIndexCorrupt)
	}

	passBytes, err := s.readArtifact(passagesFile)
	if err != nil || passBytes == nil {
		return nil, err
	}

	var passages []domain.Passage
	if err := json.Unmarshal(passBytes, &passages); err != nil {
		return nil, fmt.Errorf("decoding passages: %w", domain.ErrIndexCorrupt)
	}

	idxBytes, err := s.readArtifact(indexFile)
	if err != nil || idxBytes == nil {
		return nil, err
	}

	idx, err := flat.Unmarshal(idxBytes)
	if err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	// Cross-artifact consistency: vector count must equal passage count.
	if idx.Len() != len(passages) || man.PassageCount != len(passages) {
		return nil, fmt.Errorf("index holds %d vectors, %d passages persisted (manifest says %d): %w",
			idx.Len(), len(passages), man.PassageCount, domain.ErrIndexCorrupt)
	}
	if idx.Dimensions() != man.Dimensions {
		return nil, fmt.Errorf("index dimension %d, manifest says %d: %w",
			idx.Dimensions(), man.Dimensions, domain.ErrIndexCorrupt)
	}

	return &driven.IndexSnapshot{
		Index:          idx,
		Passages:       passages,
		EmbeddingModel: man.EmbeddingModel,
	}, nil
}

// Save atomically persists the snapshot.
func (s *Store) Save(_ context.Context, snap *driven.IndexSnapshot) error {
	if snap == nil || snap.Index == nil {
		return domain.ErrInvalidInput
	}
	if snap.Index.Len() != len(snap.Passages) {
		return fmt.Errorf("snapshot holds %d vectors for %d passages: %w",
			snap.Index.Len(), len(snap.Passages), domain.ErrInvalidInput)
	}

	idxBytes, err := snap.Index.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	passBytes, err := json.Marshal(snap.Passages)
	if err != nil {
		return fmt.Errorf("encoding passages: %w", err)
	}

	manBytes, err := json.Marshal(manifest{
		EmbeddingModel: snap.EmbeddingModel,
		Dimensions:     snap.Index.Dimensions(),
		PassageCount:   len(snap.Passages),
	})
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}

	// The manifest is written last: a crash between renames leaves a stale
	// but self-consistent snapshot, or a mismatch Load reports as corrupt.
	if err := s.writeAtomic(indexFile, idxBytes); err != nil {
		return err
	}
	if err := s.writeAtomic(passagesFile, passBytes); err != nil {
		return err
	}
	return s.writeAtomic(manifestFile, manBytes)
}

// readArtifact reads one snapshot file. A missing file returns (nil, nil),
// the whole-snapshot miss; any other read failure wraps ErrIndexCorrupt.
func (s *Store) readArtifact(name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %v: %w", name, err, domain.ErrIndexCorrupt)
	}
	return data, nil
}

// writeAtomic writes data to a temp file in the store directory and renames
// it over the target name.
func (s *Store) writeAtomic(name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", name, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", name, err)
	}

	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("installing %s: %w", name, err)
	}
	return nil
}
