package file

import (
	"context"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/camber-labs/ragdesk/internal/core/domain"
	"github.com/camber-labs/ragdesk/internal/core/ports/driven"
	"github.com/camber-labs/ragdesk/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.IndexStore = (*Store)(nil)

// ArtifactExt is the on-disk extension for corpus index artifacts.
const ArtifactExt = ".idx"

// artifact is the gob-encoded on-disk format of one corpus index.
type artifact struct {
	Version     int
	Corpus      string
	Fingerprint string
	BuiltAt     time.Time
	Chunks      []domain.Chunk
}

// artifactVersion guards against decoding artifacts written by an
// incompatible release.
const artifactVersion = 1

// Store reads and writes corpus index artifacts in a single directory,
// one file per corpus. Writes go through a temp file and rename so a
// crash mid-write never leaves a truncated artifact behind.
type Store struct {
	dir string
}

// NewStore creates an artifact store rooted at dir. If dir is empty,
// artifacts live under ~/.ragdesk/indexes.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".ragdesk", "indexes")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the artifact directory.
func (s *Store) Dir() string {
	return s.dir
}

// ArtifactPath returns the artifact file path for a corpus.
func (s *Store) ArtifactPath(corpus string) string {
	return filepath.Join(s.dir, corpus+ArtifactExt)
}

// Build persists a new artifact for the corpus and returns the live
// index over it.
func (s *Store) Build(
	ctx context.Context, corpus string, chunks []domain.Chunk, fingerprint string,
) (driven.CorpusIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	art := artifact{
		Version:     artifactVersion,
		Corpus:      corpus,
		Fingerprint: fingerprint,
		BuiltAt:     time.Now().UTC(),
		Chunks:      chunks,
	}

	tmp, err := os.CreateTemp(s.dir, corpus+".build-*")
	if err != nil {
		return nil, fmt.Errorf("create temp artifact: %w", err)
	}
	tmpPath := tmp.Name()

	if err := gob.NewEncoder(tmp).Encode(art); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("close temp artifact: %w", err)
	}

	if err := os.Rename(tmpPath, s.ArtifactPath(corpus)); err != nil {
		os.Remove(tmpPath)
		return nil, fmt.Errorf("publish artifact: %w", err)
	}

	logger.Debug("Wrote index artifact %s (%d chunks)", s.ArtifactPath(corpus), len(chunks))
	return NewIndex(corpus, fingerprint, chunks), nil
}

// Load reads the corpus artifact and verifies its embedding fingerprint
// against the one the caller will query with.
func (s *Store) Load(
	ctx context.Context, corpus string, expectFingerprint string,
) (driven.CorpusIndex, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.ArtifactPath(corpus))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewIndexUnavailable(corpus)
		}
		return nil, fmt.Errorf("open artifact for %q: %w", corpus, err)
	}
	defer f.Close()

	var art artifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return nil, fmt.Errorf("decode artifact for %q: %w", corpus, err)
	}

	if art.Version != artifactVersion {
		return nil, fmt.Errorf("artifact for %q has unsupported version %d", corpus, art.Version)
	}
	if expectFingerprint != "" && art.Fingerprint != expectFingerprint {
		return nil, fmt.Errorf("%w: corpus %q built with %q, querying with %q",
			domain.ErrFingerprintMismatch, corpus, art.Fingerprint, expectFingerprint)
	}

	logger.Debug("Loaded index artifact for %q: %d chunks, built %s",
		corpus, len(art.Chunks), art.BuiltAt.Format(time.RFC3339))
	return NewIndex(corpus, art.Fingerprint, art.Chunks), nil
}
