package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal"
	"codeberg.org/snonux/freqdeck/internal/logging"
)

// FileStore keeps one JSON document per pair under dir, a flat mapping
// from source text to translation. Every call reads the file; Put reads,
// merges and rewrites it. Separate processes sharing dir get
// last-writer-wins.
type FileStore struct {
	dir    string
	mu     sync.Mutex
	logger *zap.Logger
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first write.
func NewFileStore(dir string, logger *zap.Logger) *FileStore {
	return &FileStore{
		dir:    dir,
		logger: logging.OrNop(logger),
	}
}

// Path returns the cache file for a pair
func (s *FileStore) Path(pair Pair) string {
	return filepath.Join(s.dir, internal.SanitizeFilename(pair.String())+".json")
}

// Get implements Store
func (s *FileStore) Get(_ context.Context, pair Pair, text string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(pair)
	if err != nil {
		return "", false, err
	}
	translation, ok := entries[text]
	return translation, ok, nil
}

// Put implements Store. An existing entry for text is left untouched.
func (s *FileStore) Put(_ context.Context, pair Pair, text, translation string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.read(pair)
	if err != nil {
		// An unreadable file is replaced rather than blocking new entries
		s.logger.Warn("Discarding unreadable translation cache",
			zap.String("pair", pair.String()),
			zap.String("path", s.Path(pair)),
			zap.Error(err),
		)
		entries = make(map[string]string)
	}

	if _, exists := entries[text]; exists {
		return nil
	}
	entries[text] = translation

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode %s: %w", ErrCacheIO, pair, err)
	}
	if err := WriteFileAtomic(s.Path(pair), data, 0644); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrCacheIO, s.Path(pair), err)
	}
	return nil
}

// read loads the pair's file; a missing file is an empty cache
func (s *FileStore) read(pair Pair) (map[string]string, error) {
	path := s.Path(pair)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrCacheIO, path, err)
	}

	var entries map[string]string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrCacheIO, path, err)
	}
	if entries == nil {
		// a JSON null document
		entries = make(map[string]string)
	}
	return entries, nil
}
