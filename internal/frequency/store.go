package frequency

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal"
	"codeberg.org/snonux/freqdeck/internal/cache"
	"codeberg.org/snonux/freqdeck/internal/language"
	"codeberg.org/snonux/freqdeck/internal/logging"
)

// ErrDataUnavailable is returned when no snapshot is usable and the fetch
// failed
var ErrDataUnavailable = errors.New("frequency data unavailable")

// DefaultTTL is how long a snapshot is served before refetching
const DefaultTTL = 30 * 24 * time.Hour

// Store serves datasets from per-language snapshots and refetches them
// once they are older than the TTL
type Store struct {
	dir           string
	ttl           time.Duration
	fetcher       Fetcher
	classifierFor func(code string) Classifier
	now           func() time.Time
	logger        *zap.Logger
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithClock replaces time.Now
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// WithClassifiers replaces the per-language classifier lookup
func WithClassifiers(fn func(code string) Classifier) StoreOption {
	return func(s *Store) { s.classifierFor = fn }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *Store) { s.logger = logging.OrNop(logger) }
}

// NewStore creates a store keeping snapshots in dir. A non-positive ttl
// means DefaultTTL.
func NewStore(dir string, ttl time.Duration, fetcher Fetcher, opts ...StoreOption) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		dir:     dir,
		ttl:     ttl,
		fetcher: fetcher,
		classifierFor: func(code string) Classifier {
			return language.ClassifierFor(code)
		},
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SnapshotPath returns where the dataset for code is kept
func (s *Store) SnapshotPath(code string) string {
	return filepath.Join(s.dir, internal.SanitizeFilename(code)+"_frequency.json")
}

// Load returns the dataset for a language. A fresh snapshot is returned
// as is; otherwise the list is fetched, classified, ranked and written
// back. Failing to write the snapshot does not fail the load.
func (s *Store) Load(ctx context.Context, code string) (*Dataset, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	path := s.SnapshotPath(code)

	if ds, ok := s.readFresh(path, code); ok {
		s.logger.Info("Loaded frequency data from cache",
			zap.String("language", code),
			zap.Int("words", ds.Len()),
		)
		return ds, nil
	}

	s.logger.Info("Fetching frequency data", zap.String("language", code))
	lines, err := s.fetcher.FetchRaw(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, code, err)
	}

	ds := BuildDataset(code, ParseLines(lines), s.classifierFor(code))

	if err := s.writeSnapshot(path, ds); err != nil {
		s.logger.Warn("Failed to save frequency snapshot",
			zap.String("language", code),
			zap.String("path", path),
			zap.Error(err),
		)
	} else {
		s.logger.Info("Saved frequency data to cache",
			zap.String("language", code),
			zap.String("path", path),
			zap.Int("words", ds.Len()),
		)
	}
	return ds, nil
}

// Invalidate removes the snapshot for code; a missing snapshot is not an
// error
func (s *Store) Invalidate(code string) error {
	err := os.Remove(s.SnapshotPath(strings.ToLower(code)))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %w", cache.ErrCacheIO, err)
	}
	return nil
}

// readFresh returns the snapshot if it exists, is within the TTL and
// decodes. An age of exactly the TTL still counts as fresh.
func (s *Store) readFresh(path, code string) (*Dataset, bool) {
	info, err := os.Stat(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("Cannot stat frequency snapshot", zap.String("path", path), zap.Error(err))
		}
		return nil, false
	}

	age := s.now().Sub(info.ModTime())
	if age > s.ttl {
		s.logger.Info("Frequency snapshot is stale, will refetch",
			zap.String("language", code),
			zap.Duration("age", age),
			zap.Duration("ttl", s.ttl),
		)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.logger.Warn("Cannot read frequency snapshot", zap.String("path", path), zap.Error(err))
		return nil, false
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		s.logger.Warn("Corrupt frequency snapshot, will refetch", zap.String("path", path), zap.Error(err))
		return nil, false
	}
	if ds.Language != code {
		s.logger.Warn("Frequency snapshot is for another language",
			zap.String("path", path),
			zap.String("want", code),
			zap.String("got", ds.Language),
		)
		return nil, false
	}
	if ds.Words == nil {
		ds.Words = make(map[language.PartOfSpeech][]Word)
	}
	return &ds, true
}

func (s *Store) writeSnapshot(path string, ds *Dataset) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode snapshot: %w", cache.ErrCacheIO, err)
	}
	if err := cache.WriteFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("%w: %w", cache.ErrCacheIO, err)
	}
	return nil
}
