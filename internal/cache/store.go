package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCacheIO marks a failed read or write of cached data
var ErrCacheIO = errors.New("cache I/O failure")

// Pair is an ordered language pair. (hr, es) and (es, hr) are different
// pairs with separate entries.
type Pair struct {
	From string
	To   string
}

// String renders the pair as from_to, which is also its file stem
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.From, p.To)
}

// Store is a translation cache keyed by pair and source text
type Store interface {
	// Get returns the cached translation of text and whether there was one
	Get(ctx context.Context, pair Pair, text string) (string, bool, error)

	// Put records a translation unless text already has one
	Put(ctx context.Context, pair Pair, text, translation string) error
}

// WriteFileAtomic writes data to a temporary file next to path and renames
// it into place, so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
