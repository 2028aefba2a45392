package frequency

import (
	"context"
	"fmt"
	"os"
	"strings"
)

const fileScheme = "file://"

// FileFetcher reads a "word count" list from a local file, one pair per
// line. It serves sources configured with a file:// URL and works offline.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a fetcher for path, with or without the file://
// prefix
func NewFileFetcher(path string) FileFetcher {
	return FileFetcher{Path: strings.TrimPrefix(path, fileScheme)}
}

// IsFileSource reports whether url names a local list
func IsFileSource(url string) bool {
	return strings.HasPrefix(url, fileScheme)
}

// FetchRaw implements Fetcher
func (f FileFetcher) FetchRaw(ctx context.Context, code string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := os.Stat(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s list: %w", code, err)
	}
	if info.Size() > maxListBytes {
		return nil, fmt.Errorf("read %s list: %s is larger than %d bytes", code, f.Path, maxListBytes)
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s list: %w", code, err)
	}
	return splitLines(data), nil
}
