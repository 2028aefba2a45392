package frequency

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal/logging"
)

// Fetcher retrieves the raw lines of a language's frequency list
type Fetcher interface {
	FetchRaw(ctx context.Context, code string) ([]string, error)
}

// FetcherFunc adapts a function to Fetcher
type FetcherFunc func(ctx context.Context, code string) ([]string, error)

// FetchRaw calls f
func (f FetcherFunc) FetchRaw(ctx context.Context, code string) ([]string, error) {
	return f(ctx, code)
}

// EmptyFetcher yields no lines. Languages without a source get an empty
// dataset rather than an error.
type EmptyFetcher struct{}

// FetchRaw implements Fetcher
func (EmptyFetcher) FetchRaw(context.Context, string) ([]string, error) {
	return nil, nil
}

//go:embed data/*.txt
var embeddedLists embed.FS

// EmbeddedFetcher serves the sample lists compiled into the binary
type EmbeddedFetcher struct{}

// HasEmbedded reports whether a sample list exists for code
func HasEmbedded(code string) bool {
	_, err := embeddedLists.ReadFile(embeddedPath(code))
	return err == nil
}

// FetchRaw implements Fetcher
func (EmbeddedFetcher) FetchRaw(_ context.Context, code string) ([]string, error) {
	data, err := embeddedLists.ReadFile(embeddedPath(code))
	if err != nil {
		return nil, fmt.Errorf("no embedded list for %s", code)
	}
	return splitLines(data), nil
}

func embeddedPath(code string) string {
	return "data/" + strings.ToLower(code) + ".txt"
}

// splitLines splits on newlines with no limit on line length; overlong
// lines are left for the parser to skip
func splitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))

	parts := bytes.Split(data, []byte("\n"))
	lines := make([]string, len(parts))
	for i, part := range parts {
		lines[i] = string(bytes.TrimSuffix(part, []byte("\r")))
	}
	return lines
}

// Chain tries its fetchers in order and returns the first success
type Chain struct {
	fetchers []Fetcher
	logger   *zap.Logger
}

// NewChain creates a fallback chain
func NewChain(logger *zap.Logger, fetchers ...Fetcher) *Chain {
	return &Chain{
		fetchers: fetchers,
		logger:   logging.OrNop(logger),
	}
}

// FetchRaw implements Fetcher. It fails only when every fetcher failed.
func (c *Chain) FetchRaw(ctx context.Context, code string) ([]string, error) {
	var errs []error
	for i, f := range c.fetchers {
		lines, err := f.FetchRaw(ctx, code)
		if err == nil {
			return lines, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.Warn("Frequency source failed, trying next",
			zap.String("language", code),
			zap.Int("source", i+1),
			zap.Int("sources", len(c.fetchers)),
			zap.Error(err),
		)
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("no frequency source for %s", code)
	}
	return nil, errors.Join(errs...)
}

// Registry maps language codes to fetchers. Unregistered languages fall
// back to EmptyFetcher.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
	fallback Fetcher
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		fetchers: make(map[string]Fetcher),
		fallback: EmptyFetcher{},
	}
}

// Register sets the fetcher for a language code
func (r *Registry) Register(code string, f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fetchers[strings.ToLower(code)] = f
}

// Lookup returns the fetcher used for code
func (r *Registry) Lookup(code string) Fetcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if f, ok := r.fetchers[strings.ToLower(code)]; ok {
		return f
	}
	return r.fallback
}

// FetchRaw implements Fetcher by delegating to the language's fetcher
func (r *Registry) FetchRaw(ctx context.Context, code string) ([]string, error) {
	return r.Lookup(code).FetchRaw(ctx, code)
}
