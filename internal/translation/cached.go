package translation

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal/cache"
	"codeberg.org/snonux/freqdeck/internal/logging"
)

// Cached is a cache-aside decorator around a remote Translator. Cache
// failures are logged and treated as misses; only remote failures reach the
// caller.
type Cached struct {
	remote Translator
	store  cache.Store
	pacing Pacing
	sleep  Sleeper
	logger *zap.Logger
}

// CachedOption configures Cached
type CachedOption func(*Cached)

// WithPacing sets the delay between remote requests of a batch
func WithPacing(p Pacing) CachedOption {
	return func(c *Cached) { c.pacing = p }
}

// WithSleeper replaces the function used to wait between requests
func WithSleeper(s Sleeper) CachedOption {
	return func(c *Cached) { c.sleep = s }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) CachedOption {
	return func(c *Cached) { c.logger = logging.OrNop(logger) }
}

// NewCached wraps remote with store
func NewCached(remote Translator, store cache.Store, opts ...CachedOption) *Cached {
	c := &Cached{
		remote: remote,
		store:  store,
		sleep:  SleepContext,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Translate returns the cached translation or asks the remote service and
// caches its answer
func (c *Cached) Translate(ctx context.Context, text, from, to string) (string, error) {
	pair := cache.Pair{From: from, To: to}
	if translated, ok := c.lookup(ctx, pair, text); ok {
		return translated, nil
	}
	return c.fetch(ctx, pair, text)
}

// TranslateBatch translates texts in order. Cache hits cost nothing; the
// pacing delay only precedes remote requests after the first. The first
// remote failure aborts the batch.
func (c *Cached) TranslateBatch(ctx context.Context, texts []string, from, to string) ([]string, error) {
	pair := cache.Pair{From: from, To: to}
	results := make([]string, 0, len(texts))
	remoteCalls := 0

	for _, text := range texts {
		if translated, ok := c.lookup(ctx, pair, text); ok {
			results = append(results, translated)
			continue
		}

		if c.pacing.Before(remoteCalls) {
			if err := c.sleep(ctx, c.pacing.Delay); err != nil {
				return nil, err
			}
		}
		remoteCalls++

		translated, err := c.fetch(ctx, pair, text)
		if err != nil {
			return nil, err
		}
		results = append(results, translated)
	}

	c.logger.Debug("Translated batch",
		zap.String("pair", pair.String()),
		zap.Int("texts", len(texts)),
		zap.Int("remote", remoteCalls),
	)
	return results, nil
}

func (c *Cached) lookup(ctx context.Context, pair cache.Pair, text string) (string, bool) {
	translated, ok, err := c.store.Get(ctx, pair, text)
	if err != nil {
		c.logger.Warn("Translation cache read failed",
			zap.String("pair", pair.String()),
			zap.String("word", text),
			zap.Error(err),
		)
		return "", false
	}
	return translated, ok
}

func (c *Cached) fetch(ctx context.Context, pair cache.Pair, text string) (string, error) {
	translated, err := c.remote.Translate(ctx, text, pair.From, pair.To)
	if err != nil {
		if !errors.Is(err, ErrTranslationFailed) {
			err = failed("remote", err)
		}
		return "", err
	}

	if err := c.store.Put(ctx, pair, text, translated); err != nil {
		c.logger.Warn("Translation cache write failed",
			zap.String("pair", pair.String()),
			zap.String("word", text),
			zap.Error(err),
		)
	}
	return translated, nil
}
