package translation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal/cache"
	"codeberg.org/snonux/freqdeck/internal/config"
	"codeberg.org/snonux/freqdeck/internal/logging"
)

// NewRemote creates the service named by cfg.Provider and its default
// pacing. Configured pacing overrides the default.
func NewRemote(ctx context.Context, cfg config.TranslationConfig) (Translator, Pacing, error) {
	var (
		remote Translator
		pacing Pacing
	)

	switch cfg.Provider {
	case config.ProviderMyMemory, "":
		remote = NewMyMemoryClient("", cfg.MyMemoryEmail, cfg.Timeout)
		pacing = MyMemoryPacing
	case config.ProviderLibreTranslate:
		remote = NewLibreTranslateClient(cfg.LibreTranslateURL, cfg.LibreTranslateKey, cfg.Timeout)
		pacing = LibreTranslatePacing
	case config.ProviderOpenAI:
		remote = NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, "", cfg.Timeout)
	case config.ProviderGemini:
		client, err := NewGeminiClient(ctx, cfg.GeminiKey, cfg.GeminiModel, "", cfg.Timeout)
		if err != nil {
			return nil, Pacing{}, err
		}
		remote = client
	default:
		return nil, Pacing{}, fmt.Errorf("unknown translation provider: %s", cfg.Provider)
	}

	if cfg.PacingDelay > 0 {
		pacing.Delay = cfg.PacingDelay
	}
	if cfg.PacingEvery > 0 {
		pacing.Every = cfg.PacingEvery
	}
	return remote, pacing, nil
}

// New creates the configured service behind the translation cache
func New(ctx context.Context, cfg config.TranslationConfig, store cache.Store, logger *zap.Logger) (*Cached, error) {
	remote, pacing, err := NewRemote(ctx, cfg)
	if err != nil {
		return nil, err
	}

	logger = logging.OrNop(logger)

	logger.Debug("Translation service ready",
		zap.String("provider", cfg.Provider),
		zap.Duration("pacing_delay", pacing.Delay),
		zap.Int("pacing_every", pacing.Every),
	)
	return NewCached(remote, store,
		WithPacing(pacing),
		WithLogger(logger),
	), nil
}
