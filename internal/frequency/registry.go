package frequency

import (
	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal/config"
)

// NewSourceRegistry builds the fetchers described by the configuration.
// A configured source is backed by the embedded sample when one exists;
// offline mode uses only local files and the samples.
func NewSourceRegistry(cfg config.FrequencyConfig, logger *zap.Logger) *Registry {
	registry := NewRegistry()

	for code, src := range cfg.Sources {
		if cfg.Offline && !IsFileSource(src.URL) {
			continue
		}

		var remote Fetcher
		switch {
		case IsFileSource(src.URL):
			remote = NewFileFetcher(src.URL)
		case src.Format == config.FormatHTML:
			remote = NewHTMLTableFetcher(src.URL, src.Selector, cfg.Timeout)
		default:
			remote = NewHTTPTextFetcher(src.URL, cfg.Timeout)
		}

		if HasEmbedded(code) {
			registry.Register(code, NewChain(logger, remote, EmbeddedFetcher{}))
		} else {
			registry.Register(code, remote)
		}
	}

	for _, code := range []string{"hr", "es"} {
		if src, configured := cfg.Sources[code]; configured && (!cfg.Offline || IsFileSource(src.URL)) {
			continue
		}
		if HasEmbedded(code) {
			registry.Register(code, EmbeddedFetcher{})
		}
	}

	return registry
}
