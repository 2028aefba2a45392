// Package config holds the resolved freqdeck configuration. The value is
// built once by the cli package from viper and passed explicitly to every
// constructor that needs it; nothing below cli reads global state.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Frequency source formats
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Translation providers
const (
	ProviderMyMemory       = "mymemory"
	ProviderLibreTranslate = "libretranslate"
	ProviderOpenAI         = "openai"
	ProviderGemini         = "gemini"
)

// Translation cache backends
const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the complete runtime configuration
type Config struct {
	CacheDir    string `validate:"required"`
	Frequency   FrequencyConfig
	Translation TranslationConfig
	Redis       RedisConfig
	AnkiConnect AnkiConnectConfig
	Log         LogConfig
}

// FrequencyConfig configures frequency list acquisition
type FrequencyConfig struct {
	TTL     time.Duration           `validate:"gt=0"`
	Timeout time.Duration           `validate:"gt=0"`
	Offline bool                    // use only the built-in samples
	Sources map[string]SourceConfig `validate:"dive"`
}

// SourceConfig describes a remote frequency list for one language
type SourceConfig struct {
	URL      string `mapstructure:"url" validate:"required,url"`
	Format   string `mapstructure:"format" validate:"omitempty,oneof=text html"`
	Selector string `mapstructure:"selector"` // rows selector for html sources
}

// TranslationConfig configures the translator and its cache
type TranslationConfig struct {
	Provider          string        `validate:"required,oneof=mymemory libretranslate openai gemini"`
	Timeout           time.Duration `validate:"gt=0"`
	PacingDelay       time.Duration `validate:"gte=0"`
	PacingEvery       int           `validate:"gte=0"`
	CacheBackend      string        `validate:"required,oneof=file redis"`
	LibreTranslateURL string        `validate:"omitempty,url"`
	LibreTranslateKey string
	MyMemoryEmail     string `validate:"omitempty,email"`
	OpenAIKey         string
	OpenAIModel       string
	GeminiKey         string
	GeminiModel       string
}

// RedisConfig configures the optional redis translation cache
type RedisConfig struct {
	Addr     string
	Password string
	DB       int `validate:"gte=0"`
}

// AnkiConnectConfig configures the AnkiConnect sink
type AnkiConnectConfig struct {
	URL     string        `validate:"required,url"`
	Timeout time.Duration `validate:"gt=0"`
}

// LogConfig configures diagnostics
type LogConfig struct {
	Level string `validate:"omitempty,oneof=debug info warn error"`
	File  string
}

// DefaultSources returns the built-in remote frequency lists
func DefaultSources() map[string]SourceConfig {
	const base = "https://raw.githubusercontent.com/hermitdave/FrequencyWords/master/content/2018"
	return map[string]SourceConfig{
		"hr": {URL: base + "/hr/hr_50k.txt", Format: FormatText},
		"es": {URL: base + "/es/es_50k.txt", Format: FormatText},
	}
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		CacheDir: DefaultCacheDir(),
		Frequency: FrequencyConfig{
			TTL:     30 * 24 * time.Hour,
			Timeout: 60 * time.Second,
			Sources: DefaultSources(),
		},
		Translation: TranslationConfig{
			Provider:          ProviderMyMemory,
			Timeout:           30 * time.Second,
			CacheBackend:      BackendFile,
			LibreTranslateURL: "https://libretranslate.com",
			OpenAIModel:       "gpt-4o-mini",
			GeminiModel:       "gemini-2.0-flash",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		AnkiConnect: AnkiConnectConfig{
			URL:     "http://localhost:8765",
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultCacheDir resolves the per-user cache root
func DefaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "freqdeck")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "freqdeck")
}

// FrequencyDir is where per-language frequency snapshots live
func (c *Config) FrequencyDir() string {
	return filepath.Join(c.CacheDir, "frequency")
}

// TranslationDir is where per-pair translation caches live
func (c *Config) TranslationDir() string {
	return filepath.Join(c.CacheDir, "translations")
}

// Validate checks field constraints and the provider-specific requirements
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	switch c.Translation.Provider {
	case ProviderOpenAI:
		if c.Translation.OpenAIKey == "" {
			return fmt.Errorf("invalid configuration: OpenAI API key required for provider %q", c.Translation.Provider)
		}
	case ProviderGemini:
		if c.Translation.GeminiKey == "" {
			return fmt.Errorf("invalid configuration: Gemini API key required for provider %q", c.Translation.Provider)
		}
	case ProviderLibreTranslate:
		if c.Translation.LibreTranslateURL == "" {
			return fmt.Errorf("invalid configuration: libretranslate_url required for provider %q", c.Translation.Provider)
		}
	}

	if c.Translation.CacheBackend == BackendRedis && c.Redis.Addr == "" {
		return fmt.Errorf("invalid configuration: redis.addr required for the redis cache backend")
	}

	return nil
}
