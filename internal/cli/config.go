package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"codeberg.org/snonux/freqdeck/internal/config"
)

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	// A .env file in the working directory fills in API keys; variables
	// already set win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".freqdeck" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".freqdeck")
	}

	// Environment variables, e.g. FREQDECK_TRANSLATION_PROVIDER
	viper.SetEnvPrefix("FREQDECK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key with its default so that environment
// variables are picked up by Unmarshal-free lookups as well
func setDefaults() {
	d := config.Default()

	viper.SetDefault("cache.dir", d.CacheDir)
	viper.SetDefault("frequency.ttl", d.Frequency.TTL)
	viper.SetDefault("frequency.timeout", d.Frequency.Timeout)
	viper.SetDefault("frequency.offline", d.Frequency.Offline)
	viper.SetDefault("translation.provider", d.Translation.Provider)
	viper.SetDefault("translation.timeout", d.Translation.Timeout)
	viper.SetDefault("translation.pacing_delay", d.Translation.PacingDelay)
	viper.SetDefault("translation.pacing_every", d.Translation.PacingEvery)
	viper.SetDefault("translation.cache_backend", d.Translation.CacheBackend)
	viper.SetDefault("translation.libretranslate_url", d.Translation.LibreTranslateURL)
	viper.SetDefault("translation.libretranslate_key", "")
	viper.SetDefault("translation.mymemory_email", "")
	viper.SetDefault("translation.openai_key", "")
	viper.SetDefault("translation.openai_model", d.Translation.OpenAIModel)
	viper.SetDefault("translation.gemini_key", "")
	viper.SetDefault("translation.gemini_model", d.Translation.GeminiModel)
	viper.SetDefault("redis.addr", d.Redis.Addr)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", d.Redis.DB)
	viper.SetDefault("ankiconnect.url", d.AnkiConnect.URL)
	viper.SetDefault("ankiconnect.timeout", d.AnkiConnect.Timeout)
	viper.SetDefault("log.level", d.Log.Level)
	viper.SetDefault("log.file", "")
}

// LoadConfig builds the validated configuration from viper. Call
// InitConfig first.
func LoadConfig() (*config.Config, error) {
	setDefaults()

	cfg := &config.Config{
		CacheDir: expandHome(viper.GetString("cache.dir")),
		Frequency: config.FrequencyConfig{
			TTL:     viper.GetDuration("frequency.ttl"),
			Timeout: viper.GetDuration("frequency.timeout"),
			Offline: viper.GetBool("frequency.offline"),
			Sources: config.DefaultSources(),
		},
		Translation: config.TranslationConfig{
			Provider:          strings.ToLower(viper.GetString("translation.provider")),
			Timeout:           viper.GetDuration("translation.timeout"),
			PacingDelay:       viper.GetDuration("translation.pacing_delay"),
			PacingEvery:       viper.GetInt("translation.pacing_every"),
			CacheBackend:      strings.ToLower(viper.GetString("translation.cache_backend")),
			LibreTranslateURL: viper.GetString("translation.libretranslate_url"),
			LibreTranslateKey: firstNonEmpty(viper.GetString("translation.libretranslate_key"), os.Getenv("LIBRETRANSLATE_API_KEY")),
			MyMemoryEmail:     firstNonEmpty(os.Getenv("MYMEMORY_EMAIL"), viper.GetString("translation.mymemory_email")),
			OpenAIKey:         firstNonEmpty(os.Getenv("OPENAI_API_KEY"), viper.GetString("translation.openai_key")),
			OpenAIModel:       viper.GetString("translation.openai_model"),
			GeminiKey:         firstNonEmpty(os.Getenv("GEMINI_API_KEY"), viper.GetString("translation.gemini_key")),
			GeminiModel:       viper.GetString("translation.gemini_model"),
		},
		Redis: config.RedisConfig{
			Addr:     viper.GetString("redis.addr"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		AnkiConnect: config.AnkiConnectConfig{
			URL:     firstNonEmpty(os.Getenv("ANKICONNECT_URL"), viper.GetString("ankiconnect.url")),
			Timeout: viper.GetDuration("ankiconnect.timeout"),
		},
		Log: config.LogConfig{
			Level: strings.ToLower(viper.GetString("log.level")),
			File:  viper.GetString("log.file"),
		},
	}

	// Extra or overriding frequency sources from the config file
	var sources map[string]config.SourceConfig
	if err := viper.UnmarshalKey("frequency.sources", &sources); err != nil {
		return nil, fmt.Errorf("invalid frequency.sources: %w", err)
	}
	for code, src := range sources {
		cfg.Frequency.Sources[strings.ToLower(code)] = src
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
