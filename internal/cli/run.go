package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal"
	"codeberg.org/snonux/freqdeck/internal/anki"
	"codeberg.org/snonux/freqdeck/internal/archive"
	"codeberg.org/snonux/freqdeck/internal/cache"
	"codeberg.org/snonux/freqdeck/internal/config"
	"codeberg.org/snonux/freqdeck/internal/frequency"
	"codeberg.org/snonux/freqdeck/internal/language"
	"codeberg.org/snonux/freqdeck/internal/logging"
	"codeberg.org/snonux/freqdeck/internal/models"
	"codeberg.org/snonux/freqdeck/internal/processor"
	"codeberg.org/snonux/freqdeck/internal/translation"
)

// How many existing decks the test command lists
const maxListedDecks = 10

func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, logger, nil
}

func runCreate(cmd *cobra.Command, flags *Flags) error {
	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)

	target, base, err := resolvePair(flags.Target, flags.Base)
	if err != nil {
		return err
	}

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	deckName := flags.DeckName
	if deckName == "" {
		deckName = processor.DefaultDeckName(target, base, flags.WordsPerPOS)
	}

	words := frequency.NewStore(cfg.FrequencyDir(), cfg.Frequency.TTL,
		frequency.NewSourceRegistry(cfg.Frequency, logger),
		frequency.WithLogger(logger))

	store, closeStore := newCacheStore(ctx, cfg, logger, out)
	defer closeStore()

	translator, err := translation.New(ctx, cfg.Translation, store, logger)
	if err != nil {
		return err
	}

	sink, closeSink, err := newSink(cfg, flags, deckName, logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "=== %s ===\n", deckName)
	proc := processor.NewProcessor(words, translator, sink,
		processor.WithOutput(out),
		processor.WithLogger(logger))

	result, runErr := proc.Run(ctx, processor.Options{
		Target:        target,
		Base:          base,
		WordsPerPOS:   flags.WordsPerPOS,
		DeckName:      deckName,
		Bidirectional: flags.Bidirectional,
		DryRun:        flags.DryRun,
	})
	if result != nil {
		processor.PrintSummary(out, result)
	}
	if runErr != nil {
		return runErr
	}

	if !flags.DryRun && closeSink != nil {
		if err := closeSink(); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ Wrote %s\n", outputPath(flags, deckName))
	}
	return nil
}

// resolvePair looks up the target and base languages
func resolvePair(targetArg, baseArg string) (language.Language, language.Language, error) {
	if targetArg == "" || baseArg == "" {
		return language.Language{}, language.Language{}, fmt.Errorf("both --target and --base are required (see 'freqdeck languages')")
	}

	target, ok := language.Lookup(targetArg)
	if !ok {
		return language.Language{}, language.Language{}, fmt.Errorf("unsupported target language: %s", targetArg)
	}
	base, ok := language.Lookup(baseArg)
	if !ok {
		return language.Language{}, language.Language{}, fmt.Errorf("unsupported base language: %s", baseArg)
	}
	if target.Code == base.Code {
		return language.Language{}, language.Language{}, fmt.Errorf("target and base language must differ, both are %s", target.Name)
	}
	return target, base, nil
}

// newCacheStore opens the configured translation cache. An unreachable
// redis falls back to the file cache.
func newCacheStore(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) (cache.Store, func()) {
	if cfg.Translation.CacheBackend == config.BackendRedis {
		client, err := cache.DialRedis(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err == nil {
			store := cache.NewRedisStore(client, "", logger)
			return store, func() { store.Close() }
		}
		logger.Warn("Redis cache unavailable, using file cache",
			zap.String("addr", cfg.Redis.Addr),
			zap.Error(err))
		fmt.Fprintf(out, "Warning: redis at %s unavailable, using file cache\n", cfg.Redis.Addr)
	}
	return cache.NewFileStore(cfg.TranslationDir(), logger), func() {}
}

// newSink creates the card sink and, for file sinks, the function that
// writes the file
func newSink(cfg *config.Config, flags *Flags, deckName string, logger *zap.Logger) (anki.Sink, func() error, error) {
	switch strings.ToLower(flags.Sink) {
	case "", SinkAnkiConnect:
		return anki.NewConnectClient(cfg.AnkiConnect.URL, cfg.AnkiConnect.Timeout, logger), nil, nil
	case SinkAPKG:
		sink := anki.NewAPKGSink(outputPath(flags, deckName))
		return sink, sink.Close, nil
	case SinkCSV:
		sink := anki.NewCSVSink(outputPath(flags, deckName), true)
		return sink, sink.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown sink %q (use ankiconnect, apkg or csv)", flags.Sink)
	}
}

func outputPath(flags *Flags, deckName string) string {
	if flags.Output != "" {
		return flags.Output
	}
	ext := ".apkg"
	if strings.ToLower(flags.Sink) == SinkCSV {
		ext = ".csv"
	}
	return internal.SanitizeFilename(deckName) + ext
}

func runTest(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	ctx := commandContext(cmd)

	cfg, logger, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	client := anki.NewConnectClient(cfg.AnkiConnect.URL, cfg.AnkiConnect.Timeout, logger)

	version, err := client.Version(ctx)
	if err != nil {
		fmt.Fprintf(out, "✗ AnkiConnect not reachable at %s\n", cfg.AnkiConnect.URL)
		fmt.Fprintln(out, "  Make sure Anki is running with the AnkiConnect add-on installed.")
		return err
	}
	fmt.Fprintf(out, "✓ AnkiConnect v%d reachable at %s\n", version, cfg.AnkiConnect.URL)

	decks, err := client.DeckNames(ctx)
	if err != nil {
		return err
	}
	sort.Strings(decks)

	fmt.Fprintf(out, "Found %d decks\n", len(decks))
	for i, deck := range decks {
		if i == maxListedDecks {
			fmt.Fprintf(out, "  ... and %d more\n", len(decks)-maxListedDecks)
			break
		}
		fmt.Fprintf(out, "  %s\n", deck)
	}
	return nil
}

func runConfig(cmd *cobra.Command, flags *Flags) error {
	out := cmd.OutOrStdout()

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	if file := viper.ConfigFileUsed(); file != "" {
		fmt.Fprintf(out, "Config file: %s\n", file)
	} else {
		fmt.Fprintln(out, "Config file: none (defaults and environment)")
	}
	if !flags.ShowConfig {
		fmt.Fprintln(out, "Run 'freqdeck config --show' to print the resolved settings.")
		return nil
	}

	fmt.Fprintln(out)
	printSetting(out, "cache.dir", cfg.CacheDir)
	printSetting(out, "frequency.ttl", cfg.Frequency.TTL)
	printSetting(out, "frequency.timeout", cfg.Frequency.Timeout)
	printSetting(out, "frequency.offline", cfg.Frequency.Offline)
	codes := make([]string, 0, len(cfg.Frequency.Sources))
	for code := range cfg.Frequency.Sources {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		src := cfg.Frequency.Sources[code]
		format := src.Format
		if format == "" {
			format = config.FormatText
		}
		printSetting(out, "frequency.sources."+code, fmt.Sprintf("%s (%s)", src.URL, format))
	}
	printSetting(out, "translation.provider", cfg.Translation.Provider)
	printSetting(out, "translation.timeout", cfg.Translation.Timeout)
	printSetting(out, "translation.cache_backend", cfg.Translation.CacheBackend)
	printSetting(out, "translation.libretranslate_url", cfg.Translation.LibreTranslateURL)
	printSetting(out, "translation.openai_model", cfg.Translation.OpenAIModel)
	printSetting(out, "translation.openai_key", mask(cfg.Translation.OpenAIKey))
	printSetting(out, "translation.gemini_model", cfg.Translation.GeminiModel)
	printSetting(out, "translation.gemini_key", mask(cfg.Translation.GeminiKey))
	printSetting(out, "redis.addr", cfg.Redis.Addr)
	printSetting(out, "ankiconnect.url", cfg.AnkiConnect.URL)
	printSetting(out, "ankiconnect.timeout", cfg.AnkiConnect.Timeout)
	printSetting(out, "log.level", cfg.Log.Level)
	printSetting(out, "log.file", cfg.Log.File)
	return nil
}

func printSetting(w io.Writer, key string, value any) {
	fmt.Fprintf(w, "%-32s %v\n", key, value)
}

func mask(secret string) string {
	switch {
	case secret == "":
		return "(not set)"
	case len(secret) <= 8:
		return "****"
	default:
		return secret[:4] + "****" + secret[len(secret)-4:]
	}
}

func runLanguages(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, "Supported languages:")
	for _, lang := range language.Prioritized() {
		var notes []string
		if _, ok := cfg.Frequency.Sources[lang.Code]; ok && !cfg.Frequency.Offline {
			notes = append(notes, "frequency list")
		}
		if frequency.HasEmbedded(lang.Code) {
			notes = append(notes, "built-in sample")
		}
		line := fmt.Sprintf("  %-4s %s", lang.Code, lang.Name)
		if len(notes) > 0 {
			line = fmt.Sprintf("%-20s (%s)", line, strings.Join(notes, ", "))
		}
		fmt.Fprintln(out, line)
	}
	return nil
}

func runModels(cmd *cobra.Command) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	lister := models.NewLister(cfg.Translation.OpenAIKey, "")
	return lister.ListTranslationModels(commandContext(cmd), cmd.OutOrStdout(), cfg.Translation.OpenAIModel)
}

func runCacheArchive(cmd *cobra.Command) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	path, err := archive.ArchiveCache(cfg.CacheDir, time.Now())
	if err != nil {
		return fmt.Errorf("failed to archive cache: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cache archived to: %s\n", path)
	return nil
}

func runCacheClear(cmd *cobra.Command, flags *Flags) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	if flags.ClearLanguage != "" {
		lang, ok := language.Lookup(flags.ClearLanguage)
		if !ok {
			return fmt.Errorf("unsupported language: %s", flags.ClearLanguage)
		}
		store := frequency.NewStore(cfg.FrequencyDir(), cfg.Frequency.TTL, frequency.EmptyFetcher{})
		if err := store.Invalidate(lang.Code); err != nil {
			return fmt.Errorf("failed to clear %s frequency list: %w", lang.Name, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed the cached %s frequency list\n", lang.Name)
		return nil
	}

	removed, err := archive.ClearCache(cfg.CacheDir)
	if err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	if len(removed) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "Cache at %s is already empty\n", cfg.CacheDir)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from %s\n", strings.Join(removed, ", "), cfg.CacheDir)
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
