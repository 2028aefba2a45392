package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"codeberg.org/snonux/freqdeck/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "freqdeck",
		Short: "Frequency-based Anki Deck Generator",
		Long: `freqdeck builds Anki decks from the most frequent words of a language.

It selects the top words of every part of speech from a frequency list,
translates them into your base language and adds front/back cards to Anki
through AnkiConnect, or writes an .apkg or .csv file.

Examples:
  freqdeck create -t hr -b es             # Croatian → Spanish, 100 words per category
  freqdeck create -t hr -b es -n 20 --dry-run
  freqdeck create -t Croatian -b English --sink apkg -o croatian.apkg
  freqdeck test                           # Check the AnkiConnect connection`,
		Version:      internal.Version,
		SilenceUsage: true,
	}

	setupFlags(rootCmd, flags)
	rootCmd.SetGlobalNormalizationFunc(wordSepNormalizeFunc)

	rootCmd.AddCommand(
		newCreateCommand(flags),
		newTestCommand(),
		newConfigCommand(flags),
		newLanguagesCommand(),
		newModelsCommand(),
		newCacheCommand(flags),
	)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.freqdeck.yaml)")
	cmd.PersistentFlags().StringVar(&flags.CacheDir, "cache-dir", "", "Cache directory for frequency lists and translations")
	cmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", "", "Log level: debug, info, warn or error")
	cmd.PersistentFlags().BoolVar(&flags.Offline, "offline", false, "Use only the built-in frequency samples")

	bindFlagsToViper(cmd)
}

// wordSepNormalizeFunc accepts --words_per_pos for --words-per-pos, the
// spelling used by the config keys
func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("cache.dir", cmd.PersistentFlags().Lookup("cache-dir"))
	viper.BindPFlag("log.level", cmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("frequency.offline", cmd.PersistentFlags().Lookup("offline"))
}

func newCreateCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a deck from the most frequent words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Target, "target", "t", "", "Language to learn (code or name, e.g. hr or Croatian)")
	cmd.Flags().StringVarP(&flags.Base, "base", "b", "", "Language you already know (code or name)")
	cmd.Flags().IntVarP(&flags.WordsPerPOS, "words-per-pos", "n", flags.WordsPerPOS, "Words per part of speech")
	cmd.Flags().StringVarP(&flags.DeckName, "deck-name", "d", "", "Deck name (default: \"<Target> → <Base> (Top <n> Words)\")")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "Translate and build cards without adding them")
	cmd.Flags().BoolVar(&flags.Bidirectional, "bidirectional", flags.Bidirectional, "Also create base → target cards")
	cmd.Flags().StringVar(&flags.Sink, "sink", flags.Sink, "Card destination: ankiconnect, apkg or csv")
	cmd.Flags().StringVarP(&flags.Output, "output", "o", "", "Output file for the apkg and csv sinks (default: <deck name>.<ext>)")
	cmd.Flags().StringVar(&flags.Provider, "provider", "", "Translation provider: mymemory, libretranslate, openai or gemini")

	viper.BindPFlag("translation.provider", cmd.Flags().Lookup("provider"))

	return cmd
}

func newTestCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "test",
		Short: "Test the AnkiConnect connection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(cmd)
		},
	}
}

func newConfigCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfig(cmd, flags)
		},
	}
	cmd.Flags().BoolVar(&flags.ShowConfig, "show", false, "Print the resolved configuration")
	return cmd
}

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List supported languages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLanguages(cmd)
		},
	}
}

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List OpenAI chat models usable for translation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(cmd)
		},
	}
}

func newCacheCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached frequency lists and translations",
	}
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached frequency lists and translations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCacheClear(cmd, flags)
		},
	}
	clearCmd.Flags().StringVarP(&flags.ClearLanguage, "language", "l", "", "Only remove the frequency list of this language")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "archive",
			Short: "Move cached data into a timestamped archive",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runCacheArchive(cmd)
			},
		},
		clearCmd,
	)
	return cmd
}
