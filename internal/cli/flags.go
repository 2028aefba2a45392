package cli

// Card sinks selectable with --sink
const (
	SinkAnkiConnect = "ankiconnect"
	SinkAPKG        = "apkg"
	SinkCSV         = "csv"
)

// DefaultWordsPerPOS is how many words of each part of speech go in a deck
const DefaultWordsPerPOS = 100

// Flags holds all command-line flag values
type Flags struct {
	// Global flags
	CfgFile  string
	CacheDir string
	LogLevel string
	Offline  bool

	// create flags
	Target        string
	Base          string
	WordsPerPOS   int
	DeckName      string
	DryRun        bool
	Bidirectional bool
	Sink          string
	Output        string
	Provider      string

	// config flags
	ShowConfig bool

	// cache clear flags
	ClearLanguage string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		WordsPerPOS:   DefaultWordsPerPOS,
		Bidirectional: true,
		Sink:          SinkAnkiConnect,
	}
}
