package processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/freqdeck/internal/anki"
	"codeberg.org/snonux/freqdeck/internal/frequency"
	"codeberg.org/snonux/freqdeck/internal/language"
	"codeberg.org/snonux/freqdeck/internal/logging"
	"codeberg.org/snonux/freqdeck/internal/translation"
)

// TagAutoGenerated marks every note created by a run
const TagAutoGenerated = "auto-generated"

// WordSource provides frequency datasets
type WordSource interface {
	Load(ctx context.Context, code string) (*frequency.Dataset, error)
}

// Options describes one run
type Options struct {
	Target        language.Language
	Base          language.Language
	WordsPerPOS   int
	DeckName      string
	Bidirectional bool
	DryRun        bool
}

// DefaultDeckName names a deck after the pair and its size
func DefaultDeckName(target, base language.Language, wordsPerPOS int) string {
	total := wordsPerPOS * len(language.AllPartsOfSpeech())
	return fmt.Sprintf("%s → %s (Top %d Words)", target.Name, base.Name, total)
}

// DirectionTag is the tag of cards asking from one language to another
func DirectionTag(from, to language.Language) string {
	return tagName(from.Name) + "-to-" + tagName(to.Name)
}

func tagName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Processor drives a run
type Processor struct {
	words      WordSource
	translator translation.Translator
	sink       anki.Sink
	out        io.Writer
	logger     *zap.Logger
}

// Option configures a Processor
type Option func(*Processor)

// WithOutput sets where progress lines are printed
func WithOutput(w io.Writer) Option {
	return func(p *Processor) { p.out = w }
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(p *Processor) { p.logger = logging.OrNop(logger) }
}

// NewProcessor creates a processor. sink may be nil for dry runs.
func NewProcessor(words WordSource, translator translation.Translator, sink anki.Sink, opts ...Option) *Processor {
	p := &Processor{
		words:      words,
		translator: translator,
		sink:       sink,
		out:        io.Discard,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline. Whenever the returned Result is non-nil its
// counters are complete for the work done, including when the run was
// stopped by an unreachable sink.
func (p *Processor) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := validate(opts); err != nil {
		return nil, err
	}
	if p.sink == nil && !opts.DryRun {
		return nil, errors.New("no card sink configured")
	}
	if opts.DeckName == "" {
		opts.DeckName = DefaultDeckName(opts.Target, opts.Base, opts.WordsPerPOS)
	}

	ds, err := p.words.Load(ctx, opts.Target.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s words: %w", opts.Target.Name, err)
	}

	result := &Result{
		Target:        opts.Target,
		Base:          opts.Base,
		DeckName:      opts.DeckName,
		DryRun:        opts.DryRun,
		SelectedWords: ds.AllTopWords(opts.WordsPerPOS),
	}
	fmt.Fprintf(p.out, "Selected %d %s words\n", len(result.SelectedWords), opts.Target.Name)

	if err := p.translateWords(ctx, result); err != nil {
		return result, err
	}

	result.Cards = BuildCards(result.Translations, opts)

	if opts.DryRun {
		fmt.Fprintf(p.out, "Dry run: %d cards not added\n", len(result.Cards))
		return result, nil
	}

	if err := p.prepareDeck(ctx, opts.DeckName); err != nil {
		result.Halted = true
		return result, err
	}

	if err := p.insertCards(ctx, result); err != nil {
		result.Halted = true
		return result, err
	}
	return result, nil
}

func validate(opts Options) error {
	if opts.Target.Code == "" || opts.Base.Code == "" {
		return errors.New("target and base language are required")
	}
	if opts.Target.Code == opts.Base.Code {
		return fmt.Errorf("target and base language must differ, both are %s", opts.Target.Name)
	}
	if opts.WordsPerPOS <= 0 {
		return fmt.Errorf("words per part of speech must be positive, got %d", opts.WordsPerPOS)
	}
	return nil
}

// translateWords translates each word on its own so one failure only
// costs that word
func (p *Processor) translateWords(ctx context.Context, result *Result) error {
	from, to := result.Target.Code, result.Base.Code
	total := len(result.SelectedWords)

	for i, word := range result.SelectedWords {
		if err := ctx.Err(); err != nil {
			return err
		}

		translated, err := p.translator.Translate(ctx, word.Text, from, to)
		if err != nil {
			p.logger.Warn("Translation failed",
				zap.String("word", word.Text),
				zap.String("pair", from+"_"+to),
				zap.Error(err),
			)
			fmt.Fprintf(p.out, "  [%d/%d] ✗ %s: %v\n", i+1, total, word.Text, err)
			result.TranslationFailures = append(result.TranslationFailures, WordFailure{Word: word, Err: err})
			continue
		}

		fmt.Fprintf(p.out, "  [%d/%d] %s → %s\n", i+1, total, word.Text, translated)
		result.Translations = append(result.Translations, Translation{Word: word, Text: translated})
	}
	return nil
}

// BuildCards turns translations into notes in selection order, each
// forward card followed by its reverse
func BuildCards(translations []Translation, opts Options) []Card {
	forwardTag := DirectionTag(opts.Target, opts.Base)
	reverseTag := DirectionTag(opts.Base, opts.Target)

	cards := make([]Card, 0, 2*len(translations))
	for _, t := range translations {
		posTag := "pos-" + t.Word.PartOfSpeech.Tag()

		cards = append(cards, Card{
			Word:      t.Word,
			Direction: Forward,
			Note:      anki.NewNote(opts.DeckName, t.Word.Text, t.Text, TagAutoGenerated, forwardTag, posTag),
		})
		if opts.Bidirectional {
			cards = append(cards, Card{
				Word:      t.Word,
				Direction: Reverse,
				Note:      anki.NewNote(opts.DeckName, t.Text, t.Word.Text, TagAutoGenerated, reverseTag, posTag),
			})
		}
	}
	return cards
}

// prepareDeck checks the sink and creates the deck. Only connectivity
// problems are fatal.
func (p *Processor) prepareDeck(ctx context.Context, deckName string) error {
	if pinger, ok := p.sink.(anki.Pinger); ok {
		if err := pinger.Ping(ctx); err != nil {
			return fmt.Errorf("card sink not available: %w", err)
		}
	}

	if _, err := p.sink.CreateDeck(ctx, deckName); err != nil {
		if errors.Is(err, anki.ErrSinkUnreachable) {
			return fmt.Errorf("failed to create deck %q: %w", deckName, err)
		}
		p.logger.Warn("Deck creation failed, adding cards anyway",
			zap.String("deck", deckName),
			zap.Error(err),
		)
		return nil
	}

	fmt.Fprintf(p.out, "Using deck: %s\n", deckName)
	return nil
}

// insertCards adds the cards in order. Rejected cards are counted; an
// unreachable sink ends the run.
func (p *Processor) insertCards(ctx context.Context, result *Result) error {
	for _, card := range result.Cards {
		result.CardsAttempted++

		if _, err := p.sink.AddNote(ctx, card.Note); err != nil {
			result.CardsFailed++
			result.CardFailures = append(result.CardFailures, CardFailure{Card: card, Err: err})

			if errors.Is(err, anki.ErrSinkUnreachable) {
				p.logger.Error("Card sink became unreachable",
					zap.String("deck", result.DeckName),
					zap.Int("attempted", result.CardsAttempted),
					zap.Error(err),
				)
				return fmt.Errorf("stopped after %d of %d cards: %w",
					result.CardsAttempted, len(result.Cards), err)
			}

			p.logger.Warn("Card rejected",
				zap.String("deck", result.DeckName),
				zap.String("front", card.Note.Front()),
				zap.Error(err),
			)
			continue
		}
		result.CardsSucceeded++
	}
	return nil
}
