package processor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/freqdeck/internal/anki"
	"codeberg.org/snonux/freqdeck/internal/frequency"
	"codeberg.org/snonux/freqdeck/internal/language"
	"codeberg.org/snonux/freqdeck/internal/testutil"
	"codeberg.org/snonux/freqdeck/internal/translation"
)

var (
	croatian = language.Language{Code: "hr", Name: "Croatian"}
	spanish  = language.Language{Code: "es", Name: "Spanish"}
)

func croatianWords(t *testing.T) *testutil.StaticWords {
	t.Helper()
	return &testutil.StaticWords{Datasets: map[string]*frequency.Dataset{
		"hr": testutil.NewDataset(t, "hr",
			testutil.TaggedWord{Text: "dan", POS: language.Noun},
			testutil.TaggedWord{Text: "biti", POS: language.Verb},
			testutil.TaggedWord{Text: "dobar", POS: language.Adjective},
		),
	}}
}

func defaultOptions() Options {
	return Options{
		Target:        croatian,
		Base:          spanish,
		WordsPerPOS:   1,
		DeckName:      "Test Deck",
		Bidirectional: true,
	}
}

type pair struct{ front, back string }

func cardPairs(cards []Card) []pair {
	var out []pair
	for _, c := range cards {
		out = append(out, pair{c.Note.Front(), c.Note.Back()})
	}
	return out
}

func notePairs(notes []anki.Note) []pair {
	var out []pair
	for _, n := range notes {
		out = append(out, pair{n.Front(), n.Back()})
	}
	return out
}

func TestRunEndToEnd(t *testing.T) {
	translator := &testutil.MockTranslator{Translations: map[string]string{
		"dan": "día", "biti": "ser", "dobar": "bueno",
	}}
	sink := testutil.NewRecordingSink()

	result, err := NewProcessor(croatianWords(t), translator, sink).Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	want := []pair{
		{"dan", "día"}, {"día", "dan"},
		{"biti", "ser"}, {"ser", "biti"},
		{"dobar", "bueno"}, {"bueno", "dobar"},
	}
	assert.Equal(t, want, cardPairs(result.Cards))
	assert.Equal(t, want, notePairs(sink.Notes))

	assert.Equal(t, 6, result.CardsAttempted)
	assert.Equal(t, 6, result.CardsSucceeded)
	assert.Zero(t, result.CardsFailed)
	assert.False(t, result.Halted)
	assert.Equal(t, []string{"Test Deck"}, sink.Decks)
	assert.Equal(t, []string{
		"Translate: dan (hr->es)",
		"Translate: biti (hr->es)",
		"Translate: dobar (hr->es)",
	}, translator.Calls)
}

func TestRunTagsCards(t *testing.T) {
	sink := testutil.NewRecordingSink()
	_, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, sink).Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	require.Len(t, sink.Notes, 6)
	assert.Equal(t, []string{"auto-generated", "croatian-to-spanish", "pos-noun"}, sink.Notes[0].Tags)
	assert.Equal(t, []string{"auto-generated", "spanish-to-croatian", "pos-noun"}, sink.Notes[1].Tags)
	assert.Equal(t, []string{"auto-generated", "croatian-to-spanish", "pos-verb"}, sink.Notes[2].Tags)
	for _, n := range sink.Notes {
		assert.Equal(t, "Test Deck", n.DeckName)
		assert.Equal(t, anki.DefaultModelName, n.ModelName)
	}
}

func TestRunForwardOnly(t *testing.T) {
	opts := defaultOptions()
	opts.Bidirectional = false

	result, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, testutil.NewRecordingSink()).
		Run(context.Background(), opts)
	require.NoError(t, err)

	assert.Len(t, result.Cards, 3)
	for _, c := range result.Cards {
		assert.Equal(t, Forward, c.Direction)
	}
}

func TestRunPartialFailure(t *testing.T) {
	words := &testutil.StaticWords{Datasets: map[string]*frequency.Dataset{
		"hr": testutil.NewDataset(t, "hr",
			testutil.TaggedWord{Text: "dan", POS: language.Noun},
			testutil.TaggedWord{Text: "vrijeme", POS: language.Noun},
			testutil.TaggedWord{Text: "dio", POS: language.Noun},
			testutil.TaggedWord{Text: "način", POS: language.Noun},
			testutil.TaggedWord{Text: "godina", POS: language.Noun},
		),
	}}
	translator := &testutil.MockTranslator{
		Translations: map[string]string{"dan": "día", "vrijeme": "tiempo", "način": "manera", "godina": "año"},
		Errors:       map[string]error{"dio": errors.New("service unavailable")},
	}
	sink := testutil.NewRecordingSink()
	sink.NoteErrors["tiempo"] = fmt.Errorf("%w: duplicate", anki.ErrItemRejected)

	opts := defaultOptions()
	opts.WordsPerPOS = 5

	result, err := NewProcessor(words, translator, sink).Run(context.Background(), opts)
	require.NoError(t, err)

	var translated []string
	for _, tr := range result.Translations {
		translated = append(translated, tr.Word.Text)
	}
	assert.Equal(t, []string{"dan", "vrijeme", "način", "godina"}, translated)

	require.Len(t, result.TranslationFailures, 1)
	assert.Equal(t, "dio", result.TranslationFailures[0].Word.Text)
	assert.ErrorIs(t, result.TranslationFailures[0].Err, translation.ErrTranslationFailed)

	assert.Equal(t, 8, result.CardsAttempted)
	assert.Equal(t, 1, result.CardsFailed)
	assert.Equal(t, 7, result.CardsSucceeded)
	assert.GreaterOrEqual(t, result.CardsAttempted, result.CardsFailed)
	require.Len(t, result.CardFailures, 1)
	assert.ErrorIs(t, result.CardFailures[0].Err, anki.ErrItemRejected)
}

func TestRunAllTranslationsFail(t *testing.T) {
	translator := &testutil.MockTranslator{Errors: map[string]error{
		"dan": errors.New("x"), "biti": errors.New("x"), "dobar": errors.New("x"),
	}}
	sink := testutil.NewRecordingSink()

	result, err := NewProcessor(croatianWords(t), translator, sink).Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	assert.Empty(t, result.Cards)
	assert.Len(t, result.TranslationFailures, 3)
	assert.Zero(t, result.CardsAttempted)
	assert.Zero(t, result.CardsSucceeded)
}

func TestRunHaltsWhenSinkUnreachable(t *testing.T) {
	sink := testutil.NewRecordingSink()
	sink.UnreachableAfter = 2

	result, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, sink).
		Run(context.Background(), defaultOptions())
	assert.ErrorIs(t, err, anki.ErrSinkUnreachable)
	require.NotNil(t, result)

	assert.True(t, result.Halted)
	assert.Equal(t, 3, result.CardsAttempted)
	assert.Equal(t, 2, result.CardsSucceeded)
	assert.Equal(t, 1, result.CardsFailed)
	assert.Len(t, sink.Notes, 2)
}

func TestRunPingFailureIsFatal(t *testing.T) {
	sink := testutil.NewRecordingSink()
	sink.PingErr = fmt.Errorf("%w: connection refused", anki.ErrSinkUnreachable)

	result, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, sink).
		Run(context.Background(), defaultOptions())
	assert.ErrorIs(t, err, anki.ErrSinkUnreachable)
	require.NotNil(t, result)
	assert.Len(t, result.Translations, 3)
	assert.Zero(t, result.CardsAttempted)
	assert.Empty(t, sink.Decks)
}

func TestRunDeckErrors(t *testing.T) {
	t.Run("rejection is not fatal", func(t *testing.T) {
		sink := testutil.NewRecordingSink()
		sink.DeckErr = fmt.Errorf("%w: createDeck: collection busy", anki.ErrItemRejected)

		result, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, sink).
			Run(context.Background(), defaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 6, result.CardsSucceeded)
	})

	t.Run("unreachable is fatal", func(t *testing.T) {
		sink := testutil.NewRecordingSink()
		sink.DeckErr = fmt.Errorf("%w: connection refused", anki.ErrSinkUnreachable)

		result, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, sink).
			Run(context.Background(), defaultOptions())
		assert.ErrorIs(t, err, anki.ErrSinkUnreachable)
		assert.True(t, result.Halted)
		assert.Empty(t, sink.Notes)
	})
}

func TestRunTwiceRejectsDuplicates(t *testing.T) {
	// Running twice into the same sink: the deck is reused and the second
	// run's cards are all rejected as duplicates
	sink := testutil.NewRecordingSink()
	p := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, sink)

	_, err := p.Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	result, err := p.Run(context.Background(), defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 6, result.CardsAttempted)
	assert.Equal(t, 6, result.CardsFailed)
	assert.Zero(t, result.CardsSucceeded)
}

func TestRunDryRun(t *testing.T) {
	opts := defaultOptions()
	opts.DryRun = true

	result, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, nil).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Len(t, result.Cards, 6)
	assert.Zero(t, result.CardsAttempted)
	assert.True(t, result.DryRun)
}

func TestRunLoadFailure(t *testing.T) {
	words := &testutil.StaticWords{Err: fmt.Errorf("%w: hr: offline", frequency.ErrDataUnavailable)}

	result, err := NewProcessor(words, &testutil.MockTranslator{}, testutil.NewRecordingSink()).
		Run(context.Background(), defaultOptions())
	assert.ErrorIs(t, err, frequency.ErrDataUnavailable)
	assert.Nil(t, result)
}

func TestRunEmptyDataset(t *testing.T) {
	opts := defaultOptions()
	opts.Target = language.Language{Code: "de", Name: "German"}

	sink := testutil.NewRecordingSink()
	result, err := NewProcessor(&testutil.StaticWords{}, &testutil.MockTranslator{}, sink).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Empty(t, result.SelectedWords)
	assert.Zero(t, result.CardsAttempted)
}

func TestRunValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
	}{
		{"same language", func(o *Options) { o.Base = croatian }},
		{"missing target", func(o *Options) { o.Target = language.Language{} }},
		{"zero words", func(o *Options) { o.WordsPerPOS = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := defaultOptions()
			tt.modify(&opts)
			_, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, testutil.NewRecordingSink()).
				Run(context.Background(), opts)
			assert.Error(t, err)
		})
	}

	_, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, nil).Run(context.Background(), defaultOptions())
	assert.Error(t, err)
}

func TestRunDefaultDeckName(t *testing.T) {
	opts := defaultOptions()
	opts.DeckName = ""
	sink := testutil.NewRecordingSink()

	result, err := NewProcessor(croatianWords(t), &testutil.MockTranslator{}, sink).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "Croatian → Spanish (Top 8 Words)", result.DeckName)
	assert.Equal(t, []string{"Croatian → Spanish (Top 8 Words)"}, sink.Decks)
}

func TestRunWritesProgress(t *testing.T) {
	var out bytes.Buffer
	translator := &testutil.MockTranslator{
		Translations: map[string]string{"dan": "día"},
		Errors:       map[string]error{"biti": errors.New("timeout")},
	}

	_, err := NewProcessor(croatianWords(t), translator, testutil.NewRecordingSink(), WithOutput(&out)).
		Run(context.Background(), defaultOptions())
	require.NoError(t, err)

	assert.Contains(t, out.String(), "Selected 3 Croatian words")
	assert.Contains(t, out.String(), "[1/3] dan → día")
	assert.Contains(t, out.String(), "[2/3] ✗ biti")
	assert.Contains(t, out.String(), "Using deck: Test Deck")
}

func TestDirectionTag(t *testing.T) {
	assert.Equal(t, "croatian-to-spanish", DirectionTag(croatian, spanish))
	assert.Equal(t, "new-norwegian-to-spanish", DirectionTag(language.Language{Name: "New Norwegian"}, spanish))
}
