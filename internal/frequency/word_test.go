package frequency

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/freqdeck/internal/language"
)

func sampleDataset(t *testing.T) *Dataset {
	t.Helper()
	ds := NewDataset("hr")
	for _, w := range []Word{
		{Text: "dan", PartOfSpeech: language.Noun, Rank: 1},
		{Text: "biti", PartOfSpeech: language.Verb, Rank: 2},
		{Text: "dobar", PartOfSpeech: language.Adjective, Rank: 3},
		{Text: "vrijeme", PartOfSpeech: language.Noun, Rank: 4},
		{Text: "moći", PartOfSpeech: language.Verb, Rank: 5},
		{Text: "dio", PartOfSpeech: language.Noun, Rank: 6},
	} {
		require.NoError(t, ds.Add(w))
	}
	return ds
}

func TestDatasetAddRejectsRankInversion(t *testing.T) {
	ds := NewDataset("hr")
	require.NoError(t, ds.Add(Word{Text: "dan", PartOfSpeech: language.Noun, Rank: 5}))

	assert.Error(t, ds.Add(Word{Text: "dio", PartOfSpeech: language.Noun, Rank: 5}))
	assert.Error(t, ds.Add(Word{Text: "dio", PartOfSpeech: language.Noun, Rank: 2}))
	// Other categories have their own sequence
	assert.NoError(t, ds.Add(Word{Text: "biti", PartOfSpeech: language.Verb, Rank: 2}))
}

func TestDatasetAddRejectsInvalidWords(t *testing.T) {
	ds := NewDataset("hr")
	assert.Error(t, ds.Add(Word{Text: "dan", PartOfSpeech: "Gerund", Rank: 1}))
	assert.Error(t, ds.Add(Word{Text: "dan", PartOfSpeech: language.Noun, Rank: 0}))
	assert.Zero(t, ds.Len())
}

func TestTopWords(t *testing.T) {
	ds := sampleDataset(t)

	tests := []struct {
		name string
		pos  language.PartOfSpeech
		n    int
		want []string
	}{
		{"first two nouns", language.Noun, 2, []string{"dan", "vrijeme"}},
		{"more than available", language.Noun, 10, []string{"dan", "vrijeme", "dio"}},
		{"zero", language.Noun, 0, nil},
		{"negative", language.Verb, -1, nil},
		{"empty category", language.Adverb, 5, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, w := range ds.TopWords(tt.pos, tt.n) {
				got = append(got, w.Text)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTopWordsReturnsCopy(t *testing.T) {
	ds := sampleDataset(t)
	top := ds.TopWords(language.Noun, 1)
	top[0].Text = "changed"
	assert.Equal(t, "dan", ds.Words[language.Noun][0].Text)
}

func TestAllTopWordsCategoryOrder(t *testing.T) {
	ds := sampleDataset(t)

	var got []string
	for _, w := range ds.AllTopWords(2) {
		got = append(got, w.Text)
	}
	assert.Equal(t, []string{"dan", "vrijeme", "biti", "moći", "dobar"}, got)
	assert.Empty(t, ds.AllTopWords(0))
}
