package frequency

import (
	"fmt"

	"codeberg.org/snonux/freqdeck/internal/language"
)

// Word is one entry of a frequency list
type Word struct {
	Text         string                `json:"text"`
	PartOfSpeech language.PartOfSpeech `json:"pos"`
	Rank         int                   `json:"rank"`
	Count        int64                 `json:"count,omitempty"`
}

// Dataset holds a language's words grouped by part of speech. Within a
// category the words are in ascending rank order.
type Dataset struct {
	Language string                           `json:"language"`
	Words    map[language.PartOfSpeech][]Word `json:"words"`
}

// NewDataset creates an empty dataset for a language code
func NewDataset(code string) *Dataset {
	return &Dataset{
		Language: code,
		Words:    make(map[language.PartOfSpeech][]Word),
	}
}

// Add appends a word to its category. Ranks must increase within a
// category.
func (d *Dataset) Add(w Word) error {
	if !w.PartOfSpeech.Valid() {
		return fmt.Errorf("word %q: invalid part of speech %q", w.Text, w.PartOfSpeech)
	}
	if w.Rank < 1 {
		return fmt.Errorf("word %q: rank must be positive, got %d", w.Text, w.Rank)
	}

	words := d.Words[w.PartOfSpeech]
	if n := len(words); n > 0 && words[n-1].Rank >= w.Rank {
		return fmt.Errorf("word %q: rank %d does not follow %d in %s",
			w.Text, w.Rank, words[n-1].Rank, w.PartOfSpeech)
	}
	d.Words[w.PartOfSpeech] = append(words, w)
	return nil
}

// Len returns the number of words across all categories
func (d *Dataset) Len() int {
	total := 0
	for _, words := range d.Words {
		total += len(words)
	}
	return total
}

// TopWords returns up to n of the most frequent words of a category
func (d *Dataset) TopWords(pos language.PartOfSpeech, n int) []Word {
	if n <= 0 {
		return nil
	}
	words := d.Words[pos]
	if len(words) > n {
		words = words[:n]
	}
	out := make([]Word, len(words))
	copy(out, words)
	return out
}

// AllTopWords concatenates TopWords of every category in the fixed
// category order
func (d *Dataset) AllTopWords(n int) []Word {
	var out []Word
	for _, pos := range language.AllPartsOfSpeech() {
		out = append(out, d.TopWords(pos, n)...)
	}
	return out
}
