package processor

import (
	"codeberg.org/snonux/freqdeck/internal/anki"
	"codeberg.org/snonux/freqdeck/internal/frequency"
	"codeberg.org/snonux/freqdeck/internal/language"
)

// Direction tells which side of a pair a card asks for
type Direction string

const (
	Forward Direction = "forward"
	Reverse Direction = "reverse"
)

// Translation is a successfully translated word
type Translation struct {
	Word frequency.Word
	Text string
}

// WordFailure records a word that could not be translated
type WordFailure struct {
	Word frequency.Word
	Err  error
}

// Card is a note built from a translation
type Card struct {
	Word      frequency.Word
	Direction Direction
	Note      anki.Note
}

// CardFailure records a card the sink did not accept
type CardFailure struct {
	Card Card
	Err  error
}

// Result is everything a run produced
type Result struct {
	Target   language.Language
	Base     language.Language
	DeckName string
	DryRun   bool

	SelectedWords       []frequency.Word
	Translations        []Translation
	TranslationFailures []WordFailure
	Cards               []Card

	CardsAttempted int
	CardsSucceeded int
	CardsFailed    int
	CardFailures   []CardFailure

	// Halted is set when the sink became unreachable
	Halted bool
}

// SelectedByCategory counts the selected words per part of speech
func (r *Result) SelectedByCategory() map[language.PartOfSpeech]int {
	counts := make(map[language.PartOfSpeech]int)
	for _, w := range r.SelectedWords {
		counts[w.PartOfSpeech]++
	}
	return counts
}
