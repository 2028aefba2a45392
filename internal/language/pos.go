package language

import "strings"

// PartOfSpeech is one of the eight grammatical categories a word is filed
// under. The zero value is not a valid category.
type PartOfSpeech string

const (
	Noun         PartOfSpeech = "Noun"
	Verb         PartOfSpeech = "Verb"
	Adjective    PartOfSpeech = "Adjective"
	Adverb       PartOfSpeech = "Adverb"
	Preposition  PartOfSpeech = "Preposition"
	Pronoun      PartOfSpeech = "Pronoun"
	Conjunction  PartOfSpeech = "Conjunction"
	Interjection PartOfSpeech = "Interjection"
)

// AllPartsOfSpeech returns the categories in their fixed order. Deck order
// and report order both follow it.
func AllPartsOfSpeech() []PartOfSpeech {
	return []PartOfSpeech{
		Noun,
		Verb,
		Adjective,
		Adverb,
		Preposition,
		Pronoun,
		Conjunction,
		Interjection,
	}
}

// Valid reports whether p is one of the eight categories
func (p PartOfSpeech) Valid() bool {
	for _, known := range AllPartsOfSpeech() {
		if p == known {
			return true
		}
	}
	return false
}

// Tag is the lowercase form used in note tags, e.g. "noun"
func (p PartOfSpeech) Tag() string {
	return strings.ToLower(string(p))
}

// ParsePartOfSpeech accepts a category name in any case
func ParsePartOfSpeech(s string) (PartOfSpeech, bool) {
	for _, known := range AllPartsOfSpeech() {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}
