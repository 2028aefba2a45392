package language

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
)

// Rule is one row of a classification table. Match receives the word
// already trimmed and lowercased for the table's language.
type Rule struct {
	Name  string
	Match func(word string) bool
	POS   PartOfSpeech
}

// Classifier guesses parts of speech from an ordered rule table. Rules are
// evaluated top to bottom and the first match wins; a word no rule matches
// is a Noun. Tables list exact-match closed classes before suffix rules so
// that short function words are not caught by an ending.
type Classifier struct {
	tag   xlanguage.Tag
	rules []Rule
}

// NewClassifier builds a classifier over rules for the given language
func NewClassifier(tag xlanguage.Tag, rules []Rule) *Classifier {
	return &Classifier{tag: tag, rules: rules}
}

// Classify returns the category of word. It never fails.
func (c *Classifier) Classify(word string) PartOfSpeech {
	folded := c.fold(word)
	for _, rule := range c.rules {
		if rule.Match(folded) {
			return rule.POS
		}
	}
	return Noun
}

// Rules returns the table in evaluation order
func (c *Classifier) Rules() []Rule {
	return c.rules
}

// fold lowercases with the language's casing rules. A Caser keeps state,
// so one is created per call.
func (c *Classifier) fold(word string) string {
	return cases.Lower(c.tag).String(strings.TrimSpace(word))
}

var classifiers = map[string]func() *Classifier{
	"hr": newCroatianClassifier,
	"es": newSpanishClassifier,
}

// ClassifierFor returns the classifier for a language code. Languages
// without a table get one that files everything as Noun.
func ClassifierFor(code string) *Classifier {
	if build, ok := classifiers[strings.ToLower(code)]; ok {
		return build()
	}
	return NewClassifier(xlanguage.Und, nil)
}

// OneOf matches any of the given words exactly
func OneOf(words ...string) func(string) bool {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return func(word string) bool {
		_, ok := set[word]
		return ok
	}
}

// EndsWith matches words ending in any of the suffixes
func EndsWith(suffixes ...string) func(string) bool {
	return EndsWithMinLen(0, suffixes...)
}

// EndsWithMinLen is EndsWith for words of at least minRunes characters
func EndsWithMinLen(minRunes int, suffixes ...string) func(string) bool {
	return func(word string) bool {
		if utf8.RuneCountInString(word) < minRunes {
			return false
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(word, suffix) {
				return true
			}
		}
		return false
	}
}
