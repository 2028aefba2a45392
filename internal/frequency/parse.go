package frequency

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"codeberg.org/snonux/freqdeck/internal/language"
)

// minWordRunes is the shortest word that is kept
const minWordRunes = 2

// Entry is a parsed line of a raw frequency list. PartOfSpeech is empty
// unless the source tagged the word.
type Entry struct {
	Text         string
	Count        int64
	PartOfSpeech language.PartOfSpeech
}

// ParseLine parses "word count [pos]". Comment lines, lines with fewer than
// two fields, words shorter than two characters and counts that are not
// non-negative integers are rejected.
func ParseLine(line string) (Entry, bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || strings.HasPrefix(fields[0], "#") {
		return Entry{}, false
	}

	text := norm.NFC.String(fields[0])
	if utf8.RuneCountInString(text) < minWordRunes {
		return Entry{}, false
	}

	count, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil || count < 0 {
		return Entry{}, false
	}

	entry := Entry{Text: text, Count: count}
	if len(fields) > 2 {
		if pos, ok := language.ParsePartOfSpeech(fields[2]); ok {
			entry.PartOfSpeech = pos
		}
	}
	return entry, true
}

// ParseLines parses every line, skipping the ones ParseLine rejects
func ParseLines(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if entry, ok := ParseLine(line); ok {
			entries = append(entries, entry)
		}
	}
	return entries
}

// Classifier assigns a part of speech to an untagged word
type Classifier interface {
	Classify(word string) language.PartOfSpeech
}

// BuildDataset ranks entries by their position in the source and groups
// them by part of speech. Untagged entries go through classifier. A word
// that appears again later in the list (ignoring case) is dropped so it
// lands in one category only.
func BuildDataset(code string, entries []Entry, classifier Classifier) *Dataset {
	ds := NewDataset(code)
	seen := make(map[string]struct{}, len(entries))
	rank := 0

	for _, entry := range entries {
		key := strings.ToLower(entry.Text)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		pos := entry.PartOfSpeech
		if pos == "" {
			pos = classifier.Classify(entry.Text)
		}

		rank++
		// Ranks only grow here, so Add cannot fail
		_ = ds.Add(Word{
			Text:         entry.Text,
			PartOfSpeech: pos,
			Rank:         rank,
			Count:        entry.Count,
		})
	}
	return ds
}
