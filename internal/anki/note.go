package anki

import (
	"strings"
)

// DefaultModelName is the stock note type with Front and Back fields
const DefaultModelName = "Basic"

const (
	fieldFront = "Front"
	fieldBack  = "Back"
)

// Note is a single flashcard in AnkiConnect's wire shape
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// NewNote creates a Basic note
func NewNote(deckName, front, back string, tags ...string) Note {
	if tags == nil {
		tags = []string{}
	}
	return Note{
		DeckName:  deckName,
		ModelName: DefaultModelName,
		Fields: map[string]string{
			fieldFront: front,
			fieldBack:  back,
		},
		Tags: tags,
	}
}

// Front returns the question side
func (n Note) Front() string {
	return n.Fields[fieldFront]
}

// Back returns the answer side
func (n Note) Back() string {
	return n.Fields[fieldBack]
}

// TagString renders tags the way Anki stores them: space separated with
// spaces inside a tag replaced
func (n Note) TagString() string {
	tags := make([]string, 0, len(n.Tags))
	for _, tag := range n.Tags {
		tag = strings.Join(strings.Fields(tag), "_")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return strings.Join(tags, " ")
}
