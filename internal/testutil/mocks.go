package testutil

import (
	"context"
	"fmt"
	"sync"

	"codeberg.org/snonux/freqdeck/internal/anki"
	"codeberg.org/snonux/freqdeck/internal/frequency"
	"codeberg.org/snonux/freqdeck/internal/translation"
)

// MockTranslator mocks a translation service
type MockTranslator struct {
	Translations map[string]string
	Errors       map[string]error
	Calls        []string
}

// Translate mocks translating text. Unknown texts are translated to
// "<text>@<to>".
func (m *MockTranslator) Translate(ctx context.Context, text, fromLang, toLang string) (string, error) {
	call := fmt.Sprintf("Translate: %s (%s->%s)", text, fromLang, toLang)
	m.Calls = append(m.Calls, call)

	if err, ok := m.Errors[text]; ok {
		return "", fmt.Errorf("%w: mock: %w", translation.ErrTranslationFailed, err)
	}

	if translated, ok := m.Translations[text]; ok {
		return translated, nil
	}

	// Default mock translation
	return fmt.Sprintf("%s@%s", text, toLang), nil
}

// RecordingSink is an in-memory anki.Sink that records every request
type RecordingSink struct {
	mu sync.Mutex

	Decks []string
	Notes []anki.Note
	Calls []string

	// PingErr is returned by Ping
	PingErr error
	// DeckErr is returned by CreateDeck
	DeckErr error
	// NoteErrors maps a note front to the error AddNote returns for it
	NoteErrors map[string]error
	// UnreachableAfter makes AddNote fail with ErrSinkUnreachable once this
	// many notes were accepted; zero disables it
	UnreachableAfter int

	fronts map[string]bool
}

// NewRecordingSink creates an empty sink
func NewRecordingSink() *RecordingSink {
	return &RecordingSink{
		NoteErrors: make(map[string]error),
		fronts:     make(map[string]bool),
	}
}

// Ping implements anki.Pinger
func (s *RecordingSink) Ping(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "Ping")
	return s.PingErr
}

// CreateDeck implements anki.Sink
func (s *RecordingSink) CreateDeck(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "CreateDeck: "+name)
	if s.DeckErr != nil {
		return 0, s.DeckErr
	}
	s.Decks = append(s.Decks, name)
	return int64(len(s.Decks)), nil
}

// AddNote implements anki.Sink. Duplicate fronts are rejected.
func (s *RecordingSink) AddNote(_ context.Context, note anki.Note) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, "AddNote: "+note.Front())

	if s.UnreachableAfter > 0 && len(s.Notes) >= s.UnreachableAfter {
		return 0, fmt.Errorf("%w: mock connection refused", anki.ErrSinkUnreachable)
	}
	if err, ok := s.NoteErrors[note.Front()]; ok {
		return 0, err
	}
	if s.fronts[note.Front()] {
		return 0, fmt.Errorf("%w: cannot create note because it is a duplicate", anki.ErrItemRejected)
	}

	s.fronts[note.Front()] = true
	s.Notes = append(s.Notes, note)
	return int64(len(s.Notes)), nil
}

// StaticWords serves fixed datasets, counting loads
type StaticWords struct {
	Datasets map[string]*frequency.Dataset
	Err      error
	Loads    int
}

// Load returns the dataset for code, or an empty one
func (s *StaticWords) Load(_ context.Context, code string) (*frequency.Dataset, error) {
	s.Loads++
	if s.Err != nil {
		return nil, s.Err
	}
	if ds, ok := s.Datasets[code]; ok {
		return ds, nil
	}
	return frequency.NewDataset(code), nil
}
