package anki

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// CSVSink collects notes and writes an Anki text import file on Close.
// With headers the file carries Anki's "#key:value" import directives so
// deck and tag columns are picked up automatically.
type CSVSink struct {
	outputPath     string
	includeHeaders bool
	deckName       string
	notes          []Note
	fronts         map[string]struct{}
	mu             sync.Mutex
}

// NewCSVSink creates a sink writing to outputPath
func NewCSVSink(outputPath string, includeHeaders bool) *CSVSink {
	return &CSVSink{
		outputPath:     outputPath,
		includeHeaders: includeHeaders,
		fronts:         make(map[string]struct{}),
	}
}

// CreateDeck implements Sink
func (s *CSVSink) CreateDeck(_ context.Context, name string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deckName = name
	return 0, nil
}

// AddNote implements Sink
func (s *CSVSink) AddNote(_ context.Context, note Note) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	front := note.Front()
	if _, dup := s.fronts[front]; dup {
		return 0, fmt.Errorf("%w: cannot create note because it is a duplicate: %q", ErrItemRejected, front)
	}
	if s.deckName == "" {
		s.deckName = note.DeckName
	}

	s.fronts[front] = struct{}{}
	s.notes = append(s.notes, note)
	return int64(len(s.notes)), nil
}

// Close writes the file
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(s.outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer file.Close()

	if s.includeHeaders {
		headers := []string{
			"#separator:Comma",
			"#html:false",
			"#columns:Front,Back,Tags",
			"#tags column:3",
		}
		if s.deckName != "" {
			headers = append(headers, "#deck:"+s.deckName)
		}
		if _, err := fmt.Fprintln(file, strings.Join(headers, "\n")); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	for _, note := range s.notes {
		if err := writer.Write([]string{note.Front(), note.Back(), note.TagString()}); err != nil {
			return fmt.Errorf("failed to write card: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}
