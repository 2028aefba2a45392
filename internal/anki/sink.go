package anki

import (
	"context"
	"errors"
)

var (
	// ErrSinkUnreachable means the destination cannot be reached at all.
	// Callers stop sending further notes.
	ErrSinkUnreachable = errors.New("card sink unreachable")

	// ErrItemRejected means the destination refused one request, e.g. a
	// duplicate note. Other notes can still be delivered.
	ErrItemRejected = errors.New("card rejected by sink")
)

// Sink receives decks and notes
type Sink interface {
	// CreateDeck ensures the deck exists; an existing deck is not an error
	CreateDeck(ctx context.Context, name string) (int64, error)

	// AddNote inserts a note and returns its id
	AddNote(ctx context.Context, note Note) (int64, error)
}

// Pinger is implemented by sinks that can check connectivity up front
type Pinger interface {
	Ping(ctx context.Context) error
}
