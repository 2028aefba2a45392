package anki

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVSinkWithHeaders(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "deck.csv")
	sink := NewCSVSink(outputPath, true)
	ctx := context.Background()

	_, err := sink.CreateDeck(ctx, "Croatian → Spanish")
	require.NoError(t, err)
	_, err = sink.AddNote(ctx, NewNote("Croatian → Spanish", "dan", "día", "pos-noun"))
	require.NoError(t, err)
	_, err = sink.AddNote(ctx, NewNote("Croatian → Spanish", "dobar, dobro", "bueno", "pos-adjective"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "#separator:Comma\n"+
		"#html:false\n"+
		"#columns:Front,Back,Tags\n"+
		"#tags column:3\n"+
		"#deck:Croatian → Spanish\n"+
		"dan,día,pos-noun\n"+
		"\"dobar, dobro\",bueno,pos-adjective\n", string(data))
}

func TestCSVSinkWithoutHeaders(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "deck.csv")
	sink := NewCSVSink(outputPath, false)

	_, err := sink.AddNote(context.Background(), NewNote("Deck", "dan", "día"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, "dan,día,\n", string(data))
}

func TestCSVSinkRejectsDuplicates(t *testing.T) {
	sink := NewCSVSink(filepath.Join(t.TempDir(), "deck.csv"), false)
	ctx := context.Background()

	_, err := sink.AddNote(ctx, NewNote("Deck", "dan", "día"))
	require.NoError(t, err)
	_, err = sink.AddNote(ctx, NewNote("Deck", "dan", "día"))
	assert.ErrorIs(t, err, ErrItemRejected)
}
