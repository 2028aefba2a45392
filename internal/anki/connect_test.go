package anki

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAnkiConnect mimics the add-on: every request is a POST with an
// action, every response carries result and error
type fakeAnkiConnect struct {
	mu      sync.Mutex
	decks   map[string]int64
	fronts  map[string]bool
	actions []string
	// deckError, when set, is returned by createDeck
	deckError string
}

func newFakeAnkiConnect() *fakeAnkiConnect {
	return &fakeAnkiConnect{
		decks:  map[string]int64{"Default": 1},
		fronts: make(map[string]bool),
	}
}

func (f *fakeAnkiConnect) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var req struct {
		Action  string          `json:"action"`
		Version int             `json:"version"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f.actions = append(f.actions, req.Action)

	reply := func(result any, errMsg any) {
		json.NewEncoder(w).Encode(map[string]any{"result": result, "error": errMsg})
	}

	switch req.Action {
	case "version":
		reply(req.Version, nil)
	case "deckNames":
		names := make([]string, 0, len(f.decks))
		for name := range f.decks {
			names = append(names, name)
		}
		reply(names, nil)
	case "createDeck":
		if f.deckError != "" {
			reply(nil, f.deckError)
			return
		}
		var params struct{ Deck string }
		json.Unmarshal(req.Params, &params)
		if _, ok := f.decks[params.Deck]; !ok {
			f.decks[params.Deck] = int64(1000 + len(f.decks))
		}
		reply(f.decks[params.Deck], nil)
	case "addNote":
		var params struct{ Note Note }
		json.Unmarshal(req.Params, &params)
		if _, ok := f.decks[params.Note.DeckName]; !ok {
			reply(nil, "deck was not found: "+params.Note.DeckName)
			return
		}
		if f.fronts[params.Note.Front()] {
			reply(nil, "cannot create note because it is a duplicate")
			return
		}
		f.fronts[params.Note.Front()] = true
		reply(2000+len(f.fronts), nil)
	default:
		reply(nil, fmt.Sprintf("unsupported action: %s", req.Action))
	}
}

func newTestClient(t *testing.T, handler http.Handler) *ConnectClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewConnectClient(server.URL, time.Second, nil)
}

func TestConnectClientVersionAndPing(t *testing.T) {
	client := newTestClient(t, newFakeAnkiConnect())

	version, err := client.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, version)
	assert.NoError(t, client.Ping(context.Background()))
}

func TestConnectClientCreateDeckAndAddNote(t *testing.T) {
	fake := newFakeAnkiConnect()
	client := newTestClient(t, fake)
	ctx := context.Background()

	id, err := client.CreateDeck(ctx, "Croatian → Spanish")
	require.NoError(t, err)
	assert.NotZero(t, id)

	// Creating it again returns the same deck
	again, err := client.CreateDeck(ctx, "Croatian → Spanish")
	require.NoError(t, err)
	assert.Equal(t, id, again)

	noteID, err := client.AddNote(ctx, NewNote("Croatian → Spanish", "dan", "día"))
	require.NoError(t, err)
	assert.NotZero(t, noteID)

	names, err := client.DeckNames(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Default", "Croatian → Spanish"}, names)
}

func TestConnectClientAlreadyExistsIsSuccess(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.deckError = "Deck 'Croatian → Spanish' already exists"
	client := newTestClient(t, fake)

	_, err := client.CreateDeck(context.Background(), "Croatian → Spanish")
	assert.NoError(t, err)
}

func TestConnectClientOtherDeckErrorIsRejection(t *testing.T) {
	fake := newFakeAnkiConnect()
	fake.deckError = "collection is not available"
	client := newTestClient(t, fake)

	_, err := client.CreateDeck(context.Background(), "Deck")
	assert.ErrorIs(t, err, ErrItemRejected)
	assert.NotErrorIs(t, err, ErrSinkUnreachable)
}

func TestConnectClientDuplicateIsRejection(t *testing.T) {
	client := newTestClient(t, newFakeAnkiConnect())
	ctx := context.Background()

	_, err := client.AddNote(ctx, NewNote("Default", "dan", "día"))
	require.NoError(t, err)

	_, err = client.AddNote(ctx, NewNote("Default", "dan", "día"))
	assert.ErrorIs(t, err, ErrItemRejected)
	assert.ErrorContains(t, err, "duplicate")
}

func TestConnectClientNullResultIsRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"result":null,"error":null}`)
	}))

	_, err := client.AddNote(context.Background(), NewNote("Default", "dan", "día"))
	assert.ErrorIs(t, err, ErrItemRejected)
}

func TestConnectClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewConnectClient(url, time.Second, nil)
	_, err := client.AddNote(context.Background(), NewNote("Default", "dan", "día"))
	assert.ErrorIs(t, err, ErrSinkUnreachable)
}

func TestConnectClientBreakerOpensAfterFailures(t *testing.T) {
	var calls int
	var mu sync.Mutex
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		http.Error(w, "not anki", http.StatusBadGateway)
	}))

	for range 3 {
		_, err := client.Version(context.Background())
		assert.ErrorIs(t, err, ErrSinkUnreachable)
	}

	// The breaker is open now and the server is not contacted
	_, err := client.Version(context.Background())
	assert.ErrorIs(t, err, ErrSinkUnreachable)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 3, calls)
}

func TestConnectClientRejectionsDoNotTripBreaker(t *testing.T) {
	fake := newFakeAnkiConnect()
	client := newTestClient(t, fake)
	ctx := context.Background()

	_, err := client.AddNote(ctx, NewNote("Default", "dan", "día"))
	require.NoError(t, err)
	for range 5 {
		_, err := client.AddNote(ctx, NewNote("Default", "dan", "día"))
		assert.ErrorIs(t, err, ErrItemRejected)
	}

	_, err = client.AddNote(ctx, NewNote("Default", "biti", "ser"))
	assert.NoError(t, err)
}
