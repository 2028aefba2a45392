package translation

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/freqdeck/internal/cache"
)

type memoryStore struct {
	mu      sync.Mutex
	entries map[cache.Pair]map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[cache.Pair]map[string]string)}
}

func (m *memoryStore) Get(_ context.Context, pair cache.Pair, text string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[pair][text]
	return v, ok, nil
}

func (m *memoryStore) Put(_ context.Context, pair cache.Pair, text, translation string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries[pair] == nil {
		m.entries[pair] = make(map[string]string)
	}
	if _, ok := m.entries[pair][text]; !ok {
		m.entries[pair][text] = translation
	}
	return nil
}

type brokenStore struct{}

func (brokenStore) Get(context.Context, cache.Pair, string) (string, bool, error) {
	return "", false, cache.ErrCacheIO
}

func (brokenStore) Put(context.Context, cache.Pair, string, string) error {
	return cache.ErrCacheIO
}

func TestCachedTranslateHitsCacheOnSecondCall(t *testing.T) {
	fake := &fakeTranslator{answers: map[string]string{"dan": "día"}}
	c := NewCached(fake, newMemoryStore())

	for range 3 {
		got, err := c.Translate(context.Background(), "dan", "hr", "es")
		require.NoError(t, err)
		assert.Equal(t, "día", got)
	}
	assert.Equal(t, []string{"dan"}, fake.calls)
}

func TestCachedReverseDirectionIsSeparate(t *testing.T) {
	fake := &fakeTranslator{answers: map[string]string{"dan": "día", "día": "dan"}}
	store := newMemoryStore()
	c := NewCached(fake, store)

	_, err := c.Translate(context.Background(), "dan", "hr", "es")
	require.NoError(t, err)

	_, ok, _ := store.Get(context.Background(), cache.Pair{From: "es", To: "hr"}, "día")
	assert.False(t, ok)

	_, err = c.Translate(context.Background(), "día", "es", "hr")
	require.NoError(t, err)
	assert.Equal(t, []string{"dan", "día"}, fake.calls)
}

func TestCachedWithFileStore(t *testing.T) {
	dir := t.TempDir()
	fake := &fakeTranslator{answers: map[string]string{"dan": "día"}}

	_, err := NewCached(fake, cache.NewFileStore(dir, nil)).Translate(context.Background(), "dan", "hr", "es")
	require.NoError(t, err)

	// A new process sees the persisted entry
	again := &fakeTranslator{}
	got, err := NewCached(again, cache.NewFileStore(dir, nil)).Translate(context.Background(), "dan", "hr", "es")
	require.NoError(t, err)
	assert.Equal(t, "día", got)
	assert.Empty(t, again.calls)
}

func TestCachedBrokenStoreFallsBackToRemote(t *testing.T) {
	fake := &fakeTranslator{answers: map[string]string{"dan": "día"}}
	c := NewCached(fake, brokenStore{})

	got, err := c.Translate(context.Background(), "dan", "hr", "es")
	require.NoError(t, err)
	assert.Equal(t, "día", got)
}

func TestCachedRemoteFailureIsNotCached(t *testing.T) {
	fake := &fakeTranslator{failOn: map[string]bool{"dan": true}}
	store := newMemoryStore()
	c := NewCached(fake, store)

	_, err := c.Translate(context.Background(), "dan", "hr", "es")
	assert.ErrorIs(t, err, ErrTranslationFailed)

	_, ok, _ := store.Get(context.Background(), cache.Pair{From: "hr", To: "es"}, "dan")
	assert.False(t, ok)
}

func TestCachedWrapsForeignErrors(t *testing.T) {
	remote := translatorFunc(func(context.Context, string, string, string) (string, error) {
		return "", errors.New("boom")
	})
	_, err := NewCached(remote, newMemoryStore()).Translate(context.Background(), "dan", "hr", "es")
	assert.ErrorIs(t, err, ErrTranslationFailed)
	assert.ErrorContains(t, err, "boom")
}

func TestCachedBatchPacesOnlyRemoteCalls(t *testing.T) {
	store := newMemoryStore()
	pair := cache.Pair{From: "hr", To: "es"}
	require.NoError(t, store.Put(context.Background(), pair, "dan", "día"))
	require.NoError(t, store.Put(context.Background(), pair, "biti", "ser"))

	fake := &fakeTranslator{}
	sleeper := &recordingSleeper{}
	c := NewCached(fake, store,
		WithPacing(Pacing{Delay: 50 * time.Millisecond, Every: 1}),
		WithSleeper(sleeper.sleep),
	)

	got, err := c.TranslateBatch(context.Background(),
		[]string{"dan", "dobar", "biti", "veliki", "mali"}, "hr", "es")
	require.NoError(t, err)

	assert.Equal(t, []string{"día", "dobar@es", "ser", "veliki@es", "mali@es"}, got)
	assert.Equal(t, []string{"dobar", "veliki", "mali"}, fake.calls)
	// Three remote calls, the first one unpaced
	assert.Len(t, sleeper.delays, 2)
}

func TestCachedBatchAllHitsNeverSleeps(t *testing.T) {
	store := newMemoryStore()
	pair := cache.Pair{From: "hr", To: "es"}
	require.NoError(t, store.Put(context.Background(), pair, "dan", "día"))

	sleeper := &recordingSleeper{}
	c := NewCached(&fakeTranslator{}, store,
		WithPacing(Pacing{Delay: time.Second, Every: 1}),
		WithSleeper(sleeper.sleep),
	)

	_, err := c.TranslateBatch(context.Background(), []string{"dan", "dan"}, "hr", "es")
	require.NoError(t, err)
	assert.Empty(t, sleeper.delays)
}

func TestCachedBatchFailsFast(t *testing.T) {
	fake := &fakeTranslator{failOn: map[string]bool{"biti": true}}
	store := newMemoryStore()
	c := NewCached(fake, store)

	got, err := c.TranslateBatch(context.Background(), []string{"dan", "biti", "dobar"}, "hr", "es")
	assert.ErrorIs(t, err, ErrTranslationFailed)
	assert.Nil(t, got)
	assert.Equal(t, []string{"dan", "biti"}, fake.calls)

	// Entries translated before the failure stay cached
	_, ok, _ := store.Get(context.Background(), cache.Pair{From: "hr", To: "es"}, "dan")
	assert.True(t, ok)
}

type translatorFunc func(ctx context.Context, text, from, to string) (string, error)

func (f translatorFunc) Translate(ctx context.Context, text, from, to string) (string, error) {
	return f(ctx, text, from, to)
}
