package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"codeberg.org/snonux/freqdeck/internal/language"
)

// ErrTranslationFailed wraps every error caused by a translation service
var ErrTranslationFailed = errors.New("translation failed")

// Translator translates text from one language code to another
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// BatchTranslator is a Translator with its own batch operation
type BatchTranslator interface {
	Translator
	TranslateBatch(ctx context.Context, texts []string, from, to string) ([]string, error)
}

// TranslateBatch translates texts in order and stops at the first failure.
// It uses t's own batch operation if it has one.
func TranslateBatch(ctx context.Context, t Translator, texts []string, from, to string) ([]string, error) {
	if bt, ok := t.(BatchTranslator); ok {
		return bt.TranslateBatch(ctx, texts, from, to)
	}
	return Sequential(ctx, t, texts, from, to, Pacing{}, SleepContext)
}

// Pacing inserts Delay before every Every-th request, never before the
// first one
type Pacing struct {
	Delay time.Duration
	Every int
}

// Before reports whether the request with zero-based index i waits first
func (p Pacing) Before(i int) bool {
	if p.Delay <= 0 || i <= 0 {
		return false
	}
	every := p.Every
	if every < 1 {
		every = 1
	}
	return i%every == 0
}

// Sleeper waits for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the real Sleeper
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Sequential translates texts one by one with pacing between requests. No
// partial results are returned on failure.
func Sequential(ctx context.Context, t Translator, texts []string, from, to string, pacing Pacing, sleep Sleeper) ([]string, error) {
	results := make([]string, 0, len(texts))
	for i, text := range texts {
		if pacing.Before(i) {
			if err := sleep(ctx, pacing.Delay); err != nil {
				return nil, err
			}
		}

		translated, err := t.Translate(ctx, text, from, to)
		if err != nil {
			return nil, fmt.Errorf("batch item %d (%q): %w", i+1, text, err)
		}
		results = append(results, translated)
	}
	return results, nil
}

// failed wraps err as a translation failure of a named service
func failed(service string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrTranslationFailed, service, err)
}

// languageName returns the English name of a code for prompts, or the code
func languageName(code string) string {
	if lang, ok := language.Lookup(code); ok {
		return lang.Name
	}
	return code
}
