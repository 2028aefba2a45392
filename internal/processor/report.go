package processor

import (
	"fmt"
	"io"
	"strings"

	"codeberg.org/snonux/freqdeck/internal/language"
)

const sampleTranslations = 10

// PrintSummary writes the run report
func PrintSummary(w io.Writer, r *Result) {
	fmt.Fprintf(w, "\n=== Deck Summary ===\n")
	fmt.Fprintf(w, "Deck: %s\n", r.DeckName)
	fmt.Fprintf(w, "Languages: %s → %s\n", r.Target.Name, r.Base.Name)

	counts := r.SelectedByCategory()
	var parts []string
	for _, pos := range language.AllPartsOfSpeech() {
		if n := counts[pos]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", pos, n))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "Words selected: %d (%s)\n", len(r.SelectedWords), strings.Join(parts, ", "))
	} else {
		fmt.Fprintf(w, "Words selected: 0\n")
	}

	fmt.Fprintf(w, "Translated: %d\n", len(r.Translations))
	if len(r.TranslationFailures) > 0 {
		fmt.Fprintf(w, "Translation failures: %d\n", len(r.TranslationFailures))
		for _, f := range r.TranslationFailures {
			fmt.Fprintf(w, "  ✗ %s: %v\n", f.Word.Text, f.Err)
		}
	}

	if len(r.Translations) > 0 {
		fmt.Fprintf(w, "Sample translations:\n")
		for i, t := range r.Translations {
			if i == sampleTranslations {
				fmt.Fprintf(w, "  ... and %d more\n", len(r.Translations)-sampleTranslations)
				break
			}
			fmt.Fprintf(w, "  %s → %s\n", t.Word.Text, t.Text)
		}
	}

	if r.DryRun {
		fmt.Fprintf(w, "Cards built: %d (dry run, nothing added)\n", len(r.Cards))
	} else {
		fmt.Fprintf(w, "Cards attempted: %d\n", r.CardsAttempted)
		fmt.Fprintf(w, "Cards added: %d\n", r.CardsSucceeded)
		if r.CardsFailed > 0 {
			fmt.Fprintf(w, "Cards failed: %d\n", r.CardsFailed)
			for _, f := range r.CardFailures {
				fmt.Fprintf(w, "  ✗ %s → %s: %v\n", f.Card.Note.Front(), f.Card.Note.Back(), f.Err)
			}
		}
		if r.Halted {
			fmt.Fprintf(w, "Stopped early: card sink unreachable\n")
		}
	}
	fmt.Fprintf(w, "====================\n")
}
