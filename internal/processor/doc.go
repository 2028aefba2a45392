// Package processor runs the deck pipeline: load the most frequent words of
// the target language, translate them one by one into the base language,
// build forward and reverse cards and insert them into a card sink. A word
// that cannot be translated or a card the sink rejects is recorded and
// skipped; only an unreachable sink stops the run.
package processor
