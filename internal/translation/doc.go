// Package translation translates single words between language pairs.
//
// Remote services (MyMemory, LibreTranslate, OpenAI and Gemini) implement
// Translator. Cached wraps any of them with a per-pair cache and paces
// batches so only requests that actually reach the service are delayed.
// Every remote failure wraps ErrTranslationFailed.
package translation
