// Package language knows which languages freqdeck supports and how to guess
// the part of speech of a word in them. The guesses come from small
// per-language rule tables and are approximate by nature.
package language
