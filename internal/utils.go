package internal

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode"
)

// Version is the current freqdeck release
const Version = "0.4.0"

// NoteGUID derives a stable note identifier from the deck name and the front
// of the card. The same card in the same deck always maps to the same GUID,
// which is what lets offline exports detect duplicates.
// Format: fd_md5(deck\x1ffront)[:12]
func NoteGUID(deckName, front string) string {
	hash := md5.Sum([]byte(deckName + "\x1f" + front))
	return "fd_" + hex.EncodeToString(hash[:])[:12]
}

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isAlphaNumeric(r) || r == '-' || r == '_' || r == '.' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

// isAlphaNumeric checks if a rune is a letter or digit in any script
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
