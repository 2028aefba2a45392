package language

import (
	"sort"
	"strings"
)

// Language is a supported language with its ISO 639-1 code
type Language struct {
	Code string
	Name string
}

var supported = map[string]string{
	"hr": "Croatian",
	"es": "Spanish",
	"en": "English",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
	"nl": "Dutch",
	"pl": "Polish",
	"sv": "Swedish",
	"no": "Norwegian",
	"da": "Danish",
	"fi": "Finnish",
	"el": "Greek",
	"tr": "Turkish",
}

// Languages shown first when listing, the ones with frequency data leading
var prioritized = []string{"hr", "es", "en", "fr", "de", "it", "pt"}

// Lookup finds a language by code or English name, ignoring case
func Lookup(codeOrName string) (Language, bool) {
	input := strings.ToLower(strings.TrimSpace(codeOrName))
	if input == "" {
		return Language{}, false
	}

	if name, ok := supported[input]; ok {
		return Language{Code: input, Name: name}, true
	}

	for code, name := range supported {
		if strings.ToLower(name) == input {
			return Language{Code: code, Name: name}, true
		}
	}

	return Language{}, false
}

// IsSupported reports whether Lookup would succeed
func IsSupported(codeOrName string) bool {
	_, ok := Lookup(codeOrName)
	return ok
}

// Supported returns every supported language sorted by name
func Supported() []Language {
	languages := make([]Language, 0, len(supported))
	for code, name := range supported {
		languages = append(languages, Language{Code: code, Name: name})
	}
	sort.Slice(languages, func(i, j int) bool {
		return languages[i].Name < languages[j].Name
	})
	return languages
}

// Prioritized returns the prioritized languages followed by the rest by name
func Prioritized() []Language {
	languages := make([]Language, 0, len(supported))
	seen := make(map[string]bool, len(prioritized))
	for _, code := range prioritized {
		languages = append(languages, Language{Code: code, Name: supported[code]})
		seen[code] = true
	}
	for _, lang := range Supported() {
		if !seen[lang.Code] {
			languages = append(languages, lang)
		}
	}
	return languages
}
