// Package i18n holds the bilingual message catalogs for lebo.
//
// Lebo speaks English and Setswana. System messages shown to the user
// (onboarding prompts, fallbacks) are emitted as combined bilingual strings
// joined by " / ", matching the voice of the production assistant. Detect
// offers a lightweight heuristic used where a single language must be
// picked, e.g. the mock transport's Setswana rule.
package i18n

import (
	"fmt"
	"strings"
)

// Supported languages.
const (
	LangEN = "en"
	LangTN = "tn" // Setswana
)

// messages stores all translations, keyed by language then message key.
var messages = map[string]map[string]string{}

func init() {
	loadEnglishMessages()
	loadSetswanaMessages()
}

// T returns the translated message for the given language and key.
// Falls back to English, then to the key itself.
func T(lang, key string) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[LangEN][key]; ok {
		return msg
	}
	return key
}

// Sprintf returns the translated and formatted message.
func Sprintf(lang, key string, args ...any) string {
	return fmt.Sprintf(T(lang, key), args...)
}

// Bilingual formats the message in English and Setswana, joined by " / ".
func Bilingual(key string, args ...any) string {
	return Sprintf(LangEN, key, args...) + " / " + Sprintf(LangTN, key, args...)
}

// setswanaMarkers are substrings that strongly suggest Setswana input.
var setswanaMarkers = []string{
	"dumela",
	"setswana",
	"kgotsa",
	"gompieno",
	"ke a leboga",
	"tswee",
	"o kae",
	"nka go thusa",
}

// Detect guesses the language of a user message. It never fails: anything
// that does not look like Setswana is treated as English.
func Detect(text string) string {
	lower := strings.ToLower(text)
	for _, marker := range setswanaMarkers {
		if strings.Contains(lower, marker) {
			return LangTN
		}
	}
	return LangEN
}

// SupportedLanguages returns the supported language codes.
func SupportedLanguages() []string {
	return []string{LangEN, LangTN}
}
