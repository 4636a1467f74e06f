// Package lang holds the four supported languages, text folding and the
// caller/text language detectors.
package lang

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type Language string

const (
	German  Language = "de"
	French  Language = "fr"
	Italian Language = "it"
	English Language = "en"
)

var Supported = []Language{German, French, Italian, English}

var matcher = language.NewMatcher([]language.Tag{
	language.German,
	language.French,
	language.Italian,
	language.English,
})

// Parse maps any BCP 47 tag ("fr-CH", "de_CH", "it") onto a supported language.
func Parse(s string) (Language, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, "_", "-"))
	if s == "" {
		return "", false
	}

	tag, err := language.Parse(s)
	if err != nil {
		return "", false
	}

	_, idx, confidence := matcher.Match(tag)
	if confidence < language.High {
		return "", false
	}
	return Supported[idx], true
}

// Locale is the locale passed to speech synthesis.
func (l Language) Locale() string {
	switch l {
	case French:
		return "fr-FR"
	case Italian:
		return "it-IT"
	case English:
		return "en-US"
	default:
		return "de-DE"
	}
}

// Voice is the text-to-speech voice used for the language.
func (l Language) Voice() string {
	switch l {
	case French:
		return "Polly.Lea"
	case Italian:
		return "Polly.Bianca"
	case English:
		return "Polly.Joanna"
	default:
		return "Polly.Vicki"
	}
}

func (l Language) String() string {
	return string(l)
}

// Fold lowercases s and strips diacritics so "Möchte" and "mochte" compare equal.
func Fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// Words splits folded text into letter runs.
func Words(folded string) []string {
	return strings.FieldsFunc(folded, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}
