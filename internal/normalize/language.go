// Package normalize canonicalizes text so that spelling and orthography
// variants of the same acrostic compare equal.
package normalize

import (
	"errors"
	"fmt"
	"strings"
)

// Language selects a normalization rule set
type Language string

const (
	EN Language = "EN" // English
	LA Language = "LA" // Latin
	RU Language = "RU" // Russian, including pre-reform orthography
	FR Language = "FR" // French
)

// ErrUnknownLanguage is returned by Resolve in strict mode
var ErrUnknownLanguage = errors.New("unknown language")

// Languages returns the recognized languages in a stable order
func Languages() []Language {
	return []Language{EN, LA, RU, FR}
}

// ParseLanguage maps a language code to a Language. The second result
// reports whether the code is recognized; unrecognized codes are returned
// upper-cased and normalize with the identity fallback.
func ParseLanguage(code string) (Language, bool) {
	lang := Language(strings.ToUpper(strings.TrimSpace(code)))
	_, ok := rules[lang]
	return lang, ok
}

// Resolve parses a language code, rejecting unknown codes when strict is set
func Resolve(code string, strict bool) (Language, error) {
	lang, ok := ParseLanguage(code)
	if !ok && strict {
		return "", fmt.Errorf("%w: %q (known: %s)", ErrUnknownLanguage, code, joinLanguages())
	}
	return lang, nil
}

// Known reports whether the language has a dedicated rule set
func (l Language) Known() bool {
	_, ok := rules[l]
	return ok
}

func (l Language) String() string {
	return string(l)
}

func joinLanguages() string {
	langs := Languages()
	names := make([]string, len(langs))
	for i, l := range langs {
		names[i] = string(l)
	}
	return strings.Join(names, ", ")
}
