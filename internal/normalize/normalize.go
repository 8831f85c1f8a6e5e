package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// stage is one step of a rule set. Stages hold no per-call state and are
// safe for concurrent use.
type stage func(string) string

// rules maps every recognized language to its stages, applied in order
// after lower-casing. Built once; never mutated.
var rules = map[Language][]stage{
	EN: {
		remove(isApostrophe),
		mapRunes(latinOnly),
	},
	LA: {
		mapRunes(latinOnly),
		mapRunes(classicalFold),
	},
	FR: {
		replace("œ", "oe", "æ", "ae"),
		mapRunes(frenchFold),
		remove(isApostrophe),
		mapRunes(latinOnly),
	},
	RU: {
		mapRunes(cyrillicOnly),
		mapRunes(homoglyphFold),
		remove(isSoftOrHardSign),
	},
}

// Normalize lower-cases text and applies the rule set of lang. Unknown
// languages get lower-casing only.
func Normalize(text string, lang Language) string {
	// Casers are stateful, so each call gets its own.
	line := cases.Lower(language.Und).String(text)
	for _, st := range rules[lang] {
		line = st(line)
	}
	return line
}

// StripSpaces removes every space character
func StripSpaces(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// Key returns the space-insensitive comparison key of text
func Key(text string, lang Language) string {
	return StripSpaces(Normalize(text, lang))
}

func mapRunes(f func(rune) rune) stage {
	t := runes.Map(f)
	return func(s string) string {
		out, _, err := transform.String(t, s)
		if err != nil {
			return s
		}
		return out
	}
}

func remove(f func(rune) bool) stage {
	t := runes.Remove(runes.Predicate(f))
	return func(s string) string {
		out, _, err := transform.String(t, s)
		if err != nil {
			return s
		}
		return out
	}
}

func replace(oldnew ...string) stage {
	return strings.NewReplacer(oldnew...).Replace
}

func isApostrophe(r rune) bool {
	return r == '\''
}

func isSoftOrHardSign(r rune) bool {
	return r == 'ь' || r == 'ъ'
}

// latinOnly keeps lowercase a-z and space; everything else becomes a space
func latinOnly(r rune) rune {
	if (r >= 'a' && r <= 'z') || r == ' ' {
		return r
	}
	return ' '
}

func classicalFold(r rune) rune {
	switch r {
	case 'v':
		return 'u'
	case 'j':
		return 'i'
	}
	return r
}

func frenchFold(r rune) rune {
	switch r {
	case 'à', 'â', 'ä':
		return 'a'
	case 'é', 'è', 'ê', 'ë':
		return 'e'
	case 'î', 'ï':
		return 'i'
	case 'ô', 'ö':
		return 'o'
	case 'ù', 'û', 'ü':
		return 'u'
	case 'ç':
		return 'c'
	}
	return classicalFold(r)
}

// cyrillicOnly keeps А-я, ё, ѣ, the Latin look-alikes i a e o p x c and
// space; everything else becomes a space
func cyrillicOnly(r rune) rune {
	switch {
	case r >= 'А' && r <= 'я':
		return r
	case r == 'Ё', r == 'ё', r == 'ѣ', r == ' ':
		return r
	case r == 'i', r == 'a', r == 'e', r == 'o', r == 'p', r == 'x', r == 'c':
		return r
	}
	return ' '
}

// homoglyphFold folds Latin look-alikes and archaic letters onto the
// modern Cyrillic letter they stand for
func homoglyphFold(r rune) rune {
	switch r {
	case 'a':
		return 'а'
	case 'p':
		return 'р'
	case 'x':
		return 'х'
	case 'c':
		return 'с'
	case 'o':
		return 'о'
	case 'e', 'ё', 'ѣ':
		return 'е'
	case 'i', 'й':
		return 'и'
	}
	return r
}
