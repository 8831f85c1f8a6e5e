package normalize

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		lang Language
		want string
	}{
		{"english apostrophes removed", "Don't STOP", EN, "dont stop"},
		{"english punctuation to spaces", "Hello, world!", EN, "hello  world "},
		{"english digits to spaces", "a1b", EN, "a b"},
		{"english accents to spaces", "café", EN, "caf "},
		{"latin v and j fold", "IVLIVS Major", LA, "iulius maior"},
		{"latin apostrophe becomes space", "qu'est", LA, "qu est"},
		{"french accents fold", "Élève à l'école", FR, "eleue a lecole"},
		{"french ligatures expand", "Cœur Æther", FR, "coeur aether"},
		{"french cedilla", "Ça", FR, "ca"},
		{"french other letters to space", "ÿ", FR, " "},
		{"russian homoglyphs fold", "\u041coc\u043a\u0432a", RU, "\u043c\u043e\u0441\u043a\u0432\u0430"},
		{"russian archaic letters", "Ѣдъ ёлкiй", RU, "ед елкии"},
		{"russian signs dropped", "объём", RU, "обем"},
		{"russian non cyrillic to space", "дом-1 b", RU, "дом" + "    "},
		{"unknown language lower-cases only", "Hello, World!", Language("DE"), "hello, world!"},
		{"empty language lower-cases only", "ABC", Language(""), "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.text, tt.lang)
			if got != tt.want {
				t.Errorf("Normalize(%q, %s) = %q, want %q", tt.text, tt.lang, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Don't stop me now!",
		"IVLIVS CAESAR, imperator",
		"Élève à l'école; cœur & æther",
		"Ѣдъ ёлкiй Mocквa, 1812 г.",
		"Mixed: ABC абв ÀÉÎ",
		"",
	}
	langs := append(Languages(), Language("XX"))

	for _, lang := range langs {
		for _, in := range inputs {
			once := Normalize(in, lang)
			twice := Normalize(once, lang)
			if once != twice {
				t.Errorf("%s: Normalize not idempotent for %q: %q then %q", lang, in, once, twice)
			}
		}
	}
}

func TestStripSpaces(t *testing.T) {
	if got := StripSpaces(" a b  c "); got != "abc" {
		t.Errorf("StripSpaces() = %q, want %q", got, "abc")
	}
	if got := StripSpaces("a\tb"); got != "a\tb" {
		t.Errorf("StripSpaces() should only remove spaces, got %q", got)
	}
}

func TestKey(t *testing.T) {
	if got := Key("Don't go, Jove!", LA); got != "dontgoioue" {
		t.Errorf("Key() = %q, want %q", got, "dontgoioue")
	}
}

func TestParseLanguage(t *testing.T) {
	lang, ok := ParseLanguage(" fr ")
	if !ok || lang != FR {
		t.Errorf("ParseLanguage(fr) = %q, %v; want FR, true", lang, ok)
	}

	lang, ok = ParseLanguage("de")
	if ok {
		t.Error("expected DE to be unrecognized")
	}
	if lang != Language("DE") {
		t.Errorf("expected unrecognized code to be upper-cased, got %q", lang)
	}
	if lang.Known() {
		t.Error("expected DE not to be known")
	}
}

func TestResolve(t *testing.T) {
	if _, err := Resolve("xx", false); err != nil {
		t.Errorf("permissive Resolve returned error: %v", err)
	}

	_, err := Resolve("xx", true)
	if !errors.Is(err, ErrUnknownLanguage) {
		t.Errorf("strict Resolve error = %v, want ErrUnknownLanguage", err)
	}

	lang, err := Resolve("ru", true)
	if err != nil || lang != RU {
		t.Errorf("strict Resolve(ru) = %q, %v; want RU, nil", lang, err)
	}
}
