package cloud

import (
	"testing"

	"golang.org/x/text/language"
)

func TestTermsLookup(t *testing.T) {
	terms := Terms{
		DefaultTermKey: "snapshot",
		"de":           "Schnappschuss",
		"fr":           "instantané",
	}

	tests := []struct {
		name   string
		locale language.Tag
		want   string
	}{
		{"exact", language.German, "Schnappschuss"},
		{"regional variant", language.MustParse("fr-CA"), "instantané"},
		{"no match uses default", language.Japanese, "snapshot"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := terms.Lookup(tt.locale, "fallback"); got != tt.want {
				t.Errorf("Lookup(%v) = %q, want %q", tt.locale, got, tt.want)
			}
		})
	}
}

func TestTermsLookupFallback(t *testing.T) {
	if got := Terms(nil).Lookup(language.English, "volume"); got != "volume" {
		t.Errorf("Lookup() on nil terms = %q, want %q", got, "volume")
	}
}

func TestParseLocale(t *testing.T) {
	if got := ParseLocale("de-CH"); got != language.MustParse("de-CH") {
		t.Errorf("ParseLocale(de-CH) = %v", got)
	}
	if got := ParseLocale("!!"); got != language.Und {
		t.Errorf("ParseLocale(!!) = %v, want und", got)
	}
}
