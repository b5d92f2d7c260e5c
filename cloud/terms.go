package cloud

import (
	"sort"

	"golang.org/x/text/language"
)

// DefaultTermKey is the Terms key holding the locale-independent term.
const DefaultTermKey = "default"

// Terms maps BCP 47 locale identifiers ("en", "de-CH") to the word a
// provider uses for a concept in that locale.
type Terms map[string]string

// Lookup returns the term best matching locale. When no locale matches,
// the DefaultTermKey entry is used, then fallback.
func (t Terms) Lookup(locale language.Tag, fallback string) string {
	supported, values := t.candidates()
	if len(supported) > 0 {
		matcher := language.NewMatcher(supported)
		_, idx, conf := matcher.Match(locale)
		if conf != language.No {
			return values[idx]
		}
	}
	if v, ok := t[DefaultTermKey]; ok && v != "" {
		return v
	}
	return fallback
}

func (t Terms) candidates() ([]language.Tag, []string) {
	keys := make([]string, 0, len(t))
	for k := range t {
		if k != DefaultTermKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	tags := make([]language.Tag, 0, len(keys))
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		tag, err := language.Parse(k)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		values = append(values, t[k])
	}
	return tags, values
}

// ParseLocale parses a BCP 47 identifier, returning language.Und for
// anything unparseable.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und
	}
	return tag
}
