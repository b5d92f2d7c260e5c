package cloud

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Tag is a caller-defined key/value pair attached to a cloud resource.
type Tag struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

func (t Tag) String() string {
	return t.Key + "=" + t.Value
}

// Tags maps tag keys to values. Keys are unique and order is irrelevant.
type Tags map[string]string

// NewTags builds a tag map from the given pairs. Later pairs overwrite
// earlier ones with the same key.
func NewTags(tags ...Tag) Tags {
	t := make(Tags, len(tags))
	for _, tag := range tags {
		t[tag.Key] = tag.Value
	}
	return t
}

// ParseTags parses "k=v,k2=v2". A pair without '=' yields an empty value.
func ParseTags(s string) (Tags, error) {
	t := Tags{}
	s = strings.TrimSpace(s)
	if s == "" {
		return t, nil
	}
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: empty tag key in %q", ErrInvalidOptions, pair)
		}
		t[key] = strings.TrimSpace(value)
	}
	return t, nil
}

// Get returns the value for key and whether it was present.
func (t Tags) Get(key string) (string, bool) {
	v, ok := t[key]
	return v, ok
}

// Set stores value under key.
func (t Tags) Set(key, value string) {
	t[key] = value
}

// Delete removes key.
func (t Tags) Delete(key string) {
	delete(t, key)
}

// Keys returns the tag keys in sorted order.
func (t Tags) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// List returns the tags as pairs sorted by key.
func (t Tags) List() []Tag {
	out := make([]Tag, 0, len(t))
	for _, k := range t.Keys() {
		out = append(out, Tag{Key: k, Value: t[k]})
	}
	return out
}

// Clone returns an independent copy. Cloning nil yields an empty map.
func (t Tags) Clone() Tags {
	c := make(Tags, len(t))
	for k, v := range t {
		c[k] = v
	}
	return c
}

// ContainsAll reports whether every key in want is present in t with an
// equal value. An empty want is contained in anything.
func (t Tags) ContainsAll(want Tags) bool {
	for k, v := range want {
		got, ok := t[k]
		if !ok || got != v {
			return false
		}
	}
	return true
}

// AnyValueMatches reports whether any tag value matches re.
func (t Tags) AnyValueMatches(re *regexp.Regexp) bool {
	for _, v := range t {
		if re.MatchString(v) {
			return true
		}
	}
	return false
}

func (t Tags) String() string {
	parts := make([]string, 0, len(t))
	for _, tag := range t.List() {
		parts = append(parts, tag.String())
	}
	return strings.Join(parts, ",")
}

// TagsForDelete returns the keys of current that are absent from desired,
// sorted. A key reused with a new value is an update, not a removal.
func TagsForDelete(current, desired Tags) []string {
	var keys []string
	for k := range current {
		if _, ok := desired[k]; !ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
