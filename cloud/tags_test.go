package cloud

import (
	"errors"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTagsContainsAll(t *testing.T) {
	have := Tags{"env": "prod", "owner": "x"}

	tests := []struct {
		name string
		want Tags
		ok   bool
	}{
		{"empty want", Tags{}, true},
		{"nil want", nil, true},
		{"single match", Tags{"env": "prod"}, true},
		{"all match", Tags{"env": "prod", "owner": "x"}, true},
		{"value differs", Tags{"env": "dev"}, false},
		{"key missing", Tags{"team": "a"}, false},
		{"one of two missing", Tags{"env": "prod", "team": "a"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := have.ContainsAll(tt.want); got != tt.ok {
				t.Errorf("ContainsAll(%v) = %v, want %v", tt.want, got, tt.ok)
			}
		})
	}
}

func TestParseTags(t *testing.T) {
	got, err := ParseTags(" env=prod, owner = x ,flag")
	if err != nil {
		t.Fatalf("ParseTags() error = %v", err)
	}
	want := Tags{"env": "prod", "owner": "x", "flag": ""}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseTags() mismatch (-want +got):\n%s", diff)
	}

	if _, err := ParseTags("=v"); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("ParseTags(\"=v\") error = %v, want ErrInvalidOptions", err)
	}
}

func TestTagsCloneIsIndependent(t *testing.T) {
	orig := Tags{"a": "1"}
	c := orig.Clone()
	c.Set("a", "2")
	c.Set("b", "3")

	if orig["a"] != "1" || len(orig) != 1 {
		t.Errorf("original mutated: %v", orig)
	}
	if got := Tags(nil).Clone(); got == nil {
		t.Error("Clone() of nil should return an empty map")
	}
}

func TestTagsAnyValueMatches(t *testing.T) {
	tags := Tags{"env": "production", "team": "core"}
	if !tags.AnyValueMatches(regexp.MustCompile("^prod")) {
		t.Error("expected a value to match ^prod")
	}
	if tags.AnyValueMatches(regexp.MustCompile("^env$")) {
		t.Error("keys must not be matched, only values")
	}
}

func TestTagsForDelete(t *testing.T) {
	current := Tags{"a": "1", "b": "2", "c": "3"}
	desired := Tags{"a": "9", "d": "4"}

	got := TagsForDelete(current, desired)
	if diff := cmp.Diff([]string{"b", "c"}, got); diff != "" {
		t.Errorf("TagsForDelete() mismatch (-want +got):\n%s", diff)
	}
	if got := TagsForDelete(Tags{}, desired); len(got) != 0 {
		t.Errorf("TagsForDelete() on empty current = %v, want none", got)
	}
}

func TestTagsString(t *testing.T) {
	if got := (Tags{"b": "2", "a": "1"}).String(); got != "a=1,b=2" {
		t.Errorf("String() = %q, want %q", got, "a=1,b=2")
	}
}
