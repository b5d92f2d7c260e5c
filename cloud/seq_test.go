package cloud

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCollectAndFilter(t *testing.T) {
	seq := Filter(FromSlice([]int{1, 2, 3, 4, 5}), func(i int) bool { return i%2 == 1 })

	got, err := Collect(seq)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if diff := cmp.Diff([]int{1, 3, 5}, got); diff != "" {
		t.Errorf("Collect() mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyAndFailed(t *testing.T) {
	got, err := Collect(Empty[string]())
	if err != nil || len(got) != 0 {
		t.Errorf("Collect(Empty) = %v, %v; want no items and no error", got, err)
	}

	boom := errors.New("boom")
	if _, err := Collect(Filter(Failed[string](boom), func(string) bool { return true })); !errors.Is(err, boom) {
		t.Errorf("Collect(Failed) error = %v, want %v", err, boom)
	}
}

func TestPagesPullsOnDemand(t *testing.T) {
	pages := map[string][]int{"": {1, 2}, "p2": {3, 4}, "p3": {5}}
	next := map[string]string{"": "p2", "p2": "p3", "p3": ""}
	var fetched []string

	seq := Pages(func(token string) ([]int, string, error) {
		fetched = append(fetched, token)
		return pages[token], next[token], nil
	})

	var got []int
	for v, err := range seq {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, v)
		if v == 3 {
			break
		}
	}

	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"", "p2"}, fetched); diff != "" {
		t.Errorf("abandoned sequence should not fetch further pages (-want +got):\n%s", diff)
	}
}

func TestPagesStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	seq := Pages(func(token string) ([]int, string, error) {
		if token == "" {
			return []int{1}, "next", nil
		}
		return nil, "", boom
	})

	got, err := Collect(seq)
	if !errors.Is(err, boom) {
		t.Fatalf("Collect() error = %v, want %v", err, boom)
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("items before error mismatch (-want +got):\n%s", diff)
	}
}
