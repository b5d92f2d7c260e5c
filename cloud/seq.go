package cloud

import "iter"

// Seq is a lazy, possibly network-driven sequence of results. A non-nil
// error ends the sequence; consumers stop pulling by breaking out of the
// range loop.
type Seq[T any] = iter.Seq2[T, error]

// Empty returns a sequence with no elements.
func Empty[T any]() Seq[T] {
	return func(yield func(T, error) bool) {}
}

// Failed returns a sequence that yields err once.
func Failed[T any](err error) Seq[T] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// FromSlice returns a sequence over items.
func FromSlice[T any](items []T) Seq[T] {
	return func(yield func(T, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}
}

// Collect drains seq, stopping at the first error.
func Collect[T any](seq Seq[T]) ([]T, error) {
	var out []T
	for item, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, item)
	}
	return out, nil
}

// Filter narrows seq client-side, passing errors through untouched.
func Filter[T any](seq Seq[T], keep func(T) bool) Seq[T] {
	return func(yield func(T, error) bool) {
		for item, err := range seq {
			if err != nil {
				yield(item, err)
				return
			}
			if !keep(item) {
				continue
			}
			if !yield(item, nil) {
				return
			}
		}
	}
}

// PageFunc fetches one page of results. It returns the token of the next
// page, or "" when the last page has been returned.
type PageFunc[T any] func(token string) (items []T, next string, err error)

// Pages pulls pages from fetch on demand. The next page is requested only
// after the consumer has taken every item of the current one.
func Pages[T any](fetch PageFunc[T]) Seq[T] {
	return func(yield func(T, error) bool) {
		token := ""
		for {
			items, next, err := fetch(token)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			for _, item := range items {
				if !yield(item, nil) {
					return
				}
			}
			if next == "" {
				return
			}
			token = next
		}
	}
}
