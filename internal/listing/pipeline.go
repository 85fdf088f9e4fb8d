// Package listing implements the search, filter and sort pipeline shared by
// every list view.
package listing

import (
	"cmp"
	"slices"
	"strings"
)

// Filter reports whether an item passes. A nil Filter is an unset filter.
type Filter[T any] func(T) bool

// Compare orders two items like cmp.Compare.
type Compare[T any] func(a, b T) int

// Apply keeps the items that pass every filter, then sorts the survivors by
// the comparators in order, the first non-zero result winning. The input is
// never modified and equal items keep their input order.
func Apply[T any](items []T, filters []Filter[T], order ...Compare[T]) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if passes(item, filters) {
			out = append(out, item)
		}
	}
	if len(order) > 0 {
		slices.SortStableFunc(out, Chain(order...))
	}
	return out
}

func passes[T any](item T, filters []Filter[T]) bool {
	for _, f := range filters {
		if f != nil && !f(item) {
			return false
		}
	}
	return true
}

// Chain composes comparators into one: later comparators only break ties of
// earlier ones.
func Chain[T any](order ...Compare[T]) Compare[T] {
	return func(a, b T) int {
		for _, c := range order {
			if c == nil {
				continue
			}
			if r := c(a, b); r != 0 {
				return r
			}
		}
		return 0
	}
}

// Descending reverses a comparator.
func Descending[T any](c Compare[T]) Compare[T] {
	return func(a, b T) int { return c(b, a) }
}

// By orders by a key extracted from each item.
func By[T any, K cmp.Ordered](key func(T) K) Compare[T] {
	return func(a, b T) int { return cmp.Compare(key(a), key(b)) }
}

// ByText orders by a case-insensitive text key.
func ByText[T any](key func(T) string) Compare[T] {
	return func(a, b T) int {
		return cmp.Compare(strings.ToLower(key(a)), strings.ToLower(key(b)))
	}
}

// MatchText reports whether search is a case-insensitive substring of any
// field. An empty search matches everything.
func MatchText(search string, fields ...string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

// Equals builds a categorical filter: nil when want is empty, otherwise an
// equality check against the value got extracts.
func Equals[T any](want string, got func(T) string) Filter[T] {
	if want == "" {
		return nil
	}
	return func(item T) bool { return got(item) == want }
}

// Search builds the free-text filter over the fields returned by text.
func Search[T any](search string, text func(T) []string) Filter[T] {
	if strings.TrimSpace(search) == "" {
		return nil
	}
	return func(item T) bool { return MatchText(search, text(item)...) }
}
