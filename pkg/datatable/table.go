// Package datatable implements the fetch-once, filter-in-memory table that
// backs every list screen: one bulk fetch per user, then search, filters and
// pagination without further network calls.
package datatable

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// FetchFunc loads the full, user-scoped dataset.
type FetchFunc[T any] func(ctx context.Context, userID int) ([]T, error)

// FilterFunc reports whether row passes the filter for value. Values are
// never empty; empty filters are skipped before the predicate is called.
type FilterFunc[T any] func(row T, value string) bool

// Field extracts one searchable string from a row.
type Field[T any] func(row T) string

// Table is the configured dataset. Build one with New.
type Table[T any] struct {
	name      string
	fetch     FetchFunc[T]
	transform func(T) T
	search    []Field[T]
	filters   map[string]FilterFunc[T]
	less      func(a, b T) bool
}

// Builder assembles a Table.
type Builder[T any] struct {
	t Table[T]
}

func New[T any](name string) *Builder[T] {
	return &Builder[T]{t: Table[T]{name: name, filters: map[string]FilterFunc[T]{}}}
}

func (b *Builder[T]) Fetch(f FetchFunc[T]) *Builder[T] {
	b.t.fetch = f
	return b
}

// Transform maps each fetched row to its display shape.
func (b *Builder[T]) Transform(f func(T) T) *Builder[T] {
	b.t.transform = f
	return b
}

func (b *Builder[T]) Search(fields ...Field[T]) *Builder[T] {
	b.t.search = append(b.t.search, fields...)
	return b
}

func (b *Builder[T]) Filter(key string, f FilterFunc[T]) *Builder[T] {
	b.t.filters[key] = f
	return b
}

// SortBy sets the display order applied after loading.
func (b *Builder[T]) SortBy(less func(a, b T) bool) *Builder[T] {
	b.t.less = less
	return b
}

func (b *Builder[T]) Build() *Table[T] {
	if b.t.fetch == nil {
		panic(fmt.Sprintf("datatable %q: no fetch function", b.t.name))
	}
	t := b.t
	return &t
}

func (t *Table[T]) Name() string { return t.name }

// Filters lists the registered filter keys, sorted.
func (t *Table[T]) Filters() []string {
	keys := make([]string, 0, len(t.filters))
	for k := range t.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Load fetches the dataset and returns it in display shape.
func (t *Table[T]) Load(ctx context.Context, userID int) ([]T, error) {
	rows, err := t.fetch(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.name, err)
	}
	out := make([]T, len(rows))
	for i, r := range rows {
		if t.transform != nil {
			r = t.transform(r)
		}
		out[i] = r
	}
	if t.less != nil {
		sort.SliceStable(out, func(i, j int) bool { return t.less(out[i], out[j]) })
	}
	return out, nil
}

// Match reports whether row passes the search term and every filter.
// Unknown filter keys are ignored.
func (t *Table[T]) Match(row T, search string, filters map[string]string) bool {
	if !t.matchSearch(row, search) {
		return false
	}
	for key, value := range filters {
		if value == "" {
			continue
		}
		f, ok := t.filters[key]
		if !ok {
			continue
		}
		if !f(row, value) {
			return false
		}
	}
	return true
}

func (t *Table[T]) matchSearch(row T, search string) bool {
	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return true
	}
	for _, field := range t.search {
		if strings.Contains(strings.ToLower(field(row)), term) {
			return true
		}
	}
	return false
}

// Apply filters rows without paginating, e.g. for exports.
func (t *Table[T]) Apply(rows []T, search string, filters map[string]string) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if t.Match(r, search, filters) {
			out = append(out, r)
		}
	}
	return out
}

// Query filters then paginates rows.
func (t *Table[T]) Query(rows []T, q Query) Page[T] {
	return Paginate(t.Apply(rows, q.Search, q.Filters), q.Page, q.RowsPerPage)
}
