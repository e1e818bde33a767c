package datatable

import "maps"

// View is the per-screen cursor over a table: current search, filters and
// page. Any change to search or filters puts the view back on page 1.
type View struct {
	search      string
	filters     map[string]string
	page        int
	rowsPerPage int
}

func NewView(rowsPerPage int) *View {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	return &View{filters: map[string]string{}, page: 1, rowsPerPage: rowsPerPage}
}

func (v *View) SetSearch(s string) {
	if s != v.search {
		v.search = s
		v.page = 1
	}
}

// SetFilter sets or, with an empty value, clears one filter.
func (v *View) SetFilter(key, value string) {
	if v.filters[key] == value {
		return
	}
	if value == "" {
		delete(v.filters, key)
	} else {
		v.filters[key] = value
	}
	v.page = 1
}

// ReplaceFilters swaps the whole filter set, resetting the page if any
// value differs.
func (v *View) ReplaceFilters(filters map[string]string) {
	next := map[string]string{}
	for k, val := range filters {
		if val != "" {
			next[k] = val
		}
	}
	if !maps.Equal(next, v.filters) {
		v.filters = next
		v.page = 1
	}
}

func (v *View) SetPage(p int) {
	if p < 1 {
		p = 1
	}
	v.page = p
}

func (v *View) SetRowsPerPage(n int) {
	if n > 0 && n != v.rowsPerPage {
		v.rowsPerPage = n
		v.page = 1
	}
}

func (v *View) Page() int { return v.page }

// Query snapshots the view.
func (v *View) Query() Query {
	return Query{
		Search:      v.search,
		Filters:     maps.Clone(v.filters),
		Page:        v.page,
		RowsPerPage: v.rowsPerPage,
	}
}
