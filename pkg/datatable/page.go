package datatable

// DefaultRowsPerPage matches the list screens.
const DefaultRowsPerPage = 10

// Query is one request against a loaded dataset.
type Query struct {
	Search      string            `json:"search"`
	Filters     map[string]string `json:"filters"`
	Page        int               `json:"page"`
	RowsPerPage int               `json:"rowsPerPage"`
}

// Page is a slice of the filtered rows.
type Page[T any] struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
	Data       []T `json:"data"`
}

// Paginate returns the rowsPerPage × page slice of rows. Pages are 1-based;
// page < 1 is treated as 1 and pages past the end are empty.
func Paginate[T any](rows []T, page, rowsPerPage int) Page[T] {
	if rowsPerPage < 1 {
		rowsPerPage = DefaultRowsPerPage
	}
	if page < 1 {
		page = 1
	}
	total := len(rows)
	p := Page[T]{
		Total:      total,
		Page:       page,
		Limit:      rowsPerPage,
		TotalPages: (total + rowsPerPage - 1) / rowsPerPage,
		Data:       []T{},
	}
	start := (page - 1) * rowsPerPage
	if start >= total {
		return p
	}
	end := min(start+rowsPerPage, total)
	p.Data = rows[start:end]
	return p
}
