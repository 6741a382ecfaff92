// Package pagination provides page/pageSize windowing for read-only result
// lists. Stores accept Params and return totals; the surrounding API shapes
// the Page envelope.
package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Params selects one window of a finite, restartable result list.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps the parameters to sane bounds. Page numbering is 1-based.
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// Offset returns the number of rows to skip for this window.
func (p Params) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.PageSize
}

// Limit returns the window size.
func (p Params) Limit() int {
	return p.Normalize().PageSize
}

// Page is one window of results plus enough metadata to restart the cursor.
type Page[T any] struct {
	Items    []T   `json:"items"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Total    int64 `json:"total"`
}

// NewPage builds a result window from items and the total row count.
func NewPage[T any](items []T, params Params, total int64) Page[T] {
	n := params.Normalize()
	return Page[T]{Items: items, Page: n.Page, PageSize: n.PageSize, Total: total}
}
