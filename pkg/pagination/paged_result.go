package pagination

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

// NewPage clamps number and size into range.
func NewPage(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

// Offset is the number of rows to skip.
func (p Page) Offset() int { return (p.Number - 1) * p.Size }

// PagedResult is one page of items plus the totals needed to navigate.
type PagedResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"total_count"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
}

func NewPagedResult[T any](items []T, total int64, page Page) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	return PagedResult[T]{Items: items, TotalCount: total, PageNumber: page.Number, PageSize: page.Size}
}

func (r PagedResult[T]) TotalPages() int {
	if r.PageSize <= 0 {
		return 0
	}
	return int((r.TotalCount + int64(r.PageSize) - 1) / int64(r.PageSize))
}

func (r PagedResult[T]) HasPreviousPage() bool { return r.PageNumber > 1 }

func (r PagedResult[T]) HasNextPage() bool { return r.PageNumber < r.TotalPages() }
