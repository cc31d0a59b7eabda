package domain

// PaginationParams holds offset-based pagination parameters for list queries.
type PaginationParams struct {
	Page     int
	PageSize int
}

// Offset returns the item offset for the current page (0-based).
func (p PaginationParams) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}

// Bounds returns the [start, end) slice bounds of the page within a collection of n items.
// A non-positive PageSize selects everything.
func (p PaginationParams) Bounds(n int) (start, end int) {
	if p.PageSize <= 0 {
		return 0, n
	}
	if p.Page > 1 && (n == 0 || p.Page-1 > (n-1)/p.PageSize) {
		return n, n
	}
	start = min(p.Offset(), n)
	end = start + min(p.PageSize, n-start)
	return start, end
}
