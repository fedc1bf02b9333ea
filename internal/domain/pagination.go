package domain

// PaginationParams selects one page of a list query. The zero value means
// "every row"; report queries rely on that to aggregate whole tables.
type PaginationParams struct {
	Page     int
	PageSize int
}

// FirstN returns params for the first n rows.
func FirstN(n int) PaginationParams {
	return PaginationParams{Page: 1, PageSize: n}
}

// Unbounded reports whether the params select every row.
func (p PaginationParams) Unbounded() bool {
	return p.PageSize <= 0
}

// Offset is the number of rows skipped before the page. Pages below 1 count as the first.
func (p PaginationParams) Offset() int {
	if p.Page < 1 || p.Unbounded() {
		return 0
	}
	return (p.Page - 1) * p.PageSize
}
