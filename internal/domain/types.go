package domain

// Pagination carries paging params and totals.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// Offset is the row offset for the current page.
func (p Pagination) Offset() int {
	if p.Page < 1 {
		return 0
	}
	return (p.Page - 1) * p.Limit
}

// NormalizePagination applies the admin list defaults (page 1, 20 rows).
func NormalizePagination(page, limit int) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return Pagination{Page: page, Limit: limit}
}
