package pagination

import "gorm.io/gorm"

const (
	DefaultPageSize = 100
	MaxPageSize     = 1000
)

// Pagination carries page-number parameters bound from the query string.
type Pagination struct {
	Page int `form:"page,default=1"`
	Size int `form:"size,default=100"`
}

// Clamp normalizes out-of-range values without raising an error.
func (p *Pagination) Clamp() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Size
}

// Apply adds LIMIT/OFFSET to a statement.
func (p Pagination) Apply(stmt *gorm.DB) *gorm.DB {
	return stmt.Offset(p.Offset()).Limit(p.Size)
}
