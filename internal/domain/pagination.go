package domain

const (
	DefaultLimit  = 5
	DefaultOffset = 0
)

// Pagination 绑定 ?limit=&offset=
type Pagination struct {
	Limit  int `form:"limit,default=5" binding:"min=1"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// Normalize 补默认值（直接调用 service 时不经过 binding）
func (p Pagination) Normalize() Pagination {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = DefaultOffset
	}
	return p
}
