package dto

// PageQuery 通用分页查询参数
type PageQuery struct {
	Page     int `form:"page,default=1"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

// Offset 计算 SQL 偏移量
func (q *PageQuery) Offset() int {
	page := q.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * q.Limit()
}

// Limit 返回每页条数（带默认值）
func (q *PageQuery) Limit() int {
	if q.PageSize < 1 {
		return 20
	}
	return q.PageSize
}
