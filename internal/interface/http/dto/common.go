package dto

import "time"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageQuery 分页参数
type PageQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
}

// Normalize page默认1，page_size默认20、最大100
func (q *PageQuery) Normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = defaultPageSize
	}
	if q.PageSize > maxPageSize {
		q.PageSize = maxPageSize
	}
}

// RangeQuery 日期区间（YYYY-MM-DD，to当天包含在内）
type RangeQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02" example:"2024-03-01"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02" example:"2024-03-31"`
}

// FormatTime 统一的时间输出格式
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
