package dto

import "time"

// ── 通用请求参数 ──

// 分页默认值
const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PaginationRequest 列表分页参数
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage 页码，缺省为第一页
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize 每页数量，缺省 20，超过上限时截断
func (p *PaginationRequest) GetPageSize() int {
	switch {
	case p.PageSize <= 0:
		return defaultPageSize
	case p.PageSize > maxPageSize:
		return maxPageSize
	}
	return p.PageSize
}

// GetOffset 计算偏移量
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// TimeRange 半开区间 [start, end)，RFC3339 格式
type TimeRange struct {
	Start time.Time `form:"start" binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
	End   time.Time `form:"end"   binding:"required" time_format:"2006-01-02T15:04:05Z07:00"`
}

// Valid 结束时间必须晚于开始时间
func (r TimeRange) Valid() bool {
	return r.End.After(r.Start)
}
