package dto

// ── 导出模块 DTO ──

// ExportRequest 工资单导出区间 [start, end)
type ExportRequest struct {
	TimeRange
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	LocationID string `form:"location_id" binding:"omitempty,uuid"`
}
