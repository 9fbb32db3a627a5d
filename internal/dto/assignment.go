package dto

import "time"

// ── 排班模块 DTO ──

// 组内排班的修改范围
const (
	ScopeSingle = "single"
	ScopeSeries = "series"
)

// WageFields 工资构成字段
type WageFields struct {
	QtyOfHourDays float64 `json:"qty_of_hour_days" binding:"gte=0"`
	HourlyRate    float64 `json:"hourly_rate"      binding:"gte=0"`
	DailyRate     float64 `json:"daily_rate"       binding:"gte=0"`
	FixedWage     float64 `json:"fixed_wage"       binding:"gte=0"`
	Expenses      float64 `json:"expenses"         binding:"gte=0"`
	Extras        float64 `json:"extras"           binding:"gte=0"`
	Deductions    float64 `json:"deductions"       binding:"gte=0"`
}

// SaveAssignmentRequest 保存排班（assignment_id 为空时新建，否则编辑）
//
// 新建时 repeat_count > 0 额外生成 repeat_count 条重复排班；编辑时忽略重复设置。
// 编辑属于重复组的排班时必须给出 scope。
type SaveAssignmentRequest struct {
	AssignmentID       *string   `json:"assignment_id"        binding:"omitempty,uuid"`
	EmployeeProfileID  string    `json:"employee_profile_id"  binding:"required,uuid"`
	StartAt            time.Time `json:"start_at"             binding:"required"`
	EndAt              time.Time `json:"end_at"               binding:"required"`
	LocationID         *string   `json:"location_id"          binding:"omitempty,uuid"`
	ActivityTypeID     *string   `json:"activity_type_id"     binding:"omitempty,uuid"`
	Details            string    `json:"details"              binding:"omitempty,max=2000"`
	RecurrenceGroupID  *string   `json:"recurrence_group_id"  binding:"omitempty,uuid"`
	Status             string    `json:"status"               binding:"omitempty,oneof=PLANNED CONFIRMED CANCELLED"`
	RepeatCount        int       `json:"repeat_count"`
	RepeatIntervalDays *int      `json:"repeat_interval_days"`
	Scope              string    `json:"scope"                binding:"omitempty,oneof=single series"`
	Version            int       `json:"version"              binding:"omitempty,min=1"`
	WageFields
}

// IsCreate 是否为新建
func (r *SaveAssignmentRequest) IsCreate() bool {
	return r.AssignmentID == nil || *r.AssignmentID == ""
}

// SaveAssignmentResponse 保存结果
type SaveAssignmentResponse struct {
	Assignment     AssignmentResponse `json:"assignment"`
	CreatedRepeats int                `json:"created_repeats"`          // 新建的重复排班数（不含基础排班）
	SeriesUpdated  int64              `json:"series_updated,omitempty"` // 整组编辑时受影响的排班数
}

// AssignmentListRequest 日历区间查询
type AssignmentListRequest struct {
	TimeRange
	EmployeeID     string `form:"employee_id"      binding:"omitempty,uuid"`
	LocationID     string `form:"location_id"      binding:"omitempty,uuid"`
	ActivityTypeID string `form:"activity_type_id" binding:"omitempty,uuid"`
	Status         string `form:"status"           binding:"omitempty,oneof=PLANNED CONFIRMED CANCELLED"`
}

// AssignmentListResponse 区间查询结果；stale 为 true 表示数据库不可达时返回的离线快照
type AssignmentListResponse struct {
	List      []AssignmentResponse `json:"list"`
	Stale     bool                 `json:"stale"`
	FetchedAt string               `json:"fetched_at"`
}

// UpdateDatesRequest 拖拽调整时间
type UpdateDatesRequest struct {
	StartAt time.Time `json:"start_at" binding:"required"`
	EndAt   time.Time `json:"end_at"   binding:"required"`
}

// DeleteAssignmentRequest 删除参数
type DeleteAssignmentRequest struct {
	Scope string `form:"scope" binding:"omitempty,oneof=single series"`
}

// DeleteAssignmentResponse 删除结果
type DeleteAssignmentResponse struct {
	Deleted int64 `json:"deleted"`
}

// ReassignRequest 转派请求
type ReassignRequest struct {
	ToEmployeeProfileID string `json:"to_employee_profile_id" binding:"required,uuid"`
	Reason              string `json:"reason"                 binding:"omitempty,max=500"`
}

// AssignmentResponse 排班信息
type AssignmentResponse struct {
	ID                 string   `json:"id"`
	EmployeeProfileID  string   `json:"employee_profile_id"`
	EmployeeName       string   `json:"employee_name,omitempty"`
	StartAt            string   `json:"start_at"`
	EndAt              string   `json:"end_at"`
	LocationID         *string  `json:"location_id,omitempty"`
	LocationName       string   `json:"location_name,omitempty"`
	ActivityTypeID     *string  `json:"activity_type_id,omitempty"`
	ActivityTypeName   string   `json:"activity_type_name,omitempty"`
	Details            string   `json:"details,omitempty"`
	RecurrenceGroupID  *string  `json:"recurrence_group_id,omitempty"`
	Status             string   `json:"status"`
	TotalAmount        *float64 `json:"total_amount,omitempty"`
	EstablishmentName  string   `json:"establishment_name,omitempty"`
	AssignmentAddress  string   `json:"assignment_address,omitempty"`
	AssignmentLocation string   `json:"assignment_location,omitempty"`
	AssignmentState    string   `json:"assignment_state,omitempty"`
	DayBucket          string   `json:"day_bucket"`
	Version            int      `json:"version"`
	WageFields

	Attendance *AttendanceResponse `json:"attendance,omitempty"`
	WorkPhotos []WorkPhotoResponse `json:"work_photos,omitempty"`
}

// ReassignmentLogResponse 转派记录
type ReassignmentLogResponse struct {
	ID                    string `json:"id"`
	AssignmentID          string `json:"assignment_id"`
	FromEmployeeProfileID string `json:"from_employee_profile_id"`
	ToEmployeeProfileID   string `json:"to_employee_profile_id"`
	Reason                string `json:"reason,omitempty"`
	DoneBy                string `json:"done_by"`
	CreatedAt             string `json:"created_at"`
}
