package dto

import (
	"time"

	"flowdesks/backend/internal/attendance"
)

// ── 打卡模块 DTO ──

// PunchRequest 打卡请求；geo 可为空（签到时数据库过程可能要求定位）
type PunchRequest struct {
	Action   string              `json:"action"    binding:"required,oneof=IN OUT in out"`
	PhotoURL *string             `json:"photo_url" binding:"omitempty,url,max=500"`
	Geo      *attendance.Reading `json:"geo"`
}

// AttendanceResponse 打卡记录
type AttendanceResponse struct {
	AssignmentID   string  `json:"assignment_id"`
	Status         string  `json:"status"`
	Done           bool    `json:"done"`
	CheckInAt      *string `json:"check_in_at,omitempty"`
	CheckOutAt     *string `json:"check_out_at,omitempty"`
	BeforePhotoURL *string `json:"before_photo_url,omitempty"`
	AfterPhotoURL  *string `json:"after_photo_url,omitempty"`
}

// ── 工作照片 ──

// UploadWorkPhotosRequest 上传工作照片的表单字段（文件由 Handler 读出后填入 Files）
type UploadWorkPhotosRequest struct {
	Phase           string     `form:"phase"             binding:"required,oneof=BEFORE AFTER"`
	CapturedAt      *time.Time `form:"captured_at"       time_format:"2006-01-02T15:04:05Z07:00"`
	Latitude        *float64   `form:"lat"`
	Longitude       *float64   `form:"lng"`
	AccuracyM       *float64   `form:"accuracy_m"`
	HeadingDeg      *float64   `form:"heading_deg"`
	LocationName    string     `form:"location_name"     binding:"omitempty,max=100"`
	LocationAddress string     `form:"location_address"  binding:"omitempty,max=200"`
	LocationMapsURL string     `form:"location_maps_url" binding:"omitempty,max=500"`

	Files []UploadedFile `form:"-"`
}

// Reading 表单中的定位读数；经纬度任一缺失视为未提供定位
func (r *UploadWorkPhotosRequest) Reading() *attendance.Reading {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &attendance.Reading{
		Latitude:   *r.Latitude,
		Longitude:  *r.Longitude,
		AccuracyM:  r.AccuracyM,
		HeadingDeg: r.HeadingDeg,
	}
}

// UploadedFile 一个已读入内存的上传文件
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// WorkPhotoResponse 工作照片
type WorkPhotoResponse struct {
	ID                string   `json:"id"`
	AssignmentID      string   `json:"assignment_id"`
	EmployeeProfileID string   `json:"employee_profile_id"`
	Phase             string   `json:"phase"`
	PhotoURL          string   `json:"photo_url"`
	CapturedAt        *string  `json:"captured_at,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	AccuracyM         *float64 `json:"accuracy_m,omitempty"`
	HeadingDeg        *float64 `json:"heading_deg,omitempty"`
	LocationName      string   `json:"location_name,omitempty"`
	LocationAddress   string   `json:"location_address,omitempty"`
	LocationMapsURL   string   `json:"location_maps_url,omitempty"`
	CreatedAt         string   `json:"created_at"`
}

// ── 补卡申请 ──

// CreateAttendanceRequestRequest 提交补卡申请
type CreateAttendanceRequestRequest struct {
	AssignmentID  string    `json:"assignment_id"  binding:"required,uuid"`
	RequestType   string    `json:"request_type"   binding:"required,oneof=IN OUT"`
	RequestedTime time.Time `json:"requested_time" binding:"required"`
	Reason        string    `json:"reason"         binding:"required,min=3,max=500"`
}

// ReviewAttendanceRequestRequest 审核补卡申请
type ReviewAttendanceRequestRequest struct {
	Approve    *bool   `json:"approve"     binding:"required"`
	ReviewNote *string `json:"review_note" binding:"omitempty,max=500"`
}

// AttendanceRequestResponse 补卡申请
type AttendanceRequestResponse struct {
	ID                string  `json:"id"`
	AssignmentID      string  `json:"assignment_id"`
	EmployeeProfileID string  `json:"employee_profile_id"`
	EmployeeName      string  `json:"employee_name,omitempty"`
	AssignmentStartAt string  `json:"assignment_start_at,omitempty"`
	RequestType       string  `json:"request_type"`
	RequestedTime     string  `json:"requested_time"`
	Reason            string  `json:"reason"`
	Status            string  `json:"status"`
	ReviewNote        *string `json:"review_note,omitempty"`
	ReviewedBy        *string `json:"reviewed_by,omitempty"`
	ReviewedAt        *string `json:"reviewed_at,omitempty"`
	CreatedAt         string  `json:"created_at"`
}
