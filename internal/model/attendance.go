package model

import "time"

// 打卡状态
const (
	AttendanceNotStarted = "NOT_STARTED"
	AttendanceCheckedIn  = "CHECKED_IN"
	AttendanceDone       = "DONE"
)

// AssignmentAttendance 排班打卡记录表，对应 assignment_attendances（与 assignments 1:1）
// 首次打卡成功时由 punch_assignment 创建
type AssignmentAttendance struct {
	AssignmentID   string     `gorm:"type:uuid;primaryKey"                            json:"assignment_id"`
	CheckInAt      *time.Time `json:"check_in_at,omitempty"`
	CheckOutAt     *time.Time `json:"check_out_at,omitempty"`
	BeforePhotoURL *string    `gorm:"type:varchar(500)"                               json:"before_photo_url,omitempty"`
	AfterPhotoURL  *string    `gorm:"type:varchar(500)"                               json:"after_photo_url,omitempty"`
	Status         string     `gorm:"type:varchar(20);not null;default:'NOT_STARTED'" json:"status"`
	Done           bool       `gorm:"not null;default:false"                          json:"done"`
	BaseModel
}

// TableName 指定表名
func (AssignmentAttendance) TableName() string { return "assignment_attendances" }

// 工作照片阶段
const (
	PhaseBefore = "BEFORE"
	PhaseAfter  = "AFTER"
)

// AssignmentWorkPhoto 工作照片表，对应 assignment_work_photos
type AssignmentWorkPhoto struct {
	WorkPhotoID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"work_photo_id"`
	AssignmentID      string     `gorm:"type:uuid;not null;index"                       json:"assignment_id"`
	EmployeeProfileID string     `gorm:"type:uuid;not null"                             json:"employee_profile_id"`
	Phase             string     `gorm:"type:varchar(10);not null"                      json:"phase"`
	PhotoURL          string     `gorm:"type:varchar(500);not null"                     json:"photo_url"`
	StoragePath       string     `gorm:"type:varchar(300);not null"                     json:"-"`
	CapturedAt        *time.Time `json:"captured_at,omitempty"`
	Latitude          *float64   `gorm:"type:double precision"                          json:"latitude,omitempty"`
	Longitude         *float64   `gorm:"type:double precision"                          json:"longitude,omitempty"`
	AccuracyM         *float64   `gorm:"type:double precision"                          json:"accuracy_m,omitempty"`
	HeadingDeg        *float64   `gorm:"type:double precision"                          json:"heading_deg,omitempty"`
	LocationName      string     `gorm:"type:varchar(100)"                              json:"location_name,omitempty"`
	LocationAddress   string     `gorm:"type:varchar(200)"                              json:"location_address,omitempty"`
	LocationMapsURL   string     `gorm:"type:varchar(500)"                              json:"location_maps_url,omitempty"`
	CreatedAt         time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (AssignmentWorkPhoto) TableName() string { return "assignment_work_photos" }

// 补卡申请
const (
	RequestPending  = "PENDING"
	RequestApproved = "APPROVED"
	RequestRejected = "REJECTED"

	RequestTypeIn  = "IN"
	RequestTypeOut = "OUT"
)

// AttendanceAdjustmentRequest 补卡申请表，对应 assignment_attendance_requests
type AttendanceAdjustmentRequest struct {
	RequestID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"request_id"`
	AssignmentID      string     `gorm:"type:uuid;not null;index"                       json:"assignment_id"`
	EmployeeProfileID string     `gorm:"type:uuid;not null"                             json:"employee_profile_id"`
	RequestType       string     `gorm:"type:varchar(5);not null"                       json:"request_type"` // IN | OUT
	RequestedTime     time.Time  `gorm:"not null"                                       json:"requested_time"`
	Reason            string     `gorm:"type:varchar(500);not null"                     json:"reason"`
	Status            string     `gorm:"type:varchar(20);not null;default:'PENDING'"    json:"status"`
	ReviewNote        *string    `gorm:"type:varchar(500)"                              json:"review_note,omitempty"`
	ReviewedBy        *string    `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`
	BaseModel

	// 关联
	Assignment *Assignment `gorm:"foreignKey:AssignmentID;references:AssignmentID"     json:"assignment,omitempty"`
	Employee   *Profile    `gorm:"foreignKey:EmployeeProfileID;references:ProfileID"   json:"employee,omitempty"`
}

// TableName 指定表名
func (AttendanceAdjustmentRequest) TableName() string { return "assignment_attendance_requests" }
