package model

import "time"

// 排班状态
const (
	AssignmentPlanned   = "PLANNED"
	AssignmentConfirmed = "CONFIRMED"
	AssignmentCancelled = "CANCELLED"
)

// Assignment 排班表，对应 assignments
// 同一员工的 [start_at, end_at) 不允许重叠，由排他约束 assignments_no_overlap 保证
type Assignment struct {
	AssignmentID      string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"assignment_id"`
	EmployeeProfileID string    `gorm:"type:uuid;not null;index"                       json:"employee_profile_id"`
	StartAt           time.Time `gorm:"not null"                                       json:"start_at"`
	EndAt             time.Time `gorm:"not null"                                       json:"end_at"`
	LocationID        *string   `gorm:"type:uuid"                                      json:"location_id,omitempty"`
	ActivityTypeID    *string   `gorm:"type:uuid"                                      json:"activity_type_id,omitempty"`
	Details           string    `gorm:"type:text"                                      json:"details,omitempty"`
	RecurrenceGroupID *string   `gorm:"type:uuid;index"                                json:"recurrence_group_id,omitempty"`
	Status            string    `gorm:"type:varchar(20);not null;default:'PLANNED'"    json:"status"`

	// 工资构成
	QtyOfHourDays float64  `gorm:"type:numeric(10,2);not null;default:0" json:"qty_of_hour_days"`
	HourlyRate    float64  `gorm:"type:numeric(12,2);not null;default:0" json:"hourly_rate"`
	DailyRate     float64  `gorm:"type:numeric(12,2);not null;default:0" json:"daily_rate"`
	FixedWage     float64  `gorm:"type:numeric(12,2);not null;default:0" json:"fixed_wage"`
	Expenses      float64  `gorm:"type:numeric(12,2);not null;default:0" json:"expenses"`
	Extras        float64  `gorm:"type:numeric(12,2);not null;default:0" json:"extras"`
	Deductions    float64  `gorm:"type:numeric(12,2);not null;default:0" json:"deductions"`
	TotalAmount   *float64 `gorm:"type:numeric(12,2)"                    json:"total_amount,omitempty"`

	// 地点快照（保存时从 locations 复制）
	EstablishmentName  string `gorm:"type:varchar(100)" json:"establishment_name,omitempty"`
	AssignmentAddress  string `gorm:"type:varchar(200)" json:"assignment_address,omitempty"`
	AssignmentLocation string `gorm:"type:varchar(500)" json:"assignment_location,omitempty"`
	AssignmentState    string `gorm:"type:varchar(50)"  json:"assignment_state,omitempty"`
	VersionedModel

	// 关联
	Employee     *Profile              `gorm:"foreignKey:EmployeeProfileID;references:ProfileID"  json:"employee,omitempty"`
	Location     *Location             `gorm:"foreignKey:LocationID;references:LocationID"         json:"location,omitempty"`
	ActivityType *ActivityType         `gorm:"foreignKey:ActivityTypeID;references:ActivityTypeID" json:"activity_type,omitempty"`
	Attendance   *AssignmentAttendance `gorm:"foreignKey:AssignmentID;references:AssignmentID"     json:"attendance,omitempty"`
	WorkPhotos   []AssignmentWorkPhoto `gorm:"foreignKey:AssignmentID;references:AssignmentID"     json:"work_photos,omitempty"`
}

// TableName 指定表名
func (Assignment) TableName() string { return "assignments" }

// ReassignmentLog 排班转派记录表，对应 reassignment_logs（纯审计日志）
type ReassignmentLog struct {
	ReassignmentLogID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"reassignment_log_id"`
	AssignmentID          string    `gorm:"type:uuid;not null;index"                       json:"assignment_id"`
	FromEmployeeProfileID string    `gorm:"type:uuid;not null"                             json:"from_employee_profile_id"`
	ToEmployeeProfileID   string    `gorm:"type:uuid;not null"                             json:"to_employee_profile_id"`
	Reason                string    `gorm:"type:varchar(500)"                              json:"reason,omitempty"`
	DoneBy                string    `gorm:"type:uuid;not null"                             json:"done_by"`
	CreatedAt             time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"created_at"`
}

// TableName 指定表名
func (ReassignmentLog) TableName() string { return "reassignment_logs" }
