package model

// 角色
const (
	RoleSuperAdmin   = "SUPER_ADMIN"
	RoleAdmin        = "ADMIN"
	RoleCollaborator = "COLLABORATOR"
)

// IsAdminRole 管理员角色（含超级管理员）
func IsAdminRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}

// Profile 账号表，对应 profiles；排班中的 employee_profile_id 即 profile_id
type Profile struct {
	ProfileID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"   json:"profile_id"`
	FullName     string `gorm:"type:varchar(100);not null"                       json:"full_name"`
	Email        string `gorm:"type:varchar(255);not null;uniqueIndex"           json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                       json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'COLLABORATOR'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true"                            json:"is_active"`
	VersionedModel

	// 关联
	Employee *Employee `gorm:"foreignKey:ProfileID;references:ProfileID" json:"employee,omitempty"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// Employee 员工档案表，对应 employees（与 profiles 1:1）
type Employee struct {
	EmployeeID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"employee_id"`
	ProfileID    string `gorm:"type:uuid;not null;uniqueIndex"                 json:"profile_id"`
	EmployeeCode string `gorm:"type:varchar(30)"                               json:"employee_code,omitempty"`
	Phone        string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	JobTitle     string `gorm:"type:varchar(100)"                              json:"job_title,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
