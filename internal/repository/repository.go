package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Profile           ProfileRepository
	Location          LocationRepository
	ActivityType      ActivityTypeRepository
	Assignment        AssignmentRepository
	Reassignment      ReassignmentRepository
	Attendance        AttendanceRepository
	WorkPhoto         WorkPhotoRepository
	AttendanceRequest AttendanceRequestRepository
	Notification      NotificationRepository
	StorageTask       StorageTaskRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Profile:           NewProfileRepo(db),
		Location:          NewLocationRepo(db),
		ActivityType:      NewActivityTypeRepo(db),
		Assignment:        NewAssignmentRepo(db),
		Reassignment:      NewReassignmentRepo(db),
		Attendance:        NewAttendanceRepo(db),
		WorkPhoto:         NewWorkPhotoRepo(db),
		AttendanceRequest: NewAttendanceRequestRepo(db),
		Notification:      NewNotificationRepo(db),
		StorageTask:       NewStorageTaskRepo(db),
	}
}
