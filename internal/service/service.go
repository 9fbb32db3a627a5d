package service

import (
	"go.uber.org/zap"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/pkg/jwt"
	"flowdesks/backend/pkg/storage"
)

// Deps Service 依赖的外部组件；Redis 不可用时 Cache/Bus/Tokens 为 nil，对应功能降级
type Deps struct {
	Pinger    Pinger
	Cache     SnapshotCache
	Bus       NotificationBus
	Tokens    TokenBlacklist
	Storage   storage.ObjectStorage
	Annotator PhotoAnnotator
}

// Service 所有 Service 的聚合入口
type Service struct {
	Auth              AuthService
	Employee          EmployeeService
	Location          LocationService
	ActivityType      ActivityTypeService
	Assignment        AssignmentService
	Attendance        AttendanceService
	WorkPhoto         WorkPhotoService
	AttendanceRequest AttendanceRequestService
	Notification      NotificationService
	Export            ExportService
	Calendar          CalendarService
	Cleanup           *CleanupSweeper
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	deps Deps,
	logger *zap.Logger,
) *Service {
	notification := NewNotificationService(repo, deps.Bus, logger)
	tz := cfg.Schedule.Location()

	return &Service{
		Auth:              NewAuthService(repo, jwtMgr, deps.Tokens, logger),
		Employee:          NewEmployeeService(repo, logger),
		Location:          NewLocationService(repo, logger),
		ActivityType:      NewActivityTypeService(repo, logger),
		Assignment:        NewAssignmentService(repo, deps.Pinger, deps.Cache, notification, &cfg.Schedule, logger),
		Attendance:        NewAttendanceService(repo, deps.Pinger, logger),
		WorkPhoto:         NewWorkPhotoService(repo, deps.Pinger, deps.Storage, deps.Annotator, &cfg.Attendance, tz, logger),
		AttendanceRequest: NewAttendanceRequestService(repo, deps.Pinger, notification, logger),
		Notification:      notification,
		Export:            NewExportService(repo, tz, logger),
		Calendar:          NewCalendarService(repo, tz, logger),
		Cleanup:           NewCleanupSweeper(repo.StorageTask, deps.Storage, &cfg.Cleanup, logger),
	}
}
