package handler

import "flowdesks/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	Employee     *EmployeeHandler
	Catalog      *CatalogHandler
	Assignment   *AssignmentHandler
	Attendance   *AttendanceHandler
	WorkPhoto    *WorkPhotoHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		Employee:     NewEmployeeHandler(svc.Employee),
		Catalog:      NewCatalogHandler(svc.Location, svc.ActivityType),
		Assignment:   NewAssignmentHandler(svc.Assignment),
		Attendance:   NewAttendanceHandler(svc.Attendance, svc.AttendanceRequest),
		WorkPhoto:    NewWorkPhotoHandler(svc.WorkPhoto),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export, svc.Calendar),
	}
}
