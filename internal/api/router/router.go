package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/api/handler"
	"flowdesks/backend/internal/api/middleware"
	"flowdesks/backend/pkg/jwt"
	"flowdesks/backend/pkg/redis"
)

// 默认请求体上限；照片上传路由按配置放宽
const defaultBodyLimit = 1 << 20

const photoUploadPath = "/api/v1/assignments/:id/photos"

// Setup 初始化并返回 Gin 路由引擎
// blacklist 与 rdb 均可为 nil（Redis 不可用时降级）
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, blacklist middleware.TokenChecker, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger, "/health", "/api/v1/notifications/stream"))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders(cfg.Storage.PublicBaseURL))
	r.Use(middleware.BodyLimit(defaultBodyLimit, map[string]int64{
		photoUploadPath: uploadLimit(&cfg.Attendance),
	}))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	admin := middleware.AdminOnly()

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
			auth.POST("/refresh", middleware.RateLimit(rdb, 30, time.Minute), h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 员工账号（仅管理员）
			employees := authorized.Group("/employees", admin)
			{
				employees.GET("", h.Employee.ListEmployees)
				employees.POST("", h.Employee.CreateEmployee)
				employees.GET("/:id", h.Employee.GetEmployee)
				employees.PUT("/:id", h.Employee.UpdateEmployee)
			}

			// 作业地点
			locations := authorized.Group("/locations")
			{
				locations.GET("", h.Catalog.ListLocations)
				locations.GET("/:id", h.Catalog.GetLocation)
				locations.POST("", admin, h.Catalog.CreateLocation)
				locations.PUT("/:id", admin, h.Catalog.UpdateLocation)
				locations.DELETE("/:id", admin, h.Catalog.DeleteLocation)
			}

			// 作业类型
			activityTypes := authorized.Group("/activity-types")
			{
				activityTypes.GET("", h.Catalog.ListActivityTypes)
				activityTypes.POST("", admin, h.Catalog.CreateActivityType)
				activityTypes.PUT("/:id", admin, h.Catalog.UpdateActivityType)
				activityTypes.DELETE("/:id", admin, h.Catalog.DeleteActivityType)
			}

			// 排班
			assignments := authorized.Group("/assignments")
			{
				assignments.GET("", h.Assignment.ListAssignments) // 协作者仅可见本人（Service 层过滤）
				assignments.GET("/:id", h.Assignment.GetAssignment)
				assignments.POST("", admin, h.Assignment.SaveAssignment)
				assignments.PATCH("/:id/dates", admin, h.Assignment.UpdateDates)
				assignments.DELETE("/:id", admin, h.Assignment.DeleteAssignment)
				assignments.POST("/:id/reassign", admin, h.Assignment.Reassign)
				assignments.GET("/:id/reassignments", admin, h.Assignment.ListReassignments)

				// 打卡与照片（本人排班，Service 层鉴权）
				assignments.POST("/:id/punch", h.Attendance.Punch)
				assignments.GET("/:id/attendance", h.Attendance.GetAttendance)
				assignments.POST("/:id/photos", h.WorkPhoto.UploadPhotos)
				assignments.GET("/:id/photos", h.WorkPhoto.ListPhotos)
			}
			authorized.DELETE("/work-photos/:id", h.WorkPhoto.DeletePhoto)

			// 补卡申请
			requests := authorized.Group("/attendance-requests")
			{
				requests.POST("", h.Attendance.CreateRequest)
				requests.GET("/mine", h.Attendance.ListMyRequests)
				requests.GET("/pending", admin, h.Attendance.ListPendingRequests)
				requests.POST("/:id/review", admin, h.Attendance.ReviewRequest)
			}

			// 通知
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.GET("/stream", h.Notification.Stream)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
				notifications.POST("/:id/read", h.Notification.MarkRead)
			}

			// 导出与日历
			authorized.GET("/exports/paylist.xlsx", admin, h.Export.PaylistXLSX)
			authorized.GET("/exports/paylist.csv", admin, h.Export.PaylistCSV)
			authorized.GET("/calendar/me.ics", h.Export.MyCalendar)
		}
	}

	return r
}

// uploadLimit 单次上传请求体上限：单张上限 × 张数，另留 1MB 给表单字段
func uploadLimit(cfg *config.AttendanceConfig) int64 {
	if cfg.PhotoMaxBytes <= 0 || cfg.MaxPhotosPerPost <= 0 {
		return 0
	}
	return cfg.PhotoMaxBytes*int64(cfg.MaxPhotosPerPost) + defaultBodyLimit
}
