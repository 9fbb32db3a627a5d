package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"flowdesks/backend/config"
	"flowdesks/backend/internal/api/handler"
	"flowdesks/backend/internal/api/middleware"
	"flowdesks/backend/internal/api/router"
	"flowdesks/backend/internal/photo"
	"flowdesks/backend/internal/repository"
	"flowdesks/backend/internal/service"
	"flowdesks/backend/pkg/database"
	"flowdesks/backend/pkg/jwt"
	applogger "flowdesks/backend/pkg/logger"
	"flowdesks/backend/pkg/redis"
	"flowdesks/backend/pkg/storage"
)

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("timezone", cfg.Schedule.OperationalTimezone),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移（排他约束与存储过程随迁移下发）
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 外部依赖；接口字段只在组件可用时赋值，避免带类型的 nil
	deps := service.Deps{Pinger: database.NewPinger(db)}
	var blacklist middleware.TokenChecker

	// 4.1 Redis（可选：连接失败时降级运行，不中断启动）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单、离线快照与实时通知将不可用", zap.Error(err))
		rdb = nil
	} else {
		deps.Cache = rdb
		deps.Bus = rdb
		deps.Tokens = rdb
		blacklist = rdb
	}

	// 4.2 对象存储（可选：未配置时工作照片上传不可用）
	if oss, err := storage.NewOSS(&cfg.Storage, logger); err != nil {
		logger.Warn("对象存储不可用，工作照片上传将被拒绝", zap.Error(err))
	} else {
		deps.Storage = oss
	}

	// 4.3 照片水印
	annotator, err := photo.NewAnnotator(cfg.Attendance.MaxPhotoWidth)
	if err != nil {
		logger.Fatal("初始化照片水印失败", zap.Error(err))
	}
	deps.Annotator = annotator

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, deps, logger)
	h := handler.NewHandler(svc)

	// 6.1 存储清理任务
	if err := svc.Cleanup.Start(); err != nil {
		logger.Fatal("启动存储清理任务失败", zap.Error(err))
	}
	defer svc.Cleanup.Stop()

	// 7. 初始化路由
	engine := router.Setup(cfg, h, jwtMgr, blacklist, rdb, logger)

	// 8. 启动 HTTP 服务器（优雅关闭）
	// SSE 长连接自行解除写超时
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 9. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	if closeDB, _ := db.DB(); closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
