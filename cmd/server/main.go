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

	"github.com/sylvinhio676-ux/GeTime2-sub001/config"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/api/handler"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/api/router"
	appcron "github.com/sylvinhio676-ux/GeTime2-sub001/internal/cron"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/repository"
	"github.com/sylvinhio676-ux/GeTime2-sub001/internal/service"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/database"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/events"
	applogger "github.com/sylvinhio676-ux/GeTime2-sub001/pkg/logger"
	"github.com/sylvinhio676-ux/GeTime2-sub001/pkg/redis"
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
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，批处理任务互斥锁与限流不可用）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，任务互斥锁与限流将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 事件总线
	hub := events.NewHub(logger)

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, hub, logger)
	h := handler.NewHandler(svc)

	// 7. 启动定时任务调度器
	scheduler := appcron.NewScheduler(&cfg.Scheduler, svc, rdb, logger)
	if err := scheduler.Start(); err != nil {
		logger.Fatal("定时任务注册失败", zap.Error(err))
	}

	// 8. 初始化路由并启动 HTTP 服务器（优雅关闭）
	engine := router.Setup(cfg, h, rdb, logger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
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

	scheduler.Stop()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	// 关闭数据库连接
	closeDB, _ := db.DB()
	if closeDB != nil {
		closeDB.Close()
	}

	// 关闭 Redis 连接
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
