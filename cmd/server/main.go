package main

import (
	"time"

	"github.com/aslobodnik/safenotes/internal/config"
	"github.com/aslobodnik/safenotes/internal/logger"
	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/repository"
	"github.com/aslobodnik/safenotes/internal/router"
	"github.com/aslobodnik/safenotes/internal/safeclient"
	"github.com/aslobodnik/safenotes/internal/syncer"
	"github.com/aslobodnik/safenotes/internal/task"
	"github.com/gin-gonic/gin"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	log, err := logger.NewFromConfig(cfg.Log)
	if err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	logger.SetDefaultLogger(log)
	defer logger.Sync()

	// 初始化数据库
	db, err := repository.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 初始化Safe交易服务客户端
	safeClient := safeclient.New(cfg.SafeApi)

	// 初始化同步编排器
	s := syncer.New(
		logic.NewTransferLogic(db),
		safeClient,
		time.Duration(cfg.Sync.WriteDelayMs)*time.Millisecond,
	)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, safeClient, s, cfg)

	// 启动定时任务（auto_interval为0时禁用自动同步）
	if cfg.Sync.AutoInterval > 0 {
		task.Start(db, s, cfg)
	}

	// 启动服务器
	logger.Info("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
