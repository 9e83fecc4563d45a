package task

import (
	"github.com/aslobodnik/safenotes/internal/config"
	"github.com/aslobodnik/safenotes/internal/logger"
	"github.com/aslobodnik/safenotes/internal/syncer"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// Manager 任务管理器
type Manager struct {
	scheduler gocron.Scheduler
	db        *gorm.DB
	syncer    *syncer.Syncer
	config    *config.Config
}

// NewManager 创建新的任务管理器
func NewManager(db *gorm.DB, s *syncer.Syncer, cfg *config.Config) *Manager {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		logger.Fatal("Failed to create scheduler: %v", err)
	}

	return &Manager{
		scheduler: scheduler,
		db:        db,
		syncer:    s,
		config:    cfg,
	}
}

// Start 启动任务管理器
func Start(db *gorm.DB, s *syncer.Syncer, cfg *config.Config) {
	manager := NewManager(db, s, cfg)

	// 注册所有任务
	manager.RegisterJobs()

	// 启动调度器
	manager.scheduler.Start()

	logger.Info("Task manager started successfully")
}

// RegisterJobs 注册所有任务
func (m *Manager) RegisterJobs() {
	// 注册转账同步任务
	m.RegisterTransferSyncJob()
}

// RegisterTransferSyncJob 注册转账同步任务
func (m *Manager) RegisterTransferSyncJob() {
	job := NewTransferSyncJob(m.db, m.config, m.syncer)

	_, err := m.scheduler.NewJob(
		job.GetSchedule(),
		gocron.NewTask(job.Execute),
		gocron.WithName(job.GetName()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		logger.Error("Failed to register job %s: %v", job.GetName(), err)
	}
}

// Stop 停止任务管理器
func (m *Manager) Stop() {
	if err := m.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shutdown scheduler: %v", err)
	}
	logger.Info("Task manager stopped")
}
