package task

import (
	"errors"
	"time"

	"github.com/aslobodnik/safenotes/internal/config"
	"github.com/aslobodnik/safenotes/internal/logger"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/aslobodnik/safenotes/internal/syncer"
	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// TransferSyncJob 转账同步任务
type TransferSyncJob struct {
	db     *gorm.DB
	config *config.Config
	syncer *syncer.Syncer
}

// NewTransferSyncJob 创建转账同步任务
func NewTransferSyncJob(db *gorm.DB, cfg *config.Config, s *syncer.Syncer) *TransferSyncJob {
	return &TransferSyncJob{
		db:     db,
		config: cfg,
		syncer: s,
	}
}

// GetName 获取任务名称
func (j *TransferSyncJob) GetName() string {
	return "transfer_sync"
}

// GetSchedule 获取调度配置
func (j *TransferSyncJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(time.Duration(j.config.Sync.AutoInterval) * time.Second)
}

// Execute 执行任务
func (j *TransferSyncJob) Execute() {
	logger.Info("Starting transfer sync task")

	// 查找所有未移除的钱包
	var addresses []string
	err := j.db.Model(&model.SafeModel{}).
		Where("removed = ?", false).
		Order("created_at ASC").
		Pluck("address", &addresses).Error
	if err != nil {
		logger.Error("Failed to fetch safes for sync: %v", err)
		return
	}

	if len(addresses) == 0 {
		logger.Info("Transfer sync task skipped: no safes registered")
		return
	}

	if err := j.syncer.Start(addresses, j.config.Sync.DefaultLimit); err != nil {
		// 手动触发的同步还在跑，等下一轮
		if errors.Is(err, syncer.ErrSyncInProgress) {
			logger.Info("Transfer sync task skipped: sync already in progress")
			return
		}
		logger.Error("Failed to start transfer sync: %v", err)
		return
	}

	logger.Info("Transfer sync started for %d safes", len(addresses))
}
