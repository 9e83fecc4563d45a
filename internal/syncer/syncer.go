package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aslobodnik/safenotes/internal/logger"
	"github.com/aslobodnik/safenotes/internal/metrics"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/aslobodnik/safenotes/internal/safeclient"
)

var (
	// ErrSyncInProgress 已有同步任务在运行
	ErrSyncInProgress = errors.New("已有同步任务在运行")
	// ErrInvalidLimit 每个钱包的拉取条数不在允许范围内
	ErrInvalidLimit = errors.New("每个钱包的拉取条数不在允许范围内")
	// ErrNoSafes 没有可同步的钱包
	ErrNoSafes = errors.New("没有可同步的钱包")
)

// AllowedLimits 每个钱包允许的拉取条数
var AllowedLimits = []int{10, 50, 100, 200}

// SafeStatus 单个钱包的同步状态
type SafeStatus string

const (
	StatusPending   SafeStatus = "pending"   // 等待同步
	StatusSyncing   SafeStatus = "syncing"   // 同步中
	StatusCompleted SafeStatus = "completed" // 同步完成
	StatusError     SafeStatus = "error"     // 同步失败（终态，整个运行中止）
)

// Progress 单个钱包的同步进度，任意时刻 Current = Skipped + 已写入条数
type Progress struct {
	Current int `json:"current"`
	Total   int `json:"total"`
	Skipped int `json:"skipped"`
}

// SafeState 单个钱包的状态快照
type SafeState struct {
	Status   SafeStatus `json:"status"`
	Message  string     `json:"message,omitempty"`
	Progress Progress   `json:"progress"`
}

// TransferStore 本地转账存储
type TransferStore interface {
	GetTransferIdsByWallet(safeAddress string) ([]string, error)
	WriteTransfer(transfer *model.TransferModel) error
}

// TransferSource 外部转账数据源
type TransferSource interface {
	GetTransfers(ctx context.Context, safeAddress string, limit int) ([]safeclient.Transfer, error)
}

// Syncer 转账同步编排器
// 逐个钱包、逐条转账顺序处理，每次写入后固定延迟以避免触发外部限流；
// 任何一次拉取或写入失败都会中止整个运行，剩余钱包保持pending
type Syncer struct {
	store      TransferStore
	source     TransferSource
	writeDelay time.Duration

	mu      sync.RWMutex
	status  map[string]*SafeState
	order   []string
	running bool
}

// New 创建同步编排器
func New(store TransferStore, source TransferSource, writeDelay time.Duration) *Syncer {
	return &Syncer{
		store:      store,
		source:     source,
		writeDelay: writeDelay,
		status:     make(map[string]*SafeState),
	}
}

// Start 启动一次同步运行，立即返回，同步在后台进行
// 同一时刻只允许一个运行；重复触发是安全的，转账ID唯一约束保证幂等
func (s *Syncer) Start(safes []string, limit int) error {
	if !limitAllowed(limit) {
		return ErrInvalidLimit
	}
	if len(safes) == 0 {
		return ErrNoSafes
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrSyncInProgress
	}
	s.running = true

	// 所有钱包初始化为pending
	s.status = make(map[string]*SafeState, len(safes))
	s.order = append([]string(nil), safes...)
	for _, addr := range safes {
		s.status[addr] = &SafeState{Status: StatusPending}
	}
	s.mu.Unlock()

	go s.syncAll(safes, limit)

	return nil
}

// Running 是否有同步任务在运行
func (s *Syncer) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Status 返回当前运行的状态快照，键为钱包地址
func (s *Syncer) Status() map[string]SafeState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make(map[string]SafeState, len(s.status))
	for addr, state := range s.status {
		snapshot[addr] = *state
	}
	return snapshot
}

// Order 返回本次运行中钱包的处理顺序
func (s *Syncer) Order() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// syncAll 顺序同步所有钱包，遇到错误立即中止
func (s *Syncer) syncAll(safes []string, limit int) {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	logger.Info("Starting transfer sync for %d safes with limit %d", len(safes), limit)

	for _, addr := range safes {
		if err := s.syncSafe(addr, limit); err != nil {
			// 失败即中止，剩余钱包保持pending
			logger.Error("Sync aborted at safe %s: %v", addr, err)
			metrics.SyncRunsTotal.WithLabelValues("error").Inc()
			return
		}
	}

	logger.Info("Transfer sync completed for %d safes", len(safes))
	metrics.SyncRunsTotal.WithLabelValues("completed").Inc()
}

// syncSafe 同步单个钱包
func (s *Syncer) syncSafe(addr string, limit int) error {
	s.setStatus(addr, StatusSyncing, "")

	// 查询本地已有的转账ID
	knownList, err := s.store.GetTransferIdsByWallet(addr)
	if err != nil {
		s.setStatus(addr, StatusError, err.Error())
		return err
	}
	knownIds := make(map[string]struct{}, len(knownList))
	for _, id := range knownList {
		knownIds[id] = struct{}{}
	}

	// 从外部数据源拉取最近的转账（单页）
	transfers, err := s.source.GetTransfers(context.Background(), addr, limit)
	if err != nil {
		s.setStatus(addr, StatusError, err.Error())
		return err
	}

	s.setTotal(addr, len(transfers))

	// 按拉取顺序逐条处理
	for _, transfer := range transfers {
		if _, ok := knownIds[transfer.TransferId]; ok {
			s.advance(addr, true)
			metrics.TransfersSkippedTotal.Inc()
			continue
		}

		record := toTransferModel(addr, transfer)
		if err := s.store.WriteTransfer(record); err != nil {
			// 写入失败：已写入的记录保留，不回滚
			s.setStatus(addr, StatusError, err.Error())
			return err
		}

		s.advance(addr, false)
		metrics.TransfersWrittenTotal.Inc()

		// 固定延迟，避免触发外部限流（节流，不是退避）
		if s.writeDelay > 0 {
			time.Sleep(s.writeDelay)
		}
	}

	s.setStatus(addr, StatusCompleted, "")
	return nil
}

// setStatus 更新钱包状态
func (s *Syncer) setStatus(addr string, status SafeStatus, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.status[addr]; ok {
		state.Status = status
		state.Message = message
	}
}

// setTotal 设置钱包本次拉取的总条数
func (s *Syncer) setTotal(addr string, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.status[addr]; ok {
		state.Progress.Total = total
	}
}

// advance 处理完一条转账后推进进度
func (s *Syncer) advance(addr string, skipped bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if state, ok := s.status[addr]; ok {
		state.Progress.Current++
		if skipped {
			state.Progress.Skipped++
		}
	}
}

// toTransferModel 将外部记录转换为存储模型
func toTransferModel(safeAddress string, transfer safeclient.Transfer) *model.TransferModel {
	record := &model.TransferModel{
		TransferId:      transfer.TransferId,
		SafeAddress:     safeAddress,
		Type:            transfer.Type,
		ExecutionDate:   transfer.ExecutionDate,
		BlockNumber:     transfer.BlockNumber,
		TransactionHash: transfer.TransactionHash,
		FromAddress:     transfer.From,
		ToAddress:       transfer.To,
		Value:           transfer.Value,
		TokenAddress:    transfer.TokenAddress,
	}

	if transfer.TokenInfo != nil {
		info := transfer.TokenInfo
		record.TokenName = &info.Name
		record.TokenSymbol = &info.Symbol
		decimals := info.Decimals
		record.TokenDecimals = &decimals
		if info.LogoUri != "" {
			logoUri := info.LogoUri
			record.TokenLogoUri = &logoUri
		}
	}

	return record
}

// limitAllowed 校验拉取条数
func limitAllowed(limit int) bool {
	for _, allowed := range AllowedLimits {
		if limit == allowed {
			return true
		}
	}
	return false
}
