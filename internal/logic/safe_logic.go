package logic

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aslobodnik/safenotes/internal/logger"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/aslobodnik/safenotes/internal/safeclient"
	"github.com/ethereum/go-ethereum/common"
	"github.com/panjf2000/ants/v2"
	"gorm.io/gorm"
)

var (
	// ErrSafeNotFound 钱包不存在
	ErrSafeNotFound = errors.New("钱包不存在")
	// ErrSafeExists 钱包已存在
	ErrSafeExists = errors.New("钱包已存在")
	// ErrInvalidAddress 钱包地址格式不合法
	ErrInvalidAddress = errors.New("钱包地址格式不合法")
)

// SafeLogic 多签钱包业务逻辑
type SafeLogic struct {
	db         *gorm.DB
	safeClient *safeclient.Client
}

// NewSafeLogic 创建钱包业务逻辑
func NewSafeLogic(db *gorm.DB, safeClient *safeclient.Client) *SafeLogic {
	return &SafeLogic{db: db, safeClient: safeClient}
}

// GetSafesByOrganization 获取组织下的钱包列表
func (s *SafeLogic) GetSafesByOrganization(organizationId string, includeRemoved bool) ([]model.SafeModel, error) {
	var safes []model.SafeModel

	query := s.db.Where("organization_id = ?", organizationId)
	if !includeRemoved {
		query = query.Where("removed = ?", false)
	}

	if err := query.Order("created_at ASC").Find(&safes).Error; err != nil {
		return nil, fmt.Errorf("获取钱包列表失败: %w", err)
	}

	return safes, nil
}

// GetSafeByAddress 根据地址获取钱包
func (s *SafeLogic) GetSafeByAddress(address string) (*model.SafeModel, error) {
	var safe model.SafeModel
	if err := s.db.First(&safe, "address = ?", address).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSafeNotFound
		}
		return nil, fmt.Errorf("查询钱包失败: %w", err)
	}
	return &safe, nil
}

// GetActiveSafeAddresses 获取组织下所有未移除钱包的地址，供同步使用
func (s *SafeLogic) GetActiveSafeAddresses(organizationId string) ([]string, error) {
	safes, err := s.GetSafesByOrganization(organizationId, false)
	if err != nil {
		return nil, err
	}

	addresses := make([]string, len(safes))
	for i, safe := range safes {
		addresses[i] = safe.Address
	}
	return addresses, nil
}

// CreateSafe 创建钱包
func (s *SafeLogic) CreateSafe(address, organizationId string) (*model.SafeModel, error) {
	if !common.IsHexAddress(address) {
		return nil, ErrInvalidAddress
	}

	// 统一存储EIP-55校验和格式
	checksummed := common.HexToAddress(address).Hex()

	// 确认组织存在
	var org model.OrganizationModel
	if err := s.db.First(&org, "id = ?", organizationId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("查询组织失败: %w", err)
	}

	var count int64
	s.db.Model(&model.SafeModel{}).Where("address = ?", checksummed).Count(&count)
	if count > 0 {
		return nil, ErrSafeExists
	}

	safe := &model.SafeModel{
		Address:        checksummed,
		OrganizationId: organizationId,
	}
	if err := s.db.Create(safe).Error; err != nil {
		return nil, fmt.Errorf("创建钱包失败: %w", err)
	}

	return safe, nil
}

// SoftDeleteSafe 软删除钱包，保留历史转账记录
func (s *SafeLogic) SoftDeleteSafe(address string) error {
	now := time.Now()
	result := s.db.Model(&model.SafeModel{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{
			"removed":    true,
			"removed_at": &now,
		})
	if result.Error != nil {
		return fmt.Errorf("移除钱包失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSafeNotFound
	}
	return nil
}

// RestoreSafe 恢复软删除的钱包
func (s *SafeLogic) RestoreSafe(address string) error {
	result := s.db.Model(&model.SafeModel{}).
		Where("address = ?", address).
		Updates(map[string]interface{}{
			"removed":    false,
			"removed_at": nil,
		})
	if result.Error != nil {
		return fmt.Errorf("恢复钱包失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSafeNotFound
	}
	return nil
}

// SafeOverview 钱包链上概览（余额和签名人信息，仅用于展示）
type SafeOverview struct {
	Address   string               `json:"address"`
	Removed   bool                 `json:"removed"`
	Owners    []string             `json:"owners"`
	Threshold int                  `json:"threshold"`
	Balances  []safeclient.Balance `json:"balances"`
	Error     string               `json:"error,omitempty"`
}

// GetSafeOverviews 并发获取组织下所有钱包的链上概览
func (s *SafeLogic) GetSafeOverviews(ctx context.Context, organizationId string) ([]SafeOverview, error) {
	safes, err := s.GetSafesByOrganization(organizationId, false)
	if err != nil {
		return nil, err
	}
	if len(safes) == 0 {
		return []SafeOverview{}, nil
	}

	overviews := make([]SafeOverview, len(safes))

	// 创建临时协程池，大小等于钱包数量
	pool, err := ants.NewPool(len(safes))
	if err != nil {
		return nil, fmt.Errorf("failed to create pool for %d safes: %w", len(safes), err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, safe := range safes {
		i, safe := i, safe
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			overviews[i] = s.fetchSafeOverview(ctx, safe)
		})
		if err != nil {
			wg.Done()
			logger.Error("Failed to submit overview task to pool: %v", err)
		}
	}
	wg.Wait()

	return overviews, nil
}

// fetchSafeOverview 获取单个钱包的概览信息
func (s *SafeLogic) fetchSafeOverview(ctx context.Context, safe model.SafeModel) SafeOverview {
	overview := SafeOverview{
		Address: safe.Address,
		Removed: safe.Removed,
	}

	info, err := s.safeClient.GetSafeInfo(ctx, safe.Address)
	if err != nil {
		logger.Warn("Failed to fetch info for safe %s: %v", safe.Address, err)
		overview.Error = err.Error()
		return overview
	}
	overview.Owners = info.Owners
	overview.Threshold = info.Threshold

	balances, err := s.safeClient.GetBalances(ctx, safe.Address)
	if err != nil {
		logger.Warn("Failed to fetch balances for safe %s: %v", safe.Address, err)
		overview.Error = err.Error()
		return overview
	}
	overview.Balances = balances

	return overview
}
