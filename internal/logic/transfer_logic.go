package logic

import (
	"errors"
	"fmt"

	"github.com/aslobodnik/safenotes/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrTransferNotFound 转账不存在
var ErrTransferNotFound = errors.New("转账不存在")

// TransfersPerPage 转账列表每页条数
const TransfersPerPage = 20

// TransferLogic 转账业务逻辑
type TransferLogic struct {
	db *gorm.DB
}

// NewTransferLogic 创建转账业务逻辑
func NewTransferLogic(db *gorm.DB) *TransferLogic {
	return &TransferLogic{db: db}
}

// GetTransfers 分页获取组织下的转账记录，按执行时间倒序
// safeAddress 非空时只查询单个钱包；includeRemoved 控制是否包含已移除钱包
func (t *TransferLogic) GetTransfers(organizationId, safeAddress string, includeRemoved bool, page int) ([]model.TransferModel, int64, error) {
	if page < 1 {
		page = 1
	}

	safeQuery := t.db.Model(&model.SafeModel{}).
		Select("address").
		Where("organization_id = ?", organizationId)
	if safeAddress != "" {
		safeQuery = safeQuery.Where("address = ?", safeAddress)
	} else if !includeRemoved {
		safeQuery = safeQuery.Where("removed = ?", false)
	}

	query := t.db.Model(&model.TransferModel{}).Where("safe_address IN (?)", safeQuery)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("统计转账记录失败: %w", err)
	}

	var transfers []model.TransferModel
	offset := (page - 1) * TransfersPerPage
	if err := query.
		Order("execution_date DESC").
		Offset(offset).
		Limit(TransfersPerPage).
		Find(&transfers).Error; err != nil {
		return nil, 0, fmt.Errorf("获取转账记录失败: %w", err)
	}

	return transfers, total, nil
}

// GetTransfer 根据ID获取单条转账
func (t *TransferLogic) GetTransfer(transferId string) (*model.TransferModel, error) {
	var transfer model.TransferModel
	if err := t.db.First(&transfer, "transfer_id = ?", transferId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("查询转账失败: %w", err)
	}
	return &transfer, nil
}

// GetTransferIdsByWallet 获取钱包下所有已存储的转账ID
func (t *TransferLogic) GetTransferIdsByWallet(safeAddress string) ([]string, error) {
	var ids []string
	if err := t.db.Model(&model.TransferModel{}).
		Where("safe_address = ?", safeAddress).
		Pluck("transfer_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("获取转账ID列表失败: %w", err)
	}
	return ids, nil
}

// WriteTransfer 写入单条转账，转账ID冲突时忽略（幂等）
func (t *TransferLogic) WriteTransfer(transfer *model.TransferModel) error {
	if transfer.TransferId == "" {
		return errors.New("转账ID不能为空")
	}
	if transfer.SafeAddress == "" {
		return errors.New("钱包地址不能为空")
	}

	if err := t.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(transfer).Error; err != nil {
		return fmt.Errorf("写入转账失败: %w", err)
	}

	return nil
}
