package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrAdminExists 该钱包已是组织管理员
	ErrAdminExists = errors.New("该钱包已是组织管理员")
	// ErrAdminNotFound 管理员不存在
	ErrAdminNotFound = errors.New("管理员不存在")
	// ErrNotAuthorized 未授权
	ErrNotAuthorized = errors.New("未授权")
)

// AdminLogic 管理员授权业务逻辑
// 超级管理员列表在构造时注入，不依赖全局状态
type AdminLogic struct {
	db          *gorm.DB
	superAdmins []string
}

// NewAdminLogic 创建管理员业务逻辑
func NewAdminLogic(db *gorm.DB, superAdmins []string) *AdminLogic {
	return &AdminLogic{db: db, superAdmins: superAdmins}
}

// IsSuperAdmin 判断钱包是否为超级管理员（大小写敏感的精确匹配）
func (a *AdminLogic) IsSuperAdmin(walletAddress string) bool {
	for _, admin := range a.superAdmins {
		if admin == walletAddress {
			return true
		}
	}
	return false
}

// IsAdmin 判断钱包是否可以管理指定组织
// 超级管理员对所有组织生效；组织管理员按地址做大小写不敏感匹配
func (a *AdminLogic) IsAdmin(walletAddress, organizationId string) (bool, error) {
	if a.IsSuperAdmin(walletAddress) {
		return true, nil
	}

	admins, err := a.GetOrgAdmins(organizationId)
	if err != nil {
		return false, err
	}

	lowered := strings.ToLower(walletAddress)
	for _, admin := range admins {
		if strings.ToLower(admin.WalletAddress) == lowered {
			return true, nil
		}
	}

	return false, nil
}

// GetOrgAdmins 获取组织管理员列表
func (a *AdminLogic) GetOrgAdmins(organizationId string) ([]model.OrgAdminModel, error) {
	var admins []model.OrgAdminModel
	if err := a.db.Where("organization_id = ?", organizationId).
		Order("created_at ASC").
		Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("获取管理员列表失败: %w", err)
	}
	return admins, nil
}

// AddOrgAdmin 为组织添加管理员
func (a *AdminLogic) AddOrgAdmin(organizationId, walletAddress string) ([]model.OrgAdminModel, error) {
	if !common.IsHexAddress(walletAddress) {
		return nil, ErrInvalidAddress
	}

	// 统一存储EIP-55校验和格式
	checksummed := common.HexToAddress(walletAddress).Hex()

	// 确认组织存在
	var org model.OrganizationModel
	if err := a.db.First(&org, "id = ?", organizationId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("查询组织失败: %w", err)
	}

	var count int64
	a.db.Model(&model.OrgAdminModel{}).
		Where("organization_id = ? AND wallet_address = ?", organizationId, checksummed).
		Count(&count)
	if count > 0 {
		return nil, ErrAdminExists
	}

	admin := &model.OrgAdminModel{
		Id:             uuid.NewString(),
		OrganizationId: organizationId,
		WalletAddress:  checksummed,
	}
	if err := a.db.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("添加管理员失败: %w", err)
	}

	return a.GetOrgAdmins(organizationId)
}

// RemoveOrgAdmin 移除组织管理员
func (a *AdminLogic) RemoveOrgAdmin(organizationId, walletAddress string) ([]model.OrgAdminModel, error) {
	if !common.IsHexAddress(walletAddress) {
		return nil, ErrInvalidAddress
	}
	checksummed := common.HexToAddress(walletAddress).Hex()

	result := a.db.Delete(&model.OrgAdminModel{},
		"organization_id = ? AND wallet_address = ?", organizationId, checksummed)
	if result.Error != nil {
		return nil, fmt.Errorf("移除管理员失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrAdminNotFound
	}

	return a.GetOrgAdmins(organizationId)
}
