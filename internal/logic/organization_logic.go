package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrOrgNotFound 组织不存在
	ErrOrgNotFound = errors.New("组织不存在")
	// ErrOrgExists 组织名称或slug已存在
	ErrOrgExists = errors.New("组织名称或slug已存在")
)

// OrganizationLogic 组织业务逻辑
type OrganizationLogic struct {
	db *gorm.DB
}

// NewOrganizationLogic 创建组织业务逻辑
func NewOrganizationLogic(db *gorm.DB) *OrganizationLogic {
	return &OrganizationLogic{db: db}
}

// GetOrganizations 获取所有组织
func (o *OrganizationLogic) GetOrganizations() ([]model.OrganizationModel, error) {
	var organizations []model.OrganizationModel
	if err := o.db.Order("created_at ASC").Find(&organizations).Error; err != nil {
		return nil, fmt.Errorf("获取组织列表失败: %w", err)
	}
	return organizations, nil
}

// GetOrganizationBySlug 根据slug获取组织
func (o *OrganizationLogic) GetOrganizationBySlug(slug string) (*model.OrganizationModel, error) {
	var organization model.OrganizationModel
	if err := o.db.Where("slug = ?", slug).First(&organization).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrgNotFound
		}
		return nil, fmt.Errorf("获取组织失败: %w", err)
	}
	return &organization, nil
}

// CreateOrganization 创建组织
func (o *OrganizationLogic) CreateOrganization(organization *model.OrganizationModel) error {
	// 验证组织数据
	if err := o.validateOrganization(organization); err != nil {
		return err
	}

	organization.Id = uuid.NewString()
	organization.Slug = strings.ToLower(organization.Slug)

	// 名称与slug唯一
	var count int64
	o.db.Model(&model.OrganizationModel{}).
		Where("name = ? OR slug = ?", organization.Name, organization.Slug).
		Count(&count)
	if count > 0 {
		return ErrOrgExists
	}

	if err := o.db.Create(organization).Error; err != nil {
		return fmt.Errorf("创建组织失败: %w", err)
	}

	return nil
}

// validateOrganization 验证组织数据
func (o *OrganizationLogic) validateOrganization(organization *model.OrganizationModel) error {
	if strings.TrimSpace(organization.Name) == "" {
		return errors.New("组织名称不能为空")
	}
	if strings.TrimSpace(organization.Slug) == "" {
		return errors.New("组织slug不能为空")
	}
	return nil
}
