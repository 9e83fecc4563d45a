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
	// ErrCategoryNotFound 分类不存在
	ErrCategoryNotFound = errors.New("分类不存在")
	// ErrCategoryExists 分类名称已存在
	ErrCategoryExists = errors.New("分类名称已存在")
	// ErrCategoryInUse 分类已被转账使用，无法删除
	ErrCategoryInUse = errors.New("分类已被转账使用，无法删除")
	// ErrCategoryOrgMismatch 分类与转账不属于同一组织
	ErrCategoryOrgMismatch = errors.New("分类与转账不属于同一组织")
)

// CategoryLogic 分类业务逻辑
type CategoryLogic struct {
	db *gorm.DB
}

// NewCategoryLogic 创建分类业务逻辑
func NewCategoryLogic(db *gorm.DB) *CategoryLogic {
	return &CategoryLogic{db: db}
}

// GetCategoriesByOrganization 获取组织下的分类列表
func (c *CategoryLogic) GetCategoriesByOrganization(organizationId string) ([]model.CategoryModel, error) {
	var categories []model.CategoryModel
	if err := c.db.Where("organization_id = ?", organizationId).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("获取分类列表失败: %w", err)
	}
	return categories, nil
}

// CreateCategory 创建分类
func (c *CategoryLogic) CreateCategory(organizationId, name string) (*model.CategoryModel, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("分类名称不能为空")
	}

	// 分类名称在组织内唯一
	var count int64
	c.db.Model(&model.CategoryModel{}).
		Where("organization_id = ? AND name = ?", organizationId, name).
		Count(&count)
	if count > 0 {
		return nil, ErrCategoryExists
	}

	category := &model.CategoryModel{
		Id:             uuid.NewString(),
		OrganizationId: organizationId,
		Name:           name,
	}
	if err := c.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("创建分类失败: %w", err)
	}

	return category, nil
}

// DeleteCategory 删除分类，被转账使用中的分类不允许删除
func (c *CategoryLogic) DeleteCategory(id string) error {
	var category model.CategoryModel
	if err := c.db.First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("查询分类失败: %w", err)
	}

	var usedCount int64
	c.db.Model(&model.TransferCategoryModel{}).
		Where("category_id = ?", id).
		Count(&usedCount)
	if usedCount > 0 {
		return ErrCategoryInUse
	}

	if err := c.db.Delete(&model.CategoryModel{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("删除分类失败: %w", err)
	}

	return nil
}

// SetTransferCategory 为转账设置分类和备注，替换原有映射
func (c *CategoryLogic) SetTransferCategory(transferId, categoryId, description string) (*model.TransferCategoryModel, error) {
	// 转账必须存在
	var transfer model.TransferModel
	if err := c.db.First(&transfer, "transfer_id = ?", transferId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransferNotFound
		}
		return nil, fmt.Errorf("查询转账失败: %w", err)
	}

	// 分类必须存在
	var category model.CategoryModel
	if err := c.db.First(&category, "id = ?", categoryId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("查询分类失败: %w", err)
	}

	// 分类必须与转账所属钱包在同一组织
	var safe model.SafeModel
	if err := c.db.First(&safe, "address = ?", transfer.SafeAddress).Error; err != nil {
		return nil, fmt.Errorf("查询钱包失败: %w", err)
	}
	if safe.OrganizationId != category.OrganizationId {
		return nil, ErrCategoryOrgMismatch
	}

	// 一条转账最多一个有效映射，先删后插
	mapping := &model.TransferCategoryModel{
		Id:          uuid.NewString(),
		TransferId:  transferId,
		CategoryId:  categoryId,
		Description: description,
	}

	err := c.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&model.TransferCategoryModel{}, "transfer_id = ?", transferId).Error; err != nil {
			return err
		}
		return tx.Create(mapping).Error
	})
	if err != nil {
		return nil, fmt.Errorf("设置转账分类失败: %w", err)
	}

	return mapping, nil
}

// TransferAnnotation 转账的分类标注
type TransferAnnotation struct {
	CategoryId   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Description  string `json:"description"`
}

// GetTransferAnnotations 批量获取转账的分类标注，键为转账ID
func (c *CategoryLogic) GetTransferAnnotations(transferIds []string) (map[string]TransferAnnotation, error) {
	annotations := make(map[string]TransferAnnotation)
	if len(transferIds) == 0 {
		return annotations, nil
	}

	var rows []struct {
		TransferId   string
		CategoryId   string
		CategoryName string
		Description  string
	}
	err := c.db.Model(&model.TransferCategoryModel{}).
		Select("transfer_category.transfer_id, transfer_category.category_id, category.name AS category_name, transfer_category.description").
		Joins("JOIN category ON category.id = transfer_category.category_id").
		Where("transfer_category.transfer_id IN ?", transferIds).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("获取转账分类失败: %w", err)
	}

	for _, row := range rows {
		annotations[row.TransferId] = TransferAnnotation{
			CategoryId:   row.CategoryId,
			CategoryName: row.CategoryName,
			Description:  row.Description,
		}
	}

	return annotations, nil
}
