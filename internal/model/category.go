package model

import (
	"time"
)

// CategoryModel 转账分类模型
type CategoryModel struct {
	Id        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`

	// 分类名称在组织内唯一
	OrganizationId string `json:"organization_id" gorm:"not null;type:uuid;uniqueIndex:idx_category_org_name"`
	Name           string `json:"name" gorm:"not null;uniqueIndex:idx_category_org_name" binding:"required"`
}

// TableName 自定义表名
func (CategoryModel) TableName() string {
	return "category"
}
