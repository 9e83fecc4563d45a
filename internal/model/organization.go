package model

import (
	"time"
)

// OrganizationModel 组织模型
type OrganizationModel struct {
	Id        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`

	// 基本信息
	Name        string `json:"name" gorm:"not null;uniqueIndex" binding:"required"`
	Slug        string `json:"slug" gorm:"not null;uniqueIndex" binding:"required"` // 例如 "ens", "uniswap"
	Description string `json:"description" gorm:"type:text"`
	BannerImage string `json:"banner_image"` // 横幅图片URL
	LogoImage   string `json:"logo_image"`   // Logo图片URL
}

// TableName 自定义表名
func (OrganizationModel) TableName() string {
	return "organization"
}
