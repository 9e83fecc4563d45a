package model

import (
	"time"
)

// SafeModel 多签钱包模型
type SafeModel struct {
	Address   string    `json:"address" gorm:"primaryKey"` // 链上地址（EIP-55校验和格式）
	CreatedAt time.Time `json:"created_at"`

	// 所属组织
	OrganizationId string `json:"organization_id" gorm:"not null;type:uuid;index"`

	// 软删除标记：钱包一旦存在历史转账就不会被物理删除
	Removed   bool       `json:"removed" gorm:"default:false"`
	RemovedAt *time.Time `json:"removed_at"`
}

// TableName 自定义表名
func (SafeModel) TableName() string {
	return "safe"
}
