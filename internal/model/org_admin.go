package model

import (
	"time"
)

// OrgAdminModel 组织管理员，按钱包地址授权
type OrgAdminModel struct {
	Id        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`

	OrganizationId string `json:"organization_id" gorm:"not null;type:uuid;uniqueIndex:idx_org_admin_wallet"`
	WalletAddress  string `json:"wallet_address" gorm:"not null;uniqueIndex:idx_org_admin_wallet"` // EIP-55校验和格式
}

// TableName 自定义表名
func (OrgAdminModel) TableName() string {
	return "org_admin"
}
