package model

import (
	"time"
)

// TransferCategoryModel 转账与分类的关联，附带自由文本备注
// 一条转账同一时刻最多只有一个有效分类，编辑即替换
type TransferCategoryModel struct {
	Id        string    `json:"id" gorm:"primaryKey;type:uuid"`
	CreatedAt time.Time `json:"created_at"`

	TransferId  string `json:"transfer_id" gorm:"not null;uniqueIndex"`
	CategoryId  string `json:"category_id" gorm:"not null;type:uuid;index"`
	Description string `json:"description" gorm:"type:text"`
}

// TableName 自定义表名
func (TransferCategoryModel) TableName() string {
	return "transfer_category"
}
