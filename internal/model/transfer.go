package model

import (
	"time"
)

// TransferModel 转账记录，来自 Safe Transaction Service 的不可变历史数据
// 同步只做"不存在则插入"，一旦写入永不更新
type TransferModel struct {
	TransferId string    `json:"transfer_id" gorm:"primaryKey"` // 服务端分配的全局唯一ID
	CreatedAt  time.Time `json:"created_at"`

	// 所属钱包
	SafeAddress string `json:"safe_address" gorm:"not null;index"`

	// 转账信息
	Type            TransferType `json:"type" gorm:"not null"`
	ExecutionDate   time.Time    `json:"execution_date" gorm:"not null"`
	BlockNumber     int64        `json:"block_number" gorm:"not null"`
	TransactionHash string       `json:"transaction_hash" gorm:"not null"`
	FromAddress     string       `json:"from_address" gorm:"not null"`
	ToAddress       string       `json:"to_address" gorm:"not null"`
	Value           string       `json:"value"` // 十进制字符串，最小单位

	// 代币信息（以太转账时为空）
	TokenAddress  *string `json:"token_address"`
	TokenName     *string `json:"token_name"`
	TokenSymbol   *string `json:"token_symbol"`
	TokenDecimals *int    `json:"token_decimals"`
	TokenLogoUri  *string `json:"token_logo_uri"`
}

// TransferType 转账类型
type TransferType string

const (
	TransferTypeEther TransferType = "ETHER_TRANSFER" // 以太转账
	TransferTypeErc20 TransferType = "ERC20_TRANSFER" // ERC20代币转账
)

// TableName 自定义表名
func (TransferModel) TableName() string {
	return "transfer"
}
