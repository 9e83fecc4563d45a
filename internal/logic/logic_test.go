package logic

import (
	"fmt"
	"testing"
	"time"

	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/aslobodnik/safenotes/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newTestDB 创建内存数据库并迁移所有表
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// 内存数据库只能有一个连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, repository.Migrate(db))
	return db
}

func createTestOrg(t *testing.T, db *gorm.DB, slug string) *model.OrganizationModel {
	t.Helper()

	organization := &model.OrganizationModel{
		Name: "Org " + slug,
		Slug: slug,
	}
	require.NoError(t, NewOrganizationLogic(db).CreateOrganization(organization))
	return organization
}

func createTestSafe(t *testing.T, db *gorm.DB, organizationId, address string) *model.SafeModel {
	t.Helper()

	safe, err := NewSafeLogic(db, nil).CreateSafe(address, organizationId)
	require.NoError(t, err)
	return safe
}

func createTestTransfer(t *testing.T, db *gorm.DB, safeAddress, transferId string, executionDate time.Time) *model.TransferModel {
	t.Helper()

	transfer := &model.TransferModel{
		TransferId:      transferId,
		SafeAddress:     safeAddress,
		Type:            model.TransferTypeEther,
		ExecutionDate:   executionDate,
		BlockNumber:     100,
		TransactionHash: fmt.Sprintf("0xhash-%s", transferId),
		FromAddress:     "0x1111111111111111111111111111111111111111",
		ToAddress:       "0x2222222222222222222222222222222222222222",
		Value:           "1000",
	}
	require.NoError(t, NewTransferLogic(db).WriteTransfer(transfer))
	return transfer
}
