package logic

import (
	"fmt"
	"testing"
	"time"

	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTransferIdempotent(t *testing.T) {
	db := newTestDB(t)
	transferLogic := NewTransferLogic(db)
	org := createTestOrg(t, db, "org1")
	safe := createTestSafe(t, db, org.Id, testSafeAddress)

	transfer := createTestTransfer(t, db, safe.Address, "t1", time.Now().UTC())

	// 相同转账ID重复写入被忽略，不报错
	duplicate := *transfer
	duplicate.Value = "9999"
	require.NoError(t, transferLogic.WriteTransfer(&duplicate))

	var count int64
	db.Model(&model.TransferModel{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// 原记录未被覆盖
	stored, err := transferLogic.GetTransfer("t1")
	require.NoError(t, err)
	assert.Equal(t, "1000", stored.Value)
}

func TestWriteTransferValidation(t *testing.T) {
	transferLogic := NewTransferLogic(newTestDB(t))

	err := transferLogic.WriteTransfer(&model.TransferModel{SafeAddress: testSafeAddress})
	assert.Error(t, err)

	err = transferLogic.WriteTransfer(&model.TransferModel{TransferId: "t1"})
	assert.Error(t, err)
}

func TestGetTransferIdsByWallet(t *testing.T) {
	db := newTestDB(t)
	transferLogic := NewTransferLogic(db)
	org := createTestOrg(t, db, "org1")
	safe := createTestSafe(t, db, org.Id, testSafeAddress)
	other := createTestSafe(t, db, org.Id, "0x4444444444444444444444444444444444444444")

	createTestTransfer(t, db, safe.Address, "t1", time.Now().UTC())
	createTestTransfer(t, db, safe.Address, "t2", time.Now().UTC())
	createTestTransfer(t, db, other.Address, "t3", time.Now().UTC())

	ids, err := transferLogic.GetTransferIdsByWallet(safe.Address)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"t1", "t2"}, ids)
}

func TestGetTransferNotFound(t *testing.T) {
	transferLogic := NewTransferLogic(newTestDB(t))

	_, err := transferLogic.GetTransfer("missing")
	assert.ErrorIs(t, err, ErrTransferNotFound)
}

func TestGetTransfersPagination(t *testing.T) {
	db := newTestDB(t)
	transferLogic := NewTransferLogic(db)
	org := createTestOrg(t, db, "org1")
	safe := createTestSafe(t, db, org.Id, testSafeAddress)

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 25; i++ {
		createTestTransfer(t, db, safe.Address, fmt.Sprintf("t%02d", i), base.Add(time.Duration(i)*time.Hour))
	}

	page1, total, err := transferLogic.GetTransfers(org.Id, "", false, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 25, total)
	require.Len(t, page1, TransfersPerPage)
	// 按执行时间倒序
	assert.Equal(t, "t24", page1[0].TransferId)

	page2, _, err := transferLogic.GetTransfers(org.Id, "", false, 2)
	require.NoError(t, err)
	require.Len(t, page2, 5)
	assert.Equal(t, "t00", page2[4].TransferId)
}

func TestGetTransfersFiltersBySafe(t *testing.T) {
	db := newTestDB(t)
	transferLogic := NewTransferLogic(db)
	org := createTestOrg(t, db, "org1")
	safe1 := createTestSafe(t, db, org.Id, testSafeAddress)
	safe2 := createTestSafe(t, db, org.Id, "0x4444444444444444444444444444444444444444")

	createTestTransfer(t, db, safe1.Address, "t1", time.Now().UTC())
	createTestTransfer(t, db, safe2.Address, "t2", time.Now().UTC())

	transfers, total, err := transferLogic.GetTransfers(org.Id, safe2.Address, false, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, transfers, 1)
	assert.Equal(t, "t2", transfers[0].TransferId)
}

func TestRemovedSafeRetainsTransfers(t *testing.T) {
	db := newTestDB(t)
	transferLogic := NewTransferLogic(db)
	safeLogic := NewSafeLogic(db, nil)
	org := createTestOrg(t, db, "org1")
	safe := createTestSafe(t, db, org.Id, testSafeAddress)

	createTestTransfer(t, db, safe.Address, "t1", time.Now().UTC())
	require.NoError(t, safeLogic.SoftDeleteSafe(safe.Address))

	// 默认列表排除已移除钱包的转账
	transfers, total, err := transferLogic.GetTransfers(org.Id, "", false, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
	assert.Empty(t, transfers)

	// 数据仍然保留，include_removed可见
	transfers, total, err = transferLogic.GetTransfers(org.Id, "", true, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, transfers, 1)

	// 恢复后重新可见
	require.NoError(t, safeLogic.RestoreSafe(safe.Address))
	_, total, err = transferLogic.GetTransfers(org.Id, "", false, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
