package syncer

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/aslobodnik/safenotes/internal/safeclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore 内存版转账存储
type fakeStore struct {
	mu      sync.Mutex
	known   map[string][]string
	written []*model.TransferModel
	failOn  string // 写入该转账ID时返回错误
}

func newFakeStore() *fakeStore {
	return &fakeStore{known: make(map[string][]string)}
}

func (f *fakeStore) GetTransferIdsByWallet(safeAddress string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.known[safeAddress]...), nil
}

func (f *fakeStore) WriteTransfer(transfer *model.TransferModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if transfer.TransferId == f.failOn {
		return fmt.Errorf("write failed for %s", transfer.TransferId)
	}
	f.written = append(f.written, transfer)
	f.known[transfer.SafeAddress] = append(f.known[transfer.SafeAddress], transfer.TransferId)
	return nil
}

func (f *fakeStore) writtenIds() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, len(f.written))
	for i, transfer := range f.written {
		ids[i] = transfer.TransferId
	}
	return ids
}

// fakeSource 内存版外部数据源
type fakeSource struct {
	transfers map[string][]safeclient.Transfer
	errOn     string      // 拉取该钱包时返回错误
	block     chan struct{} // 非nil时拉取阻塞直到关闭
}

func (f *fakeSource) GetTransfers(ctx context.Context, safeAddress string, limit int) ([]safeclient.Transfer, error) {
	if f.block != nil {
		<-f.block
	}
	if safeAddress == f.errOn {
		return nil, fmt.Errorf("fetch failed for %s", safeAddress)
	}
	return f.transfers[safeAddress], nil
}

func newTransfer(id string) safeclient.Transfer {
	return safeclient.Transfer{
		TransferId:      id,
		Type:            model.TransferTypeEther,
		ExecutionDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		BlockNumber:     100,
		TransactionHash: "0xhash-" + id,
		From:            "0x1111111111111111111111111111111111111111",
		To:              "0x2222222222222222222222222222222222222222",
		Value:           "1000",
	}
}

func waitDone(t *testing.T, s *Syncer) {
	t.Helper()
	require.Eventually(t, func() bool {
		return !s.Running()
	}, 2*time.Second, time.Millisecond)
}

func TestStartRejectsInvalidLimit(t *testing.T) {
	s := New(newFakeStore(), &fakeSource{}, 0)

	err := s.Start([]string{"0xSafe1"}, 25)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestStartRejectsEmptySafes(t *testing.T) {
	s := New(newFakeStore(), &fakeSource{}, 0)

	err := s.Start(nil, 50)
	assert.ErrorIs(t, err, ErrNoSafes)
}

func TestStartRejectsConcurrentRun(t *testing.T) {
	source := &fakeSource{block: make(chan struct{})}
	s := New(newFakeStore(), source, 0)

	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	assert.True(t, s.Running())

	err := s.Start([]string{"0xSafe1"}, 50)
	assert.ErrorIs(t, err, ErrSyncInProgress)

	close(source.block)
	waitDone(t, s)

	// 上一次运行结束后可以再次启动
	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	waitDone(t, s)
}

func TestSyncWritesNewTransfers(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{transfers: map[string][]safeclient.Transfer{
		"0xSafe1": {newTransfer("t1"), newTransfer("t2")},
	}}
	s := New(store, source, 0)

	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	waitDone(t, s)

	assert.Equal(t, []string{"t1", "t2"}, store.writtenIds())

	state := s.Status()["0xSafe1"]
	assert.Equal(t, StatusCompleted, state.Status)
	assert.Equal(t, Progress{Current: 2, Total: 2, Skipped: 0}, state.Progress)
}

func TestSyncSkipsKnownTransfers(t *testing.T) {
	store := newFakeStore()
	store.known["0xSafe1"] = []string{"t1"}
	source := &fakeSource{transfers: map[string][]safeclient.Transfer{
		"0xSafe1": {newTransfer("t1"), newTransfer("t2")},
	}}
	s := New(store, source, 0)

	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	waitDone(t, s)

	// 已知的t1跳过，只写入t2
	assert.Equal(t, []string{"t2"}, store.writtenIds())

	state := s.Status()["0xSafe1"]
	assert.Equal(t, StatusCompleted, state.Status)
	assert.Equal(t, Progress{Current: 2, Total: 2, Skipped: 1}, state.Progress)
}

func TestSyncAllKnown(t *testing.T) {
	store := newFakeStore()
	store.known["0xSafe1"] = []string{"t1", "t2"}
	source := &fakeSource{transfers: map[string][]safeclient.Transfer{
		"0xSafe1": {newTransfer("t1"), newTransfer("t2")},
	}}
	s := New(store, source, 0)

	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	waitDone(t, s)

	assert.Empty(t, store.writtenIds())

	state := s.Status()["0xSafe1"]
	assert.Equal(t, StatusCompleted, state.Status)
	assert.Equal(t, state.Progress.Total, state.Progress.Skipped)
}

func TestSyncAbortsOnFetchError(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{
		transfers: map[string][]safeclient.Transfer{
			"0xSafe1": {newTransfer("t1")},
			"0xSafe3": {newTransfer("t3")},
		},
		errOn: "0xSafe2",
	}
	s := New(store, source, 0)

	require.NoError(t, s.Start([]string{"0xSafe1", "0xSafe2", "0xSafe3"}, 50))
	waitDone(t, s)

	status := s.Status()
	assert.Equal(t, StatusCompleted, status["0xSafe1"].Status)
	assert.Equal(t, StatusError, status["0xSafe2"].Status)
	assert.Contains(t, status["0xSafe2"].Message, "fetch failed")
	// 中止后剩余钱包保持pending
	assert.Equal(t, StatusPending, status["0xSafe3"].Status)

	// 第三个钱包没有被拉取
	assert.Equal(t, []string{"t1"}, store.writtenIds())
}

func TestSyncWriteFailureKeepsPartial(t *testing.T) {
	store := newFakeStore()
	store.failOn = "t2"
	source := &fakeSource{transfers: map[string][]safeclient.Transfer{
		"0xSafe1": {newTransfer("t1"), newTransfer("t2"), newTransfer("t3")},
	}}
	s := New(store, source, 0)

	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	waitDone(t, s)

	// 失败前已写入的记录保留，不回滚
	assert.Equal(t, []string{"t1"}, store.writtenIds())

	state := s.Status()["0xSafe1"]
	assert.Equal(t, StatusError, state.Status)
	assert.Equal(t, Progress{Current: 1, Total: 3, Skipped: 0}, state.Progress)
}

func TestRepeatRunIsIdempotent(t *testing.T) {
	store := newFakeStore()
	source := &fakeSource{transfers: map[string][]safeclient.Transfer{
		"0xSafe1": {newTransfer("t1"), newTransfer("t2")},
	}}
	s := New(store, source, 0)

	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	waitDone(t, s)
	require.NoError(t, s.Start([]string{"0xSafe1"}, 50))
	waitDone(t, s)

	// 第二次运行全部跳过
	assert.Equal(t, []string{"t1", "t2"}, store.writtenIds())

	state := s.Status()["0xSafe1"]
	assert.Equal(t, StatusCompleted, state.Status)
	assert.Equal(t, Progress{Current: 2, Total: 2, Skipped: 2}, state.Progress)
}

func TestOrderPreservesInput(t *testing.T) {
	source := &fakeSource{transfers: map[string][]safeclient.Transfer{}}
	s := New(newFakeStore(), source, 0)

	safes := []string{"0xSafe2", "0xSafe1", "0xSafe3"}
	require.NoError(t, s.Start(safes, 10))
	waitDone(t, s)

	assert.Equal(t, safes, s.Order())
}

func TestTokenInfoMapping(t *testing.T) {
	tokenAddress := "0x3333333333333333333333333333333333333333"
	transfer := newTransfer("t1")
	transfer.Type = model.TransferTypeErc20
	transfer.TokenAddress = &tokenAddress
	transfer.TokenInfo = &safeclient.TokenInfo{
		Name:     "Test Token",
		Symbol:   "TST",
		Decimals: 6,
		LogoUri:  "https://example.com/logo.png",
	}

	record := toTransferModel("0xSafe1", transfer)

	assert.Equal(t, model.TransferTypeErc20, record.Type)
	require.NotNil(t, record.TokenSymbol)
	assert.Equal(t, "TST", *record.TokenSymbol)
	require.NotNil(t, record.TokenDecimals)
	assert.Equal(t, 6, *record.TokenDecimals)
	require.NotNil(t, record.TokenLogoUri)
	assert.Equal(t, "https://example.com/logo.png", *record.TokenLogoUri)
}
