package safeclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aslobodnik/safenotes/internal/config"
	"github.com/aslobodnik/safenotes/internal/logger"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/ethereum/go-ethereum/common"
)

// Client Safe Transaction Service 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxPages   int
}

// New 创建客户端
func New(cfg config.SafeApiConfig) *Client {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if cfg.Timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxPages := cfg.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: timeout},
		maxPages:   maxPages,
	}
}

// TokenInfo 代币信息
type TokenInfo struct {
	Type     string `json:"type"`
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
	LogoUri  string `json:"logoUri"`
	Trusted  bool   `json:"trusted"`
}

// Transfer 校验后的转账记录
type Transfer struct {
	TransferId      string
	Type            model.TransferType
	ExecutionDate   time.Time
	BlockNumber     int64
	TransactionHash string
	From            string
	To              string
	Value           string
	TokenAddress    *string
	TokenInfo       *TokenInfo
}

// apiTransfer 服务端返回的原始转账记录，字段形状在边界处校验后才进入系统
type apiTransfer struct {
	Type            string     `json:"type"`
	ExecutionDate   string     `json:"executionDate"`
	BlockNumber     int64      `json:"blockNumber"`
	TransactionHash string     `json:"transactionHash"`
	To              string     `json:"to"`
	From            string     `json:"from"`
	Value           string     `json:"value"`
	TokenAddress    *string    `json:"tokenAddress"`
	TransferId      string     `json:"transferId"`
	TokenInfo       *TokenInfo `json:"tokenInfo"`
}

// transferPage 转账列表分页响应
type transferPage struct {
	Count    int           `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  []apiTransfer `json:"results"`
}

// Balance 钱包代币余额（仅用于展示，不落库）
type Balance struct {
	TokenAddress *string    `json:"tokenAddress"`
	Token        *TokenInfo `json:"token"`
	Balance      string     `json:"balance"`
}

// SafeInfo 钱包基础信息
type SafeInfo struct {
	Address   string   `json:"address"`
	Nonce     int64    `json:"nonce"`
	Threshold int      `json:"threshold"`
	Owners    []string `json:"owners"`
}

// Transaction all-transactions 接口返回的交易记录
type Transaction struct {
	TxType          string          `json:"txType"`
	TransactionHash string          `json:"transactionHash"`
	ExecutionDate   string          `json:"executionDate"`
	BlockNumber     int64           `json:"blockNumber"`
	To              string          `json:"to"`
	Value           string          `json:"value"`
	Raw             json.RawMessage `json:"-"`
}

// transactionPage 交易列表分页响应
type transactionPage struct {
	Count   int               `json:"count"`
	Next    *string           `json:"next"`
	Results []json.RawMessage `json:"results"`
}

// GetTransfers 获取单个钱包最近的转账记录（单页，受limit限制）
func (c *Client) GetTransfers(ctx context.Context, safeAddress string, limit int) ([]Transfer, error) {
	url := fmt.Sprintf("%s/safes/%s/transfers/?limit=%d", c.baseURL, safeAddress, limit)

	var page transferPage
	if err := c.getJSON(ctx, url, &page); err != nil {
		return nil, fmt.Errorf("failed to fetch transfers for safe %s: %w", safeAddress, err)
	}

	transfers := make([]Transfer, 0, len(page.Results))
	for _, raw := range page.Results {
		// 不受信任的代币转账直接过滤
		if raw.TokenInfo != nil && !raw.TokenInfo.Trusted {
			continue
		}

		transfer, err := validateTransfer(raw)
		if err != nil {
			// 形状不合法的记录隔离，不进入系统
			logger.Warn("Skipping malformed transfer from safe %s: %v", safeAddress, err)
			continue
		}
		transfers = append(transfers, transfer)
	}

	return transfers, nil
}

// GetAllTransactions 沿next游标获取钱包全部交易，受翻页上限保护
func (c *Client) GetAllTransactions(ctx context.Context, safeAddress string) ([]json.RawMessage, error) {
	url := fmt.Sprintf("%s/safes/%s/all-transactions/?limit=100&executed=true&queued=true", c.baseURL, safeAddress)

	var all []json.RawMessage
	for i := 0; i < c.maxPages && url != ""; i++ {
		var page transactionPage
		if err := c.getJSON(ctx, url, &page); err != nil {
			return nil, fmt.Errorf("failed to fetch transactions for safe %s: %w", safeAddress, err)
		}

		all = append(all, page.Results...)

		if page.Next == nil {
			break
		}
		url = *page.Next
	}

	return all, nil
}

// GetBalances 获取钱包余额
func (c *Client) GetBalances(ctx context.Context, safeAddress string) ([]Balance, error) {
	url := fmt.Sprintf("%s/safes/%s/balances/", c.baseURL, safeAddress)

	var balances []Balance
	if err := c.getJSON(ctx, url, &balances); err != nil {
		return nil, fmt.Errorf("failed to fetch balances for safe %s: %w", safeAddress, err)
	}

	return balances, nil
}

// GetSafeInfo 获取钱包签名人和阈值信息
func (c *Client) GetSafeInfo(ctx context.Context, safeAddress string) (*SafeInfo, error) {
	url := fmt.Sprintf("%s/safes/%s/", c.baseURL, safeAddress)

	var info SafeInfo
	if err := c.getJSON(ctx, url, &info); err != nil {
		return nil, fmt.Errorf("failed to fetch info for safe %s: %w", safeAddress, err)
	}

	return &info, nil
}

// getJSON 执行GET请求并解码JSON响应，非2xx视为错误且不重试
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("safe api returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// validateTransfer 在边界处校验原始记录形状
func validateTransfer(raw apiTransfer) (Transfer, error) {
	if raw.TransferId == "" {
		return Transfer{}, fmt.Errorf("missing transferId")
	}
	if raw.TransactionHash == "" {
		return Transfer{}, fmt.Errorf("missing transactionHash")
	}

	transferType := model.TransferType(raw.Type)
	if transferType != model.TransferTypeEther && transferType != model.TransferTypeErc20 {
		return Transfer{}, fmt.Errorf("unknown transfer type: %s", raw.Type)
	}

	executionDate, err := time.Parse(time.RFC3339, raw.ExecutionDate)
	if err != nil {
		return Transfer{}, fmt.Errorf("invalid executionDate %q: %w", raw.ExecutionDate, err)
	}

	if !common.IsHexAddress(raw.From) {
		return Transfer{}, fmt.Errorf("invalid from address: %s", raw.From)
	}
	if !common.IsHexAddress(raw.To) {
		return Transfer{}, fmt.Errorf("invalid to address: %s", raw.To)
	}

	return Transfer{
		TransferId:      raw.TransferId,
		Type:            transferType,
		ExecutionDate:   executionDate,
		BlockNumber:     raw.BlockNumber,
		TransactionHash: raw.TransactionHash,
		From:            raw.From,
		To:              raw.To,
		Value:           raw.Value,
		TokenAddress:    raw.TokenAddress,
		TokenInfo:       raw.TokenInfo,
	}, nil
}
