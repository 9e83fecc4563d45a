package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/aslobodnik/safenotes/internal/safeclient"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TransferHandler struct {
	transferLogic *logic.TransferLogic
	categoryLogic *logic.CategoryLogic
	safeLogic     *logic.SafeLogic
	orgLogic      *logic.OrganizationLogic
	adminLogic    *logic.AdminLogic
	safeClient    *safeclient.Client
}

func NewTransferHandler(db *gorm.DB, safeClient *safeclient.Client, adminLogic *logic.AdminLogic) *TransferHandler {
	return &TransferHandler{
		transferLogic: logic.NewTransferLogic(db),
		categoryLogic: logic.NewCategoryLogic(db),
		safeLogic:     logic.NewSafeLogic(db, safeClient),
		orgLogic:      logic.NewOrganizationLogic(db),
		adminLogic:    adminLogic,
		safeClient:    safeClient,
	}
}

// GetTransfers 分页获取组织下的转账记录，合并分类标注
func (h *TransferHandler) GetTransfers(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	safeAddress := c.Query("safe")
	includeRemoved := c.Query("include_removed") == "true"

	transfers, total, err := h.transferLogic.GetTransfers(organization.Id, safeAddress, includeRemoved, page)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// 批量查询这一页转账的分类标注
	transferIds := make([]string, len(transfers))
	for i, transfer := range transfers {
		transferIds[i] = transfer.TransferId
	}
	annotations, err := h.categoryLogic.GetTransferAnnotations(transferIds)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, GetTransfersResponse{
		Results:    ToTransferResponseList(transfers, annotations),
		Pagination: NewPagination(page, logic.TransfersPerPage, total),
	})
}

// GetTransferIds 批量获取钱包下所有已存储的转账ID，供同步去重使用
func (h *TransferHandler) GetTransferIds(c *gin.Context) {
	address := c.Param("address")
	if _, err := h.safeLogic.GetSafeByAddress(address); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	ids, err := h.transferLogic.GetTransferIdsByWallet(address)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transferIds": ids})
}

// WriteTransfer 写入单条转账，转账ID冲突时忽略
func (h *TransferHandler) WriteTransfer(c *gin.Context) {
	var req struct {
		TransferId      string  `json:"transferId" binding:"required"`
		SafeAddress     string  `json:"safeAddress" binding:"required"`
		Type            string  `json:"type" binding:"required"`
		ExecutionDate   string  `json:"executionDate" binding:"required"`
		BlockNumber     int64   `json:"blockNumber"`
		TransactionHash string  `json:"transactionHash" binding:"required"`
		From            string  `json:"from" binding:"required"`
		To              string  `json:"to" binding:"required"`
		Value           string  `json:"value"`
		TokenAddress    *string `json:"tokenAddress"`
		TokenInfo       *struct {
			Name     string `json:"name"`
			Symbol   string `json:"symbol"`
			Decimals int    `json:"decimals"`
			LogoUri  string `json:"logoUri"`
		} `json:"tokenInfo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	transferType := model.TransferType(req.Type)
	if transferType != model.TransferTypeEther && transferType != model.TransferTypeErc20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的转账类型"})
		return
	}

	executionDate, err := parseExecutionDate(req.ExecutionDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的执行时间"})
		return
	}

	// 钱包必须已存在，授权按钱包所属组织判定
	safe, err := h.safeLogic.GetSafeByAddress(req.SafeAddress)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, safe.OrganizationId) {
		return
	}

	transfer := &model.TransferModel{
		TransferId:      req.TransferId,
		SafeAddress:     safe.Address,
		Type:            transferType,
		ExecutionDate:   executionDate,
		BlockNumber:     req.BlockNumber,
		TransactionHash: req.TransactionHash,
		FromAddress:     req.From,
		ToAddress:       req.To,
		Value:           req.Value,
		TokenAddress:    req.TokenAddress,
	}
	if req.TokenInfo != nil {
		transfer.TokenName = &req.TokenInfo.Name
		transfer.TokenSymbol = &req.TokenInfo.Symbol
		decimals := req.TokenInfo.Decimals
		transfer.TokenDecimals = &decimals
		if req.TokenInfo.LogoUri != "" {
			logoUri := req.TokenInfo.LogoUri
			transfer.TokenLogoUri = &logoUri
		}
	}

	if err := h.transferLogic.WriteTransfer(transfer); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "转账写入成功"})
}

// parseExecutionDate 解析RFC3339格式的执行时间
func parseExecutionDate(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

// GetTransactions 透传钱包的全部交易历史（沿游标翻页），仅用于展示
func (h *TransferHandler) GetTransactions(c *gin.Context) {
	address := c.Param("address")
	if _, err := h.safeLogic.GetSafeByAddress(address); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	transactions, err := h.safeClient.GetAllTransactions(c.Request.Context(), address)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": transactions})
}
