package handler

import (
	"net/http"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/safeclient"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SafeHandler struct {
	safeLogic  *logic.SafeLogic
	orgLogic   *logic.OrganizationLogic
	adminLogic *logic.AdminLogic
}

func NewSafeHandler(db *gorm.DB, safeClient *safeclient.Client, adminLogic *logic.AdminLogic) *SafeHandler {
	return &SafeHandler{
		safeLogic:  logic.NewSafeLogic(db, safeClient),
		orgLogic:   logic.NewOrganizationLogic(db),
		adminLogic: adminLogic,
	}
}

// GetSafes 获取组织下的钱包列表
func (h *SafeHandler) GetSafes(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}

	includeRemoved := c.Query("include_removed") == "true"

	safes, err := h.safeLogic.GetSafesByOrganization(organization.Id, includeRemoved)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"safes": ToSafeResponseList(safes),
	})
}

// CreateSafe 为组织添加钱包
func (h *SafeHandler) CreateSafe(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, organization.Id) {
		return
	}

	var req struct {
		Address string `json:"address" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	safe, err := h.safeLogic.CreateSafe(req.Address, organization.Id)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "钱包添加成功",
		"safe":    ToSafeResponse(safe),
	})
}

// DeleteSafe 软删除钱包，历史转账保留
func (h *SafeHandler) DeleteSafe(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, organization.Id) {
		return
	}

	if err := h.safeLogic.SoftDeleteSafe(c.Param("address")); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "钱包已移除"})
}

// RestoreSafe 恢复软删除的钱包
func (h *SafeHandler) RestoreSafe(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, organization.Id) {
		return
	}

	if err := h.safeLogic.RestoreSafe(c.Param("address")); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "钱包已恢复"})
}

// GetSafeOverviews 获取组织下所有钱包的链上概览（余额、签名人），仅用于展示
func (h *SafeHandler) GetSafeOverviews(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}

	overviews, err := h.safeLogic.GetSafeOverviews(c.Request.Context(), organization.Id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"safes": overviews})
}
