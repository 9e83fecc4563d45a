package handler

import (
	"net/http"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryHandler struct {
	categoryLogic *logic.CategoryLogic
	transferLogic *logic.TransferLogic
	safeLogic     *logic.SafeLogic
	orgLogic      *logic.OrganizationLogic
	adminLogic    *logic.AdminLogic
}

func NewCategoryHandler(db *gorm.DB, adminLogic *logic.AdminLogic) *CategoryHandler {
	return &CategoryHandler{
		categoryLogic: logic.NewCategoryLogic(db),
		transferLogic: logic.NewTransferLogic(db),
		safeLogic:     logic.NewSafeLogic(db, nil),
		orgLogic:      logic.NewOrganizationLogic(db),
		adminLogic:    adminLogic,
	}
}

// GetCategories 获取组织下的分类列表
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}

	categories, err := h.categoryLogic.GetCategoriesByOrganization(organization.Id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": ToCategoryResponseList(categories),
	})
}

// CreateCategory 创建分类
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, organization.Id) {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.categoryLogic.CreateCategory(organization.Id, req.Name)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "分类创建成功",
		"category": ToCategoryResponse(category),
	})
}

// DeleteCategory 删除分类
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, organization.Id) {
		return
	}

	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的分类ID"})
		return
	}

	if err := h.categoryLogic.DeleteCategory(id); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "分类已删除"})
}

// SetTransferCategory 为转账设置分类和备注，替换原有映射
func (h *CategoryHandler) SetTransferCategory(c *gin.Context) {
	transferId := c.Param("id")

	var req struct {
		CategoryId  string `json:"categoryId" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := uuid.Parse(req.CategoryId); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的分类ID"})
		return
	}

	// 授权按转账所属钱包的组织判定
	transfer, err := h.transferLogic.GetTransfer(transferId)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	safe, err := h.safeLogic.GetSafeByAddress(transfer.SafeAddress)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, safe.OrganizationId) {
		return
	}

	mapping, err := h.categoryLogic.SetTransferCategory(transferId, req.CategoryId, req.Description)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":          "转账分类已更新",
		"transferCategory": mapping,
	})
}
