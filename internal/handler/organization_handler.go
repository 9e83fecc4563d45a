package handler

import (
	"net/http"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/model"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type OrganizationHandler struct {
	orgLogic   *logic.OrganizationLogic
	adminLogic *logic.AdminLogic
}

func NewOrganizationHandler(db *gorm.DB, adminLogic *logic.AdminLogic) *OrganizationHandler {
	return &OrganizationHandler{
		orgLogic:   logic.NewOrganizationLogic(db),
		adminLogic: adminLogic,
	}
}

// GetOrganizations 获取组织列表
func (h *OrganizationHandler) GetOrganizations(c *gin.Context) {
	organizations, err := h.orgLogic.GetOrganizations()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organizations": ToOrganizationResponseList(organizations),
	})
}

// GetOrganization 根据slug获取组织详情
func (h *OrganizationHandler) GetOrganization(c *gin.Context) {
	organization, err := h.orgLogic.GetOrganizationBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"organization": ToOrganizationResponse(organization),
	})
}

// CreateOrganization 创建组织（仅超级管理员）
func (h *OrganizationHandler) CreateOrganization(c *gin.Context) {
	if !requireSuperAdmin(c, h.adminLogic) {
		return
	}

	var req struct {
		Name        string `json:"name" binding:"required"`
		Slug        string `json:"slug" binding:"required"`
		Description string `json:"description"`
		BannerImage string `json:"bannerImage"`
		LogoImage   string `json:"logoImage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	organization := &model.OrganizationModel{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		BannerImage: req.BannerImage,
		LogoImage:   req.LogoImage,
	}
	if err := h.orgLogic.CreateOrganization(organization); err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":      "组织创建成功",
		"organization": ToOrganizationResponse(organization),
	})
}

// resolveOrganization 根据slug解析组织，失败时写入响应
func resolveOrganization(c *gin.Context, orgLogic *logic.OrganizationLogic) (*model.OrganizationModel, bool) {
	organization, err := orgLogic.GetOrganizationBySlug(c.Param("slug"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return nil, false
	}
	return organization, true
}
