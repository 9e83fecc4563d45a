package handler

import (
	"net/http"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	adminLogic *logic.AdminLogic
	orgLogic   *logic.OrganizationLogic
}

func NewAdminHandler(db *gorm.DB, adminLogic *logic.AdminLogic) *AdminHandler {
	return &AdminHandler{
		adminLogic: adminLogic,
		orgLogic:   logic.NewOrganizationLogic(db),
	}
}

// GetOrgAdmins 获取组织管理员列表
func (h *AdminHandler) GetOrgAdmins(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}

	admins, err := h.adminLogic.GetOrgAdmins(organization.Id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admins": ToOrgAdminResponseList(admins),
	})
}

// AddOrgAdmin 为组织添加管理员（仅超级管理员）
func (h *AdminHandler) AddOrgAdmin(c *gin.Context) {
	if !requireSuperAdmin(c, h.adminLogic) {
		return
	}

	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}

	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admins, err := h.adminLogic.AddOrgAdmin(organization.Id, req.WalletAddress)
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "管理员添加成功",
		"admins":  ToOrgAdminResponseList(admins),
	})
}

// RemoveOrgAdmin 移除组织管理员（仅超级管理员）
func (h *AdminHandler) RemoveOrgAdmin(c *gin.Context) {
	if !requireSuperAdmin(c, h.adminLogic) {
		return
	}

	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}

	admins, err := h.adminLogic.RemoveOrgAdmin(organization.Id, c.Param("address"))
	if err != nil {
		c.JSON(statusFromError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "管理员已移除",
		"admins":  ToOrgAdminResponseList(admins),
	})
}
