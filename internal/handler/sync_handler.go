package handler

import (
	"errors"
	"net/http"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/syncer"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SyncHandler struct {
	syncer     *syncer.Syncer
	safeLogic  *logic.SafeLogic
	orgLogic   *logic.OrganizationLogic
	adminLogic *logic.AdminLogic
}

func NewSyncHandler(db *gorm.DB, s *syncer.Syncer, adminLogic *logic.AdminLogic) *SyncHandler {
	return &SyncHandler{
		syncer:     s,
		safeLogic:  logic.NewSafeLogic(db, nil),
		orgLogic:   logic.NewOrganizationLogic(db),
		adminLogic: adminLogic,
	}
}

// StartSync 触发组织下所有活跃钱包的转账同步
func (h *SyncHandler) StartSync(c *gin.Context) {
	organization, ok := resolveOrganization(c, h.orgLogic)
	if !ok {
		return
	}
	if !requireOrgAdmin(c, h.adminLogic, organization.Id) {
		return
	}

	var req struct {
		Limit int `json:"limit"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	safes, err := h.safeLogic.GetActiveSafeAddresses(organization.Id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := h.syncer.Start(safes, req.Limit); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, syncer.ErrSyncInProgress) {
			status = http.StatusConflict
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "同步已启动",
		"safes":   safes,
	})
}

// GetSyncStatus 查询当前同步运行的状态快照
func (h *SyncHandler) GetSyncStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"running": h.syncer.Running(),
		"order":   h.syncer.Order(),
		"status":  h.syncer.Status(),
	})
}
