package handler

import (
	"errors"
	"net/http"

	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/gin-gonic/gin"
)

// 调用方身份头，由前端的钱包会话填入（会话接入本身不在服务端范围内）
const walletHeader = "X-Wallet-Address"

// callerWallet 获取当前请求的钱包地址
func callerWallet(c *gin.Context) string {
	return c.GetHeader(walletHeader)
}

// requireOrgAdmin 校验当前钱包可以管理指定组织，失败时写入响应并返回false
func requireOrgAdmin(c *gin.Context, adminLogic *logic.AdminLogic, organizationId string) bool {
	wallet := callerWallet(c)
	if wallet == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
		return false
	}

	authorized, err := adminLogic.IsAdmin(wallet, organizationId)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	if !authorized {
		// 不泄露资源是否存在
		c.JSON(http.StatusForbidden, gin.H{"error": "未授权"})
		return false
	}

	return true
}

// requireSuperAdmin 校验当前钱包是超级管理员
func requireSuperAdmin(c *gin.Context, adminLogic *logic.AdminLogic) bool {
	wallet := callerWallet(c)
	if wallet == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
		return false
	}
	if !adminLogic.IsSuperAdmin(wallet) {
		c.JSON(http.StatusForbidden, gin.H{"error": "未授权"})
		return false
	}
	return true
}

// statusFromError 将业务错误映射为HTTP状态码
func statusFromError(err error) int {
	switch {
	case errors.Is(err, logic.ErrOrgNotFound),
		errors.Is(err, logic.ErrSafeNotFound),
		errors.Is(err, logic.ErrCategoryNotFound),
		errors.Is(err, logic.ErrTransferNotFound),
		errors.Is(err, logic.ErrAdminNotFound):
		return http.StatusNotFound
	case errors.Is(err, logic.ErrOrgExists),
		errors.Is(err, logic.ErrSafeExists),
		errors.Is(err, logic.ErrCategoryExists),
		errors.Is(err, logic.ErrAdminExists):
		return http.StatusConflict
	case errors.Is(err, logic.ErrInvalidAddress),
		errors.Is(err, logic.ErrCategoryInUse),
		errors.Is(err, logic.ErrCategoryOrgMismatch):
		return http.StatusBadRequest
	case errors.Is(err, logic.ErrNotAuthorized):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
