package router

import (
	"github.com/aslobodnik/safenotes/internal/config"
	"github.com/aslobodnik/safenotes/internal/handler"
	"github.com/aslobodnik/safenotes/internal/logic"
	"github.com/aslobodnik/safenotes/internal/safeclient"
	"github.com/aslobodnik/safenotes/internal/syncer"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

func Setup(db *gorm.DB, safeClient *safeclient.Client, s *syncer.Syncer, cfg *config.Config) *gin.Engine {
	r := gin.Default()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "safenotes-service",
		})
	})

	// 指标
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 超级管理员列表来自配置，构造时注入
	adminLogic := logic.NewAdminLogic(db, cfg.Admin.SuperAdmins)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		// 组织相关路由
		orgHandler := handler.NewOrganizationHandler(db, adminLogic)
		organizations := v1.Group("/organizations")
		{
			organizations.GET("", orgHandler.GetOrganizations)
			organizations.POST("", orgHandler.CreateOrganization)
			organizations.GET("/:slug", orgHandler.GetOrganization)
		}

		// 钱包相关路由
		safeHandler := handler.NewSafeHandler(db, safeClient, adminLogic)
		{
			organizations.GET("/:slug/safes", safeHandler.GetSafes)
			organizations.POST("/:slug/safes", safeHandler.CreateSafe)
			organizations.DELETE("/:slug/safes/:address", safeHandler.DeleteSafe)
			organizations.POST("/:slug/safes/:address/restore", safeHandler.RestoreSafe)
			organizations.GET("/:slug/safes/overview", safeHandler.GetSafeOverviews)
		}

		// 分类相关路由
		categoryHandler := handler.NewCategoryHandler(db, adminLogic)
		{
			organizations.GET("/:slug/categories", categoryHandler.GetCategories)
			organizations.POST("/:slug/categories", categoryHandler.CreateCategory)
			organizations.DELETE("/:slug/categories/:id", categoryHandler.DeleteCategory)
		}

		// 管理员相关路由
		adminHandler := handler.NewAdminHandler(db, adminLogic)
		{
			organizations.GET("/:slug/admins", adminHandler.GetOrgAdmins)
			organizations.POST("/:slug/admins", adminHandler.AddOrgAdmin)
			organizations.DELETE("/:slug/admins/:address", adminHandler.RemoveOrgAdmin)
		}

		// 转账相关路由
		transferHandler := handler.NewTransferHandler(db, safeClient, adminLogic)
		{
			organizations.GET("/:slug/transfers", transferHandler.GetTransfers)
			v1.GET("/safes/:address/transfer-ids", transferHandler.GetTransferIds)
			v1.GET("/safes/:address/transactions", transferHandler.GetTransactions)
			v1.POST("/transfers", transferHandler.WriteTransfer)
		}

		// 转账分类标注
		v1.PUT("/transfers/:id/category", categoryHandler.SetTransferCategory)

		// 同步相关路由
		syncHandler := handler.NewSyncHandler(db, s, adminLogic)
		{
			organizations.POST("/:slug/sync", syncHandler.StartSync)
			organizations.GET("/:slug/sync/status", syncHandler.GetSyncStatus)
		}
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-Wallet-Address")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
