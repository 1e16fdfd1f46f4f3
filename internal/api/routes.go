package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"vibrantResume/internal/api/middleware"
	"vibrantResume/internal/auth"
	"vibrantResume/internal/config"
	"vibrantResume/internal/database"
	"vibrantResume/internal/optimizer"
	"vibrantResume/internal/storage"
)

// RegisterRoutes 注册 API 路由，不包含 /api 前缀。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient *storage.Client,
	llmClient *optimizer.Client,
) {
	documents := database.NewDocumentStore(db)
	history := database.NewHistoryStore(db)
	templates := database.NewTemplateStore(db)
	assets := database.NewAssetStore(db)

	authHandler := NewAuthHandler(db, authService, redisClient, logger,
		cfg.API.LoginRateLimitPerHour, cfg.API.LoginLockThreshold,
		cfg.API.LoginLockTTL(), cfg.API.CookieDomain)
	documentHandler := NewDocumentHandler(documents, templates)
	historyHandler := NewHistoryHandler(history, documents)
	templateHandler := NewTemplateHandler(templates)
	optimizeHandler := NewOptimizeHandler(optimizer.NewService(llmClient, redisClient), redisClient)
	parseHandler := NewParseHandler()
	exportHandler := NewExportHandler(asynqClient, cfg.Worker.MaxRetry)
	backupHandler := NewBackupHandler(storageClient, documents, logger)
	assetHandler := NewAssetHandler(storageClient, assets, logger, cfg.API.ClamdAddr)
	wsHandler := NewWsHandler(redisClient, authService, logger, cfg.API.AllowedOrigins)

	authMiddleware := middleware.AuthMiddleware(authService)
	passwordGate := middleware.RequirePasswordChangeCompletedMiddleware()

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
		}

		protected := v1.Group("")
		protected.Use(authMiddleware, passwordGate)
		{
			protected.GET("/document", documentHandler.GetDocument)
			protected.PUT("/document", documentHandler.SaveDocument)
			protected.POST("/document/preview", documentHandler.PreviewDocument)

			protected.GET("/history", historyHandler.ListSnapshots)
			protected.POST("/history", historyHandler.SaveSnapshot)
			protected.POST("/history/:id/restore", historyHandler.RestoreSnapshot)
			protected.DELETE("/history/:id", historyHandler.RemoveSnapshot)
			protected.DELETE("/history", historyHandler.ClearSnapshots)

			protected.POST("/templates", templateHandler.CreateTemplate)
			protected.GET("/templates", templateHandler.ListTemplates)
			protected.GET("/templates/:id", templateHandler.GetTemplate)
			protected.PUT("/templates/:id", templateHandler.UpdateTemplate)
			protected.DELETE("/templates/:id", templateHandler.DeleteTemplate)

			protected.POST("/optimize", optimizeHandler.Optimize)
			protected.POST("/grammar", optimizeHandler.CheckGrammar)

			protected.POST("/parse/file", parseHandler.ParseFile)
			protected.POST("/parse/url", parseHandler.ParseURL)

			protected.POST("/export/pdf", exportHandler.ExportPDF)
			protected.POST("/export/docx", exportHandler.ExportDOCX)

			protected.POST("/backups", backupHandler.CreateBackup)
			protected.GET("/backups", backupHandler.ListBackups)
			protected.POST("/backups/restore", backupHandler.RestoreBackup)
			protected.DELETE("/backups", backupHandler.DeleteBackup)

			protected.POST("/assets/upload", assetHandler.UploadAsset)
			protected.GET("/assets", assetHandler.ListAssets)
			protected.GET("/assets/view", assetHandler.GetAssetURL)
			protected.DELETE("/assets", assetHandler.DeleteAsset)
		}
	}
}
