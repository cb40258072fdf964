package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/certify-api/api/swagger"
	"github.com/noah-isme/certify-api/internal/handler"
	"github.com/noah-isme/certify-api/internal/middleware"
	"github.com/noah-isme/certify-api/internal/models"
	"github.com/noah-isme/certify-api/internal/repository"
	"github.com/noah-isme/certify-api/internal/service"
	"github.com/noah-isme/certify-api/pkg/cache"
	"github.com/noah-isme/certify-api/pkg/config"
	"github.com/noah-isme/certify-api/pkg/database"
	"github.com/noah-isme/certify-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/certify-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/certify-api/pkg/middleware/requestid"
	"github.com/noah-isme/certify-api/pkg/storage"
)

// @title Certify API
// @version 1.0.0
// @description Certificate issuance, bulk import and public verification service
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, verification caching disabled", "error", err)
		redisClient = nil
	}

	certificateRepo := repository.NewCertificateRepository(db)
	programRepo := repository.NewProgramRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	certificateSvc := service.NewCertificateService(certificateRepo, cacheRepo, cfg.Verify.CacheTTL, logr, metricsSvc)
	importSvc := service.NewImportService(certificateRepo, cfg.Import.MaxBatch, logr, metricsSvc)
	programSvc := service.NewProgramService(programRepo, nil, logr)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		files, err := storage.NewLocalStorage(cfg.Exports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to prepare export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SignedURLSecret, cfg.Exports.SignedURLTTL)
		exportRepo := repository.NewExportRepository(db)
		exportSvc = service.NewExportService(certificateRepo, exportRepo, files, signer, service.ExportConfig{
			Workers:         cfg.Exports.WorkerConcurrency,
			Retries:         cfg.Exports.WorkerRetries,
			CleanupInterval: cfg.Exports.CleanupInterval,
			FileTTL:         cfg.Exports.SignedURLTTL,
		}, logr)
		exportSvc.Start(ctx)
		defer exportSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	certificateHandler := handler.NewCertificateHandler(certificateSvc)
	importHandler := handler.NewImportHandler(importSvc)
	programHandler := handler.NewProgramHandler(programSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// public verification lookup
	r.GET("/verify/:internId", certificateHandler.Verify)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
			auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
			auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
		}

		certificates := api.Group("/certificates", middleware.JWT(authSvc))
		{
			certificates.GET("", certificateHandler.List)
			certificates.GET("/:internId", certificateHandler.Get)
			certificates.GET("/:internId/pdf", certificateHandler.Download)
			certificates.POST("", middleware.RequireRoles(models.RoleIssuer), certificateHandler.Create)
			certificates.POST("/bulk", middleware.RequireRoles(models.RoleIssuer), importHandler.Bulk)
			certificates.PUT("/:internId", middleware.RequireRoles(models.RoleIssuer), certificateHandler.Update)
			certificates.POST("/:internId/revoke", middleware.RequireRoles(models.RoleIssuer), certificateHandler.Revoke)
			certificates.DELETE("/:internId", middleware.RequireRoles(), certificateHandler.Delete)
		}

		programs := api.Group("/programs")
		{
			programs.GET("", programHandler.List)
			programs.GET("/:id", programHandler.Get)
			programs.POST("", middleware.JWT(authSvc), middleware.RequireRoles(), programHandler.Create)
			programs.PUT("/:id", middleware.JWT(authSvc), middleware.RequireRoles(), programHandler.Update)
			programs.DELETE("/:id", middleware.JWT(authSvc), middleware.RequireRoles(), programHandler.Delete)
		}

		if exportSvc != nil {
			exportHandler := handler.NewExportHandler(exportSvc)
			exports := api.Group("/exports")
			{
				exports.GET("/download", exportHandler.Download)
				exports.POST("", middleware.JWT(authSvc), middleware.RequireRoles(models.RoleIssuer), exportHandler.Request)
				exports.GET("/:id", middleware.JWT(authSvc), exportHandler.Status)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")
	if err := server.Shutdown(context.Background()); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
