package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"tableconfig-editor/internal/config"
	"tableconfig-editor/internal/controller"
	"tableconfig-editor/internal/middleware"
	"tableconfig-editor/internal/model"
	"tableconfig-editor/internal/repository"
	"tableconfig-editor/internal/security"
	"tableconfig-editor/internal/service"
	"tableconfig-editor/internal/warehouse"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Set Gin mode
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize metrics
	middleware.InitMetrics()

	// Initialize the warehouse gateway
	gateway, err := warehouse.New(context.Background(), &warehouse.Config{
		Type: cfg.Warehouse.Type,
		Databricks: warehouse.DatabricksConfig{
			Host:        cfg.Warehouse.Databricks.Host,
			Token:       cfg.Warehouse.Databricks.Token,
			HTTPPath:    cfg.Warehouse.Databricks.HTTPPath,
			WarehouseID: cfg.Warehouse.Databricks.WarehouseID,
			Catalog:     cfg.Registry.Catalog,
			Schema:      cfg.Registry.Schema,
		},
		Snowflake: warehouse.SnowflakeConfig{
			Account:   cfg.Warehouse.Snowflake.Account,
			User:      cfg.Warehouse.Snowflake.User,
			Password:  cfg.Warehouse.Snowflake.Password,
			Role:      cfg.Warehouse.Snowflake.Role,
			Warehouse: cfg.Warehouse.Snowflake.Warehouse,
			Database:  cfg.Registry.Catalog,
			Schema:    cfg.Registry.Schema,
		},
		BigQuery: warehouse.BigQueryConfig{
			ProjectID:       cfg.Warehouse.BigQuery.ProjectID,
			Location:        cfg.Warehouse.BigQuery.Location,
			CredentialsFile: cfg.Warehouse.BigQuery.CredentialsFile,
		},
	})
	if err != nil {
		log.Fatal("Failed to initialize warehouse gateway:", err)
	}
	gateway = warehouse.Instrument(gateway)

	// Initialize the optional audit store
	auditDB, err := config.InitAuditDatabase(cfg)
	if err != nil {
		log.Fatal("Failed to initialize audit database:", err)
	}

	var revisionRepo repository.RevisionRepository
	if auditDB != nil {
		if err := auditDB.AutoMigrate(&model.SchemaRevision{}); err != nil {
			log.Printf("Warning: Audit database migration failed: %v", err)
			log.Println("Continuing with existing database schema...")
		}
		revisionRepo = repository.NewRevisionRepository(auditDB)
	}

	// Initialize repositories
	registryTable := fmt.Sprintf("%s.%s.%s",
		gateway.QuoteIdent(cfg.Registry.Catalog),
		gateway.QuoteIdent(cfg.Registry.Schema),
		gateway.QuoteIdent(cfg.Registry.Table))
	tableRepo := repository.NewTableConfigRepository(gateway, registryTable)

	// Initialize security
	jwtManager := security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration)
	authMiddleware := security.NewAuthMiddleware(jwtManager, cfg.Security.EnableAuth)

	// Initialize rate limiting
	rateLimitConfig := middleware.RateLimiterConfig{
		RPM:             cfg.Security.RateLimitPerMinute,
		Burst:           cfg.Security.RateLimitBurst,
		CleanupInterval: 5 * time.Minute,
	}
	rateLimiter := middleware.NewRateLimiter(rateLimitConfig)

	// Initialize services
	tableService := service.NewTableConfigService(tableRepo, revisionRepo)

	// Initialize controllers
	tableController := controller.NewTableConfigController(tableService)
	pageController := controller.NewPageController(tableService, cfg.UI.Title)
	healthController := controller.NewHealthController(gateway, auditDB)

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.Cors())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.PrometheusMiddleware())

	// Add rate limiting if enabled
	if cfg.Security.EnableRateLimit {
		router.Use(rateLimiter.RateLimit())
	}

	// Health check and metrics endpoints (always available)
	router.GET("/health", healthController.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Pages
	router.LoadHTMLGlob(cfg.UI.TemplateGlob)
	router.GET("/", pageController.ListPage)
	router.GET("/tables/:table_key", pageController.EditPage)

	// API v1 group
	api := router.Group("/api/v1")

	// Read endpoints
	read := api.Group("")
	read.Use(authMiddleware.OptionalAuth())
	{
		read.GET("/tables", tableController.ListTables)
		read.GET("/tables/:table_key", tableController.GetTableConfig)
		read.GET("/tables/:table_key/revisions", tableController.ListRevisions)
		read.GET("/source-systems", tableController.ListSourceSystems)
		read.GET("/registry/describe", tableController.DescribeRegistry)
	}

	// Write endpoints
	write := api.Group("")
	write.Use(authMiddleware.RequireEditor())
	{
		write.POST("/tables", tableController.CreateTable)
		write.PUT("/tables/:table_key/schema", tableController.SaveSchema)
		write.DELETE("/tables/:table_key", tableController.DeleteTable)
	}

	// Start server
	log.Printf("Starting server on port %s", cfg.Server.Port)
	log.Printf("Registry: %s", registryTable)
	log.Printf("Warehouse backend: %s", gateway.Name())

	if err := router.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
