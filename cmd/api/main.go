package main

import (
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Compliance Snapshot & Reconciliation API
// @version         1.0
// @description     Temporal item snapshots, payment/invoice reconciliation, tax rate anomaly detection, integrity orphan checks and compliance alert analytics.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log := config.NewLogger()

	if err := godotenv.Load("configs/.env"); err != nil {
		log.Info("No configs/.env file found or error loading it")
	}

	cfg := config.Load()

	loc, err := cfg.SnapshotLocation()
	if err != nil {
		log.WithError(err).Fatal("Invalid snapshot time zone")
	}

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.WithError(err).Fatal("Database connection failed")
	}
	log.Info("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	historyRepo := repository.NewItemHistoryRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	reconciliationRepo := repository.NewReconciliationRepository(db)
	anomalyRepo := repository.NewAnomalyRepository(db)
	orphanRepo := repository.NewOrphanRepository(db)
	alertRepo := repository.NewAlertRepository(db)
	userRepo := repository.NewUserRepository(db)

	snapshotService := service.NewSnapshotService(historyRepo, snapshotRepo, txManager, db, wsHub, loc, log)
	historyService := service.NewItemHistoryService(historyRepo, txManager, db)
	reconciliationService := service.NewReconciliationService(reconciliationRepo)
	anomalyService := service.NewAnomalyService(anomalyRepo)
	orphanService := service.NewOrphanService(orphanRepo)
	flowService := service.NewFlowService(alertRepo)
	alertService := service.NewAlertService(alertRepo)
	auditService := service.NewAuditService(db)
	userService := service.NewUserService(userRepo, db)

	// Initialize Handlers
	snapshotHandler := handler.NewSnapshotHandler(snapshotService)
	itemHandler := handler.NewItemHandler(historyService)
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationService)
	anomalyHandler := handler.NewAnomalyHandler(anomalyService)
	orphanHandler := handler.NewOrphanHandler(orphanService)
	alertHandler := handler.NewAlertHandler(flowService, alertService)
	auditHandler := handler.NewAuditHandler(auditService)
	userHandler := handler.NewUserHandler(userService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	snapshotHandler.RegisterRoutes(router.Group(""))
	itemHandler.RegisterRoutes(router.Group(""))
	reconciliationHandler.RegisterRoutes(router.Group(""))
	anomalyHandler.RegisterRoutes(router.Group(""))
	orphanHandler.RegisterRoutes(router.Group(""))
	alertHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))
	userHandler.RegisterRoutes(router.Group(""))

	log.Infof("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Server failed")
	}
}
