package main

import (
	"log"
	"os"
	"strconv"
	"time"

	_ "obrafacil/api/swagger" // swagger docs
	"obrafacil/internal/database"
	"obrafacil/internal/handler"
	"obrafacil/internal/middleware"
	"obrafacil/internal/repository"
	"obrafacil/internal/service"
	"obrafacil/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           ObraFácil API
// @version         1.0
// @description     Construction project management API: material catalog, budget approval workflow, progress tracking.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	if err := database.Seed(db); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	// Simulated provider latency, configurable for local demos
	authDelay := time.Duration(0)
	if raw := os.Getenv("AUTH_DELAY_MS"); raw != "" {
		if ms, err := strconv.Atoi(raw); err == nil && ms > 0 {
			authDelay = time.Duration(ms) * time.Millisecond
		}
	}

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	materialRepo := repository.NewMaterialRepository(db)
	budgetRepo := repository.NewBudgetRepository(db)
	checklistRepo := repository.NewChecklistRepository(db)
	measurementRepo := repository.NewMeasurementRepository(db)
	additionRepo := repository.NewAdditionRepository(db)
	integrationRepo := repository.NewIntegrationRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	authService := service.NewAuthService(userRepo, auditRepo, authDelay)
	userService := service.NewUserService(userRepo, auditRepo)
	materialService := service.NewMaterialService(materialRepo)
	budgetService := service.NewBudgetService(budgetRepo, materialRepo, auditRepo, txManager, wsHub)
	checklistService := service.NewChecklistService(checklistRepo)
	measurementService := service.NewMeasurementService(measurementRepo)
	additionService := service.NewAdditionService(additionRepo)
	integrationService := service.NewIntegrationService(integrationRepo, authDelay)
	auditService := service.NewAuditService(auditRepo)
	dashboardService := service.NewDashboardService(db)
	backupService := service.NewBackupService(db)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	materialHandler := handler.NewMaterialHandler(materialService)
	budgetHandler := handler.NewBudgetHandler(budgetService)
	checklistHandler := handler.NewChecklistHandler(checklistService)
	measurementHandler := handler.NewMeasurementHandler(measurementService)
	additionHandler := handler.NewAdditionHandler(additionService)
	integrationHandler := handler.NewIntegrationHandler(integrationService)
	auditHandler := handler.NewAuditHandler(auditService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	backupHandler := handler.NewBackupHandler(backupService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"} // Frontend URL
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
	api := router.Group("/api")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	materialHandler.RegisterRoutes(api)
	budgetHandler.RegisterRoutes(api)
	checklistHandler.RegisterRoutes(api)
	measurementHandler.RegisterRoutes(api)
	additionHandler.RegisterRoutes(api)
	integrationHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)
	dashboardHandler.RegisterRoutes(api)
	backupHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
