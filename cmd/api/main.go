package main

import (
	"fmt"
	"net/http"
	"os"

	"cashew/internal/config"
	"cashew/internal/database"
	"cashew/internal/handlers"
	"cashew/internal/logger"
	"cashew/internal/middleware"
	"cashew/internal/notify"
	"cashew/internal/services"
	"cashew/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "cashew/internal/docs" // Import swagger docs
)

// @title           Cashew API
// @version         1.0
// @description     Cashew is a personal finance tracker for recording income, expenses, and transfers across cash and card, with per-category budgets and two-person ledger sharing.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbManager, err := database.NewManager(appConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	validator.Register()

	// Overrun events go to RabbitMQ when a broker is configured, and are
	// dropped otherwise. The alert rows themselves do not depend on it.
	var notifier notify.Notifier = notify.NopNotifier{}
	if appConfig.AMQPURL != "" {
		amqpNotifier, err := notify.NewAMQPNotifier(appConfig.AMQPURL, appConfig.AMQPExchange, appConfig.AMQPQueue)
		if err != nil {
			return fmt.Errorf("failed to connect to AMQP broker: %w", err)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
	}

	// Initialize services
	db := dbManager.DB()
	userService := services.NewUserService(db)
	sharingService := services.NewSharingService(db)
	budgetService := services.NewBudgetService(db)
	alertService := services.NewAlertService(db, budgetService, notifier)
	transactionService := services.NewTransactionService(db, sharingService, alertService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	balanceHandler := handlers.NewBalanceHandler(transactionService)
	budgetHandler := handlers.NewBudgetHandler(budgetService, alertService)
	sharingHandler := handlers.NewSharingHandler(sharingService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	// User profile
	protected.GET("/profile", authHandler.GetProfile)

	// Transaction routes
	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Balance routes
	protected.GET("/balances", balanceHandler.GetBalances)

	// Budget routes
	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.GET("", budgetHandler.GetBudgets)
	budgets.GET("/progress", budgetHandler.GetBudgetProgress)
	budgets.GET("/alerts", budgetHandler.GetAlerts)
	budgets.POST("/alerts/:id/dismiss", budgetHandler.DismissAlert)
	budgets.GET("/:id", budgetHandler.GetBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	// Sharing routes
	sharing := protected.Group("/sharing")
	sharing.POST("/invites", sharingHandler.InviteCollaborator)
	sharing.GET("/invites", sharingHandler.GetPendingInvites)
	sharing.POST("/invites/:id/accept", sharingHandler.AcceptInvite)
	sharing.POST("/invites/:id/decline", sharingHandler.DeclineInvite)
	sharing.GET("/collaborators", sharingHandler.GetCollaborators)
	sharing.DELETE("/collaborators/:id", sharingHandler.RevokeSharing)

	log.Infof("Starting Cashew backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
