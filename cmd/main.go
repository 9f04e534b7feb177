package main

import (
	"fmt"
	"net/http"
	"time"

	_ "github.com/danuarta/cafe-order-api/docs" // Import generated docs
	"github.com/danuarta/cafe-order-api/internal/auth"
	"github.com/danuarta/cafe-order-api/internal/config"
	"github.com/danuarta/cafe-order-api/internal/controllers"
	"github.com/danuarta/cafe-order-api/internal/database"
	"github.com/danuarta/cafe-order-api/internal/middleware"
	"github.com/danuarta/cafe-order-api/internal/models"
	"github.com/danuarta/cafe-order-api/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

var (
	db              *gorm.DB
	menuService     services.MenuService
	orderService    services.OrderService
	menuController  controllers.MenuController
	orderController controllers.OrderController
	adminController controllers.AdminController
	adminAuth       gin.HandlerFunc
	configuration   *config.Config
)

// @title Café Order API
// @version 1.0
// @description Ordering API for a café: menu browsing, order lifecycle and menu administration
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the admin secret or a session token.
func main() {
	// Load environment variables
	loadDotenvFile()

	// Initialize logger
	setUpLogger()

	// Load configuration
	configuration = loadConfig()

	// Initialize database connection
	setupDatabase(configuration)

	// Initialize services, controllers and the admin gate
	tokenIssuer := auth.NewTokenIssuer([]byte(configuration.JWTSecret))
	menuService = services.NewMenuService(db)
	orderService = services.NewOrderService(db)
	menuController = controllers.NewMenuController(menuService)
	orderController = controllers.NewOrderController(orderService)
	adminController = controllers.NewAdminController(menuService, tokenIssuer,
		configuration.AdminPassword, configuration.AdminPasswordHash)
	adminAuth = middleware.AdminAuth(middleware.AdminAuthConfig{
		Password:     configuration.AdminPassword,
		PasswordHash: configuration.AdminPasswordHash,
		Issuer:       tokenIssuer,
	})

	// Initialize Gin router
	var router *gin.Engine = setupRouter()

	// Start the server
	log.Infof("Starting server on %s:%d", configuration.Host, configuration.Port)
	router.Run(fmt.Sprintf("%v:%d", configuration.Host, configuration.Port))
}

// checkPanicErr checks if an error occurred and panics if it did
func checkPanicErr(err error) {
	if err != nil {
		panic(err)
	}
}

// loadDotenvFile loads environment variables from a .env file
// If the file is not found, it will log a warning and use system environment variables
func loadDotenvFile() {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}
}

// setUpLogger initializes the logger with a JSON formatter and sets the log level based on the environment
func setUpLogger() {
	log.SetFormatter(&log.JSONFormatter{})
	environment := config.GetEnvWithDefault("APP_ENV", "development")
	switch environment {
	case "development":
		log.SetLevel(log.DebugLevel)
	case "production":
		log.SetLevel(log.ErrorLevel)
	default:
		log.SetLevel(log.InfoLevel)
	}
}

// loadConfig loads the application configuration from environment variables
// It returns a Config struct or panics if there is an error
func loadConfig() *config.Config {
	conf, err := config.LoadConfig()
	checkPanicErr(err)
	return conf
}

// setupDatabase initializes the database connection and seeds an empty menu
func setupDatabase(conf *config.Config) *gorm.DB {
	var err error
	db, err = database.InitDatabase(database.FromAppConfig(conf))
	checkPanicErr(err)

	// Create only if is empty
	var count int64
	db.Model(&models.MenuCategory{}).Count(&count)
	if count == 0 {
		log.Info("Database is empty, seeding initial data")
		seedDatabase()
	} else {
		log.Info("Database already seeded with initial data")
	}
	return db
}

// seedDatabase seeds the database with a small starter menu
func seedDatabase() {
	log.Info("Seeding database with initial data")

	categories := []models.MenuCategory{
		{Name: "Coffee", SortOrder: 1, IsActive: true},
		{Name: "Non-Coffee", SortOrder: 2, IsActive: true},
		{Name: "Snacks", SortOrder: 3, IsActive: true},
	}
	for i := range categories {
		db.Create(&categories[i])
	}

	items := []struct {
		item     models.MenuItem
		category int
	}{
		{models.MenuItem{Name: "Espresso", Price: 18000, IsAvailable: true, SortOrder: 1}, 0},
		{models.MenuItem{Name: "Cafe Latte", Price: 25000, IsAvailable: true, SortOrder: 2}, 0},
		{models.MenuItem{Name: "Es Kopi Susu", Price: 22000, IsAvailable: true, SortOrder: 3}, 0},
		{models.MenuItem{Name: "Matcha Latte", Price: 26000, IsAvailable: true, SortOrder: 1}, 1},
		{models.MenuItem{Name: "Lemon Tea", Price: 15000, IsAvailable: true, SortOrder: 2}, 1},
		{models.MenuItem{Name: "Pisang Goreng", Price: 12000, IsAvailable: true, SortOrder: 1}, 2},
		{models.MenuItem{Name: "Roti Bakar", Price: 14000, IsAvailable: true, SortOrder: 2}, 2},
	}
	for i := range items {
		db.Create(&items[i].item)
		db.Create(&models.MenuItemCategory{
			MenuItemID: items[i].item.ID,
			CategoryID: categories[items[i].category].ID,
		})
	}
	log.Info("Database seeded successfully")
}

// setupRouter initializes the Gin router and sets up the routes
// It returns the configured router
func setupRouter() *gin.Engine {
	// Initialize Gin router
	router := gin.Default()
	router.Use(middleware.HTTPMetrics())

	// Define routes
	setupRoutes(router)

	return router
}

// setupRoutes defines the routes for the Gin router
func setupRoutes(router *gin.Engine) {
	// Health check endpoint
	router.GET("/health", healthCheckHandler)

	// Prometheus scrape endpoint
	router.GET("/metrics", middleware.MetricsHandler())

	api := router.Group("/api")
	{
		// Public customer-facing routes
		api.GET("/menu", menuController.GetMenu)
		api.GET("/orders", orderController.GetOrders)
		api.POST("/orders", orderController.CreateOrder)
		api.PATCH("/orders/:id", orderController.UpdateOrder)
		api.DELETE("/orders/:id", orderController.RejectOrder)

		admin := api.Group("/admin")
		{
			admin.POST("/login", adminController.Login)

			// Read routes stay open; every mutating route goes through the
			// bearer gate
			admin.GET("/categories", adminController.ListCategories)
			admin.POST("/categories", adminAuth, adminController.CreateCategory)
			admin.PATCH("/categories/:id", adminAuth, adminController.UpdateCategory)
			admin.DELETE("/categories/:id", adminAuth, adminController.DeleteCategory)

			admin.GET("/menu-items", adminController.ListMenuItems)
			admin.POST("/menu-items", adminAuth, adminController.CreateMenuItem)
			admin.PATCH("/menu-items/:id", adminAuth, adminController.UpdateMenuItem)
			admin.DELETE("/menu-items/:id", adminAuth, adminController.DeleteMenuItem)

			admin.GET("/menu-items/:id/categories", adminController.GetItemCategories)
			admin.POST("/menu-items/:id/categories", adminAuth, adminController.AddItemCategory)
			admin.DELETE("/menu-items/:id/categories", adminAuth, adminController.RemoveItemCategory)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// healthCheckHandler handles the health check endpoint
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "cafe-order-api",
	})
}
