package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/config"
	"github.com/nutricoach/nutricoach-backend/internal/database"
	"github.com/nutricoach/nutricoach-backend/internal/middleware"
	"github.com/nutricoach/nutricoach-backend/internal/service"
)

// HealthCheck reports liveness without touching any dependency.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "NutriCoach API is running",
		"version": "v1.0.0",
	})
}

// RegisterRoutes wires every service and handler onto the router. The Redis
// client and S3 config may be nil; the affected features degrade instead of
// blocking startup.
func RegisterRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, s3Config *config.S3Config) {
	router.GET("/health", HealthCheck)
	router.GET("/api/health", HealthCheck)

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		redisClient = nil
	}

	var barcodeLimiter *middleware.RateLimiter
	var retailerLimiter *middleware.RateLimiter
	if redisClient != nil {
		barcodeLimiter = middleware.NewBarcodeLookupRateLimiter(redisClient)
		retailerLimiter = middleware.NewRetailerSearchRateLimiter(redisClient)
	}

	authService := service.NewAuthService(db, cfg.JWTSecret)
	catalogService := service.NewCatalogService(db)
	nevoService := service.NewNevoService(db, cfg.NevoDatasetURL)
	pantryService := service.NewPantryService(db)
	barcodeService := service.NewBarcodeService(redisClient, cfg.BarcodeAPIURL)
	retailerService := service.NewRetailerService(cfg.RetailerAPIURL, cfg.RetailerAPIKey)
	recipeService := service.NewRecipeService(db)
	mealPlanService := service.NewMealPlanService(db)
	varietyService := service.NewVarietyService(db)
	guardrailsService := service.NewGuardrailsService(db)
	rulesService := service.NewRulesService(db)
	protocolService := service.NewProtocolService(db)

	var imageService *service.ImageService
	if s3Config != nil {
		imageService = service.NewImageService(s3Config)
	}

	authHandler := NewAuthHandler(authService)
	catalogHandler := NewCatalogHandler(catalogService, nevoService, imageService, authService)
	pantryHandler := NewPantryHandler(pantryService, barcodeService, retailerService, authService, barcodeLimiter, retailerLimiter)
	recipeHandler := NewRecipeHandler(recipeService, guardrailsService, authService)
	mealPlanHandler := NewMealPlanHandler(mealPlanService, varietyService, authService)
	guardrailsHandler := NewGuardrailsHandler(guardrailsService, rulesService, authService)
	rulesHandler := NewRulesHandler(rulesService, authService)
	protocolHandler := NewProtocolHandler(protocolService, authService)

	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	pantryHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	mealPlanHandler.RegisterRoutes(v1)
	guardrailsHandler.RegisterRoutes(v1)
	rulesHandler.RegisterRoutes(v1)
	protocolHandler.RegisterRoutes(v1)
}
