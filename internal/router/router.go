package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nutricoach/nutricoach-backend/config"
	"github.com/nutricoach/nutricoach-backend/internal/api"
	"github.com/nutricoach/nutricoach-backend/internal/middleware"
)

// SetupRouter builds the gin engine with CORS and every API route attached.
func SetupRouter(db *gorm.DB, cfg *config.Config, s3Config *config.S3Config) *gin.Engine {
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	router.Use(middleware.CORS())

	api.RegisterRoutes(router, db, cfg, s3Config)

	return router
}
