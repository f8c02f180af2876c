package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/auth"
	"github.com/shopcore/shop-api/middleware"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	authGroup.Use(middleware.RateLimiter())
	{
		authGroup.POST("/register", auth.Register(db))
		authGroup.POST("/login", auth.Login(db))
		authGroup.POST("/session", auth.CreateSession())
	}
}
