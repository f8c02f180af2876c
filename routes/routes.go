package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry point that wires up all route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public auth routes (rate limited)
	SetupAuthRoutes(r, db)

	// Catalog browsing + visitor cart (anonymous or authenticated)
	SetupCatalogRoutes(r, db)

	// User profile + checkout + orders (JWT protected)
	SetupUserRoutes(r, db)
	SetupOrderRoutes(r, db)

	// Admin surface (JWT admin role + API key)
	SetupAdminRoutes(r, db)

	// Read-only analytical reports
	SetupReportRoutes(r, db)
}
