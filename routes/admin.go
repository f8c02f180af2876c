package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/shopcore/shop-api/controllers/order"
	productControllers "github.com/shopcore/shop-api/controllers/product"
	shippingControllers "github.com/shopcore/shop-api/controllers/shipping"
	userControllers "github.com/shopcore/shop-api/controllers/user"
	"github.com/shopcore/shop-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers the administrative surface: catalog CRUD,
// spreadsheet import/export, shipping administration and user listing.
// Guarded by the admin API key plus a JWT with the admin role.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	admin := r.Group("/admin")
	admin.Use(middleware.ValidateAPIKey, middleware.ValidateToken, middleware.RequireAdmin)
	{
		admin.POST("/products", productControllers.CreateProduct(db))
		admin.PUT("/products/:id", productControllers.UpdateProduct(db))
		admin.DELETE("/products/:id", productControllers.DeleteProduct(db))

		admin.POST("/categories", productControllers.CreateCategory(db))
		admin.PUT("/categories/:id", productControllers.UpdateCategory(db))
		admin.DELETE("/categories/:id", productControllers.DeleteCategory(db))

		admin.POST("/manufacturers", productControllers.CreateManufacturer(db))
		admin.POST("/countries", productControllers.CreateCountry(db))

		admin.POST("/catalog/import", productControllers.ImportCatalogFromExcel(db))
		admin.GET("/catalog/export", productControllers.ExportCatalogToExcel(db))

		admin.POST("/shipping-companies", shippingControllers.CreateShippingCompany(db))
		admin.PUT("/shipping-companies/:id", shippingControllers.UpdateShippingCompany(db))
		admin.DELETE("/shipping-companies/:id", shippingControllers.DeleteShippingCompany(db))
		admin.PUT("/shipments/:shipmentID", orderControllers.UpdateShipmentHandler(db))

		admin.GET("/users", userControllers.GetAllUsers(db))
	}
}
