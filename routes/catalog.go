package routes

import (
	"github.com/gin-gonic/gin"
	cartControllers "github.com/shopcore/shop-api/controllers/cart"
	productControllers "github.com/shopcore/shop-api/controllers/product"
	shippingControllers "github.com/shopcore/shop-api/controllers/shipping"
	"github.com/shopcore/shop-api/middleware"
	"gorm.io/gorm"
)

// SetupCatalogRoutes registers the public browsing endpoints and the visitor
// cart. Cart routes work for both authenticated users and anonymous
// sessions; the identity middleware decides which.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productControllers.GetProducts(db))
	r.GET("/products/:id", productControllers.GetProductByID(db))
	r.GET("/categories", productControllers.GetAllCategories(db))
	r.GET("/categories/:id", productControllers.GetCategoryByID(db))
	r.GET("/manufacturers", productControllers.GetAllManufacturers(db))
	r.GET("/countries", productControllers.GetAllCountries(db))
	r.GET("/shipping-companies", shippingControllers.GetAllShippingCompanies(db))

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.ResolveVisitor)
	{
		cartGroup.GET("", cartControllers.GetCart(db))
		cartGroup.POST("/items", cartControllers.AddCartItem(db))
		cartGroup.DELETE("/items/:product_id", cartControllers.DeleteCartItem(db))
		cartGroup.DELETE("", cartControllers.ClearCart(db))
	}
}
