package routes

import (
	"github.com/gin-gonic/gin"
	reportControllers "github.com/shopcore/shop-api/controllers/report"
	"github.com/shopcore/shop-api/middleware"
	"gorm.io/gorm"
)

func SetupReportRoutes(r *gin.Engine, db *gorm.DB) {
	reports := r.Group("/reports")
	{
		// Price history feeds public product charts
		reports.GET("/price-history/:productID", reportControllers.PriceHistoryHandler(db))

		adminReports := reports.Group("")
		adminReports.Use(middleware.ValidateToken, middleware.RequireAdmin)
		{
			adminReports.GET("/unordered-products", reportControllers.UnorderedProductsHandler(db))
			adminReports.GET("/manufacturers-by-user/:userID", reportControllers.ManufacturersByUserHandler(db))
			adminReports.GET("/related-products/:productID", reportControllers.RelatedProductsHandler(db))
			adminReports.GET("/users-with-no-common-products/:userID", reportControllers.NoCommonProductsHandler(db))
			adminReports.GET("/products-above-category-average", reportControllers.AboveCategoryAverageHandler(db))
			adminReports.GET("/manufacturers-covering-category/:categoryID", reportControllers.CategoryCoverageHandler(db))
			adminReports.GET("/identical-baskets", reportControllers.IdenticalBasketsHandler(db))
			adminReports.GET("/category-set-products/:productID", reportControllers.CategorySetProductsHandler(db))
			adminReports.GET("/country-staples/:countryID", reportControllers.CountryStaplesHandler(db))
			adminReports.GET("/full-range-manufacturers", reportControllers.FullRangeManufacturersHandler(db))
			adminReports.GET("/full-range-buyers", reportControllers.FullRangeBuyersHandler(db))
		}
	}
}
