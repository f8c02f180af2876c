package routes

import (
	"github.com/gin-gonic/gin"
	orderControllers "github.com/shopcore/shop-api/controllers/order"
	"github.com/shopcore/shop-api/middleware"
	"gorm.io/gorm"
)

func SetupOrderRoutes(r *gin.Engine, db *gorm.DB) {
	orders := r.Group("/orders")
	orders.Use(middleware.ValidateToken)
	{
		// Convert the cart into order + shipment + receipt
		orders.POST("/checkout", orderControllers.CheckoutHandler(db))

		// Admins see everything, users their own
		orders.GET("", orderControllers.ListOrdersHandler(db))
		orders.GET("/:orderID", orderControllers.GetOrderByIDHandler(db))

		orders.DELETE("/:orderID", middleware.RequireAdmin, orderControllers.DeleteOrderHandler(db))
	}

	// websocket endpoint for real-time order updates
	r.GET("/orders/ws", orderControllers.OrderWebSocketHandler)
}
