package orderControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

func preloadOrder(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items").
		Preload("Items.Product").
		Preload("Shipment").
		Preload("Shipment.ShippingCompany").
		Preload("Receipt")
}

// GET /orders — admins see every order, everyone else only their own.
func ListOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		role, _ := c.Get("role")

		query := preloadOrder(db).Order("id DESC")
		if role != models.RoleAdmin {
			query = query.Where("user_id = ?", userIDVal.(string))
		}

		var orders []models.Order
		if err := query.Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, orders)
	}
}

// GET /orders/:orderID
func GetOrderByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if orderID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "orderID is required"})
			return
		}

		var order models.Order
		if err := preloadOrder(db).First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		userIDVal, _ := c.Get("user_id")
		role, _ := c.Get("role")
		if role != models.RoleAdmin && order.UserID != userIDVal.(string) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// DeleteOrder removes an order with its lines and settles the linked receipt:
// its total and quantity are re-derived from the orders that remain on it, and
// a receipt left with no orders is removed.
func DeleteOrder(db *gorm.DB, orderID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			return err
		}

		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&order).Error; err != nil {
			return err
		}

		if order.ReceiptID == nil {
			return nil
		}
		return settleReceipt(tx, *order.ReceiptID)
	})
}

// settleReceipt re-derives a receipt's aggregates from its remaining orders,
// deleting the receipt when none are left.
func settleReceipt(tx *gorm.DB, receiptID uint) error {
	var relatedOrders []models.Order
	if err := tx.Where("receipt_id = ?", receiptID).Find(&relatedOrders).Error; err != nil {
		return err
	}
	if len(relatedOrders) == 0 {
		return tx.Delete(&models.Receipt{}, receiptID).Error
	}
	var total float64
	var quantity int64
	for _, o := range relatedOrders {
		total += o.Total
		var q int64
		if err := tx.Model(&models.OrderItem{}).Where("order_id = ?", o.ID).
			Select("COALESCE(SUM(quantity), 0)").Scan(&q).Error; err != nil {
			return err
		}
		quantity += q
	}
	return tx.Model(&models.Receipt{}).Where("id = ?", receiptID).
		Updates(map[string]interface{}{"total": total, "quantity": quantity}).Error
}

// DELETE /orders/:orderID (admin)
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid orderID"})
			return
		}
		if err := DeleteOrder(db, uint(orderID)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete order"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
	}
}

type UpdateShipmentRequest struct {
	Status         string `json:"status"`
	TrackingNumber string `json:"tracking_number"`
}

// PUT /shipments/:shipmentID (admin) — status / tracking updates.
func UpdateShipmentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		shipmentID := c.Param("shipmentID")

		var req UpdateShipmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var shipment models.Shipment
		if err := db.First(&shipment, "id = ?", shipmentID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipment not found"})
			return
		}

		if req.Status != "" {
			shipment.Status = req.Status
		}
		if req.TrackingNumber != "" {
			shipment.TrackingNumber = req.TrackingNumber
		}
		if err := db.Save(&shipment).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shipment"})
			return
		}
		c.JSON(http.StatusOK, shipment)
	}
}
