package productcontroller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	cartControllers "github.com/shopcore/shop-api/controllers/cart"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

// DeleteProductCascade removes a product together with every record that
// depends on it: order lines, cart lines and category associations go first,
// then each affected order's total is recomputed from its remaining lines
// (empty orders are removed), then each affected receipt's total and quantity
// are recomputed from its remaining orders (empty receipts are removed).
// Order aggregates must settle before receipt aggregates since the latter
// derive from the former.
func DeleteProductCascade(db *gorm.DB, productID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return err
		}

		var affectedOrders []models.Order
		if err := tx.
			Joins("JOIN order_items oi ON oi.order_id = orders.id").
			Where("oi.product_id = ?", productID).
			Find(&affectedOrders).Error; err != nil {
			return err
		}

		receiptIDs := make([]uint, 0, len(affectedOrders))
		for _, o := range affectedOrders {
			if o.ReceiptID != nil {
				receiptIDs = append(receiptIDs, *o.ReceiptID)
			}
		}

		var affectedCartIDs []uint
		if err := tx.Model(&models.CartItem{}).Where("product_id = ?", productID).
			Distinct().Pluck("cart_id", &affectedCartIDs).Error; err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", productID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", productID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&product).Association("Categories").Clear(); err != nil {
			return err
		}

		for _, order := range affectedOrders {
			var remaining []models.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Find(&remaining).Error; err != nil {
				return err
			}
			if len(remaining) == 0 {
				if err := tx.Delete(&models.Order{}, order.ID).Error; err != nil {
					return err
				}
				continue
			}
			var total float64
			for _, item := range remaining {
				total += item.Price * float64(item.Quantity)
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				Update("total", total).Error; err != nil {
				return err
			}
		}

		for _, receiptID := range receiptIDs {
			var relatedOrders []models.Order
			if err := tx.Where("receipt_id = ?", receiptID).Find(&relatedOrders).Error; err != nil {
				return err
			}
			if len(relatedOrders) == 0 {
				if err := tx.Delete(&models.Receipt{}, receiptID).Error; err != nil {
					return err
				}
				continue
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
			if err := tx.Model(&models.Receipt{}).Where("id = ?", receiptID).
				Updates(map[string]interface{}{"total": total, "quantity": quantity}).Error; err != nil {
				return err
			}
		}

		for _, cartID := range affectedCartIDs {
			if err := cartControllers.RecomputeTotals(tx, cartID); err != nil {
				return err
			}
		}

		return tx.Delete(&product).Error
	})
}

// DELETE /products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		if err := DeleteProductCascade(db, uint(id)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
	}
}
