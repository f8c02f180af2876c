package reportControllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Read-only analytical queries. Each query gets its own result row type and
// a parameterized statement; callers pass their request context so a client
// hanging up cancels the scan.

type PriceHistoryRow struct {
	OrderDate    string  `json:"order_date"`
	PricePerUnit float64 `json:"price_per_unit"`
	QuantitySold int     `json:"quantity_sold"`
}

type UnorderedProductRow struct {
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
	Manufacturer string  `json:"manufacturer"`
}

type ManufacturerOrdersRow struct {
	Name     string `json:"name"`
	Products int    `json:"products"`
}

type RelatedProductRow struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// ProductPriceHistory returns, per order date and post-discount unit price,
// how many units of the product were sold. Order lines already snapshot the
// discounted unit price, so no discount math happens here.
func ProductPriceHistory(ctx context.Context, db *gorm.DB, productID uint) ([]PriceHistoryRow, error) {
	var rows []PriceHistoryRow
	err := db.WithContext(ctx).Raw(`
		SELECT CAST(DATE(r.date_created) AS TEXT) AS order_date,
		       oi.price            AS price_per_unit,
		       SUM(oi.quantity)    AS quantity_sold
		FROM order_items oi
		JOIN orders o   ON o.id = oi.order_id
		JOIN receipts r ON r.id = o.receipt_id
		WHERE oi.product_id = ? AND oi.quantity > 0
		GROUP BY DATE(r.date_created), oi.price
		ORDER BY order_date`, productID).Scan(&rows).Error
	return rows, err
}

// UnorderedProductsByQuantity lists products that have never been ordered
// and whose on-hand quantity is below the given threshold.
func UnorderedProductsByQuantity(ctx context.Context, db *gorm.DB, maxQuantity int) ([]UnorderedProductRow, error) {
	var rows []UnorderedProductRow
	err := db.WithContext(ctx).Raw(`
		SELECT p.name            AS name,
		       p.quantity        AS quantity,
		       p.price           AS price,
		       COALESCE(m.name, '') AS manufacturer
		FROM products p
		LEFT JOIN manufacturers m ON m.id = p.manufacturer_id
		WHERE p.quantity < ?
		  AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.product_id = p.id)
		ORDER BY p.name`, maxQuantity).Scan(&rows).Error
	return rows, err
}

// ManufacturersByUserOrders lists manufacturers whose products appear in the
// given user's orders, with the distinct product count per manufacturer.
func ManufacturersByUserOrders(ctx context.Context, db *gorm.DB, userID string) ([]ManufacturerOrdersRow, error) {
	var rows []ManufacturerOrdersRow
	err := db.WithContext(ctx).Raw(`
		SELECT m.name                       AS name,
		       COUNT(DISTINCT p.id)        AS products
		FROM manufacturers m
		JOIN products p     ON p.manufacturer_id = m.id
		JOIN order_items oi ON oi.product_id = p.id
		JOIN orders o       ON o.id = oi.order_id
		WHERE o.user_id = ?
		GROUP BY m.id, m.name
		ORDER BY m.name`, userID).Scan(&rows).Error
	return rows, err
}

// ProductsInSameCategories lists other products sharing at least one
// category with the given product.
func ProductsInSameCategories(ctx context.Context, db *gorm.DB, productID uint) ([]RelatedProductRow, error) {
	var rows []RelatedProductRow
	err := db.WithContext(ctx).Raw(`
		SELECT DISTINCT p.id  AS id,
		       p.name         AS name,
		       p.price        AS price,
		       p.quantity     AS quantity
		FROM products p
		JOIN product_categories pc ON pc.product_id = p.id
		WHERE pc.category_id IN (
			SELECT category_id FROM product_categories WHERE product_id = ?
		) AND p.id <> ?
		ORDER BY p.name`, productID, productID).Scan(&rows).Error
	return rows, err
}

// GET /reports/price-history/:productID
func PriceHistoryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productID"})
			return
		}
		rows, err := ProductPriceHistory(c.Request.Context(), db, uint(productID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/unordered-products?max_quantity=N
func UnorderedProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxQuantity, err := strconv.Atoi(c.DefaultQuery("max_quantity", "0"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_quantity"})
			return
		}
		rows, err := UnorderedProductsByQuantity(c.Request.Context(), db, maxQuantity)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/manufacturers-by-user/:userID
func ManufacturersByUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}
		rows, err := ManufacturersByUserOrders(c.Request.Context(), db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/related-products/:productID
func RelatedProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productID"})
			return
		}
		rows, err := ProductsInSameCategories(c.Request.Context(), db, uint(productID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
