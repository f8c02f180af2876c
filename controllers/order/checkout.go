package orderControllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PickupAddress is forced onto the shipment when the visitor chooses
// self-pickup instead of delivery.
const PickupAddress = "Self pickup"

// ErrEmptyCart is returned when checkout is attempted on a cart with no
// lines.
var ErrEmptyCart = errors.New("cart is empty")

// OutOfStockError aborts checkout on the first line whose quantity exceeds
// the product's on-hand quantity. No partial checkout happens.
type OutOfStockError struct {
	ProductName string
}

func (e *OutOfStockError) Error() string {
	return "product out of stock: " + e.ProductName
}

type CheckoutRequest struct {
	UserID            string `json:"user_id"`
	PaymentMethod     string `json:"payment_method" binding:"required"` // "card" or "cash"
	CardNumber        string `json:"card_number"`
	Notes             string `json:"notes"`
	ShippingMethod    string `json:"shipping_method" binding:"required"` // "pickup" or "delivery"
	Address           string `json:"address"`
	ShippingCompanyID *uint  `json:"shipping_company_id"`
}

// Checkout converts the user's cart into an Order, Shipment and Receipt,
// decrements stock and clears the cart. Everything from the shipment insert
// to the cart wipe commits as one transaction: a failure partway leaves no
// stock decremented without an order and no order without its receipt.
// Products are row-locked for the duration so two simultaneous checkouts
// cannot oversell the same item.
func Checkout(db *gorm.DB, req CheckoutRequest) (*models.Order, error) {
	var cart models.Cart
	if err := db.Preload("Items").Preload("Items.Product").
		Where("user_id = ?", req.UserID).First(&cart).Error; err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		// Re-read every product under a row lock and verify stock before
		// touching anything else. SQLite has no FOR UPDATE; its writes are
		// serialized anyway.
		lockTx := tx
		if tx.Dialector.Name() == "postgres" {
			lockTx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		products := make(map[uint]*models.Product, len(cart.Items))
		for _, item := range cart.Items {
			var product models.Product
			if err := lockTx.First(&product, item.ProductID).Error; err != nil {
				return err
			}
			if product.Quantity < item.Quantity {
				return &OutOfStockError{ProductName: product.Name}
			}
			products[item.ProductID] = &product
		}

		shipment := models.Shipment{
			Address: req.Address,
			Status:  "created",
		}
		if req.ShippingMethod == "pickup" {
			shipment.Address = PickupAddress
			shipment.ShippingCompanyID = nil
		} else {
			shipment.ShippingCompanyID = req.ShippingCompanyID
		}
		if err := tx.Create(&shipment).Error; err != nil {
			return err
		}

		var orderTotal float64
		var totalQuantity int
		items := make([]models.OrderItem, 0, len(cart.Items))
		for _, item := range cart.Items {
			product := products[item.ProductID]
			discount := product.Price * ParseDiscount(product.Discount)
			unitPrice := product.Price - discount
			orderTotal += unitPrice * float64(item.Quantity)
			totalQuantity += item.Quantity
			items = append(items, models.OrderItem{
				ProductID: item.ProductID,
				Price:     unitPrice,
				Quantity:  item.Quantity,
			})
		}

		payment := "cash"
		if req.PaymentMethod == "card" {
			payment = req.CardNumber
		}

		order = models.Order{
			UserID:     req.UserID,
			Total:      orderTotal,
			Payment:    payment,
			Notes:      req.Notes,
			ShipmentID: &shipment.ID,
			Items:      items,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		receipt := models.Receipt{
			DateCreated: time.Now(),
			Quantity:    totalQuantity,
			Total:       orderTotal,
			Payment:     order.Payment,
			Notes:       order.Notes,
			ShipmentID:  &shipment.ID,
		}
		if err := tx.Create(&receipt).Error; err != nil {
			return err
		}
		if err := tx.Model(&order).Update("receipt_id", receipt.ID).Error; err != nil {
			return err
		}

		for _, item := range cart.Items {
			product := products[item.ProductID]
			product.Quantity -= item.Quantity
			if err := tx.Save(product).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Model(&models.Cart{}).Where("cart_id = ?", cart.CartID).
			Updates(map[string]interface{}{"total_price": 0, "total_quantity": 0}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ParseDiscount turns a trailing-"%" numeric string into a fraction
// multiplier: "10%" yields 0.10. Anything else yields 0.
func ParseDiscount(discount string) float64 {
	s := strings.TrimSpace(discount)
	if s == "" || !strings.HasSuffix(s, "%") {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil {
		return 0
	}
	return v / 100
}

// POST /orders/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}

		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.UserID = userIDVal.(string)

		order, err := Checkout(db, req)
		if err != nil {
			var oos *OutOfStockError
			switch {
			case errors.Is(err, ErrEmptyCart):
				c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
			case errors.As(err, &oos):
				c.JSON(http.StatusConflict, gin.H{"error": oos.Error()})
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Checkout failed: %v", err)})
			}
			return
		}

		broadcastNewOrder(*order)
		c.JSON(http.StatusOK, order)
	}
}
