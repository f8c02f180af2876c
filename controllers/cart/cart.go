package cartControllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

// ErrInsufficientStock is returned when the requested quantity (plus what is
// already in the cart) exceeds the product's on-hand quantity.
var ErrInsufficientStock = errors.New("insufficient stock")

// Owner identifies the cart's visitor: an authenticated user id or an
// anonymous session token. Exactly one must be set.
type Owner struct {
	UserID    string
	SessionID string
}

type CartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// ResolveCart finds the single cart owned by the given identity, creating an
// empty one on first use. Repeated calls with the same identity return the
// same cart; the unique indexes on user_id and session_id back that up.
func ResolveCart(db *gorm.DB, owner Owner) (*models.Cart, error) {
	if (owner.UserID == "") == (owner.SessionID == "") {
		return nil, errors.New("cart owner must be exactly one of user id or session id")
	}

	var cart models.Cart
	query := db.Preload("Items").Preload("Items.Product")
	if owner.UserID != "" {
		query = query.Where("user_id = ?", owner.UserID)
	} else {
		query = query.Where("session_id = ?", owner.SessionID)
	}

	err := query.First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{TotalPrice: 0, TotalQuantity: 0}
	if owner.UserID != "" {
		cart.UserID = &owner.UserID
	} else {
		cart.SessionID = &owner.SessionID
	}
	if err := db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem adds a product to the cart or tops up an existing line. Quantity is
// coerced to at least 1. Stock is only checked here, never decremented; the
// checkout workflow owns the decrement.
func AddItem(db *gorm.DB, cart *models.Cart, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		quantity = 1
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		return nil, err
	}

	var item models.CartItem
	err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if product.Quantity < quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		item = models.CartItem{
			CartID:    cart.CartID,
			ProductID: product.ID,
			Quantity:  quantity,
			Price:     product.Price * float64(quantity),
			AddedAt:   time.Now(),
		}
		if err := db.Create(&item).Error; err != nil {
			return nil, err
		}
	} else {
		if product.Quantity < item.Quantity+quantity {
			return nil, fmt.Errorf("%w: %s", ErrInsufficientStock, product.Name)
		}
		item.Quantity += quantity
		item.Price += product.Price * float64(quantity)
		item.AddedAt = time.Now()
		if err := db.Save(&item).Error; err != nil {
			return nil, err
		}
	}

	if err := RecomputeTotals(db, cart.CartID); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveItem deletes the matching line. A missing line is logged, not an
// error.
func RemoveItem(db *gorm.DB, cart *models.Cart, productID uint) error {
	result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		log.Printf("remove from cart %d: product %d not in cart, nothing to do", cart.CartID, productID)
		return nil
	}
	return RecomputeTotals(db, cart.CartID)
}

// RecomputeTotals refreshes the cart's cached price/quantity aggregates from
// its lines.
func RecomputeTotals(db *gorm.DB, cartID uint) error {
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cartID).Find(&items).Error; err != nil {
		return err
	}
	var price float64
	var quantity int
	for _, it := range items {
		price += it.Price
		quantity += it.Quantity
	}
	return db.Model(&models.Cart{}).Where("cart_id = ?", cartID).
		Updates(map[string]interface{}{"total_price": price, "total_quantity": quantity}).Error
}

func ownerFromContext(c *gin.Context) (Owner, bool) {
	if v, ok := c.Get("user_id"); ok {
		return Owner{UserID: v.(string)}, true
	}
	if v, ok := c.Get("session_id"); ok {
		return Owner{SessionID: v.(string)}, true
	}
	return Owner{}, false
}

// GET /cart
func GetCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No visitor identity"})
			return
		}
		cart, err := ResolveCart(db, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /cart/items
func AddCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No visitor identity"})
			return
		}

		var input CartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cart, err := ResolveCart(db, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}

		item, err := AddItem(db, cart, input.ProductID, input.Quantity)
		if err != nil {
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Product does not exist"})
			case errors.Is(err, ErrInsufficientStock):
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			}
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

// DELETE /cart/items/:product_id
func DeleteCartItem(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No visitor identity"})
			return
		}

		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product_id"})
			return
		}

		cart, err := ResolveCart(db, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}

		if err := RemoveItem(db, cart, uint(productID)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}

// DELETE /cart
func ClearCart(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, ok := ownerFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "No visitor identity"})
			return
		}

		cart, err := ResolveCart(db, owner)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve cart"})
			return
		}

		if err := db.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear cart"})
			return
		}
		if err := RecomputeTotals(db, cart.CartID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart totals"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
