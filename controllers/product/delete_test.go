package productcontroller

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{ID: "user-1", Email: "u@example.com", PasswordHash: "x", Name: "U"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string, price float64, quantity int) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price, Unit: "pcs", Quantity: quantity}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("seed product %q: %v", name, err)
	}
	return product
}

// seedOrder creates an order with its own receipt, mirroring what checkout
// produces.
func seedOrder(t *testing.T, db *gorm.DB, userID string, lines []models.OrderItem) (models.Order, models.Receipt) {
	t.Helper()
	var total float64
	var quantity int
	for _, l := range lines {
		total += l.Price * float64(l.Quantity)
		quantity += l.Quantity
	}
	receipt := models.Receipt{DateCreated: time.Now(), Quantity: quantity, Total: total, Payment: "cash"}
	if err := db.Create(&receipt).Error; err != nil {
		t.Fatalf("seed receipt: %v", err)
	}
	order := models.Order{UserID: userID, Total: total, Payment: "cash", ReceiptID: &receipt.ID, Items: lines}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order, receipt
}

func TestDeleteProductRemovesEmptyOrderAndReceipt(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	product := seedCatalogProduct(t, db, "Honey", 8, 10)

	order, receipt := seedOrder(t, db, user.ID, []models.OrderItem{
		{ProductID: product.ID, Price: 8, Quantity: 2},
	})

	if err := DeleteProductCascade(db, product.ID); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	if err := db.First(&models.Product{}, product.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("product still present: %v", err)
	}
	if err := db.First(&models.Order{}, order.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("emptied order still present: %v", err)
	}
	if err := db.First(&models.Receipt{}, receipt.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("orphaned receipt still present: %v", err)
	}
	var itemCount int64
	db.Model(&models.OrderItem{}).Count(&itemCount)
	if itemCount != 0 {
		t.Errorf("expected no order items, got %d", itemCount)
	}
}

func TestDeleteProductRecomputesOrderAndReceipt(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	doomed := seedCatalogProduct(t, db, "Honey", 8, 10)
	kept := seedCatalogProduct(t, db, "Tea", 3, 10)

	order, receipt := seedOrder(t, db, user.ID, []models.OrderItem{
		{ProductID: doomed.ID, Price: 8, Quantity: 2},
		{ProductID: kept.ID, Price: 3, Quantity: 4},
	})

	if err := DeleteProductCascade(db, doomed.ID); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	var got models.Order
	if err := db.First(&got, order.ID).Error; err != nil {
		t.Fatalf("order gone: %v", err)
	}
	if math.Abs(got.Total-12) > 1e-9 {
		t.Errorf("order total = %v, want 12", got.Total)
	}

	var gotReceipt models.Receipt
	if err := db.First(&gotReceipt, receipt.ID).Error; err != nil {
		t.Fatalf("receipt gone: %v", err)
	}
	if math.Abs(gotReceipt.Total-12) > 1e-9 || gotReceipt.Quantity != 4 {
		t.Errorf("receipt = total %v quantity %d, want total 12 quantity 4", gotReceipt.Total, gotReceipt.Quantity)
	}

	// The surviving product and its line are untouched.
	var lines []models.OrderItem
	db.Where("order_id = ?", order.ID).Find(&lines)
	if len(lines) != 1 || lines[0].ProductID != kept.ID {
		t.Errorf("unexpected surviving lines: %+v", lines)
	}
}

func TestDeleteProductPrunesCartLines(t *testing.T) {
	db := openTestDB(t)
	user := seedUser(t, db)
	doomed := seedCatalogProduct(t, db, "Honey", 8, 10)
	kept := seedCatalogProduct(t, db, "Tea", 3, 10)

	cart := models.Cart{UserID: &user.ID}
	if err := db.Create(&cart).Error; err != nil {
		t.Fatalf("seed cart: %v", err)
	}
	items := []models.CartItem{
		{CartID: cart.CartID, ProductID: doomed.ID, Quantity: 1, Price: 8},
		{CartID: cart.CartID, ProductID: kept.ID, Quantity: 2, Price: 6},
	}
	if err := db.Create(&items).Error; err != nil {
		t.Fatalf("seed cart items: %v", err)
	}

	if err := DeleteProductCascade(db, doomed.ID); err != nil {
		t.Fatalf("cascade: %v", err)
	}

	var got models.Cart
	if err := db.Preload("Items").First(&got, cart.CartID).Error; err != nil {
		t.Fatalf("cart gone: %v", err)
	}
	if len(got.Items) != 1 || got.Items[0].ProductID != kept.ID {
		t.Errorf("unexpected cart lines: %+v", got.Items)
	}
	if math.Abs(got.TotalPrice-6) > 1e-9 || got.TotalQuantity != 2 {
		t.Errorf("cart totals = %v/%d, want 6/2", got.TotalPrice, got.TotalQuantity)
	}
}

func TestDeleteProductMissing(t *testing.T) {
	db := openTestDB(t)
	if err := DeleteProductCascade(db, 404); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
