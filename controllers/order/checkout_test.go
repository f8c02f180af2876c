package orderControllers

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	cartControllers "github.com/shopcore/shop-api/controllers/cart"
	"github.com/shopcore/shop-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Country{}, &models.Manufacturer{},
		&models.Category{}, &models.Product{}, &models.Cart{}, &models.CartItem{},
		&models.ShippingCompany{}, &models.Shipment{}, &models.Receipt{},
		&models.Order{}, &models.OrderItem{},
	); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func seedCart(t *testing.T, db *gorm.DB, userID string, products ...models.Product) *models.Cart {
	t.Helper()
	cart, err := cartControllers.ResolveCart(db, cartControllers.Owner{UserID: userID})
	if err != nil {
		t.Fatalf("resolve cart: %v", err)
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			t.Fatalf("seed product: %v", err)
		}
	}
	return cart
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCheckoutTotals(t *testing.T) {
	db := openTestDB(t)
	productA := models.Product{Name: "A", Price: 10, Quantity: 10}
	productB := models.Product{Name: "B", Price: 5, Quantity: 10, Discount: "10%"}
	cart := seedCart(t, db, "user-1", productA, productB)

	if _, err := cartControllers.AddItem(db, cart, 1, 2); err != nil {
		t.Fatalf("add A: %v", err)
	}
	if _, err := cartControllers.AddItem(db, cart, 2, 1); err != nil {
		t.Fatalf("add B: %v", err)
	}

	order, err := Checkout(db, CheckoutRequest{
		UserID:         "user-1",
		PaymentMethod:  "cash",
		ShippingMethod: "pickup",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// 2×10 + 1×(5×0.9) = 24.5
	if !almostEqual(order.Total, 24.5) {
		t.Errorf("expected total 24.5, got %v", order.Total)
	}

	var items []models.OrderItem
	db.Where("order_id = ?", order.ID).Order("product_id").Find(&items)
	if len(items) != 2 {
		t.Fatalf("expected 2 order lines, got %d", len(items))
	}
	if !almostEqual(items[0].Price, 10) || items[0].Quantity != 2 {
		t.Errorf("line A snapshot wrong: %+v", items[0])
	}
	if !almostEqual(items[1].Price, 4.5) || items[1].Quantity != 1 {
		t.Errorf("line B snapshot wrong: %+v", items[1])
	}
}

func TestCheckoutSideEffects(t *testing.T) {
	db := openTestDB(t)
	product := models.Product{Name: "Jam", Price: 8, Quantity: 6}
	cart := seedCart(t, db, "user-1", product)
	if _, err := cartControllers.AddItem(db, cart, 1, 4); err != nil {
		t.Fatalf("add: %v", err)
	}

	order, err := Checkout(db, CheckoutRequest{
		UserID:         "user-1",
		PaymentMethod:  "card",
		CardNumber:     "4111111111111111",
		Notes:          "leave at the door",
		ShippingMethod: "delivery",
		Address:        "12 Main St",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if order.Payment != "4111111111111111" {
		t.Errorf("card payment descriptor wrong: %q", order.Payment)
	}

	// Exactly one order, shipment and receipt, mutually linked.
	var orderCount, shipmentCount, receiptCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.Shipment{}).Count(&shipmentCount)
	db.Model(&models.Receipt{}).Count(&receiptCount)
	if orderCount != 1 || shipmentCount != 1 || receiptCount != 1 {
		t.Fatalf("expected 1/1/1 order/shipment/receipt, got %d/%d/%d", orderCount, shipmentCount, receiptCount)
	}

	if order.ShipmentID == nil || order.ReceiptID == nil {
		t.Fatal("order missing shipment or receipt link")
	}
	var receipt models.Receipt
	db.First(&receipt, *order.ReceiptID)
	if receipt.ShipmentID == nil || *receipt.ShipmentID != *order.ShipmentID {
		t.Error("receipt not linked to the order's shipment")
	}
	if receipt.Quantity != 4 || !almostEqual(receipt.Total, 32) {
		t.Errorf("receipt aggregates wrong: qty %d total %v", receipt.Quantity, receipt.Total)
	}
	if receipt.Payment != order.Payment || receipt.Notes != order.Notes {
		t.Error("receipt does not mirror the order payment/notes")
	}

	// Stock decremented by exactly the line quantity.
	var reloaded models.Product
	db.First(&reloaded, 1)
	if reloaded.Quantity != 2 {
		t.Errorf("expected stock 2, got %d", reloaded.Quantity)
	}

	// The cart survives, empty, with zeroed totals.
	var lines int64
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&lines)
	if lines != 0 {
		t.Errorf("expected cart cleared, got %d lines", lines)
	}
	var reloadedCart models.Cart
	db.First(&reloadedCart, cart.CartID)
	if reloadedCart.TotalPrice != 0 || reloadedCart.TotalQuantity != 0 {
		t.Errorf("cart totals not zeroed: %v/%d", reloadedCart.TotalPrice, reloadedCart.TotalQuantity)
	}

	// PlacedAt derives from the receipt.
	order.Receipt = &receipt
	if !order.PlacedAt().Equal(receipt.DateCreated) {
		t.Error("PlacedAt must mirror the receipt creation time")
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := openTestDB(t)
	seedCart(t, db, "user-1")

	_, err := Checkout(db, CheckoutRequest{UserID: "user-1", PaymentMethod: "cash", ShippingMethod: "pickup"})
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}

	var orderCount, shipmentCount, receiptCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.Shipment{}).Count(&shipmentCount)
	db.Model(&models.Receipt{}).Count(&receiptCount)
	if orderCount+shipmentCount+receiptCount != 0 {
		t.Errorf("empty-cart checkout created records: %d/%d/%d", orderCount, shipmentCount, receiptCount)
	}
}

func TestCheckoutOutOfStockAborts(t *testing.T) {
	db := openTestDB(t)
	product := models.Product{Name: "Honey", Price: 12, Quantity: 5}
	cart := seedCart(t, db, "user-1", product)
	if _, err := cartControllers.AddItem(db, cart, 1, 5); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Someone else buys the stock out from under the cart.
	db.Model(&models.Product{}).Where("id = ?", 1).Update("quantity", 3)

	_, err := Checkout(db, CheckoutRequest{UserID: "user-1", PaymentMethod: "cash", ShippingMethod: "pickup"})
	var oos *OutOfStockError
	if !errors.As(err, &oos) {
		t.Fatalf("expected OutOfStockError, got %v", err)
	}
	if oos.ProductName != "Honey" {
		t.Errorf("expected product name in error, got %q", oos.ProductName)
	}

	// No partial state: nothing created, stock untouched, cart intact.
	var orderCount, shipmentCount, receiptCount, lines int64
	db.Model(&models.Order{}).Count(&orderCount)
	db.Model(&models.Shipment{}).Count(&shipmentCount)
	db.Model(&models.Receipt{}).Count(&receiptCount)
	db.Model(&models.CartItem{}).Where("cart_id = ?", cart.CartID).Count(&lines)
	if orderCount+shipmentCount+receiptCount != 0 {
		t.Errorf("failed checkout left records: %d/%d/%d", orderCount, shipmentCount, receiptCount)
	}
	if lines != 1 {
		t.Errorf("cart lines changed, got %d", lines)
	}
	var reloaded models.Product
	db.First(&reloaded, 1)
	if reloaded.Quantity != 3 {
		t.Errorf("stock changed by failed checkout: %d", reloaded.Quantity)
	}
}

func TestCheckoutPickupForcesAddress(t *testing.T) {
	db := openTestDB(t)
	product := models.Product{Name: "Rice", Price: 2, Quantity: 9}
	cart := seedCart(t, db, "user-1", product)
	if _, err := cartControllers.AddItem(db, cart, 1, 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	companyID := uint(7)
	order, err := Checkout(db, CheckoutRequest{
		UserID:            "user-1",
		PaymentMethod:     "cash",
		ShippingMethod:    "pickup",
		Address:           "should be ignored",
		ShippingCompanyID: &companyID,
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	var shipment models.Shipment
	db.First(&shipment, *order.ShipmentID)
	if shipment.Address != PickupAddress {
		t.Errorf("expected pickup address %q, got %q", PickupAddress, shipment.Address)
	}
	if shipment.ShippingCompanyID != nil {
		t.Error("pickup shipment must not reference a shipping company")
	}
}

func TestParseDiscount(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"10%", 0.10},
		{"15%", 0.15},
		{"", 0},
		{"abc%", 0},
		{"10", 0},
		{" 25% ", 0.25},
	}
	for _, tc := range cases {
		if got := ParseDiscount(tc.in); !almostEqual(got, tc.want) {
			t.Errorf("ParseDiscount(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
