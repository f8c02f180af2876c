package models

import "time"

type Order struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	UserID     string      `gorm:"not null;index" json:"user_id"`
	User       *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Total      float64     `json:"total"`
	Discount   float64     `json:"discount"`
	Payment    string      `json:"payment"` // card number or the literal "cash"
	Notes      string      `json:"notes"`
	ShipmentID *uint       `json:"shipment_id"`
	Shipment   *Shipment   `gorm:"foreignKey:ShipmentID" json:"shipment,omitempty"`
	ReceiptID  *uint       `json:"receipt_id"`
	Receipt    *Receipt    `gorm:"foreignKey:ReceiptID" json:"receipt,omitempty"`
	Items      []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// PlacedAt is derived from the receipt so the two can never diverge.
// Zero time when the receipt is not loaded or the order has no receipt.
func (o *Order) PlacedAt() time.Time {
	if o.Receipt == nil {
		return time.Time{}
	}
	return o.Receipt.DateCreated
}

// OrderItem snapshots the post-discount unit price and quantity at order
// time; later product price or discount changes do not touch it.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `gorm:"index" json:"order_id"`
	ProductID uint    `gorm:"index" json:"product_id"`
	Product   Product `gorm:"foreignKey:ProductID" json:"product"`
	Price     float64 `json:"price"` // unit price after discount
	Quantity  int     `json:"quantity"`
}

// Receipt aggregates one or more orders. The checkout workflow creates it
// 1:1 with an order, but the relation stays 1:many.
type Receipt struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	DateCreated time.Time `json:"date_created"`
	Quantity    int       `json:"quantity"` // sum of line quantities across orders
	Total       float64   `json:"total"`
	Payment     string    `json:"payment"`
	Notes       string    `json:"notes"`
	ShipmentID  *uint     `json:"shipment_id"`
	Shipment    *Shipment `gorm:"foreignKey:ShipmentID" json:"shipment,omitempty"`
	Orders      []Order   `gorm:"foreignKey:ReceiptID" json:"orders,omitempty"`
}
