package models

import "time"

// Cart belongs to exactly one owner: an authenticated user or an anonymous
// session. The partial unique indexes enforce one cart per non-null key.
type Cart struct {
	CartID        uint       `gorm:"primaryKey" json:"cart_id"`
	UserID        *string    `gorm:"uniqueIndex" json:"user_id"`
	SessionID     *string    `gorm:"uniqueIndex" json:"session_id"`
	TotalPrice    float64    `json:"total_price"`    // cached aggregate, recomputed on every line change
	TotalQuantity int        `json:"total_quantity"` // cached aggregate
	Items         []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CartID    uint      `gorm:"index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint      `gorm:"index:idx_cart_product,unique" json:"product_id"`
	Product   Product   `gorm:"foreignKey:ProductID" json:"product"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"` // unit price × quantity at time of add/update
	AddedAt   time.Time `json:"added_at"`
}
