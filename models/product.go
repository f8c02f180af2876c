package models

import "time"

type Product struct {
	ID             uint          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string        `gorm:"not null;index" json:"name"`
	Price          float64       `json:"price"`
	Unit           string        `json:"unit"` // unit of measure, e.g. "kg", "pcs"
	Quantity       int           `json:"quantity"`
	Discount       string        `json:"discount"` // percentage string, e.g. "10%"
	Description    string        `json:"description"`
	ImagePath      string        `json:"image_path"`
	ManufacturerID *uint         `json:"manufacturer_id"`
	Manufacturer   *Manufacturer `gorm:"foreignKey:ManufacturerID" json:"manufacturer,omitempty"`
	Categories     []Category    `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

type Manufacturer struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	ContactInfo string    `json:"contact_info"`
	CountryID   *uint     `json:"country_id"`
	Country     *Country  `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	Products    []Product `gorm:"foreignKey:ManufacturerID" json:"products,omitempty"`
}

type Country struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"not null" json:"name"`
}
