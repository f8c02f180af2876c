package models

type Shipment struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Address           string           `json:"address"`
	CountryID         *uint            `json:"country_id"`
	Country           *Country         `gorm:"foreignKey:CountryID" json:"country,omitempty"`
	ShippingCompanyID *uint            `json:"shipping_company_id"`
	ShippingCompany   *ShippingCompany `gorm:"foreignKey:ShippingCompanyID" json:"shipping_company,omitempty"`
	TrackingNumber    string           `json:"tracking_number"`
	Status            string           `json:"status"`
}

type ShippingCompany struct {
	ID              uint    `gorm:"primaryKey" json:"id"`
	Name            string  `gorm:"not null" json:"name"`
	Pricing         float64 `json:"pricing"`
	AvgDeliveryTime string  `json:"avg_delivery_time"`
	ContactInfo     string  `json:"contact_info"`
}
