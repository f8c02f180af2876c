package models

// Category is a node in the catalog taxonomy tree. A nil ParentCategoryID
// marks a root category. The parent chain is kept acyclic on write (see the
// category controller); deleting a category with subcategories is restricted.
type Category struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name             string     `gorm:"not null;index" json:"name"`
	Description      string     `json:"description"`
	Image            string     `json:"image"`
	ParentCategoryID *uint      `gorm:"index" json:"parent_category_id"`
	ParentCategory   *Category  `gorm:"foreignKey:ParentCategoryID;constraint:OnDelete:RESTRICT" json:"parent_category,omitempty"`
	SubCategories    []Category `gorm:"foreignKey:ParentCategoryID" json:"sub_categories,omitempty"`
	Products         []Product  `gorm:"many2many:product_categories" json:"products,omitempty"`
}
