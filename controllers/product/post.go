package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

type ProductInput struct {
	Name           string  `json:"name" binding:"required"`
	Price          float64 `json:"price"`
	Unit           string  `json:"unit"`
	Quantity       int     `json:"quantity"`
	Discount       string  `json:"discount"`
	Description    string  `json:"description"`
	ManufacturerID *uint   `json:"manufacturer_id"`
	CategoryIDs    []uint  `json:"category_ids"`
}

// CreateProduct creates a new product with its category associations.
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ProductInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.ManufacturerID != nil {
			var manufacturer models.Manufacturer
			if err := db.First(&manufacturer, *input.ManufacturerID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Manufacturer does not exist"})
				return
			}
		}

		var categories []models.Category
		if len(input.CategoryIDs) > 0 {
			if err := db.Find(&categories, input.CategoryIDs).Error; err != nil || len(categories) != len(input.CategoryIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "One or more categories do not exist"})
				return
			}
		}

		product := models.Product{
			Name:           input.Name,
			Price:          input.Price,
			Unit:           input.Unit,
			Quantity:       input.Quantity,
			Discount:       input.Discount,
			Description:    input.Description,
			ManufacturerID: input.ManufacturerID,
			Categories:     categories,
		}
		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}
