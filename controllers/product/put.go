package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

type ProductUpdateInput struct {
	Name           *string  `json:"name"`
	Price          *float64 `json:"price"`
	Unit           *string  `json:"unit"`
	Quantity       *int     `json:"quantity"`
	Discount       *string  `json:"discount"`
	Description    *string  `json:"description"`
	ManufacturerID *uint    `json:"manufacturer_id"`
	CategoryIDs    []uint   `json:"category_ids"`
}

// UpdateProduct applies a partial update; only the supplied fields change.
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var product models.Product
		if err := db.Preload("Categories").First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch product"})
			}
			return
		}

		var input ProductUpdateInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Price != nil {
			product.Price = *input.Price
		}
		if input.Unit != nil {
			product.Unit = *input.Unit
		}
		if input.Quantity != nil {
			product.Quantity = *input.Quantity
		}
		if input.Discount != nil {
			product.Discount = *input.Discount
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.ManufacturerID != nil {
			product.ManufacturerID = input.ManufacturerID
		}

		if input.CategoryIDs != nil {
			var categories []models.Category
			if err := db.Find(&categories, input.CategoryIDs).Error; err != nil || len(categories) != len(input.CategoryIDs) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "One or more categories do not exist"})
				return
			}
			if err := db.Model(&product).Association("Categories").Replace(categories); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category associations"})
				return
			}
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
