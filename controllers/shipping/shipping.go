package shippingControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

type ShippingCompanyInput struct {
	Name            string  `json:"name" binding:"required"`
	Pricing         float64 `json:"pricing"`
	AvgDeliveryTime string  `json:"avg_delivery_time"`
	ContactInfo     string  `json:"contact_info"`
}

// GET /shipping-companies — public, the cart page lists carriers to choose
// from at checkout.
func GetAllShippingCompanies(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var companies []models.ShippingCompany
		if err := db.Order("name").Find(&companies).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping companies"})
			return
		}
		c.JSON(http.StatusOK, companies)
	}
}

// POST /shipping-companies (admin)
func CreateShippingCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ShippingCompanyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		company := models.ShippingCompany{
			Name:            input.Name,
			Pricing:         input.Pricing,
			AvgDeliveryTime: input.AvgDeliveryTime,
			ContactInfo:     input.ContactInfo,
		}
		if err := db.Create(&company).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create shipping company"})
			return
		}
		c.JSON(http.StatusCreated, company)
	}
}

// PUT /shipping-companies/:id (admin)
func UpdateShippingCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var company models.ShippingCompany
		if err := db.First(&company, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Shipping company not found"})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch shipping company"})
			}
			return
		}

		var input ShippingCompanyInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		company.Name = input.Name
		company.Pricing = input.Pricing
		company.AvgDeliveryTime = input.AvgDeliveryTime
		company.ContactInfo = input.ContactInfo
		if err := db.Save(&company).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update shipping company"})
			return
		}
		c.JSON(http.StatusOK, company)
	}
}

// DELETE /shipping-companies/:id (admin)
func DeleteShippingCompany(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		result := db.Delete(&models.ShippingCompany{}, "id = ?", id)
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete shipping company"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Shipping company not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Shipping company deleted"})
	}
}
