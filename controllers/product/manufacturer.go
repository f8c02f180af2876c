package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

type ManufacturerInput struct {
	Name        string `json:"name" binding:"required"`
	ContactInfo string `json:"contact_info"`
	CountryID   *uint  `json:"country_id"`
}

// POST /manufacturers
func CreateManufacturer(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input ManufacturerInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		if input.CountryID != nil {
			var country models.Country
			if err := db.First(&country, *input.CountryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Country does not exist"})
				return
			}
		}
		manufacturer := models.Manufacturer{
			Name:        input.Name,
			ContactInfo: input.ContactInfo,
			CountryID:   input.CountryID,
		}
		if err := db.Create(&manufacturer).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create manufacturer"})
			return
		}
		c.JSON(http.StatusCreated, manufacturer)
	}
}

// GET /manufacturers
func GetAllManufacturers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var manufacturers []models.Manufacturer
		if err := db.Preload("Country").Find(&manufacturers).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch manufacturers"})
			return
		}
		c.JSON(http.StatusOK, manufacturers)
	}
}

// POST /countries
func CreateCountry(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}
		country := models.Country{Name: input.Name}
		if err := db.Create(&country).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create country"})
			return
		}
		c.JSON(http.StatusCreated, country)
	}
}

// GET /countries
func GetAllCountries(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var countries []models.Country
		if err := db.Order("name").Find(&countries).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch countries"})
			return
		}
		c.JSON(http.StatusOK, countries)
	}
}
