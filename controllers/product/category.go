package productcontroller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

// ErrCategoryCycle is returned when a parent assignment would make a
// category its own ancestor.
var ErrCategoryCycle = errors.New("category parent assignment would create a cycle")

type CategoryInput struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	Image            string `json:"image"`
	ParentCategoryID *uint  `json:"parent_category_id"`
}

// ValidateParentChain walks up from the proposed parent and rejects the
// assignment if it would close a loop through categoryID. The walk is capped
// so a corrupted chain in the database cannot spin forever.
func ValidateParentChain(db *gorm.DB, categoryID uint, parentID *uint) error {
	const maxDepth = 64
	current := parentID
	for depth := 0; current != nil; depth++ {
		if depth >= maxDepth {
			return ErrCategoryCycle
		}
		if *current == categoryID {
			return ErrCategoryCycle
		}
		var parent models.Category
		if err := db.Select("id", "parent_category_id").First(&parent, *current).Error; err != nil {
			return err
		}
		current = parent.ParentCategoryID
	}
	return nil
}

// POST /categories
func CreateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.ParentCategoryID != nil {
			var parent models.Category
			if err := db.First(&parent, *input.ParentCategoryID).Error; err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category does not exist"})
				return
			}
		}

		category := models.Category{
			Name:             input.Name,
			Description:      input.Description,
			Image:            input.Image,
			ParentCategoryID: input.ParentCategoryID,
		}
		if err := db.Create(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create category"})
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

// GET /categories
func GetAllCategories(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Preload("SubCategories").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

// GET /categories/:id
func GetCategoryByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var category models.Category
		if err := db.Preload("Products").Preload("SubCategories").First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// PUT /categories/:id
func UpdateCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var input CategoryInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		if input.ParentCategoryID != nil {
			if err := ValidateParentChain(db, category.ID, input.ParentCategoryID); err != nil {
				if errors.Is(err, ErrCategoryCycle) {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				} else {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Parent category does not exist"})
				}
				return
			}
		}

		category.Name = input.Name
		category.Description = input.Description
		if input.Image != "" {
			category.Image = input.Image
		}
		category.ParentCategoryID = input.ParentCategoryID

		if err := db.Save(&category).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update category"})
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DELETE /categories/:id — restricted while subcategories exist.
func DeleteCategory(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var category models.Category
		if err := db.First(&category, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Category not found"})
			return
		}

		var children int64
		if err := db.Model(&models.Category{}).Where("parent_category_id = ?", category.ID).Count(&children).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check subcategories"})
			return
		}
		if children > 0 {
			c.JSON(http.StatusConflict, gin.H{"error": "Category has subcategories and cannot be deleted"})
			return
		}

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&category).Association("Products").Clear(); err != nil {
				return err
			}
			return tx.Delete(&category).Error
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
	}
}
