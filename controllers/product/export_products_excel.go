package productcontroller

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// ExportCatalog writes every product as one row: name, parent-category name,
// subcategory name, unit, formatted price, quantity, description, discount,
// manufacturer name. The first associated category pair is used; a product
// linked only to a root category lands in the Category column with an empty
// Subcategory.
func ExportCatalog(db *gorm.DB, w io.Writer) error {
	var products []models.Product
	if err := db.
		Preload("Manufacturer").
		Preload("Categories").
		Preload("Categories.ParentCategory").
		Find(&products).Error; err != nil {
		return err
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return err
	}

	headerRow := sheet.AddRow()
	for _, h := range CatalogHeader {
		headerRow.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()

		var categoryName, subcategoryName string
		if len(p.Categories) > 0 {
			first := p.Categories[0]
			if first.ParentCategory != nil {
				categoryName = first.ParentCategory.Name
				subcategoryName = first.Name
			} else {
				categoryName = first.Name
			}
		}
		var manufacturerName string
		if p.Manufacturer != nil {
			manufacturerName = p.Manufacturer.Name
		}

		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(categoryName)
		row.AddCell().SetValue(subcategoryName)
		row.AddCell().SetValue(p.Unit)
		row.AddCell().SetValue(fmt.Sprintf("%.2f", p.Price))
		row.AddCell().SetValue(p.Quantity)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetValue(p.Discount)
		row.AddCell().SetValue(manufacturerName)
	}

	return file.Write(w)
}

// GET /catalog/export
func ExportCatalogToExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ct := c.DefaultQuery("content_type", XlsxContentType); ct != XlsxContentType {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": fmt.Sprintf("%v %q", ErrUnsupportedFormat, ct)})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=catalog.xlsx")
		c.Header("Content-Type", XlsxContentType)
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := ExportCatalog(db, c.Writer); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write Excel file"})
			return
		}
	}
}
