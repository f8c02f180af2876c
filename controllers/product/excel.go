package productcontroller

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopcore/shop-api/models"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// XlsxContentType is the only spreadsheet format with a registered
// import/export handler.
const XlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrUnsupportedFormat is returned when import or export is requested for a
// content type no handler is registered for.
var ErrUnsupportedFormat = errors.New("no catalog handler registered for content type")

// CatalogHeader is the fixed 9-column layout shared by import and export.
// The first row of the sheet is always this header.
var CatalogHeader = []string{
	"Name", "Category", "Subcategory", "Unit", "Price",
	"Quantity", "Description", "Discount", "Manufacturer",
}

type ImportSummary struct {
	Created int `json:"created"`
	Linked  int `json:"linked"`
	Skipped int `json:"skipped"`
}

// ImportCatalog reads product rows from an xlsx stream and reconciles them
// against the existing catalog. Matching is by exact, case-sensitive name:
// manufacturers, root categories and subcategories are found-or-created, a
// product already linked to the row's subcategory is skipped, a product that
// exists elsewhere only gains a new category link, and anything else is
// created. Existing product fields are never updated on re-import. A sheet
// with no data rows is a no-op.
func ImportCatalog(db *gorm.DB, r io.ReaderAt, size int64) (ImportSummary, error) {
	var summary ImportSummary

	xlFile, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return summary, fmt.Errorf("parse xlsx: %w", err)
	}
	if len(xlFile.Sheets) == 0 {
		return summary, errors.New("spreadsheet has no sheets")
	}

	sheet := xlFile.Sheets[0]
	err = db.Transaction(func(tx *gorm.DB) error {
		for i := 1; i < sheet.MaxRow; i++ {
			row := sheet.Rows[i]

			get := func(index int) string {
				if index < len(row.Cells) {
					return strings.TrimSpace(row.Cells[index].String())
				}
				return ""
			}

			name := get(0)
			if name == "" {
				summary.Skipped++
				continue
			}
			categoryName := get(1)
			subcategoryName := get(2)
			unit := get(3)
			price, _ := strconv.ParseFloat(get(4), 64)
			quantity, _ := strconv.Atoi(get(5))
			description := get(6)
			discount := NormalizeDiscount(get(7))
			manufacturerName := get(8)

			manufacturer, err := findOrCreateManufacturer(tx, manufacturerName)
			if err != nil {
				return err
			}

			// Root category first: it must be persisted before the
			// subcategory can reference its generated id.
			category, err := findOrCreateCategory(tx, categoryName, nil)
			if err != nil {
				return err
			}
			subcategory, err := findOrCreateCategory(tx, subcategoryName, &category.ID)
			if err != nil {
				return err
			}

			var existing models.Product
			err = tx.
				Joins("JOIN product_categories pc ON pc.product_id = products.id").
				Where("products.name = ? AND pc.category_id = ?", name, subcategory.ID).
				First(&existing).Error
			if err == nil {
				summary.Skipped++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			err = tx.Where("name = ?", name).First(&existing).Error
			if err == nil {
				if err := tx.Model(&existing).Association("Categories").Append(subcategory); err != nil {
					return err
				}
				summary.Linked++
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			product := models.Product{
				Name:           name,
				Price:          price,
				Unit:           unit,
				Quantity:       quantity,
				Discount:       discount,
				Description:    description,
				ManufacturerID: &manufacturer.ID,
				Categories:     []models.Category{*subcategory},
			}
			if err := tx.Create(&product).Error; err != nil {
				return err
			}
			summary.Created++
		}
		return nil
	})
	return summary, err
}

// NormalizeDiscount converts a decimal strictly between 0 and 1 into a whole
// percentage string ("0.15" becomes "15%"); anything else passes through
// unchanged.
func NormalizeDiscount(raw string) string {
	v, err := strconv.ParseFloat(raw, 64)
	if err == nil && v > 0 && v < 1 {
		return fmt.Sprintf("%.0f%%", v*100)
	}
	return raw
}

func findOrCreateManufacturer(tx *gorm.DB, name string) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	err := tx.Where("name = ?", name).First(&manufacturer).Error
	if err == nil {
		return &manufacturer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	manufacturer = models.Manufacturer{Name: name}
	if err := tx.Create(&manufacturer).Error; err != nil {
		return nil, err
	}
	return &manufacturer, nil
}

func findOrCreateCategory(tx *gorm.DB, name string, parentID *uint) (*models.Category, error) {
	var category models.Category
	query := tx.Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_category_id IS NULL")
	} else {
		query = query.Where("parent_category_id = ?", *parentID)
	}
	err := query.First(&category).Error
	if err == nil {
		return &category, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	category = models.Category{
		Name:             name,
		Description:      "Imported from Excel",
		ParentCategoryID: parentID,
	}
	if err := tx.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// POST /catalog/import
func ImportCatalogFromExcel(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		excelFileHeader, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is required"})
			return
		}

		if ct := excelFileHeader.Header.Get("Content-Type"); ct != "" && ct != XlsxContentType {
			c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": fmt.Sprintf("%v %q", ErrUnsupportedFormat, ct)})
			return
		}

		file, err := excelFileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open Excel file"})
			return
		}
		defer file.Close()

		summary, err := ImportCatalog(db, file, excelFileHeader.Size)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Import completed",
			"created": summary.Created,
			"linked":  summary.Linked,
			"skipped": summary.Skipped,
		})
	}
}
