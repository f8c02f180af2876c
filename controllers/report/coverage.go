package reportControllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Coverage and comparison queries; mostly relational division, written as
// nested NOT EXISTS anti-joins so they run unchanged on postgres and sqlite.

type UserOrderCountRow struct {
	Name   string `json:"name"`
	Orders int    `json:"orders"`
}

type AboveAverageProductRow struct {
	Name            string  `json:"name"`
	Price           float64 `json:"price"`
	Category        string  `json:"category"`
	CategoryAverage float64 `json:"category_average"`
}

type ManufacturerCoverageRow struct {
	Name     string `json:"name"`
	Country  string `json:"country"`
	Products int    `json:"products"`
}

type BasketPairRow struct {
	User1          string `json:"user1"`
	User2          string `json:"user2"`
	CommonProducts int    `json:"common_products"`
}

type CategorySetProductRow struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Categories int    `json:"categories"`
}

type CountryStapleRow struct {
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer"`
	Buyers       int    `json:"buyers"`
	CountryUsers int    `json:"country_users"`
}

type FullRangeManufacturerRow struct {
	Name            string `json:"name"`
	Country         string `json:"country"`
	Categories      int    `json:"categories"`
	TotalCategories int    `json:"total_categories"`
}

type FullRangeBuyerRow struct {
	Name               string `json:"name"`
	Manufacturers      int    `json:"manufacturers"`
	TotalManufacturers int    `json:"total_manufacturers"`
}

// UsersWithNoCommonProducts lists users whose orders share no product at all
// with the given user, with their order counts.
func UsersWithNoCommonProducts(ctx context.Context, db *gorm.DB, userID string) ([]UserOrderCountRow, error) {
	var rows []UserOrderCountRow
	err := db.WithContext(ctx).Raw(`
		SELECT u.name                 AS name,
		       COUNT(DISTINCT o.id)   AS orders
		FROM users u
		JOIN orders o ON o.user_id = u.id
		WHERE u.id <> ?
		  AND NOT EXISTS (
			SELECT 1
			FROM orders o2
			JOIN order_items oi2 ON oi2.order_id = o2.id
			WHERE o2.user_id = u.id
			  AND oi2.product_id IN (
				SELECT oi.product_id
				FROM orders ox
				JOIN order_items oi ON oi.order_id = ox.id
				WHERE ox.user_id = ?))
		GROUP BY u.id, u.name
		ORDER BY u.name`, userID, userID).Scan(&rows).Error
	return rows, err
}

// ProductsAboveCategoryAverage lists products priced above the average of a
// category they belong to. A product in several categories can appear once
// per category it beats.
func ProductsAboveCategoryAverage(ctx context.Context, db *gorm.DB) ([]AboveAverageProductRow, error) {
	var rows []AboveAverageProductRow
	err := db.WithContext(ctx).Raw(`
		SELECT p.name        AS name,
		       p.price       AS price,
		       c.name        AS category,
		       avgs.avg_price AS category_average
		FROM products p
		JOIN product_categories pc ON pc.product_id = p.id
		JOIN categories c ON c.id = pc.category_id
		JOIN (
			SELECT pc2.category_id, AVG(p2.price) AS avg_price
			FROM product_categories pc2
			JOIN products p2 ON p2.id = pc2.product_id
			GROUP BY pc2.category_id
		) avgs ON avgs.category_id = c.id
		WHERE p.price > avgs.avg_price
		ORDER BY c.name, p.name`).Scan(&rows).Error
	return rows, err
}

// ManufacturersCoveringCategory lists manufacturers that supply every product
// in the given category. Empty categories yield no rows.
func ManufacturersCoveringCategory(ctx context.Context, db *gorm.DB, categoryID uint) ([]ManufacturerCoverageRow, error) {
	var rows []ManufacturerCoverageRow
	err := db.WithContext(ctx).Raw(`
		SELECT m.name                AS name,
		       COALESCE(co.name, '') AS country,
		       (SELECT COUNT(*)
		        FROM product_categories pcx
		        JOIN products px ON px.id = pcx.product_id
		        WHERE pcx.category_id = ? AND px.manufacturer_id = m.id) AS products
		FROM manufacturers m
		LEFT JOIN countries co ON co.id = m.country_id
		WHERE EXISTS (SELECT 1 FROM product_categories pc WHERE pc.category_id = ?)
		  AND NOT EXISTS (
			SELECT 1
			FROM product_categories pc
			JOIN products p ON p.id = pc.product_id
			WHERE pc.category_id = ?
			  AND (p.manufacturer_id IS NULL OR p.manufacturer_id <> m.id))
		ORDER BY m.name`, categoryID, categoryID, categoryID).Scan(&rows).Error
	return rows, err
}

// UsersWithIdenticalBaskets pairs users who ordered exactly the same set of
// products, with the size of that shared set. Each pair appears once.
func UsersWithIdenticalBaskets(ctx context.Context, db *gorm.DB) ([]BasketPairRow, error) {
	var rows []BasketPairRow
	err := db.WithContext(ctx).Raw(`
		WITH user_products AS (
			SELECT DISTINCT o.user_id, oi.product_id
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
		)
		SELECT ua.name  AS user1,
		       ub.name  AS user2,
		       COUNT(*) AS common_products
		FROM user_products pa
		JOIN user_products pb ON pb.product_id = pa.product_id AND pa.user_id < pb.user_id
		JOIN users ua ON ua.id = pa.user_id
		JOIN users ub ON ub.id = pb.user_id
		GROUP BY pa.user_id, pb.user_id, ua.name, ub.name
		HAVING COUNT(*) = (SELECT COUNT(*) FROM user_products x WHERE x.user_id = pa.user_id)
		   AND COUNT(*) = (SELECT COUNT(*) FROM user_products y WHERE y.user_id = pb.user_id)
		ORDER BY user1, user2`).Scan(&rows).Error
	return rows, err
}

// ProductsCoveringSameCategories lists products linked to every category of
// the given product (they may carry more). A product with no categories
// yields no rows.
func ProductsCoveringSameCategories(ctx context.Context, db *gorm.DB, productID uint) ([]CategorySetProductRow, error) {
	var rows []CategorySetProductRow
	err := db.WithContext(ctx).Raw(`
		SELECT p.id   AS id,
		       p.name AS name,
		       (SELECT COUNT(*) FROM product_categories pcx WHERE pcx.product_id = p.id) AS categories
		FROM products p
		WHERE p.id <> ?
		  AND EXISTS (SELECT 1 FROM product_categories pc0 WHERE pc0.product_id = ?)
		  AND NOT EXISTS (
			SELECT 1
			FROM product_categories pc
			WHERE pc.product_id = ?
			  AND NOT EXISTS (
				SELECT 1 FROM product_categories pc2
				WHERE pc2.product_id = p.id AND pc2.category_id = pc.category_id))
		ORDER BY p.name`, productID, productID, productID).Scan(&rows).Error
	return rows, err
}

// ProductsOrderedByAllCountryUsers lists products every user registered in
// the given country has ordered, with the buyer tally against the country's
// user count. A country with no users yields no rows.
func ProductsOrderedByAllCountryUsers(ctx context.Context, db *gorm.DB, countryID uint) ([]CountryStapleRow, error) {
	var rows []CountryStapleRow
	err := db.WithContext(ctx).Raw(`
		SELECT p.name               AS name,
		       COALESCE(m.name, '') AS manufacturer,
		       (SELECT COUNT(DISTINCT o.user_id)
		        FROM orders o
		        JOIN order_items oi ON oi.order_id = o.id
		        JOIN users u ON u.id = o.user_id
		        WHERE oi.product_id = p.id AND u.country_id = ?) AS buyers,
		       (SELECT COUNT(*) FROM users u WHERE u.country_id = ?) AS country_users
		FROM products p
		LEFT JOIN manufacturers m ON m.id = p.manufacturer_id
		WHERE EXISTS (SELECT 1 FROM users u WHERE u.country_id = ?)
		  AND NOT EXISTS (
			SELECT 1
			FROM users u
			WHERE u.country_id = ?
			  AND NOT EXISTS (
				SELECT 1
				FROM orders o
				JOIN order_items oi ON oi.order_id = o.id
				WHERE o.user_id = u.id AND oi.product_id = p.id))
		ORDER BY p.name`, countryID, countryID, countryID, countryID).Scan(&rows).Error
	return rows, err
}

// ManufacturersCoveringAllCategories lists manufacturers with at least one
// product in every category.
func ManufacturersCoveringAllCategories(ctx context.Context, db *gorm.DB) ([]FullRangeManufacturerRow, error) {
	var rows []FullRangeManufacturerRow
	err := db.WithContext(ctx).Raw(`
		SELECT m.name                AS name,
		       COALESCE(co.name, '') AS country,
		       (SELECT COUNT(DISTINCT pc.category_id)
		        FROM products p
		        JOIN product_categories pc ON pc.product_id = p.id
		        WHERE p.manufacturer_id = m.id) AS categories,
		       (SELECT COUNT(*) FROM categories) AS total_categories
		FROM manufacturers m
		LEFT JOIN countries co ON co.id = m.country_id
		WHERE EXISTS (SELECT 1 FROM categories)
		  AND NOT EXISTS (
			SELECT 1
			FROM categories cg
			WHERE NOT EXISTS (
				SELECT 1
				FROM products p
				JOIN product_categories pc ON pc.product_id = p.id
				WHERE p.manufacturer_id = m.id AND pc.category_id = cg.id))
		ORDER BY m.name`).Scan(&rows).Error
	return rows, err
}

// UsersCoveringAllManufacturers lists users who ordered at least one product
// from every manufacturer.
func UsersCoveringAllManufacturers(ctx context.Context, db *gorm.DB) ([]FullRangeBuyerRow, error) {
	var rows []FullRangeBuyerRow
	err := db.WithContext(ctx).Raw(`
		SELECT u.name AS name,
		       (SELECT COUNT(DISTINCT p.manufacturer_id)
		        FROM orders o
		        JOIN order_items oi ON oi.order_id = o.id
		        JOIN products p ON p.id = oi.product_id
		        WHERE o.user_id = u.id AND p.manufacturer_id IS NOT NULL) AS manufacturers,
		       (SELECT COUNT(*) FROM manufacturers) AS total_manufacturers
		FROM users u
		WHERE EXISTS (SELECT 1 FROM manufacturers)
		  AND NOT EXISTS (
			SELECT 1
			FROM manufacturers mn
			WHERE NOT EXISTS (
				SELECT 1
				FROM orders o
				JOIN order_items oi ON oi.order_id = o.id
				JOIN products p ON p.id = oi.product_id
				WHERE o.user_id = u.id AND p.manufacturer_id = mn.id))
		ORDER BY u.name`).Scan(&rows).Error
	return rows, err
}

// GET /reports/users-with-no-common-products/:userID
func NoCommonProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("userID")
		if userID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "userID is required"})
			return
		}
		rows, err := UsersWithNoCommonProducts(c.Request.Context(), db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/products-above-category-average
func AboveCategoryAverageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := ProductsAboveCategoryAverage(c.Request.Context(), db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/manufacturers-covering-category/:categoryID
func CategoryCoverageHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := strconv.ParseUint(c.Param("categoryID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid categoryID"})
			return
		}
		rows, err := ManufacturersCoveringCategory(c.Request.Context(), db, uint(categoryID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/identical-baskets
func IdenticalBasketsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := UsersWithIdenticalBaskets(c.Request.Context(), db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/category-set-products/:productID
func CategorySetProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productID"})
			return
		}
		rows, err := ProductsCoveringSameCategories(c.Request.Context(), db, uint(productID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/country-staples/:countryID
func CountryStaplesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		countryID, err := strconv.ParseUint(c.Param("countryID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid countryID"})
			return
		}
		rows, err := ProductsOrderedByAllCountryUsers(c.Request.Context(), db, uint(countryID))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/full-range-manufacturers
func FullRangeManufacturersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := ManufacturersCoveringAllCategories(c.Request.Context(), db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}

// GET /reports/full-range-buyers
func FullRangeBuyersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := UsersCoveringAllManufacturers(c.Request.Context(), db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rows)
	}
}
