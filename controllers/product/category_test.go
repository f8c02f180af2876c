package productcontroller

import (
	"errors"
	"testing"

	"github.com/shopcore/shop-api/models"
	"gorm.io/gorm"
)

func seedChain(t *testing.T, db *gorm.DB, names ...string) []models.Category {
	t.Helper()
	categories := make([]models.Category, 0, len(names))
	var parentID *uint
	for _, name := range names {
		category := models.Category{Name: name, ParentCategoryID: parentID}
		if err := db.Create(&category).Error; err != nil {
			t.Fatalf("seed category %q: %v", name, err)
		}
		parentID = &category.ID
		categories = append(categories, category)
	}
	return categories
}

func TestValidateParentChain(t *testing.T) {
	db := openTestDB(t)
	chain := seedChain(t, db, "Groceries", "Grains", "Buckwheat")
	root, mid, leaf := chain[0], chain[1], chain[2]

	// Reparenting a leaf anywhere up the chain is fine.
	if err := ValidateParentChain(db, leaf.ID, &root.ID); err != nil {
		t.Errorf("leaf under root: %v", err)
	}
	if err := ValidateParentChain(db, leaf.ID, nil); err != nil {
		t.Errorf("leaf to root level: %v", err)
	}

	// Direct and transitive self-ancestry are both rejected.
	if err := ValidateParentChain(db, root.ID, &root.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Errorf("self parent: got %v", err)
	}
	if err := ValidateParentChain(db, root.ID, &leaf.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Errorf("root under own leaf: got %v", err)
	}
	if err := ValidateParentChain(db, mid.ID, &leaf.ID); !errors.Is(err, ErrCategoryCycle) {
		t.Errorf("mid under own child: got %v", err)
	}
}

func TestValidateParentChainMissingParent(t *testing.T) {
	db := openTestDB(t)
	chain := seedChain(t, db, "Groceries")

	missing := uint(999)
	if err := ValidateParentChain(db, chain[0].ID, &missing); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}
