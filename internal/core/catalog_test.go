package core_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"inventory-ops/internal/core"
)

// setupCatalog creates a catalog with one category and one product carrying a
// single auto-pause listing (buffer 10, stock 15, committed 0).
func setupCatalog(t *testing.T) (core.CatalogService, string) {
	t.Helper()
	c := core.NewCatalogService()

	if err := c.AddCategory("Electronics"); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	p, err := c.CreateProduct(core.Product{
		SKU:      "CAM-100",
		Name:     "Trail Camera",
		Category: "Electronics",
		Stock:    15,
		MinStock: 5,
		UnitCost: decimal.NewFromFloat(42.50),
	})
	if err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	l, err := c.LinkChannel(p.SKU, core.ChannelListing{
		Platform:         "ebay",
		ExternalID:       "e-1",
		BufferStock:      10,
		AutoPauseEnabled: true,
	})
	if err != nil {
		t.Fatalf("LinkChannel failed: %v", err)
	}
	return c, l.ID
}

func TestCatalog_CreateProductValidation(t *testing.T) {
	c := core.NewCatalogService()

	if _, err := c.CreateProduct(core.Product{SKU: "  "}); !errors.Is(err, core.ErrUnknownProduct) {
		t.Errorf("Expected error for blank sku, got %v", err)
	}
	if _, err := c.CreateProduct(core.Product{SKU: "A", Stock: -1}); !errors.Is(err, core.ErrInvalidQuantity) {
		t.Errorf("Expected ErrInvalidQuantity for negative stock, got %v", err)
	}
	if _, err := c.CreateProduct(core.Product{SKU: "A", Category: "nope"}); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
	// Uncategorized is fine.
	if _, err := c.CreateProduct(core.Product{SKU: "A"}); err != nil {
		t.Errorf("CreateProduct without category failed: %v", err)
	}
	if _, err := c.CreateProduct(core.Product{SKU: "A"}); !errors.Is(err, core.ErrDuplicateSKU) {
		t.Errorf("Expected ErrDuplicateSKU, got %v", err)
	}
}

func TestCatalog_GetReturnsCopy(t *testing.T) {
	c, _ := setupCatalog(t)

	p, err := c.GetProduct("CAM-100")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	p.Listings[0].Status = core.StatusClosed
	p.Stock = 0

	again, err := c.GetProduct("CAM-100")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if again.Stock != 15 || again.Listings[0].Status != core.StatusActive {
		t.Error("Mutating a returned product leaked into the catalog")
	}
}

func TestCatalog_StockEditRunsEvaluation(t *testing.T) {
	c, lid := setupCatalog(t)

	// Drop available below the buffer.
	p, err := c.SetStockLevels("CAM-100", 8, 0)
	if err != nil {
		t.Fatalf("SetStockLevels failed: %v", err)
	}
	if p.Listing(lid).Status != core.StatusAutoPaused {
		t.Errorf("Expected auto_paused at available=8, got %s", p.Listing(lid).Status)
	}

	// Restock back to the buffer; the listing reactivates on its own.
	p, err = c.SetStockLevels("CAM-100", 10, 0)
	if err != nil {
		t.Fatalf("SetStockLevels failed: %v", err)
	}
	if p.Listing(lid).Status != core.StatusActive {
		t.Errorf("Expected active at available=10, got %s", p.Listing(lid).Status)
	}
}

func TestCatalog_CommittedCountsAgainstAvailable(t *testing.T) {
	c, lid := setupCatalog(t)

	// Stock 15 but 6 committed: available 9 < buffer 10.
	p, err := c.SetStockLevels("CAM-100", 15, 6)
	if err != nil {
		t.Fatalf("SetStockLevels failed: %v", err)
	}
	if p.Available() != 9 {
		t.Fatalf("Expected available 9, got %d", p.Available())
	}
	if p.Listing(lid).Status != core.StatusAutoPaused {
		t.Errorf("Expected auto_paused, got %s", p.Listing(lid).Status)
	}
}

func TestCatalog_ManualPauseSurvivesStockEdits(t *testing.T) {
	c, lid := setupCatalog(t)

	if _, err := c.PauseListing("CAM-100", lid); err != nil {
		t.Fatalf("PauseListing failed: %v", err)
	}

	// Stock edits on both sides of the buffer leave a manual pause alone.
	p, err := c.SetStockLevels("CAM-100", 3, 0)
	if err != nil {
		t.Fatalf("SetStockLevels failed: %v", err)
	}
	if p.Listing(lid).Status != core.StatusPaused {
		t.Errorf("Expected paused after low-stock edit, got %s", p.Listing(lid).Status)
	}
	p, err = c.SetStockLevels("CAM-100", 50, 0)
	if err != nil {
		t.Fatalf("SetStockLevels failed: %v", err)
	}
	if p.Listing(lid).Status != core.StatusPaused {
		t.Errorf("Expected paused after restock, got %s", p.Listing(lid).Status)
	}

	// Only an explicit activation releases it.
	p, err = c.ActivateListing("CAM-100", lid)
	if err != nil {
		t.Fatalf("ActivateListing failed: %v", err)
	}
	if p.Listing(lid).Status != core.StatusActive {
		t.Errorf("Expected active, got %s", p.Listing(lid).Status)
	}
}

func TestCatalog_LinkChannelEvaluatesImmediately(t *testing.T) {
	c, _ := setupCatalog(t)

	if _, err := c.SetStockLevels("CAM-100", 2, 0); err != nil {
		t.Fatalf("SetStockLevels failed: %v", err)
	}
	l, err := c.LinkChannel("CAM-100", core.ChannelListing{
		Platform:         "etsy",
		BufferStock:      5,
		AutoPauseEnabled: true,
	})
	if err != nil {
		t.Fatalf("LinkChannel failed: %v", err)
	}
	if l.Status != core.StatusAutoPaused {
		t.Errorf("Expected freshly linked listing auto_paused at available=2, got %s", l.Status)
	}
}

func TestCatalog_UnlinkChannel(t *testing.T) {
	c, lid := setupCatalog(t)

	if err := c.UnlinkChannel("CAM-100", lid); err != nil {
		t.Fatalf("UnlinkChannel failed: %v", err)
	}
	if err := c.UnlinkChannel("CAM-100", lid); !errors.Is(err, core.ErrUnknownListing) {
		t.Errorf("Expected ErrUnknownListing on second unlink, got %v", err)
	}
	p, err := c.GetProduct("CAM-100")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if len(p.Listings) != 0 {
		t.Errorf("Expected no listings, got %d", len(p.Listings))
	}
}

func TestCatalog_RemoveCategoryInUse(t *testing.T) {
	c, _ := setupCatalog(t)

	if err := c.RemoveCategory("Electronics"); !errors.Is(err, core.ErrStructuralViolation) {
		t.Errorf("Expected ErrStructuralViolation for referenced category, got %v", err)
	}
	if err := c.DeleteProduct("CAM-100"); err != nil {
		t.Fatalf("DeleteProduct failed: %v", err)
	}
	if err := c.RemoveCategory("Electronics"); err != nil {
		t.Errorf("RemoveCategory after delete failed: %v", err)
	}
	if err := c.RemoveCategory("Electronics"); !errors.Is(err, core.ErrUnknownCategory) {
		t.Errorf("Expected ErrUnknownCategory, got %v", err)
	}
}

func TestCatalog_ExportRestoreRoundTrip(t *testing.T) {
	c, lid := setupCatalog(t)
	if _, err := c.PauseListing("CAM-100", lid); err != nil {
		t.Fatalf("PauseListing failed: %v", err)
	}

	state := c.Export()

	restored := core.NewCatalogService()
	if err := restored.Restore(state); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	p, err := restored.GetProduct("CAM-100")
	if err != nil {
		t.Fatalf("GetProduct after restore failed: %v", err)
	}
	if p.Stock != 15 || p.Listing(lid) == nil || p.Listing(lid).Status != core.StatusPaused {
		t.Errorf("Restored product diverges from exported state: %+v", p)
	}
	cats := restored.ListCategories()
	if len(cats) != 1 || cats[0] != "Electronics" {
		t.Errorf("Expected categories [Electronics], got %v", cats)
	}
}
