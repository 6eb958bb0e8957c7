package core_test

import (
	"testing"

	"inventory-ops/internal/core"
)

// setupBulkCatalog creates three products, each with one listing, at stock
// levels 3, 8 and 20.
func setupBulkCatalog(t *testing.T) (core.CatalogService, core.BulkService) {
	t.Helper()
	c := core.NewCatalogService()

	for _, seed := range []struct {
		sku   string
		stock int
	}{
		{"A-1", 3}, {"B-2", 8}, {"C-3", 20},
	} {
		if _, err := c.CreateProduct(core.Product{SKU: seed.sku, Name: seed.sku, Stock: seed.stock}); err != nil {
			t.Fatalf("CreateProduct %s failed: %v", seed.sku, err)
		}
		if _, err := c.LinkChannel(seed.sku, core.ChannelListing{Platform: "ebay"}); err != nil {
			t.Fatalf("LinkChannel %s failed: %v", seed.sku, err)
		}
	}
	return c, core.NewBulkService(c)
}

func TestBulk_ApplyPauseRule(t *testing.T) {
	c, b := setupBulkCatalog(t)

	touched := b.ApplyPauseRule([]string{"A-1", "B-2", "C-3"}, true, 10)
	if touched != 3 {
		t.Fatalf("Expected 3 products touched, got %d", touched)
	}

	wantStatus := map[string]core.ChannelStatus{
		"A-1": core.StatusAutoPaused, // 3 < 10
		"B-2": core.StatusAutoPaused, // 8 < 10
		"C-3": core.StatusActive,     // 20 >= 10
	}
	for sku, want := range wantStatus {
		p, err := c.GetProduct(sku)
		if err != nil {
			t.Fatalf("GetProduct %s failed: %v", sku, err)
		}
		l := p.Listings[0]
		if !l.AutoPauseEnabled || l.BufferStock != 10 {
			t.Errorf("%s: rule not applied: enabled=%v buffer=%d", sku, l.AutoPauseEnabled, l.BufferStock)
		}
		if l.Status != want {
			t.Errorf("%s: expected %s, got %s", sku, want, l.Status)
		}
	}
}

func TestBulk_ApplyPauseRuleSkipsMissingSKUs(t *testing.T) {
	_, b := setupBulkCatalog(t)

	touched := b.ApplyPauseRule([]string{"A-1", "ghost", "C-3"}, true, 5)
	if touched != 2 {
		t.Errorf("Expected 2 products touched, got %d", touched)
	}
}

func TestBulk_DisableRuleLeavesManualStatesAlone(t *testing.T) {
	c, b := setupBulkCatalog(t)

	// Pause A-1 by rule first, then pause B-2 manually.
	b.ApplyPauseRule([]string{"A-1"}, true, 10)
	pb, err := c.GetProduct("B-2")
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if _, err := c.PauseListing("B-2", pb.Listings[0].ID); err != nil {
		t.Fatalf("PauseListing failed: %v", err)
	}

	// Disabling automation never rewrites statuses.
	touched := b.ApplyPauseRule([]string{"A-1", "B-2"}, false, 0)
	if touched != 2 {
		t.Fatalf("Expected 2 products touched, got %d", touched)
	}
	pa, _ := c.GetProduct("A-1")
	if pa.Listings[0].Status != core.StatusAutoPaused {
		t.Errorf("A-1: expected auto_paused to persist, got %s", pa.Listings[0].Status)
	}
	pb, _ = c.GetProduct("B-2")
	if pb.Listings[0].Status != core.StatusPaused {
		t.Errorf("B-2: expected manual pause to persist, got %s", pb.Listings[0].Status)
	}
}

func TestBulk_ApplyVisibilityRule(t *testing.T) {
	c, b := setupBulkCatalog(t)

	touched := b.ApplyVisibilityRule([]string{"A-1", "C-3"}, true, 5)
	if touched != 2 {
		t.Fatalf("Expected 2 products touched, got %d", touched)
	}

	for _, sku := range []string{"A-1", "C-3"} {
		p, err := c.GetProduct(sku)
		if err != nil {
			t.Fatalf("GetProduct %s failed: %v", sku, err)
		}
		l := p.Listings[0]
		if !l.MaxVisibleEnabled || l.MaxVisibleStock != 5 {
			t.Errorf("%s: cap not applied: enabled=%v cap=%d", sku, l.MaxVisibleEnabled, l.MaxVisibleStock)
		}
		// The cap never drives status.
		if l.Status != core.StatusActive {
			t.Errorf("%s: visibility rule changed status to %s", sku, l.Status)
		}
	}

	p, _ := c.GetProduct("B-2")
	if p.Listings[0].MaxVisibleEnabled {
		t.Error("B-2 was not selected but got the cap")
	}
}
