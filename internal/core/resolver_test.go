package core_test

import (
	"testing"

	"inventory-ops/internal/core"
)

func TestResolver_FullyUnassigned(t *testing.T) {
	f, _ := buildForest(t)

	sources := f.ResolveSources("SKU-1", 12)
	if len(sources) != 1 {
		t.Fatalf("Expected one source, got %d: %+v", len(sources), sources)
	}
	if sources[0].Kind != core.SourceUnassigned || sources[0].Available != 12 {
		t.Errorf("Expected unassigned source of 12, got %+v", sources[0])
	}
}

func TestResolver_PartiallyPlaced(t *testing.T) {
	f, ids := buildForest(t)

	if err := f.AssignQuantity(ids["rack"], "SKU-1", 5, core.Source{Kind: core.SourceUnassigned}, 12); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}

	sources := f.ResolveSources("SKU-1", 12)
	if len(sources) != 2 {
		t.Fatalf("Expected two sources, got %d: %+v", len(sources), sources)
	}
	// The synthetic pool always comes first.
	if sources[0].Kind != core.SourceUnassigned || sources[0].Available != 7 {
		t.Errorf("Expected unassigned source of 7 first, got %+v", sources[0])
	}
	if sources[1].LocationID != ids["rack"] || sources[1].Available != 5 {
		t.Errorf("Expected rack source of 5, got %+v", sources[1])
	}
	if sources[1].LocationPath != "Central / Zone A / Rack 1" {
		t.Errorf("Unexpected source breadcrumb: %q", sources[1].LocationPath)
	}
}

func TestResolver_FullyPlacedOmitsUnassigned(t *testing.T) {
	f, ids := buildForest(t)

	if err := f.AssignQuantity(ids["box"], "SKU-1", 12, core.Source{Kind: core.SourceUnassigned}, 12); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}

	sources := f.ResolveSources("SKU-1", 12)
	if len(sources) != 1 || sources[0].Kind != core.SourceLocation {
		t.Fatalf("Expected only the box source, got %+v", sources)
	}
	if sources[0].Available != 12 {
		t.Errorf("Expected 12 in the box, got %d", sources[0].Available)
	}
}

func TestResolver_OverAssignedYieldsNoUnassigned(t *testing.T) {
	f, ids := buildForest(t)

	// Place 10, then the catalog's total drops to 6 (a stock correction). The
	// resolver reports only what is physically placed, no negative pool.
	if err := f.AssignQuantity(ids["rack"], "SKU-1", 10, core.Source{Kind: core.SourceUnassigned}, 10); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}

	sources := f.ResolveSources("SKU-1", 6)
	if len(sources) != 1 || sources[0].Kind != core.SourceLocation || sources[0].Available != 10 {
		t.Errorf("Expected just the rack source of 10, got %+v", sources)
	}
}

func TestResolver_UnknownSKU(t *testing.T) {
	f, _ := buildForest(t)

	// A SKU the forest has never seen still resolves against the total.
	sources := f.ResolveSources("ghost", 4)
	if len(sources) != 1 || sources[0].Kind != core.SourceUnassigned || sources[0].Available != 4 {
		t.Errorf("Expected pure unassigned source of 4, got %+v", sources)
	}
	// Zero stock resolves to nothing at all.
	if sources := f.ResolveSources("ghost", 0); len(sources) != 0 {
		t.Errorf("Expected no sources for zero stock, got %+v", sources)
	}
}

func TestResolver_MultipleWarehousesInCreationOrder(t *testing.T) {
	f, ids := buildForest(t)

	wh2, err := f.CreateWarehouse("North", "Hamburg", "", "")
	if err != nil {
		t.Fatalf("CreateWarehouse failed: %v", err)
	}
	zone2, err := f.CreateZone(wh2, "Inbound")
	if err != nil {
		t.Fatalf("CreateZone failed: %v", err)
	}
	rack2, err := f.CreateRack(zone2, "R-1")
	if err != nil {
		t.Fatalf("CreateRack failed: %v", err)
	}

	if err := f.AssignQuantity(rack2, "SKU-1", 4, core.Source{Kind: core.SourceUnassigned}, 9); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}
	if err := f.AssignQuantity(ids["rack"], "SKU-1", 3, core.Source{Kind: core.SourceUnassigned}, 9); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}

	sources := f.ResolveSources("SKU-1", 9)
	if len(sources) != 3 {
		t.Fatalf("Expected three sources, got %+v", sources)
	}
	// Unassigned first, then locations in warehouse creation order.
	if sources[0].Kind != core.SourceUnassigned || sources[0].Available != 2 {
		t.Errorf("Expected unassigned 2 first, got %+v", sources[0])
	}
	if sources[1].LocationID != ids["rack"] {
		t.Errorf("Expected first warehouse's rack before second's, got %+v", sources[1])
	}
	if sources[2].LocationID != rack2 {
		t.Errorf("Expected second warehouse's rack last, got %+v", sources[2])
	}
}
