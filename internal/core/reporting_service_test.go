package core_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"inventory-ops/internal/core"
)

func TestValuationReport(t *testing.T) {
	c := core.NewCatalogService()
	f, ids := buildForest(t)
	r := core.NewReportingService(c, f)

	if _, err := c.CreateProduct(core.Product{
		SKU: "A-1", Name: "Widget", Stock: 10, UnitCost: decimal.NewFromFloat(2.50),
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := c.CreateProduct(core.Product{
		SKU: "B-2", Name: "Gadget", Stock: 4, UnitCost: decimal.NewFromInt(10),
	}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if err := f.AssignQuantity(ids["rack"], "A-1", 6, core.Source{Kind: core.SourceUnassigned}, 10); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}

	report := r.ValuationReport()
	if len(report.Lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(report.Lines))
	}
	a := report.Lines[0]
	if a.SKU != "A-1" || a.Assigned != 6 || a.Unassigned != 4 {
		t.Errorf("Unexpected A-1 line: %+v", a)
	}
	if !a.StockValue.Equal(decimal.NewFromInt(25)) {
		t.Errorf("Expected A-1 value 25, got %s", a.StockValue)
	}
	if report.TotalUnits != 14 {
		t.Errorf("Expected 14 total units, got %d", report.TotalUnits)
	}
	if !report.TotalValue.Equal(decimal.NewFromInt(65)) {
		t.Errorf("Expected total value 65, got %s", report.TotalValue)
	}
}

func TestLowStockReport(t *testing.T) {
	c := core.NewCatalogService()
	f := core.NewForestService()
	r := core.NewReportingService(c, f)

	if _, err := c.CreateProduct(core.Product{SKU: "LOW", Name: "Low", Stock: 5, Committed: 2, MinStock: 3}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}
	if _, err := c.LinkChannel("LOW", core.ChannelListing{
		Platform: "ebay", BufferStock: 10, AutoPauseEnabled: true,
	}); err != nil {
		t.Fatalf("LinkChannel failed: %v", err)
	}
	if _, err := c.CreateProduct(core.Product{SKU: "OK", Name: "Ok", Stock: 50, MinStock: 3}); err != nil {
		t.Fatalf("CreateProduct failed: %v", err)
	}

	report := r.LowStockReport()
	if len(report.Lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(report.Lines))
	}
	line := report.Lines[0]
	if line.SKU != "LOW" || line.Available != 3 || line.TotalListings != 1 {
		t.Errorf("Unexpected line: %+v", line)
	}
	if line.AutoPausedListings != 1 {
		t.Errorf("Expected 1 auto-paused listing, got %d", line.AutoPausedListings)
	}
}
