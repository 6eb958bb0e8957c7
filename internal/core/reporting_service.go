package core

import "github.com/shopspring/decimal"

// ── Report types ──────────────────────────────────────────────────────────────

// ValuationLine is one product row in the stock valuation report.
type ValuationLine struct {
	SKU        string          `json:"sku"`
	Name       string          `json:"name"`
	Stock      int             `json:"stock"`
	Assigned   int             `json:"assigned"`
	Unassigned int             `json:"unassigned"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	StockValue decimal.Decimal `json:"stock_value"` // stock × unit cost
}

// ValuationReport totals the physical stock position of the whole catalog.
// Assigned/Unassigned split comes from the allocation resolver's view of the
// forest, so the report also shows how much stock is not yet placed anywhere.
type ValuationReport struct {
	Lines      []ValuationLine `json:"lines"`
	TotalUnits int             `json:"total_units"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// LowStockLine is one product row in the low-stock report.
type LowStockLine struct {
	SKU                string `json:"sku"`
	Name               string `json:"name"`
	Stock              int    `json:"stock"`
	Committed          int    `json:"committed"`
	Available          int    `json:"available"`
	MinStock           int    `json:"min_stock"`
	TotalListings      int    `json:"total_listings"`
	AutoPausedListings int    `json:"auto_paused_listings"`
}

// LowStockReport lists products whose available stock has reached the reorder
// threshold, with the auto-pause position of their channel listings.
type LowStockReport struct {
	Lines []LowStockLine `json:"lines"`
}

// ── Service ───────────────────────────────────────────────────────────────────

// ReportingService builds read-only reports over the catalog and the forest.
type ReportingService interface {
	ValuationReport() ValuationReport
	LowStockReport() LowStockReport
}

type reportingService struct {
	catalog CatalogService
	forest  ForestService
}

// NewReportingService constructs a ReportingService over the given catalog and forest.
func NewReportingService(catalog CatalogService, forest ForestService) ReportingService {
	return &reportingService{catalog: catalog, forest: forest}
}

func (r *reportingService) ValuationReport() ValuationReport {
	report := ValuationReport{TotalValue: decimal.Zero}
	for _, p := range r.catalog.ListProducts() {
		assigned := r.forest.AssignedTotal(p.SKU)
		unassigned := p.Stock - assigned
		if unassigned < 0 {
			unassigned = 0
		}
		value := p.UnitCost.Mul(decimal.NewFromInt(int64(p.Stock)))
		report.Lines = append(report.Lines, ValuationLine{
			SKU:        p.SKU,
			Name:       p.Name,
			Stock:      p.Stock,
			Assigned:   assigned,
			Unassigned: unassigned,
			UnitCost:   p.UnitCost,
			StockValue: value,
		})
		report.TotalUnits += p.Stock
		report.TotalValue = report.TotalValue.Add(value)
	}
	return report
}

func (r *reportingService) LowStockReport() LowStockReport {
	var report LowStockReport
	for _, p := range r.catalog.ListProducts() {
		available := p.Available()
		if available > p.MinStock {
			continue
		}
		line := LowStockLine{
			SKU:           p.SKU,
			Name:          p.Name,
			Stock:         p.Stock,
			Committed:     p.Committed,
			Available:     available,
			MinStock:      p.MinStock,
			TotalListings: len(p.Listings),
		}
		for _, l := range p.Listings {
			if l.Status == StatusAutoPaused {
				line.AutoPausedListings++
			}
		}
		report.Lines = append(report.Lines, line)
	}
	return report
}
