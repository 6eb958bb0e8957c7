package core

// BulkService applies one automation configuration across an arbitrary product
// selection. Each product is updated independently — the catalog lock is taken
// once per product, never across the whole batch — so a failure on one SKU
// cannot block the rest, and unrelated readers are not starved.
type BulkService interface {
	// ApplyPauseRule sets autoPauseEnabled/bufferStock on every listing of
	// every selected product and re-runs evaluation with current available
	// stock. Returns the count of products touched; missing SKUs are skipped
	// and excluded from the count.
	ApplyPauseRule(skus []string, enabled bool, threshold int) int
	// ApplyVisibilityRule sets maxVisibleEnabled/maxVisibleStock only; it does
	// not run evaluation (the cap is status-independent).
	ApplyVisibilityRule(skus []string, enabled bool, cap int) int
}

type bulkService struct {
	catalog CatalogService
}

// NewBulkService constructs a BulkService over the given catalog.
func NewBulkService(catalog CatalogService) BulkService {
	return &bulkService{catalog: catalog}
}

func (b *bulkService) ApplyPauseRule(skus []string, enabled bool, threshold int) int {
	touched := 0
	for _, sku := range skus {
		if err := b.catalog.SetListingAutomation(sku, enabled, threshold); err != nil {
			continue
		}
		touched++
	}
	return touched
}

func (b *bulkService) ApplyVisibilityRule(skus []string, enabled bool, cap int) int {
	touched := 0
	for _, sku := range skus {
		if err := b.catalog.SetListingVisibility(sku, enabled, cap); err != nil {
			continue
		}
		touched++
	}
	return touched
}
