package app

import (
	"context"

	"inventory-ops/internal/core"
)

// ApplicationService is the single interface all UI adapters (REPL, CLI, Web) call.
// It decouples presentation from business logic. Implementations must contain
// no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// GetLocationTree returns the full storage hierarchy as a nested view.
	GetLocationTree(ctx context.Context) (*LocationTreeResult, error)

	// CreateWarehouse adds a new top-level warehouse.
	CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*LocationResult, error)

	// CreateLocation adds a zone, rack, pallet, or box under an existing parent.
	CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResult, error)

	// RenameLocation updates a location's display name.
	RenameLocation(ctx context.Context, id, name string) error

	// UpdateWarehouse edits a warehouse's name and address attributes.
	UpdateWarehouse(ctx context.Context, req UpdateWarehouseRequest) error

	// DeleteLocation removes a location and its whole subtree, loose items
	// included. Destructive; adapters must confirm with the operator first.
	DeleteLocation(ctx context.Context, id string) error

	// ListProducts returns every catalog product in creation order.
	ListProducts(ctx context.Context) (*ProductListResult, error)

	// GetProduct returns a single product with its channel listings.
	GetProduct(ctx context.Context, sku string) (*ProductResult, error)

	// CreateProduct adds a new product to the catalog.
	CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error)

	// UpdateProduct replaces a product's editable attributes. Stock changes
	// re-run listing evaluation.
	UpdateProduct(ctx context.Context, sku string, req ProductRequest) (*ProductResult, error)

	// SetStockLevels edits stock and committed counts, re-evaluating every
	// listing of the product.
	SetStockLevels(ctx context.Context, sku string, stock, committed int) (*ProductResult, error)

	// DeleteProduct removes a product from the catalog.
	DeleteProduct(ctx context.Context, sku string) error

	// GetStockSources returns everywhere a product's stock can be drawn from,
	// including the synthetic unassigned pool.
	GetStockSources(ctx context.Context, sku string) (*SourcesResult, error)

	// AssignStock moves a quantity of a product from a source (a location or
	// the unassigned pool) onto a target location.
	AssignStock(ctx context.Context, req AssignStockRequest) (*SourcesResult, error)

	// LinkChannel attaches a new platform listing to a product.
	LinkChannel(ctx context.Context, sku string, req ListingRequest) (*ListingResult, error)

	// UnlinkChannel removes a platform listing from a product.
	UnlinkChannel(ctx context.Context, sku, listingID string) error

	// PauseListing / ActivateListing are the manual listing transitions.
	PauseListing(ctx context.Context, sku, listingID string) (*ProductResult, error)
	ActivateListing(ctx context.Context, sku, listingID string) (*ProductResult, error)

	// ApplyPauseRule configures auto-pause across a product selection.
	ApplyPauseRule(ctx context.Context, req BulkRuleRequest) (*BulkResult, error)

	// ApplyVisibilityRule configures the visible-stock cap across a product selection.
	ApplyVisibilityRule(ctx context.Context, req BulkRuleRequest) (*BulkResult, error)

	// AddCategory / RemoveCategory / ListCategories manage the category set.
	AddCategory(ctx context.Context, name string) error
	RemoveCategory(ctx context.Context, name string) error
	ListCategories(ctx context.Context) ([]string, error)

	// GetValuationReport totals stock value across the catalog.
	GetValuationReport(ctx context.Context) (*core.ValuationReport, error)

	// GetLowStockReport lists products at or below their reorder threshold.
	GetLowStockReport(ctx context.Context) (*core.LowStockReport, error)

	// SaveState persists the full in-memory state to the database.
	SaveState(ctx context.Context) error

	// LoadState replaces the in-memory state with the stored snapshot.
	LoadState(ctx context.Context) error

	// InterpretCommand sends a natural-language request to the assistant and
	// returns either a typed command proposal or a clarification question.
	InterpretCommand(ctx context.Context, text string) (*AssistantResult, error)

	// ExecuteCommand runs a previously proposed command after human confirmation.
	ExecuteCommand(ctx context.Context, cmd CommandInput) (string, error)
}
