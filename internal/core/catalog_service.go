package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// CatalogService owns products, their channel listings, and the category set.
// Channel statuses change only through the state machine (EvaluateListing,
// re-run on every stock edit) or the explicit manual transitions below.
//
// A single catalog lock guards the state; per-product fairness for bulk
// operations comes from the bulk engine taking and releasing the lock once
// per product instead of holding it across a whole batch.
type CatalogService interface {
	CreateProduct(p Product) (Product, error)
	GetProduct(sku string) (Product, error)
	ListProducts() []Product
	// UpdateProduct replaces a product's editable attributes. Listings are not
	// writable through this path; stock/committed changes re-run evaluation.
	UpdateProduct(sku string, p Product) (Product, error)
	// SetStockLevels edits stock and committed, then re-evaluates every
	// listing of the product against the new available figure.
	SetStockLevels(sku string, stock, committed int) (Product, error)
	// DeleteProduct removes a product from the catalog. Loose items in the
	// forest referencing its SKU become stale references the resolver tolerates.
	DeleteProduct(sku string) error

	// LinkChannel creates a listing on a product; UnlinkChannel destroys it.
	LinkChannel(sku string, l ChannelListing) (ChannelListing, error)
	UnlinkChannel(sku, listingID string) error
	// PauseListing / ActivateListing are the manual operator transitions.
	PauseListing(sku, listingID string) (Product, error)
	ActivateListing(sku, listingID string) (Product, error)

	// SetListingAutomation configures the auto-pause rule on every listing of
	// the product, then immediately re-evaluates against current available stock.
	SetListingAutomation(sku string, enabled bool, threshold int) error
	// SetListingVisibility configures the visible-stock cap on every listing of
	// the product. Status-independent; evaluation is not run.
	SetListingVisibility(sku string, enabled bool, cap int) error

	AddCategory(name string) error
	RemoveCategory(name string) error
	ListCategories() []string

	// Export/Restore round-trip the full catalog for the persistence collaborator.
	Export() ExportCatalog
	Restore(state ExportCatalog) error
}

// ExportCatalog is the lossless persistence representation of the catalog.
type ExportCatalog struct {
	Categories []string
	Products   []Product
}

type catalogService struct {
	mu         sync.RWMutex
	products   map[string]*Product
	order      []string // SKUs in creation order
	categories map[string]struct{}
}

// NewCatalogService constructs an empty in-memory catalog.
func NewCatalogService() CatalogService {
	return &catalogService{
		products:   make(map[string]*Product),
		categories: make(map[string]struct{}),
	}
}

// ── Products ──────────────────────────────────────────────────────────────────

func (c *catalogService) CreateProduct(p Product) (Product, error) {
	p.SKU = strings.TrimSpace(p.SKU)
	if p.SKU == "" {
		return Product{}, fmt.Errorf("sku is required: %w", ErrUnknownProduct)
	}
	if p.Stock < 0 || p.Committed < 0 || p.MinStock < 0 {
		return Product{}, fmt.Errorf("stock figures must be non-negative: %w", ErrInvalidQuantity)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.products[p.SKU]; exists {
		return Product{}, fmt.Errorf("sku %s: %w", p.SKU, ErrDuplicateSKU)
	}
	if err := c.checkCategory(p.Category); err != nil {
		return Product{}, err
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	for i := range p.Listings {
		if p.Listings[i].ID == "" {
			p.Listings[i].ID = uuid.NewString()
		}
	}
	stored := p.clone()
	c.products[p.SKU] = &stored
	c.order = append(c.order, p.SKU)
	return stored.clone(), nil
}

func (c *catalogService) GetProduct(sku string) (Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, ok := c.products[sku]
	if !ok {
		return Product{}, fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	return p.clone(), nil
}

func (c *catalogService) ListProducts() []Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Product, 0, len(c.order))
	for _, sku := range c.order {
		out = append(out, c.products[sku].clone())
	}
	return out
}

func (c *catalogService) UpdateProduct(sku string, p Product) (Product, error) {
	if p.Stock < 0 || p.Committed < 0 || p.MinStock < 0 {
		return Product{}, fmt.Errorf("stock figures must be non-negative: %w", ErrInvalidQuantity)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.products[sku]
	if !ok {
		return Product{}, fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	if err := c.checkCategory(p.Category); err != nil {
		return Product{}, err
	}

	stockChanged := cur.Stock != p.Stock || cur.Committed != p.Committed
	cur.Name = p.Name
	cur.Category = p.Category
	cur.Stock = p.Stock
	cur.Committed = p.Committed
	cur.MinStock = p.MinStock
	cur.UnitCost = p.UnitCost
	cur.UpdatedAt = time.Now().UTC()

	if stockChanged {
		evaluateAll(cur)
	}
	return cur.clone(), nil
}

func (c *catalogService) SetStockLevels(sku string, stock, committed int) (Product, error) {
	if stock < 0 || committed < 0 {
		return Product{}, fmt.Errorf("stock figures must be non-negative: %w", ErrInvalidQuantity)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	cur, ok := c.products[sku]
	if !ok {
		return Product{}, fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	cur.Stock = stock
	cur.Committed = committed
	cur.UpdatedAt = time.Now().UTC()
	evaluateAll(cur)
	return cur.clone(), nil
}

func (c *catalogService) DeleteProduct(sku string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.products[sku]; !ok {
		return fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	delete(c.products, sku)
	c.order = removeID(c.order, sku)
	return nil
}

// evaluateAll re-runs the state machine on every listing of the product.
func evaluateAll(p *Product) {
	available := p.Available()
	for i := range p.Listings {
		EvaluateListing(&p.Listings[i], available)
	}
}

// ── Channel listings ──────────────────────────────────────────────────────────

func (c *catalogService) LinkChannel(sku string, l ChannelListing) (ChannelListing, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[sku]
	if !ok {
		return ChannelListing{}, fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	if l.BufferStock < 0 || l.MaxVisibleStock < 0 {
		return ChannelListing{}, fmt.Errorf("listing thresholds must be non-negative: %w", ErrInvalidQuantity)
	}

	l.ID = uuid.NewString()
	if l.Status == "" {
		l.Status = StatusActive
	}
	l.LastSyncAt = time.Now().UTC()
	p.Listings = append(p.Listings, l)
	EvaluateListing(&p.Listings[len(p.Listings)-1], p.Available())
	return p.Listings[len(p.Listings)-1], nil
}

func (c *catalogService) UnlinkChannel(sku, listingID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[sku]
	if !ok {
		return fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	for i := range p.Listings {
		if p.Listings[i].ID == listingID {
			p.Listings = append(p.Listings[:i], p.Listings[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("listing %s on %s: %w", listingID, sku, ErrUnknownListing)
}

func (c *catalogService) PauseListing(sku, listingID string) (Product, error) {
	return c.manualTransition(sku, listingID, PauseTransition)
}

func (c *catalogService) ActivateListing(sku, listingID string) (Product, error) {
	return c.manualTransition(sku, listingID, ActivateTransition)
}

func (c *catalogService) manualTransition(sku, listingID string, apply func(*ChannelListing) error) (Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[sku]
	if !ok {
		return Product{}, fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	l := p.Listing(listingID)
	if l == nil {
		return Product{}, fmt.Errorf("listing %s on %s: %w", listingID, sku, ErrUnknownListing)
	}
	if err := apply(l); err != nil {
		return Product{}, err
	}
	return p.clone(), nil
}

func (c *catalogService) SetListingAutomation(sku string, enabled bool, threshold int) error {
	if threshold < 0 {
		return fmt.Errorf("buffer threshold must be non-negative: %w", ErrInvalidQuantity)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[sku]
	if !ok {
		return fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	available := p.Available()
	for i := range p.Listings {
		p.Listings[i].AutoPauseEnabled = enabled
		p.Listings[i].BufferStock = threshold
		EvaluateListing(&p.Listings[i], available)
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (c *catalogService) SetListingVisibility(sku string, enabled bool, cap int) error {
	if cap < 0 {
		return fmt.Errorf("visibility cap must be non-negative: %w", ErrInvalidQuantity)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.products[sku]
	if !ok {
		return fmt.Errorf("sku %s: %w", sku, ErrUnknownProduct)
	}
	for i := range p.Listings {
		p.Listings[i].MaxVisibleEnabled = enabled
		p.Listings[i].MaxVisibleStock = cap
	}
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// ── Categories ────────────────────────────────────────────────────────────────

func (c *catalogService) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("category name is required: %w", ErrUnknownCategory)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.categories[name] = struct{}{}
	return nil
}

func (c *catalogService) RemoveCategory(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.categories[name]; !ok {
		return fmt.Errorf("category %s: %w", name, ErrUnknownCategory)
	}
	for _, sku := range c.order {
		if c.products[sku].Category == name {
			return fmt.Errorf("category %s is referenced by %s: %w", name, sku, ErrStructuralViolation)
		}
	}
	delete(c.categories, name)
	return nil
}

func (c *catalogService) ListCategories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]string, 0, len(c.categories))
	for name := range c.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// checkCategory validates a product's category reference. An empty category
// means uncategorized and is always accepted. Caller holds the lock.
func (c *catalogService) checkCategory(name string) error {
	if name == "" {
		return nil
	}
	if _, ok := c.categories[name]; !ok {
		return fmt.Errorf("category %s: %w", name, ErrUnknownCategory)
	}
	return nil
}

// ── Export / restore ──────────────────────────────────────────────────────────

func (c *catalogService) Export() ExportCatalog {
	c.mu.RLock()
	defer c.mu.RUnlock()

	state := ExportCatalog{Categories: make([]string, 0, len(c.categories))}
	for name := range c.categories {
		state.Categories = append(state.Categories, name)
	}
	sort.Strings(state.Categories)
	for _, sku := range c.order {
		state.Products = append(state.Products, c.products[sku].clone())
	}
	return state
}

func (c *catalogService) Restore(state ExportCatalog) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	products := make(map[string]*Product, len(state.Products))
	var order []string
	for _, p := range state.Products {
		if p.SKU == "" {
			return fmt.Errorf("product without sku: %w", ErrUnknownProduct)
		}
		if _, dup := products[p.SKU]; dup {
			return fmt.Errorf("sku %s: %w", p.SKU, ErrDuplicateSKU)
		}
		stored := p.clone()
		products[p.SKU] = &stored
		order = append(order, p.SKU)
	}

	c.categories = make(map[string]struct{}, len(state.Categories))
	for _, name := range state.Categories {
		c.categories[name] = struct{}{}
	}
	c.products = products
	c.order = order
	return nil
}
