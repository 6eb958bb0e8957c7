package app

import (
	"context"
	"fmt"
	"strings"

	"inventory-ops/internal/ai"
	"inventory-ops/internal/core"
	"inventory-ops/internal/store"
)

type appService struct {
	forest   core.ForestService
	catalog  core.CatalogService
	bulk     core.BulkService
	reports  core.ReportingService
	store    *store.Store // nil when persistence is not configured
	agent    *ai.Agent    // nil when the assistant is not configured
	registry *ai.CommandRegistry
}

// NewAppService constructs an appService that satisfies ApplicationService.
// store and agent may be nil; the corresponding operations then fail with a
// configuration error instead of panicking.
func NewAppService(
	forest core.ForestService,
	catalog core.CatalogService,
	bulk core.BulkService,
	reports core.ReportingService,
	st *store.Store,
	agent *ai.Agent,
) ApplicationService {
	s := &appService{
		forest:  forest,
		catalog: catalog,
		bulk:    bulk,
		reports: reports,
		store:   st,
		agent:   agent,
	}
	s.registry = s.buildRegistry()
	return s
}

// ── Locations ─────────────────────────────────────────────────────────────────

func (s *appService) GetLocationTree(ctx context.Context) (*LocationTreeResult, error) {
	return &LocationTreeResult{Warehouses: s.forest.Snapshot()}, nil
}

func (s *appService) CreateWarehouse(ctx context.Context, req CreateWarehouseRequest) (*LocationResult, error) {
	id, err := s.forest.CreateWarehouse(req.Name, req.City, req.Region, req.Address)
	if err != nil {
		return nil, err
	}
	return s.locationResult(id)
}

func (s *appService) CreateLocation(ctx context.Context, req CreateLocationRequest) (*LocationResult, error) {
	var id string
	var err error
	switch core.NodeKind(req.Kind) {
	case core.KindZone:
		id, err = s.forest.CreateZone(req.ParentID, req.Name)
	case core.KindRack:
		id, err = s.forest.CreateRack(req.ParentID, req.Name)
	case core.KindPallet:
		id, err = s.forest.CreatePallet(req.ParentID, req.Name)
	case core.KindBox:
		id, err = s.forest.CreateBox(req.ParentID, req.Name)
	default:
		return nil, fmt.Errorf("unknown location kind %q", req.Kind)
	}
	if err != nil {
		return nil, err
	}
	return s.locationResult(id)
}

func (s *appService) locationResult(id string) (*LocationResult, error) {
	path, err := s.forest.NodePath(id)
	if err != nil {
		return nil, err
	}
	return &LocationResult{ID: id, Path: path}, nil
}

func (s *appService) RenameLocation(ctx context.Context, id, name string) error {
	return s.forest.RenameNode(id, name)
}

func (s *appService) UpdateWarehouse(ctx context.Context, req UpdateWarehouseRequest) error {
	return s.forest.UpdateWarehouse(req.ID, req.Name, req.City, req.Region, req.Address)
}

func (s *appService) DeleteLocation(ctx context.Context, id string) error {
	return s.forest.DeleteNode(id)
}

// ── Products ──────────────────────────────────────────────────────────────────

func (s *appService) ListProducts(ctx context.Context) (*ProductListResult, error) {
	return &ProductListResult{Products: s.catalog.ListProducts()}, nil
}

func (s *appService) GetProduct(ctx context.Context, sku string) (*ProductResult, error) {
	p, err := s.catalog.GetProduct(sku)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) CreateProduct(ctx context.Context, req ProductRequest) (*ProductResult, error) {
	p, err := s.catalog.CreateProduct(core.Product{
		SKU:       req.SKU,
		Name:      req.Name,
		Category:  req.Category,
		Stock:     req.Stock,
		Committed: req.Committed,
		MinStock:  req.MinStock,
		UnitCost:  req.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) UpdateProduct(ctx context.Context, sku string, req ProductRequest) (*ProductResult, error) {
	p, err := s.catalog.UpdateProduct(sku, core.Product{
		Name:      req.Name,
		Category:  req.Category,
		Stock:     req.Stock,
		Committed: req.Committed,
		MinStock:  req.MinStock,
		UnitCost:  req.UnitCost,
	})
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) SetStockLevels(ctx context.Context, sku string, stock, committed int) (*ProductResult, error) {
	p, err := s.catalog.SetStockLevels(sku, stock, committed)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) DeleteProduct(ctx context.Context, sku string) error {
	return s.catalog.DeleteProduct(sku)
}

// ── Stock allocation ──────────────────────────────────────────────────────────

func (s *appService) GetStockSources(ctx context.Context, sku string) (*SourcesResult, error) {
	p, err := s.catalog.GetProduct(sku)
	if err != nil {
		return nil, err
	}
	return &SourcesResult{
		SKU:     sku,
		Stock:   p.Stock,
		Sources: s.forest.ResolveSources(sku, p.Stock),
	}, nil
}

func (s *appService) AssignStock(ctx context.Context, req AssignStockRequest) (*SourcesResult, error) {
	p, err := s.catalog.GetProduct(req.SKU)
	if err != nil {
		return nil, err
	}

	source := core.Source{Kind: core.SourceUnassigned}
	if req.SourceLocationID != "" {
		source = core.Source{Kind: core.SourceLocation, LocationID: req.SourceLocationID}
	}
	if err := s.forest.AssignQuantity(req.TargetLocationID, req.SKU, req.Quantity, source, p.Stock); err != nil {
		return nil, err
	}
	return s.GetStockSources(ctx, req.SKU)
}

// ── Channel listings ──────────────────────────────────────────────────────────

func (s *appService) LinkChannel(ctx context.Context, sku string, req ListingRequest) (*ListingResult, error) {
	l, err := s.catalog.LinkChannel(sku, core.ChannelListing{
		Platform:          req.Platform,
		ExternalID:        req.ExternalID,
		Title:             req.Title,
		URL:               req.URL,
		BufferStock:       req.BufferStock,
		AutoPauseEnabled:  req.AutoPauseEnabled,
		MaxVisibleStock:   req.MaxVisibleStock,
		MaxVisibleEnabled: req.MaxVisibleEnabled,
		ShippingMode:      req.ShippingMode,
	})
	if err != nil {
		return nil, err
	}
	return &ListingResult{Listing: l}, nil
}

func (s *appService) UnlinkChannel(ctx context.Context, sku, listingID string) error {
	return s.catalog.UnlinkChannel(sku, listingID)
}

func (s *appService) PauseListing(ctx context.Context, sku, listingID string) (*ProductResult, error) {
	p, err := s.catalog.PauseListing(sku, listingID)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

func (s *appService) ActivateListing(ctx context.Context, sku, listingID string) (*ProductResult, error) {
	p, err := s.catalog.ActivateListing(sku, listingID)
	if err != nil {
		return nil, err
	}
	return &ProductResult{Product: p}, nil
}

// ── Bulk rules ────────────────────────────────────────────────────────────────

func (s *appService) ApplyPauseRule(ctx context.Context, req BulkRuleRequest) (*BulkResult, error) {
	if req.Threshold < 0 {
		return nil, fmt.Errorf("threshold must be non-negative: %w", core.ErrInvalidQuantity)
	}
	touched := s.bulk.ApplyPauseRule(req.SKUs, req.Enabled, req.Threshold)
	return &BulkResult{Selected: len(req.SKUs), Touched: touched}, nil
}

func (s *appService) ApplyVisibilityRule(ctx context.Context, req BulkRuleRequest) (*BulkResult, error) {
	if req.Threshold < 0 {
		return nil, fmt.Errorf("cap must be non-negative: %w", core.ErrInvalidQuantity)
	}
	touched := s.bulk.ApplyVisibilityRule(req.SKUs, req.Enabled, req.Threshold)
	return &BulkResult{Selected: len(req.SKUs), Touched: touched}, nil
}

// ── Categories ────────────────────────────────────────────────────────────────

func (s *appService) AddCategory(ctx context.Context, name string) error {
	return s.catalog.AddCategory(name)
}

func (s *appService) RemoveCategory(ctx context.Context, name string) error {
	return s.catalog.RemoveCategory(name)
}

func (s *appService) ListCategories(ctx context.Context) ([]string, error) {
	return s.catalog.ListCategories(), nil
}

// ── Reports ───────────────────────────────────────────────────────────────────

func (s *appService) GetValuationReport(ctx context.Context) (*core.ValuationReport, error) {
	report := s.reports.ValuationReport()
	return &report, nil
}

func (s *appService) GetLowStockReport(ctx context.Context) (*core.LowStockReport, error) {
	report := s.reports.LowStockReport()
	return &report, nil
}

// ── Persistence ───────────────────────────────────────────────────────────────

func (s *appService) SaveState(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("persistence is not configured (DATABASE_URL not set)")
	}
	return s.store.Save(ctx, store.Snapshot{
		Catalog: s.catalog.Export(),
		Nodes:   s.forest.Export(),
	})
}

func (s *appService) LoadState(ctx context.Context) error {
	if s.store == nil {
		return fmt.Errorf("persistence is not configured (DATABASE_URL not set)")
	}
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.forest.Restore(snap.Nodes); err != nil {
		return fmt.Errorf("failed to restore locations: %w", err)
	}
	if err := s.catalog.Restore(snap.Catalog); err != nil {
		return fmt.Errorf("failed to restore catalog: %w", err)
	}
	return nil
}

// ── Assistant ─────────────────────────────────────────────────────────────────

func (s *appService) InterpretCommand(ctx context.Context, text string) (*AssistantResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("assistant is not configured (OPENAI_API_KEY not set)")
	}

	reply, err := s.agent.InterpretCommand(ctx, text, s.catalogSummary(), s.locationSummary())
	if err != nil {
		return nil, err
	}
	if reply.IsClarification {
		return &AssistantResult{
			IsClarification:      true,
			ClarificationMessage: reply.Clarification,
		}, nil
	}
	cmd := reply.Command
	return &AssistantResult{
		Command: &CommandInput{
			Action:           cmd.Action,
			SKU:              cmd.SKU,
			SKUs:             cmd.SKUs,
			ListingID:        cmd.ListingID,
			TargetLocationID: cmd.TargetLocationID,
			SourceLocationID: cmd.SourceLocationID,
			Quantity:         cmd.Quantity,
			Stock:            cmd.Stock,
			Committed:        cmd.Committed,
			Enabled:          cmd.Enabled,
			Threshold:        cmd.Threshold,
		},
		Reasoning:  reply.Reasoning,
		Confidence: reply.Confidence,
	}, nil
}

func (s *appService) ExecuteCommand(ctx context.Context, cmd CommandInput) (string, error) {
	def, ok := s.registry.Get(cmd.Action)
	if !ok {
		return "", fmt.Errorf("unknown command action %q", cmd.Action)
	}
	return def.Execute(ctx, ai.Command{
		Action:           cmd.Action,
		SKU:              cmd.SKU,
		SKUs:             cmd.SKUs,
		ListingID:        cmd.ListingID,
		TargetLocationID: cmd.TargetLocationID,
		SourceLocationID: cmd.SourceLocationID,
		Quantity:         cmd.Quantity,
		Stock:            cmd.Stock,
		Committed:        cmd.Committed,
		Enabled:          cmd.Enabled,
		Threshold:        cmd.Threshold,
	})
}

// buildRegistry wires one executor per assistant action. Executors run only
// after the operator confirmed the proposal.
func (s *appService) buildRegistry() *ai.CommandRegistry {
	r := ai.NewCommandRegistry()

	r.Register(ai.CommandDefinition{
		Action:      ai.ActionAssignStock,
		Description: "Move a quantity of a product from a source onto a target location",
		Execute: func(ctx context.Context, cmd ai.Command) (string, error) {
			res, err := s.AssignStock(ctx, AssignStockRequest{
				SKU:              cmd.SKU,
				TargetLocationID: cmd.TargetLocationID,
				SourceLocationID: cmd.SourceLocationID,
				Quantity:         cmd.Quantity,
			})
			if err != nil {
				return "", err
			}
			path, _ := s.forest.NodePath(cmd.TargetLocationID)
			return fmt.Sprintf("Assigned %d × %s to %s (%d source(s) remain)",
				cmd.Quantity, cmd.SKU, path, len(res.Sources)), nil
		},
	})
	r.Register(ai.CommandDefinition{
		Action:      ai.ActionSetStock,
		Description: "Set a product's total and committed stock counts",
		Execute: func(ctx context.Context, cmd ai.Command) (string, error) {
			res, err := s.SetStockLevels(ctx, cmd.SKU, cmd.Stock, cmd.Committed)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Stock for %s set to %d (%d committed, %d available)",
				cmd.SKU, res.Product.Stock, res.Product.Committed, res.Product.Available()), nil
		},
	})
	r.Register(ai.CommandDefinition{
		Action:      ai.ActionPauseListing,
		Description: "Manually pause one channel listing",
		Execute: func(ctx context.Context, cmd ai.Command) (string, error) {
			if _, err := s.PauseListing(ctx, cmd.SKU, cmd.ListingID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Listing %s on %s paused", cmd.ListingID, cmd.SKU), nil
		},
	})
	r.Register(ai.CommandDefinition{
		Action:      ai.ActionActivateListing,
		Description: "Manually activate one channel listing",
		Execute: func(ctx context.Context, cmd ai.Command) (string, error) {
			if _, err := s.ActivateListing(ctx, cmd.SKU, cmd.ListingID); err != nil {
				return "", err
			}
			return fmt.Sprintf("Listing %s on %s activated", cmd.ListingID, cmd.SKU), nil
		},
	})
	r.Register(ai.CommandDefinition{
		Action:      ai.ActionApplyPauseRule,
		Description: "Configure auto-pause across a product selection",
		Execute: func(ctx context.Context, cmd ai.Command) (string, error) {
			res, err := s.ApplyPauseRule(ctx, BulkRuleRequest{
				SKUs: cmd.SKUs, Enabled: cmd.Enabled, Threshold: cmd.Threshold,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Pause rule applied to %d of %d products", res.Touched, res.Selected), nil
		},
	})
	r.Register(ai.CommandDefinition{
		Action:      ai.ActionApplyVisibilityRule,
		Description: "Configure the visible-stock cap across a product selection",
		Execute: func(ctx context.Context, cmd ai.Command) (string, error) {
			res, err := s.ApplyVisibilityRule(ctx, BulkRuleRequest{
				SKUs: cmd.SKUs, Enabled: cmd.Enabled, Threshold: cmd.Threshold,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("Visibility cap applied to %d of %d products", res.Touched, res.Selected), nil
		},
	})

	return r
}

// catalogSummary renders products and listings as grounding context for the
// assistant prompt.
func (s *appService) catalogSummary() string {
	var b strings.Builder
	for _, p := range s.catalog.ListProducts() {
		fmt.Fprintf(&b, "- %s %q stock=%d committed=%d available=%d\n",
			p.SKU, p.Name, p.Stock, p.Committed, p.Available())
		for _, l := range p.Listings {
			fmt.Fprintf(&b, "    listing %s on %s status=%s\n", l.ID, l.Platform, l.Status)
		}
	}
	if b.Len() == 0 {
		return "(no products)"
	}
	return b.String()
}

// locationSummary renders every location as "id: breadcrumb" lines.
func (s *appService) locationSummary() string {
	var b strings.Builder
	var walk func(v *core.NodeView, prefix string)
	walk = func(v *core.NodeView, prefix string) {
		path := v.Name
		if prefix != "" {
			path = prefix + " / " + v.Name
		}
		fmt.Fprintf(&b, "- %s: %s (%s)\n", v.ID, path, v.Kind)
		for _, c := range v.Children {
			walk(c, path)
		}
	}
	for _, w := range s.forest.Snapshot() {
		walk(w, "")
	}
	if b.Len() == 0 {
		return "(no locations)"
	}
	return b.String()
}
