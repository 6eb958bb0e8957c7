package app

import "github.com/shopspring/decimal"

// CreateWarehouseRequest is the input for creating a new warehouse.
type CreateWarehouseRequest struct {
	Name    string
	City    string
	Region  string
	Address string
}

// UpdateWarehouseRequest is the input for editing a warehouse's attributes.
type UpdateWarehouseRequest struct {
	ID      string
	Name    string
	City    string
	Region  string
	Address string
}

// CreateLocationRequest is the input for creating a zone, rack, pallet, or box.
// Kind must be one level below the parent's kind.
type CreateLocationRequest struct {
	ParentID string
	Kind     string // "zone", "rack", "pallet", "box"
	Name     string
}

// ProductRequest is the input for creating or updating a product.
type ProductRequest struct {
	SKU       string // ignored on update
	Name      string
	Category  string
	Stock     int
	Committed int
	MinStock  int
	UnitCost  decimal.Decimal
}

// AssignStockRequest is the input for moving stock onto a location.
// An empty SourceLocationID draws from the unassigned pool.
type AssignStockRequest struct {
	SKU              string
	TargetLocationID string
	SourceLocationID string
	Quantity         int
}

// ListingRequest is the input for attaching a channel listing to a product.
type ListingRequest struct {
	Platform          string
	ExternalID        string
	Title             string
	URL               string
	BufferStock       int
	AutoPauseEnabled  bool
	MaxVisibleStock   int
	MaxVisibleEnabled bool
	ShippingMode      string
}

// BulkRuleRequest is the input for applying one rule configuration across a
// product selection.
type BulkRuleRequest struct {
	SKUs      []string
	Enabled   bool
	Threshold int // buffer threshold for the pause rule, cap for the visibility rule
}

// CommandInput is a confirmed assistant command handed back for execution.
type CommandInput struct {
	Action           string
	SKU              string
	SKUs             []string
	ListingID        string
	TargetLocationID string
	SourceLocationID string
	Quantity         int
	Stock            int
	Committed        int
	Enabled          bool
	Threshold        int
}
