package app

import "inventory-ops/internal/core"

// LocationTreeResult is returned by GetLocationTree.
type LocationTreeResult struct {
	Warehouses []*core.NodeView
}

// LocationResult is returned by location create operations.
type LocationResult struct {
	ID   string
	Path string
}

// ProductResult is returned by single-product operations.
type ProductResult struct {
	Product core.Product
}

// ProductListResult is returned by ListProducts.
type ProductListResult struct {
	Products []core.Product
}

// SourcesResult is returned by GetStockSources and AssignStock.
type SourcesResult struct {
	SKU     string
	Stock   int
	Sources []core.Source
}

// ListingResult is returned by LinkChannel.
type ListingResult struct {
	Listing core.ChannelListing
}

// BulkResult is returned by the bulk rule operations.
type BulkResult struct {
	Selected int // SKUs in the request
	Touched  int // products actually updated
}

// AssistantResult is returned by InterpretCommand.
type AssistantResult struct {
	Command              *CommandInput
	Reasoning            string
	Confidence           float64
	ClarificationMessage string
	IsClarification      bool
}
