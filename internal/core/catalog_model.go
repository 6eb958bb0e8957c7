package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChannelStatus is the lifecycle state of a listing on an external sales channel.
type ChannelStatus string

const (
	StatusActive     ChannelStatus = "active"
	StatusPaused     ChannelStatus = "paused"      // manual operator pause
	StatusAutoPaused ChannelStatus = "auto_paused" // set by the automation only
	StatusClosed     ChannelStatus = "closed"
	StatusError      ChannelStatus = "error"
)

// ChannelListing is a product's representation on one external sales platform.
// Status is mutated only by EvaluateListing or the manual Pause/Activate
// transitions, never by arbitrary external writes.
type ChannelListing struct {
	ID                string        `json:"id"`
	Platform          string        `json:"platform"`
	ExternalID        string        `json:"external_id"`
	Title             string        `json:"title"`
	URL               string        `json:"url"`
	Status            ChannelStatus `json:"status"`
	BufferStock       int           `json:"buffer_stock"`
	AutoPauseEnabled  bool          `json:"auto_pause_enabled"`
	MaxVisibleStock   int           `json:"max_visible_stock"`
	MaxVisibleEnabled bool          `json:"max_visible_enabled"`
	ShippingMode      string        `json:"shipping_mode"`
	LastSyncAt        time.Time     `json:"last_sync_at"`
}

// Product is a catalog entry identified by its SKU. Stock counts total physical
// units owned, independent of where (or whether) they are stored in the forest.
type Product struct {
	SKU       string           `json:"sku"`
	Name      string           `json:"name"`
	Category  string           `json:"category"`
	Stock     int              `json:"stock"`
	Committed int              `json:"committed"`
	MinStock  int              `json:"min_stock"`
	UnitCost  decimal.Decimal  `json:"unit_cost"`
	Listings  []ChannelListing `json:"listings"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Available returns stock minus committed. The value may be transiently
// negative when committed exceeds stock; it must never be treated as a
// storable quantity.
func (p *Product) Available() int {
	return p.Stock - p.Committed
}

// Listing returns a pointer to the listing with the given ID, or nil.
func (p *Product) Listing(listingID string) *ChannelListing {
	for i := range p.Listings {
		if p.Listings[i].ID == listingID {
			return &p.Listings[i]
		}
	}
	return nil
}

// clone returns a deep copy so callers can never alias catalog-owned state.
func (p *Product) clone() Product {
	cp := *p
	cp.Listings = make([]ChannelListing, len(p.Listings))
	copy(cp.Listings, p.Listings)
	return cp
}
