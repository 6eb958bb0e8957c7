package core

// NodeKind identifies a level of the storage hierarchy.
type NodeKind string

const (
	KindWarehouse NodeKind = "warehouse"
	KindZone      NodeKind = "zone"
	KindRack      NodeKind = "rack"
	KindPallet    NodeKind = "pallet"
	KindBox       NodeKind = "box"
)

// childKind maps each container kind to the kind of its direct children.
var childKind = map[NodeKind]NodeKind{
	KindWarehouse: KindZone,
	KindZone:      KindRack,
	KindRack:      KindPallet,
	KindPallet:    KindBox,
}

// holdsItems reports whether a node kind may carry loose items directly.
// Warehouses and zones are pure containers.
func holdsItems(k NodeKind) bool {
	return k == KindRack || k == KindPallet || k == KindBox
}

// Node is one entry in the forest arena. Parent/child relationships are stored
// as ID references so a mutation touches map entries rather than rebuilding
// every ancestor.
type Node struct {
	ID       string
	Kind     NodeKind
	Name     string
	ParentID string // empty for warehouses

	// Warehouse-only descriptive attributes.
	City    string
	Region  string
	Address string

	ChildIDs []string       // sibling order preserved
	Items    map[string]int // sku → quantity; qty >= 1, at most one entry per sku
}

// LooseItem is a (sku, quantity) pair attached directly to a rack, pallet, or box.
type LooseItem struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

// SourceKind distinguishes a tracked location from the derived unassigned pool.
type SourceKind string

const (
	SourceLocation   SourceKind = "location"
	SourceUnassigned SourceKind = "unassigned"
)

// Source is one place a product's stock can be drawn from: either a concrete
// location holding a loose item for the SKU, or the synthetic unassigned pool.
type Source struct {
	Kind         SourceKind `json:"kind"`
	LocationID   string     `json:"location_id,omitempty"`
	LocationPath string     `json:"location_path,omitempty"` // human-readable breadcrumb
	Available    int        `json:"available"`
}

// NodeView is a deep-copied, nested read view of a forest subtree. Readers
// receive views only; the arena itself is never exposed.
type NodeView struct {
	ID       string      `json:"id"`
	Kind     NodeKind    `json:"kind"`
	Name     string      `json:"name"`
	City     string      `json:"city,omitempty"`
	Region   string      `json:"region,omitempty"`
	Address  string      `json:"address,omitempty"`
	Items    []LooseItem `json:"items,omitempty"`
	Children []*NodeView `json:"children,omitempty"`
}

// ExportNode is the flat, lossless representation of one arena node used by
// the persistence collaborator. Position preserves sibling order.
type ExportNode struct {
	ID       string
	Kind     NodeKind
	Name     string
	ParentID string
	City     string
	Region   string
	Address  string
	Position int
	Items    []LooseItem
}
