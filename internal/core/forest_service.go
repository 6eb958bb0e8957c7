package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// ForestService owns the location forest: the tree of warehouses, zones,
// racks, pallets, and boxes, with quantity-bearing loose items on the lower
// three levels. All mutations run under a single writer lock so a reader can
// never observe a partially mutated tree.
type ForestService interface {
	// CreateWarehouse adds a new top-level warehouse and returns its generated ID.
	CreateWarehouse(name, city, region, address string) (string, error)
	// CreateZone/CreateRack/CreatePallet/CreateBox append a child under an
	// existing parent of the matching kind and return the generated ID.
	CreateZone(warehouseID, name string) (string, error)
	CreateRack(zoneID, name string) (string, error)
	CreatePallet(rackID, name string) (string, error)
	CreateBox(palletID, name string) (string, error)

	// RenameNode updates a node's display name.
	RenameNode(id, name string) error
	// UpdateWarehouse edits a warehouse's name and descriptive attributes.
	UpdateWarehouse(id, name, city, region, address string) error
	// DeleteNode removes a node and cascades to all descendants and their
	// loose items. Destructive and irreversible; callers confirm before invoking.
	DeleteNode(id string) error

	// Snapshot returns a deep-copied nested view of the whole forest.
	Snapshot() []*NodeView
	// NodePath returns the human-readable breadcrumb for a node.
	NodePath(id string) (string, error)

	// ResolveSources walks the forest and returns every location holding the
	// SKU plus, when positive, the synthetic unassigned remainder. The
	// returned Available values sum to at most totalStock.
	ResolveSources(sku string, totalStock int) []Source
	// AssignedTotal returns the sum of loose-item quantities for the SKU
	// across the whole forest.
	AssignedTotal(sku string) int

	// AssignQuantity moves qty units of sku from source to the target
	// location, atomically with respect to the forest.
	AssignQuantity(targetID, sku string, qty int, source Source, totalStock int) error

	// Export/Restore round-trip the full forest for the persistence collaborator.
	Export() []ExportNode
	Restore(nodes []ExportNode) error
}

type forestService struct {
	mu    sync.RWMutex
	nodes map[string]*Node
	roots []string // warehouse IDs in creation order
}

// NewForestService constructs an empty in-memory forest.
func NewForestService() ForestService {
	return &forestService{nodes: make(map[string]*Node)}
}

// ── Structure mutations ───────────────────────────────────────────────────────

func (f *forestService) CreateWarehouse(name, city, region, address string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("warehouse name is required: %w", ErrStructuralViolation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n := &Node{
		ID:      uuid.NewString(),
		Kind:    KindWarehouse,
		Name:    name,
		City:    city,
		Region:  region,
		Address: address,
	}
	f.nodes[n.ID] = n
	f.roots = append(f.roots, n.ID)
	return n.ID, nil
}

func (f *forestService) CreateZone(warehouseID, name string) (string, error) {
	return f.createChild(warehouseID, KindZone, name)
}

func (f *forestService) CreateRack(zoneID, name string) (string, error) {
	return f.createChild(zoneID, KindRack, name)
}

func (f *forestService) CreatePallet(rackID, name string) (string, error) {
	return f.createChild(rackID, KindPallet, name)
}

func (f *forestService) CreateBox(palletID, name string) (string, error) {
	return f.createChild(palletID, KindBox, name)
}

// createChild appends a new empty node under parentID. The parent must exist
// and be exactly one level above kind; there is no re-parenting, so the tree
// can never acquire a cycle.
func (f *forestService) createChild(parentID string, kind NodeKind, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%s name is required: %w", kind, ErrStructuralViolation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	parent, ok := f.nodes[parentID]
	if !ok {
		return "", fmt.Errorf("parent %s: %w", parentID, ErrUnknownLocation)
	}
	if childKind[parent.Kind] != kind {
		return "", fmt.Errorf("cannot create %s under %s: %w", kind, parent.Kind, ErrStructuralViolation)
	}

	n := &Node{ID: uuid.NewString(), Kind: kind, Name: name, ParentID: parentID}
	if holdsItems(kind) {
		n.Items = make(map[string]int)
	}
	f.nodes[n.ID] = n
	parent.ChildIDs = append(parent.ChildIDs, n.ID)
	return n.ID, nil
}

func (f *forestService) RenameNode(id, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("name is required: %w", ErrStructuralViolation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrUnknownLocation)
	}
	n.Name = name
	return nil
}

func (f *forestService) UpdateWarehouse(id, name, city, region, address string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("warehouse name is required: %w", ErrStructuralViolation)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.nodes[id]
	if !ok {
		return fmt.Errorf("warehouse %s: %w", id, ErrUnknownLocation)
	}
	if n.Kind != KindWarehouse {
		return fmt.Errorf("node %s is a %s: %w", id, n.Kind, ErrStructuralViolation)
	}
	n.Name, n.City, n.Region, n.Address = name, city, region, address
	return nil
}

func (f *forestService) DeleteNode(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	n, ok := f.nodes[id]
	if !ok {
		return fmt.Errorf("node %s: %w", id, ErrUnknownLocation)
	}

	// Detach from parent (or the root list for warehouses).
	if n.ParentID == "" {
		f.roots = removeID(f.roots, id)
	} else if parent, ok := f.nodes[n.ParentID]; ok {
		parent.ChildIDs = removeID(parent.ChildIDs, id)
	}

	// Cascade: delete the whole subtree, loose items included.
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node, ok := f.nodes[cur]; ok {
			stack = append(stack, node.ChildIDs...)
			delete(f.nodes, cur)
		}
	}
	return nil
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// ── Read views ────────────────────────────────────────────────────────────────

func (f *forestService) Snapshot() []*NodeView {
	f.mu.RLock()
	defer f.mu.RUnlock()

	views := make([]*NodeView, 0, len(f.roots))
	for _, id := range f.roots {
		views = append(views, f.viewOf(id))
	}
	return views
}

func (f *forestService) viewOf(id string) *NodeView {
	n := f.nodes[id]
	v := &NodeView{
		ID:      n.ID,
		Kind:    n.Kind,
		Name:    n.Name,
		City:    n.City,
		Region:  n.Region,
		Address: n.Address,
		Items:   itemList(n.Items),
	}
	for _, childID := range n.ChildIDs {
		v.Children = append(v.Children, f.viewOf(childID))
	}
	return v
}

// itemList converts an items map into a sorted slice for stable output.
func itemList(items map[string]int) []LooseItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]LooseItem, 0, len(items))
	for sku, qty := range items {
		out = append(out, LooseItem{SKU: sku, Quantity: qty})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

func (f *forestService) NodePath(id string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.pathOf(id)
}

// pathOf builds the breadcrumb by walking parent references. Caller holds a lock.
func (f *forestService) pathOf(id string) (string, error) {
	var parts []string
	for cur := id; cur != ""; {
		n, ok := f.nodes[cur]
		if !ok {
			return "", fmt.Errorf("node %s: %w", cur, ErrUnknownLocation)
		}
		parts = append(parts, n.Name)
		cur = n.ParentID
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, " / "), nil
}

// ── Allocation resolver support ───────────────────────────────────────────────

func (f *forestService) AssignedTotal(sku string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.assignedTotalLocked(sku)
}

func (f *forestService) assignedTotalLocked(sku string) int {
	total := 0
	for _, n := range f.nodes {
		if qty, ok := n.Items[sku]; ok {
			total += qty
		}
	}
	return total
}

// ── Stock mutation ────────────────────────────────────────────────────────────

// AssignQuantity draws qty units of sku from source and places them at
// targetID. Validation happens in full before any mutation, so a failure
// leaves the forest untouched and partial application is never observable.
func (f *forestService) AssignQuantity(targetID, sku string, qty int, source Source, totalStock int) error {
	if sku == "" {
		return fmt.Errorf("sku is required: %w", ErrInvalidQuantity)
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	target, ok := f.nodes[targetID]
	if !ok {
		return fmt.Errorf("target %s: %w", targetID, ErrUnknownLocation)
	}
	if !holdsItems(target.Kind) {
		return fmt.Errorf("%s cannot hold loose items: %w", target.Kind, ErrStructuralViolation)
	}

	// Recompute the source's available quantity at call time; the Source the
	// caller holds may be stale.
	var src *Node
	var available int
	switch source.Kind {
	case SourceUnassigned:
		available = totalStock - f.assignedTotalLocked(sku)
		if available < 0 {
			available = 0
		}
	case SourceLocation:
		src, ok = f.nodes[source.LocationID]
		if !ok {
			return fmt.Errorf("source %s: %w", source.LocationID, ErrUnknownLocation)
		}
		available = src.Items[sku]
	default:
		return fmt.Errorf("source kind %q: %w", source.Kind, ErrInvalidQuantity)
	}

	if qty < 1 || qty > available {
		return fmt.Errorf("quantity %d outside [1, %d]: %w", qty, available, ErrInvalidQuantity)
	}

	// Unassigned is a derived pool, not stored; only location sources decrement.
	if src != nil {
		if remaining := src.Items[sku] - qty; remaining > 0 {
			src.Items[sku] = remaining
		} else {
			delete(src.Items, sku)
		}
	}
	target.Items[sku] += qty
	return nil
}

// ── Export / restore ──────────────────────────────────────────────────────────

func (f *forestService) Export() []ExportNode {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var out []ExportNode
	var walk func(id string, pos int)
	walk = func(id string, pos int) {
		n := f.nodes[id]
		out = append(out, ExportNode{
			ID:       n.ID,
			Kind:     n.Kind,
			Name:     n.Name,
			ParentID: n.ParentID,
			City:     n.City,
			Region:   n.Region,
			Address:  n.Address,
			Position: pos,
			Items:    itemList(n.Items),
		})
		for i, childID := range n.ChildIDs {
			walk(childID, i)
		}
	}
	for i, id := range f.roots {
		walk(id, i)
	}
	return out
}

// Restore replaces the whole forest with the exported node set. Nodes must
// arrive parent-before-child (Export emits them that way).
func (f *forestService) Restore(nodes []ExportNode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rebuilt := make(map[string]*Node, len(nodes))
	var roots []string
	for _, en := range nodes {
		n := &Node{
			ID:       en.ID,
			Kind:     en.Kind,
			Name:     en.Name,
			ParentID: en.ParentID,
			City:     en.City,
			Region:   en.Region,
			Address:  en.Address,
		}
		if holdsItems(en.Kind) {
			n.Items = make(map[string]int, len(en.Items))
			for _, it := range en.Items {
				if it.Quantity < 1 {
					continue
				}
				n.Items[it.SKU] = it.Quantity
			}
		} else if len(en.Items) > 0 {
			return fmt.Errorf("%s %s carries loose items: %w", en.Kind, en.ID, ErrStructuralViolation)
		}
		rebuilt[n.ID] = n

		if en.ParentID == "" {
			if en.Kind != KindWarehouse {
				return fmt.Errorf("root node %s is a %s: %w", en.ID, en.Kind, ErrStructuralViolation)
			}
			roots = append(roots, n.ID)
			continue
		}
		parent, ok := rebuilt[en.ParentID]
		if !ok {
			return fmt.Errorf("node %s references missing parent %s: %w", en.ID, en.ParentID, ErrUnknownLocation)
		}
		if childKind[parent.Kind] != en.Kind {
			return fmt.Errorf("%s under %s: %w", en.Kind, parent.Kind, ErrStructuralViolation)
		}
		parent.ChildIDs = append(parent.ChildIDs, n.ID)
	}

	f.nodes = rebuilt
	f.roots = roots
	return nil
}
