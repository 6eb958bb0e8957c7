package core

// ResolveSources walks every warehouse → zone → rack (and its loose items) →
// pallet (and its loose items) → box (and its loose items), collecting each
// loose item matching the SKU, then prepends the synthetic unassigned source
// when a positive remainder of totalStock is not placed anywhere.
//
// The Available values of the result always sum to at most totalStock, with
// equality whenever the unassigned source is included. A SKU that resolves to
// no catalog entry simply yields location matches (or nothing) — traversal
// never fails on a stale reference.
func (f *forestService) ResolveSources(sku string, totalStock int) []Source {
	f.mu.RLock()
	defer f.mu.RUnlock()

	var located []Source
	assigned := 0

	var walk func(id string)
	walk = func(id string) {
		n := f.nodes[id]
		if qty, ok := n.Items[sku]; ok {
			path, _ := f.pathOf(id)
			located = append(located, Source{
				Kind:         SourceLocation,
				LocationID:   id,
				LocationPath: path,
				Available:    qty,
			})
			assigned += qty
		}
		for _, childID := range n.ChildIDs {
			walk(childID)
		}
	}
	for _, id := range f.roots {
		walk(id)
	}

	unassigned := totalStock - assigned
	if unassigned > 0 {
		return append([]Source{{Kind: SourceUnassigned, Available: unassigned}}, located...)
	}
	return located
}
