package core_test

import (
	"errors"
	"testing"

	"inventory-ops/internal/core"
)

// buildForest creates warehouse → zone → rack → pallet → box and returns the
// service plus the five generated IDs.
func buildForest(t *testing.T) (core.ForestService, map[string]string) {
	t.Helper()
	f := core.NewForestService()

	wh, err := f.CreateWarehouse("Central", "Leipzig", "Saxony", "Hafenstr. 12")
	if err != nil {
		t.Fatalf("CreateWarehouse failed: %v", err)
	}
	zone, err := f.CreateZone(wh, "Zone A")
	if err != nil {
		t.Fatalf("CreateZone failed: %v", err)
	}
	rack, err := f.CreateRack(zone, "Rack 1")
	if err != nil {
		t.Fatalf("CreateRack failed: %v", err)
	}
	pallet, err := f.CreatePallet(rack, "Pallet 1")
	if err != nil {
		t.Fatalf("CreatePallet failed: %v", err)
	}
	box, err := f.CreateBox(pallet, "Box 1")
	if err != nil {
		t.Fatalf("CreateBox failed: %v", err)
	}

	return f, map[string]string{"wh": wh, "zone": zone, "rack": rack, "pallet": pallet, "box": box}
}

func TestForest_CreateRequiresMatchingParentKind(t *testing.T) {
	f, ids := buildForest(t)

	// A rack cannot be created directly under a warehouse.
	if _, err := f.CreateRack(ids["wh"], "Bad Rack"); !errors.Is(err, core.ErrStructuralViolation) {
		t.Errorf("Expected ErrStructuralViolation, got %v", err)
	}
	// A zone cannot be created under a missing parent.
	if _, err := f.CreateZone("nope", "Bad Zone"); !errors.Is(err, core.ErrUnknownLocation) {
		t.Errorf("Expected ErrUnknownLocation, got %v", err)
	}
	// Boxes are the deepest level — nothing nests below them.
	if _, err := f.CreateBox(ids["box"], "Nested"); !errors.Is(err, core.ErrStructuralViolation) {
		t.Errorf("Expected ErrStructuralViolation for box-in-box, got %v", err)
	}
}

func TestForest_NodePathBreadcrumb(t *testing.T) {
	f, ids := buildForest(t)

	path, err := f.NodePath(ids["box"])
	if err != nil {
		t.Fatalf("NodePath failed: %v", err)
	}
	want := "Central / Zone A / Rack 1 / Pallet 1 / Box 1"
	if path != want {
		t.Errorf("Expected path %q, got %q", want, path)
	}
}

func TestForest_RenameAffectsBreadcrumb(t *testing.T) {
	f, ids := buildForest(t)

	if err := f.RenameNode(ids["zone"], "Zone B"); err != nil {
		t.Fatalf("RenameNode failed: %v", err)
	}
	path, err := f.NodePath(ids["rack"])
	if err != nil {
		t.Fatalf("NodePath failed: %v", err)
	}
	if path != "Central / Zone B / Rack 1" {
		t.Errorf("Unexpected path after rename: %q", path)
	}
}

func TestForest_DeleteCascades(t *testing.T) {
	f, ids := buildForest(t)

	// Place stock on the box so the cascade also destroys loose items.
	if err := f.AssignQuantity(ids["box"], "SKU-1", 4, core.Source{Kind: core.SourceUnassigned}, 10); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}

	if err := f.DeleteNode(ids["zone"]); err != nil {
		t.Fatalf("DeleteNode failed: %v", err)
	}

	for _, id := range []string{ids["zone"], ids["rack"], ids["pallet"], ids["box"]} {
		if _, err := f.NodePath(id); !errors.Is(err, core.ErrUnknownLocation) {
			t.Errorf("Expected node %s gone, got err=%v", id, err)
		}
	}
	if got := f.AssignedTotal("SKU-1"); got != 0 {
		t.Errorf("Expected assigned total 0 after cascade, got %d", got)
	}

	// The warehouse itself survives with no children.
	snap := f.Snapshot()
	if len(snap) != 1 || len(snap[0].Children) != 0 {
		t.Errorf("Expected one childless warehouse in snapshot, got %+v", snap)
	}
}

func TestForest_AssignFromUnassigned(t *testing.T) {
	f, ids := buildForest(t)

	err := f.AssignQuantity(ids["rack"], "SKU-1", 5, core.Source{Kind: core.SourceUnassigned}, 12)
	if err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}
	if got := f.AssignedTotal("SKU-1"); got != 5 {
		t.Errorf("Expected assigned total 5, got %d", got)
	}
}

func TestForest_AssignBetweenLocations(t *testing.T) {
	f, ids := buildForest(t)

	if err := f.AssignQuantity(ids["rack"], "SKU-1", 5, core.Source{Kind: core.SourceUnassigned}, 12); err != nil {
		t.Fatalf("Seed assign failed: %v", err)
	}

	// Move 3 of the 5 rack units into the box.
	err := f.AssignQuantity(ids["box"], "SKU-1", 3,
		core.Source{Kind: core.SourceLocation, LocationID: ids["rack"]}, 12)
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	sources := f.ResolveSources("SKU-1", 12)
	// unassigned 7, rack 2, box 3
	if len(sources) != 3 {
		t.Fatalf("Expected 3 sources, got %d: %+v", len(sources), sources)
	}
	if got := f.AssignedTotal("SKU-1"); got != 5 {
		t.Errorf("Total tracked quantity changed by a move: got %d, want 5", got)
	}
}

func TestForest_AssignDrainsSourceEntry(t *testing.T) {
	f, ids := buildForest(t)

	if err := f.AssignQuantity(ids["rack"], "SKU-1", 5, core.Source{Kind: core.SourceUnassigned}, 5); err != nil {
		t.Fatalf("Seed assign failed: %v", err)
	}
	// Moving the full quantity removes the entry instead of retaining a zero.
	if err := f.AssignQuantity(ids["box"], "SKU-1", 5,
		core.Source{Kind: core.SourceLocation, LocationID: ids["rack"]}, 5); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	sources := f.ResolveSources("SKU-1", 5)
	if len(sources) != 1 || sources[0].LocationID != ids["box"] || sources[0].Available != 5 {
		t.Errorf("Expected single box source with 5 units, got %+v", sources)
	}
}

func TestForest_AssignValidation(t *testing.T) {
	f, ids := buildForest(t)

	unassigned := core.Source{Kind: core.SourceUnassigned}

	// qty below 1.
	if err := f.AssignQuantity(ids["rack"], "SKU-1", 0, unassigned, 10); !errors.Is(err, core.ErrInvalidQuantity) {
		t.Errorf("Expected ErrInvalidQuantity for qty=0, got %v", err)
	}
	// qty above the source's current availability.
	if err := f.AssignQuantity(ids["rack"], "SKU-1", 11, unassigned, 10); !errors.Is(err, core.ErrInvalidQuantity) {
		t.Errorf("Expected ErrInvalidQuantity for qty>available, got %v", err)
	}
	// Unknown target.
	if err := f.AssignQuantity("nope", "SKU-1", 1, unassigned, 10); !errors.Is(err, core.ErrUnknownLocation) {
		t.Errorf("Expected ErrUnknownLocation, got %v", err)
	}
	// Zones cannot hold loose items.
	if err := f.AssignQuantity(ids["zone"], "SKU-1", 1, unassigned, 10); !errors.Is(err, core.ErrStructuralViolation) {
		t.Errorf("Expected ErrStructuralViolation, got %v", err)
	}
	// Unknown source location.
	if err := f.AssignQuantity(ids["rack"], "SKU-1", 1,
		core.Source{Kind: core.SourceLocation, LocationID: "nope"}, 10); !errors.Is(err, core.ErrUnknownLocation) {
		t.Errorf("Expected ErrUnknownLocation for source, got %v", err)
	}

	// None of the rejected calls may have touched the forest.
	if got := f.AssignedTotal("SKU-1"); got != 0 {
		t.Errorf("Failed assigns mutated the forest: assigned total %d", got)
	}
}

func TestForest_AssignAtomicityOnFailure(t *testing.T) {
	f, ids := buildForest(t)

	if err := f.AssignQuantity(ids["rack"], "SKU-1", 5, core.Source{Kind: core.SourceUnassigned}, 12); err != nil {
		t.Fatalf("Seed assign failed: %v", err)
	}

	// Target validation fails after a valid source — the decrement must not
	// have happened.
	err := f.AssignQuantity("missing-target", "SKU-1", 3,
		core.Source{Kind: core.SourceLocation, LocationID: ids["rack"]}, 12)
	if !errors.Is(err, core.ErrUnknownLocation) {
		t.Fatalf("Expected ErrUnknownLocation, got %v", err)
	}
	if got := f.AssignedTotal("SKU-1"); got != 5 {
		t.Errorf("Total tracked quantity decreased without a matching increase: got %d, want 5", got)
	}
	sources := f.ResolveSources("SKU-1", 12)
	for _, s := range sources {
		if s.LocationID == ids["rack"] && s.Available != 5 {
			t.Errorf("Rack quantity changed on failed assign: %d", s.Available)
		}
	}
}

func TestForest_ConservationUnderAssignSequence(t *testing.T) {
	f, ids := buildForest(t)
	const stock = 20

	steps := []struct {
		target string
		qty    int
		source core.Source
	}{
		{ids["rack"], 8, core.Source{Kind: core.SourceUnassigned}},
		{ids["pallet"], 3, core.Source{Kind: core.SourceLocation, LocationID: ids["rack"]}},
		{ids["box"], 2, core.Source{Kind: core.SourceLocation, LocationID: ids["pallet"]}},
		{ids["box"], 6, core.Source{Kind: core.SourceUnassigned}},
		{ids["rack"], 4, core.Source{Kind: core.SourceLocation, LocationID: ids["box"]}},
	}
	for i, s := range steps {
		if err := f.AssignQuantity(s.target, "SKU-X", s.qty, s.source, stock); err != nil {
			t.Fatalf("Step %d failed: %v", i, err)
		}
		if total := f.AssignedTotal("SKU-X"); total > stock {
			t.Fatalf("Step %d: assigned total %d exceeds stock %d", i, total, stock)
		}
	}

	// 8 + 6 drawn from the pool, moves conserve: 14 assigned, 6 unassigned.
	if total := f.AssignedTotal("SKU-X"); total != 14 {
		t.Errorf("Expected assigned total 14, got %d", total)
	}
	sources := f.ResolveSources("SKU-X", stock)
	sum := 0
	for _, s := range sources {
		sum += s.Available
	}
	if sum != stock {
		t.Errorf("Resolver sources sum to %d, want %d", sum, stock)
	}
}

func TestForest_ExportRestoreRoundTrip(t *testing.T) {
	f, ids := buildForest(t)
	if err := f.AssignQuantity(ids["box"], "SKU-1", 3, core.Source{Kind: core.SourceUnassigned}, 10); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}
	if err := f.AssignQuantity(ids["rack"], "SKU-2", 7, core.Source{Kind: core.SourceUnassigned}, 7); err != nil {
		t.Fatalf("AssignQuantity failed: %v", err)
	}

	exported := f.Export()

	restored := core.NewForestService()
	if err := restored.Restore(exported); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	if got := restored.AssignedTotal("SKU-1"); got != 3 {
		t.Errorf("Expected SKU-1 total 3 after restore, got %d", got)
	}
	if got := restored.AssignedTotal("SKU-2"); got != 7 {
		t.Errorf("Expected SKU-2 total 7 after restore, got %d", got)
	}
	path, err := restored.NodePath(ids["box"])
	if err != nil {
		t.Fatalf("NodePath after restore failed: %v", err)
	}
	if path != "Central / Zone A / Rack 1 / Pallet 1 / Box 1" {
		t.Errorf("Breadcrumb changed across round-trip: %q", path)
	}
}
