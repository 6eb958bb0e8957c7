// restore-seed is a one-shot tool that rebuilds a small demo dataset and
// saves it as the stored snapshot. Run it to get a working playground after a
// wipe, or to reset a development database.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"

	"inventory-ops/internal/core"
	"inventory-ops/internal/store"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := store.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		log.Fatalf("Schema setup failed: %v", err)
	}

	forest := core.NewForestService()
	catalog := core.NewCatalogService()

	log.Println("Building demo locations...")
	wh, err := forest.CreateWarehouse("Main Warehouse", "Leipzig", "Saxony", "Hafenstr. 12")
	if err != nil {
		log.Fatalf("Failed to create warehouse: %v", err)
	}
	zone, err := forest.CreateZone(wh, "Zone A")
	if err != nil {
		log.Fatalf("Failed to create zone: %v", err)
	}
	rack, err := forest.CreateRack(zone, "Rack 1")
	if err != nil {
		log.Fatalf("Failed to create rack: %v", err)
	}
	pallet, err := forest.CreatePallet(rack, "Pallet 1")
	if err != nil {
		log.Fatalf("Failed to create pallet: %v", err)
	}
	if _, err := forest.CreateBox(pallet, "Box 1"); err != nil {
		log.Fatalf("Failed to create box: %v", err)
	}

	log.Println("Building demo catalog...")
	for _, name := range []string{"Electronics", "Outdoor"} {
		if err := catalog.AddCategory(name); err != nil {
			log.Fatalf("Failed to add category: %v", err)
		}
	}

	seed := []core.Product{
		{SKU: "CAM-100", Name: "Trail Camera", Category: "Electronics", Stock: 25, MinStock: 5, UnitCost: decimal.NewFromFloat(42.50)},
		{SKU: "TNT-200", Name: "2-Person Tent", Category: "Outdoor", Stock: 12, MinStock: 3, UnitCost: decimal.NewFromFloat(89.90)},
		{SKU: "LMP-300", Name: "Camping Lamp", Category: "Outdoor", Stock: 40, MinStock: 10, UnitCost: decimal.NewFromFloat(12.00)},
	}
	for _, p := range seed {
		if _, err := catalog.CreateProduct(p); err != nil {
			log.Fatalf("Failed to create product %s: %v", p.SKU, err)
		}
	}
	if _, err := catalog.LinkChannel("CAM-100", core.ChannelListing{
		Platform:         "ebay",
		Title:            "Trail Camera HD",
		BufferStock:      10,
		AutoPauseEnabled: true,
	}); err != nil {
		log.Fatalf("Failed to link listing: %v", err)
	}
	if _, err := catalog.LinkChannel("TNT-200", core.ChannelListing{
		Platform:          "etsy",
		Title:             "Lightweight 2-Person Tent",
		MaxVisibleStock:   5,
		MaxVisibleEnabled: true,
	}); err != nil {
		log.Fatalf("Failed to link listing: %v", err)
	}

	log.Println("Placing demo stock...")
	if err := forest.AssignQuantity(rack, "CAM-100", 15, core.Source{Kind: core.SourceUnassigned}, 25); err != nil {
		log.Fatalf("Failed to assign stock: %v", err)
	}
	if err := forest.AssignQuantity(pallet, "LMP-300", 40, core.Source{Kind: core.SourceUnassigned}, 40); err != nil {
		log.Fatalf("Failed to assign stock: %v", err)
	}

	log.Println("Saving snapshot...")
	if err := st.Save(ctx, store.Snapshot{
		Catalog: catalog.Export(),
		Nodes:   forest.Export(),
	}); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}

	log.Println("Seed data restored successfully.")
}
