package repl

import (
	"fmt"
	"strings"

	"inventory-ops/internal/app"
	"inventory-ops/internal/core"
)

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "PRODUCTS")
	fmt.Println(strings.Repeat("=", 78))
	if len(result.Products) == 0 {
		fmt.Println("  No products found.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-14s %-24s %-12s %6s %6s %6s %5s\n",
		"SKU", "NAME", "CATEGORY", "STOCK", "COMMIT", "AVAIL", "LSTGS")
	fmt.Println(strings.Repeat("-", 78))
	for _, p := range result.Products {
		category := p.Category
		if category == "" {
			category = "-"
		}
		fmt.Printf("  %-14s %-24s %-12s %6d %6d %6d %5d\n",
			p.SKU, p.Name, category, p.Stock, p.Committed, p.Available(), len(p.Listings))
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printProductDetail(p *core.Product) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("  SKU:       %s\n", p.SKU)
	fmt.Printf("  Name:      %s\n", p.Name)
	if p.Category != "" {
		fmt.Printf("  Category:  %s\n", p.Category)
	}
	fmt.Printf("  Stock:     %d  (committed %d, available %d)\n", p.Stock, p.Committed, p.Available())
	fmt.Printf("  Min stock: %d\n", p.MinStock)
	fmt.Printf("  Unit cost: %s\n", p.UnitCost.StringFixed(2))
	if len(p.Listings) > 0 {
		fmt.Println(strings.Repeat("-", 70))
		fmt.Printf("  %-10s %-12s %-12s %8s %8s\n", "PLATFORM", "STATUS", "LISTING", "BUFFER", "CAP")
		fmt.Println(strings.Repeat("-", 70))
		for _, l := range p.Listings {
			buffer := "-"
			if l.AutoPauseEnabled {
				buffer = fmt.Sprintf("%d", l.BufferStock)
			}
			cap := "-"
			if l.MaxVisibleEnabled {
				cap = fmt.Sprintf("%d", l.MaxVisibleStock)
			}
			fmt.Printf("  %-10s %-12s %-12s %8s %8s\n", l.Platform, l.Status, shortID(l.ID), buffer, cap)
		}
	}
	fmt.Println(strings.Repeat("-", 70))
}

func printSources(result *app.SourcesResult) {
	fmt.Println()
	fmt.Printf("  Sources for %s (stock %d):\n", result.SKU, result.Stock)
	fmt.Println(strings.Repeat("-", 66))
	if len(result.Sources) == 0 {
		fmt.Println("  Nothing to draw from — product has zero stock.")
		fmt.Println(strings.Repeat("-", 66))
		return
	}
	for i, s := range result.Sources {
		label := "(unassigned)"
		if s.Kind == core.SourceLocation {
			label = s.LocationPath
		}
		fmt.Printf("  %2d. %-48s %10d\n", i+1, label, s.Available)
	}
	fmt.Println(strings.Repeat("-", 66))
}

func printTree(result *app.LocationTreeResult) {
	fmt.Println()
	if len(result.Warehouses) == 0 {
		fmt.Println("  No warehouses yet. Use /new-warehouse to create one.")
		return
	}
	var walk func(v *core.NodeView, indent string)
	walk = func(v *core.NodeView, indent string) {
		line := fmt.Sprintf("%s%s [%s]", indent, v.Name, shortID(v.ID))
		if v.Kind == core.KindWarehouse && v.City != "" {
			line += " — " + v.City
		}
		fmt.Println(line)
		for _, it := range v.Items {
			fmt.Printf("%s  • %s × %d\n", indent, it.SKU, it.Quantity)
		}
		for _, c := range v.Children {
			walk(c, indent+"    ")
		}
	}
	for _, w := range result.Warehouses {
		walk(w, "  ")
	}
}

func printValuation(report *core.ValuationReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "STOCK VALUATION")
	fmt.Println(strings.Repeat("=", 78))
	if len(report.Lines) == 0 {
		fmt.Println("  No products in the catalog.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-14s %-24s %6s %6s %6s %12s\n", "SKU", "NAME", "STOCK", "ASSGN", "FREE", "VALUE")
	fmt.Println(strings.Repeat("-", 78))
	for _, l := range report.Lines {
		fmt.Printf("  %-14s %-24s %6d %6d %6d %12s\n",
			l.SKU, l.Name, l.Stock, l.Assigned, l.Unassigned, l.StockValue.StringFixed(2))
	}
	fmt.Println(strings.Repeat("-", 78))
	fmt.Printf("  %-47s %6d %19s\n", "TOTAL", report.TotalUnits, report.TotalValue.StringFixed(2))
	fmt.Println(strings.Repeat("=", 78))
}

func printLowStock(report *core.LowStockReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "LOW STOCK")
	fmt.Println(strings.Repeat("=", 78))
	if len(report.Lines) == 0 {
		fmt.Println("  No products at or below their reorder threshold.")
		fmt.Println(strings.Repeat("=", 78))
		return
	}
	fmt.Printf("  %-14s %-24s %6s %6s %6s %6s %7s\n",
		"SKU", "NAME", "STOCK", "AVAIL", "MIN", "LSTGS", "APAUSED")
	fmt.Println(strings.Repeat("-", 78))
	for _, l := range report.Lines {
		fmt.Printf("  %-14s %-24s %6d %6d %6d %6d %7d\n",
			l.SKU, l.Name, l.Stock, l.Available, l.MinStock, l.TotalListings, l.AutoPausedListings)
	}
	fmt.Println(strings.Repeat("=", 78))
}

func printCommand(result *app.AssistantResult) {
	cmd := result.Command
	fmt.Printf("\nPROPOSED:   %s\n", cmd.Action)
	if cmd.SKU != "" {
		fmt.Printf("SKU:        %s\n", cmd.SKU)
	}
	if len(cmd.SKUs) > 0 {
		fmt.Printf("SKUS:       %s\n", strings.Join(cmd.SKUs, ", "))
	}
	if cmd.ListingID != "" {
		fmt.Printf("LISTING:    %s\n", cmd.ListingID)
	}
	if cmd.TargetLocationID != "" {
		fmt.Printf("TARGET:     %s\n", cmd.TargetLocationID)
	}
	if cmd.SourceLocationID != "" {
		fmt.Printf("SOURCE:     %s\n", cmd.SourceLocationID)
	}
	if cmd.Quantity > 0 {
		fmt.Printf("QUANTITY:   %d\n", cmd.Quantity)
	}
	switch cmd.Action {
	case "set_stock":
		fmt.Printf("STOCK:      %d (committed %d)\n", cmd.Stock, cmd.Committed)
	case "apply_pause_rule", "apply_visibility_rule":
		fmt.Printf("ENABLED:    %v\n", cmd.Enabled)
		fmt.Printf("THRESHOLD:  %d\n", cmd.Threshold)
	}
	fmt.Printf("REASONING:  %s\n", result.Reasoning)
	fmt.Printf("CONFIDENCE: %.2f\n", result.Confidence)
}

// shortID truncates a UUID to its first segment for display.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func printHelp() {
	fmt.Println()
	fmt.Println("INVENTORY OPS — COMMANDS")
	fmt.Println(strings.Repeat("=", 66))
	fmt.Println()
	fmt.Println("  CATALOG")
	fmt.Println("  /products                          List products")
	fmt.Println("  /product <sku>                     Product detail with listings")
	fmt.Println("  /stock <sku> <stock> [committed]   Edit stock counts")
	fmt.Println("  /categories                        List categories")
	fmt.Println("  /add-category <name>               Add a category")
	fmt.Println("  /rm-category <name>                Remove an unused category")
	fmt.Println()
	fmt.Println("  STORAGE LOCATIONS")
	fmt.Println("  /tree                              Show the location hierarchy")
	fmt.Println("  /new-warehouse                     Create a warehouse (interactive)")
	fmt.Println("  /new-location <parent> <kind> <n>  Create zone/rack/pallet/box")
	fmt.Println("  /rename <id> <name>                Rename a location")
	fmt.Println("  /delete <id>                       Delete a location and its subtree")
	fmt.Println()
	fmt.Println("  STOCK ALLOCATION")
	fmt.Println("  /sources <sku>                     Where stock can be drawn from")
	fmt.Println("  /assign <sku>                      Assign stock to a location (interactive)")
	fmt.Println()
	fmt.Println("  CHANNEL LISTINGS")
	fmt.Println("  /link <sku>                        Attach a listing (interactive)")
	fmt.Println("  /pause <sku> <listing-id>          Manually pause a listing")
	fmt.Println("  /activate <sku> <listing-id>       Manually activate a listing")
	fmt.Println("  /pause-rule                        Bulk auto-pause rule (interactive)")
	fmt.Println("  /visibility-rule                   Bulk visible-stock cap (interactive)")
	fmt.Println()
	fmt.Println("  REPORTS & STATE")
	fmt.Println("  /valuation                         Stock valuation report")
	fmt.Println("  /low-stock                         Low-stock report")
	fmt.Println("  /save                              Persist state to the database")
	fmt.Println("  /load                              Restore state from the database")
	fmt.Println()
	fmt.Println("  SESSION")
	fmt.Println("  /help                              Show this help")
	fmt.Println("  /exit                              Exit")
	fmt.Println()
	fmt.Println("  ASSISTANT MODE  (no / prefix)")
	fmt.Println("  Type any inventory request in natural language.")
	fmt.Println("  Example: \"move 5 units of CAM-100 onto the inbound rack\"")
	fmt.Println(strings.Repeat("=", 66))
}
