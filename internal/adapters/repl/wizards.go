package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"inventory-ops/internal/app"
	"inventory-ops/internal/core"
)

// handleAssign runs an interactive stock assignment session: pick a source,
// pick a target location, enter a quantity.
func handleAssign(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, sku string) {
	sources, err := svc.GetStockSources(ctx, sku)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(sources.Sources) == 0 {
		fmt.Printf("%s has no stock to assign.\n", sku)
		return
	}

	printSources(sources)
	fmt.Print("Draw from source number ('cancel' to abort): ")
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if strings.ToLower(raw) == "cancel" || raw == "" {
		fmt.Println("Assignment cancelled.")
		return
	}
	idx, err := strconv.Atoi(raw)
	if err != nil || idx < 1 || idx > len(sources.Sources) {
		fmt.Println("Invalid source number.")
		return
	}
	source := sources.Sources[idx-1]

	fmt.Print("Target location ID: ")
	target, _ := reader.ReadString('\n')
	target = strings.TrimSpace(target)
	if target == "" {
		fmt.Println("Assignment cancelled.")
		return
	}

	fmt.Printf("Quantity (1-%d): ", source.Available)
	qtyRaw, _ := reader.ReadString('\n')
	qty, err := strconv.Atoi(strings.TrimSpace(qtyRaw))
	if err != nil || qty < 1 {
		fmt.Println("Invalid quantity.")
		return
	}

	result, err := svc.AssignStock(ctx, app.AssignStockRequest{
		SKU:              sku,
		TargetLocationID: target,
		SourceLocationID: source.LocationID, // empty for the unassigned pool
		Quantity:         qty,
	})
	if err != nil {
		fmt.Printf("Assignment failed: %v\n", err)
		return
	}
	fmt.Printf("\nAssigned %d × %s.\n", qty, sku)
	printSources(result)
}

// handleNewWarehouse runs an interactive warehouse creation session.
func handleNewWarehouse(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService) {
	prompt := func(label string) string {
		fmt.Printf("%s: ", label)
		raw, _ := reader.ReadString('\n')
		return strings.TrimSpace(raw)
	}

	name := prompt("Warehouse name")
	if name == "" {
		fmt.Println("Cancelled.")
		return
	}
	city := prompt("City (optional)")
	region := prompt("Region (optional)")
	address := prompt("Address (optional)")

	result, err := svc.CreateWarehouse(ctx, app.CreateWarehouseRequest{
		Name: name, City: city, Region: region, Address: address,
	})
	if err != nil {
		fmt.Printf("Error creating warehouse: %v\n", err)
		return
	}
	fmt.Printf("Warehouse created: %s  (id %s)\n", result.Path, result.ID)
	fmt.Println("Use '/new-location <id> zone <name>' to add zones.")
}

// handleLinkListing runs an interactive listing creation session.
func handleLinkListing(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, sku string) {
	prompt := func(label string) string {
		fmt.Printf("%s: ", label)
		raw, _ := reader.ReadString('\n')
		return strings.TrimSpace(raw)
	}

	platform := prompt("Platform (e.g. ebay, etsy, amazon)")
	if platform == "" {
		fmt.Println("Cancelled.")
		return
	}
	externalID := prompt("External listing ID (optional)")
	title := prompt("Listing title (optional)")

	req := app.ListingRequest{Platform: platform, ExternalID: externalID, Title: title}

	if answer := prompt("Enable auto-pause? (y/n)"); answer == "y" || answer == "yes" {
		buffer, err := strconv.Atoi(prompt("Buffer threshold"))
		if err != nil || buffer < 0 {
			fmt.Println("Invalid threshold.")
			return
		}
		req.AutoPauseEnabled = true
		req.BufferStock = buffer
	}
	if answer := prompt("Cap visible stock? (y/n)"); answer == "y" || answer == "yes" {
		cap, err := strconv.Atoi(prompt("Visible stock cap"))
		if err != nil || cap < 0 {
			fmt.Println("Invalid cap.")
			return
		}
		req.MaxVisibleEnabled = true
		req.MaxVisibleStock = cap
	}

	result, err := svc.LinkChannel(ctx, sku, req)
	if err != nil {
		fmt.Printf("Error linking listing: %v\n", err)
		return
	}
	fmt.Printf("Listing created on %s (id %s, status %s).\n",
		result.Listing.Platform, shortID(result.Listing.ID), result.Listing.Status)
}

// handleBulkRule runs an interactive bulk rule session. pauseRule selects
// between the auto-pause rule and the visible-stock cap.
func handleBulkRule(ctx context.Context, reader *bufio.Reader, svc app.ApplicationService, pauseRule bool) {
	products, err := svc.ListProducts(ctx)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	if len(products.Products) == 0 {
		fmt.Println("No products in the catalog.")
		return
	}

	fmt.Println("Select products (comma-separated SKUs, or 'all'):")
	for _, p := range products.Products {
		fmt.Printf("  %-14s %s\n", p.SKU, p.Name)
	}
	fmt.Print("> ")
	raw, _ := reader.ReadString('\n')
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.ToLower(raw) == "cancel" {
		fmt.Println("Cancelled.")
		return
	}

	var skus []string
	if strings.ToLower(raw) == "all" {
		for _, p := range products.Products {
			skus = append(skus, p.SKU)
		}
	} else {
		for _, s := range strings.Split(raw, ",") {
			if t := strings.TrimSpace(s); t != "" {
				skus = append(skus, t)
			}
		}
	}

	fmt.Print("Enable the rule? (y/n): ")
	enabledRaw, _ := reader.ReadString('\n')
	enabled := false
	if c := strings.TrimSpace(strings.ToLower(enabledRaw)); c == "y" || c == "yes" {
		enabled = true
	}

	threshold := 0
	if enabled {
		label := "Buffer threshold"
		if !pauseRule {
			label = "Visible stock cap"
		}
		fmt.Printf("%s: ", label)
		tRaw, _ := reader.ReadString('\n')
		threshold, err = strconv.Atoi(strings.TrimSpace(tRaw))
		if err != nil || threshold < 0 {
			fmt.Println("Invalid number.")
			return
		}
	}

	req := app.BulkRuleRequest{SKUs: skus, Enabled: enabled, Threshold: threshold}
	var result *app.BulkResult
	if pauseRule {
		result, err = svc.ApplyPauseRule(ctx, req)
	} else {
		result, err = svc.ApplyVisibilityRule(ctx, req)
	}
	if err != nil {
		fmt.Printf("Rule failed: %v\n", err)
		return
	}
	fmt.Printf("Rule applied to %d of %d selected products.\n", result.Touched, result.Selected)

	if pauseRule && result.Touched > 0 {
		// Show the resulting statuses so the operator sees what the rule did.
		for _, sku := range skus {
			p, err := svc.GetProduct(ctx, sku)
			if err != nil {
				continue
			}
			for _, l := range p.Product.Listings {
				if l.Status == core.StatusAutoPaused {
					fmt.Printf("  auto-paused: %s on %s\n", sku, l.Platform)
				}
			}
		}
	}
}
