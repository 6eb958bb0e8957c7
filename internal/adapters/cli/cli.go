package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"inventory-ops/internal/app"
	"inventory-ops/internal/core"
)

// Run executes a one-shot CLI command and exits.
// args is os.Args[1:] — the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string) {
	switch args[0] {
	case "products", "prod", "p":
		result, err := svc.ListProducts(ctx)
		if err != nil {
			log.Fatalf("Failed to list products: %v", err)
		}
		printProducts(result)

	case "sources", "src":
		if len(args) < 2 {
			log.Fatal("Usage: app sources <sku>")
		}
		result, err := svc.GetStockSources(ctx, args[1])
		if err != nil {
			log.Fatalf("Failed to resolve sources: %v", err)
		}
		printSources(result)

	case "tree", "locations":
		result, err := svc.GetLocationTree(ctx)
		if err != nil {
			log.Fatalf("Failed to load locations: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Warehouses)

	case "valuation", "val":
		report, err := svc.GetValuationReport(ctx)
		if err != nil {
			log.Fatalf("Failed to build valuation report: %v", err)
		}
		printValuation(report)

	case "low-stock", "low":
		report, err := svc.GetLowStockReport(ctx)
		if err != nil {
			log.Fatalf("Failed to build low-stock report: %v", err)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(report)

	case "save":
		if err := svc.SaveState(ctx); err != nil {
			log.Fatalf("Save failed: %v", err)
		}
		fmt.Println("State saved.")

	case "load":
		if err := svc.LoadState(ctx); err != nil {
			log.Fatalf("Load failed: %v", err)
		}
		fmt.Println("State loaded.")

	case "propose", "prop":
		if len(args) < 2 {
			log.Fatal("Usage: app propose \"<request>\"")
		}
		result, err := svc.InterpretCommand(ctx, args[1])
		if err != nil {
			log.Fatalf("Assistant error: %v", err)
		}
		if result.IsClarification {
			fmt.Fprintln(os.Stderr, "Assistant needs clarification:", result.ClarificationMessage)
			os.Exit(1)
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.Encode(result.Command)

	case "execute", "exec":
		var cmd app.CommandInput
		if err := json.NewDecoder(os.Stdin).Decode(&cmd); err != nil {
			log.Fatalf("Invalid JSON: %v", err)
		}
		msg, err := svc.ExecuteCommand(ctx, cmd)
		if err != nil {
			log.Fatalf("Execution failed: %v", err)
		}
		fmt.Println(msg)

	default:
		log.Fatalf("Unknown command: %s\nAvailable: products, sources, tree, valuation, low-stock, save, load, propose, execute", args[0])
	}
}

func printProducts(result *app.ProductListResult) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-68s\n", "PRODUCTS")
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  %-14s %-26s %8s %8s %8s\n", "SKU", "NAME", "STOCK", "COMMIT", "AVAIL")
	fmt.Println(strings.Repeat("-", 72))
	for _, p := range result.Products {
		fmt.Printf("  %-14s %-26s %8d %8d %8d\n", p.SKU, p.Name, p.Stock, p.Committed, p.Available())
	}
	fmt.Println(strings.Repeat("=", 72))
}

func printSources(result *app.SourcesResult) {
	fmt.Println()
	fmt.Printf("  Sources for %s (stock %d):\n", result.SKU, result.Stock)
	fmt.Println(strings.Repeat("-", 62))
	for _, s := range result.Sources {
		if s.LocationID == "" {
			fmt.Printf("  %-46s %12d\n", "(unassigned)", s.Available)
			continue
		}
		fmt.Printf("  %-46s %12d\n", s.LocationPath, s.Available)
	}
	fmt.Println(strings.Repeat("-", 62))
}

func printValuation(report *core.ValuationReport) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 78))
	fmt.Printf("  %-74s\n", "STOCK VALUATION")
	fmt.Println(strings.Repeat("=", 78))
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
