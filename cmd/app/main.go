package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"inventory-ops/internal/adapters/cli"
	"inventory-ops/internal/adapters/repl"
	"inventory-ops/internal/ai"
	"inventory-ops/internal/app"
	"inventory-ops/internal/core"
	"inventory-ops/internal/store"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	forest := core.NewForestService()
	catalog := core.NewCatalogService()
	bulk := core.NewBulkService(catalog)
	reports := core.NewReportingService(catalog, forest)

	var st *store.Store
	if os.Getenv("DATABASE_URL") != "" {
		pool, err := store.NewPool(ctx)
		if err != nil {
			log.Fatalf("Unable to connect to database: %v", err)
		}
		defer pool.Close()

		st = store.New(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatalf("Schema setup failed: %v", err)
		}
	}

	var agent *ai.Agent
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, assistant disabled")
	} else {
		agent = ai.NewAgent(apiKey)
	}

	svc := app.NewAppService(forest, catalog, bulk, reports, st, agent)

	if st != nil {
		if err := svc.LoadState(ctx); err != nil {
			log.Printf("Warning: could not load stored state: %v", err)
		}
	}

	// With arguments: one-shot CLI. Without: interactive REPL.
	if len(os.Args) > 1 {
		cli.Run(ctx, svc, os.Args[1:])
		return
	}
	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}
