package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "inventory-ops/internal/adapters/web"
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

	// Persistence is optional: without DATABASE_URL the service runs purely
	// in memory and save/load return a configuration error.
	var st *store.Store
	if os.Getenv("DATABASE_URL") != "" {
		pool, err := store.NewPool(ctx)
		if err != nil {
			log.Fatalf("database: %v", err)
		}
		defer pool.Close()

		st = store.New(pool)
		if err := st.EnsureSchema(ctx); err != nil {
			log.Fatalf("schema: %v", err)
		}
	} else {
		log.Println("Warning: DATABASE_URL is not set, state persistence disabled")
	}

	var agent *ai.Agent
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Println("Warning: OPENAI_API_KEY is not set, assistant disabled")
	} else {
		agent = ai.NewAgent(apiKey)
	}

	svc := app.NewAppService(forest, catalog, bulk, reports, st, agent)

	// Restore the last snapshot so a restart does not start from an empty tree.
	if st != nil {
		if err := svc.LoadState(ctx); err != nil {
			log.Printf("Warning: could not load stored state: %v", err)
		}
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
