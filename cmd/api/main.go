package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	apibalance "neobio_balance/pkg/api/balance"
	apiconfig "neobio_balance/pkg/api/config"
	"neobio_balance/pkg/core/config"
	"neobio_balance/pkg/core/store"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "config/balance.yaml", "Path to the service configuration")
	flag.Parse()

	// Load environment variables
	godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("[FATAL] %v\n", err)
		os.Exit(1)
	}

	// Run history: PostgreSQL when DATABASE_URL is set, file store otherwise
	var runs *store.RunRepo
	backend := "disabled"
	if cfg.Store.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := store.InitDB(ctx); err != nil {
			fmt.Printf("[STORE] Database unavailable (%v), using file store\n", err)
			runs = store.NewRunRepo(nil, cfg.Store.Dir)
			backend = "file"
		} else {
			runs = store.NewRunRepo(store.GetPool(), "")
			if err := runs.EnsureSchema(ctx); err != nil {
				fmt.Printf("[WARNING] %v\n", err)
			}
			backend = "postgres"
		}
		cancel()
	}
	defer store.Close()

	provider := cfg.Provider()
	if provider != nil {
		fmt.Printf("[DEFAULTS] Using %s defaults\n", provider.Source())
	} else {
		fmt.Println("[DEFAULTS] Using built-in defaults")
	}

	mux := http.NewServeMux()

	// Config endpoints
	configHandler := apiconfig.NewHandler(cfg, backend)
	mux.HandleFunc("/api/config", configHandler.HandleConfig)

	// Balance endpoints
	balanceHandler := apibalance.NewHandler(cfg, provider, runs)
	balanceHandler.Register(mux)

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - GET  /api/config")
	fmt.Println("  - GET  /api/balance/defaults")
	fmt.Println("  - POST /api/balance/defaults/upload  (multipart: file=.xlsx, sheet)")
	fmt.Println("  - POST /api/balance/compute")
	fmt.Println("  - POST /api/balance/report  (HTML)")
	fmt.Printf("  - GET  /api/balance/runs  (store: %s)\n", backend)

	if err := http.ListenAndServe(cfg.Server.Addr, mux); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		os.Exit(1)
	}
}
