/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the retail engine server. Handles
  configuration, dependency injection, first-run seeding, and graceful
  shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment configuration
  2. Parse command-line flags (flags override environment)
  3. Initialize SQLite store
  4. Load collections into their repositories
  5. Seed default records on first run
  6. Configure HTTP router
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: PORT env or 8080)
  -db      SQLite database path (default: DB_PATH env or retail.db)
           Use ":memory:" for in-memory database

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/retail.db"

  # Run with in-memory database
  ./server -db=":memory:"

  # Run on different port
  ./server -port=3000

ENVIRONMENT:
  PORT, DB_PATH, LOW_STOCK_WARNING, LOW_STOCK_CRITICAL, SEED.
  See config/config.go for defaults.

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/gaspoint/retail-engine/api"
	"github.com/gaspoint/retail-engine/config"
	"github.com/gaspoint/retail-engine/reports"
	"github.com/gaspoint/retail-engine/retail"
	"github.com/gaspoint/retail-engine/store/sqlite"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()

	// .env is optional; explicit environment always wins.
	_ = godotenv.Load()
	cfg := config.Load()

	// Flags override environment
	port := flag.String("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *dbPath).Msg("failed to initialize database")
	}
	defer store.Close()

	ctx := context.Background()

	if cfg.Seed {
		seeded, err := retail.EnsureSeedData(ctx, store, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed initial data")
		}
		if seeded {
			log.Info().Msg("first run detected, seeded default records")
		}
	}

	// Load collections
	customers, err := retail.NewCustomerRepository(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load customers")
	}
	products, err := retail.NewProductRepository(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load products")
	}
	settings, err := retail.NewSettingsRepository(ctx, store)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load settings")
	}
	ledger, err := retail.NewLedger(ctx, store, customers, products)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load sales ledger")
	}
	ledger.WithReceipts(retail.LoggingPrinter{Log: log}, settings).WithLogger(log)

	backups := retail.NewBackupService(store, customers, products, settings, ledger)
	engine := reports.NewEngine(customers, products, ledger).
		WithThresholds(cfg.LowStockWarning, cfg.LowStockCritical)

	// Create router
	router := api.NewRouter(&api.Handler{
		Customers: customers,
		Products:  products,
		Ledger:    ledger,
		Settings:  settings,
		Backups:   backups,
		Reports:   engine,
		Log:       log,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + *port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", "http://localhost:"+*port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
