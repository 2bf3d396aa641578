/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift pay server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env + environment), then parse flags
  2. Initialize logger
  3. Initialize SQLite store
  4. Build the pay engine and load stored rate schedules
  5. Configure HTTP router and start the rate reload scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: PORT or 8080)
  -db      SQLite database path (default: DB_PATH or shiftpay.db)
           Use ":memory:" for in-memory database

ENVIRONMENT:
  PORT, DB_PATH, LOG_LEVEL, ENVIRONMENT, TIMEZONE, STANDARD_HOURS,
  CORS_ORIGINS, RATE_RELOAD_SPEC. See config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/shift-pay/api"
	"github.com/warp/shift-pay/config"
	"github.com/warp/shift-pay/logger"
	"github.com/warp/shift-pay/pay"
	"github.com/warp/shift-pay/store/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Flags
	port := flag.Int("port", cfg.Port, "HTTP server port")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	logger.Init(cfg.LogLevel, cfg.Environment)
	log := logger.Get()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	engine, err := pay.NewEngine(pay.EngineConfig{Zone: cfg.Timezone})
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	handler := api.NewHandler(store, engine, cfg.StandardHours)
	if err := handler.ReloadRates(context.Background()); err != nil {
		log.WithError(err).Warn("Failed to load stored rates, using defaults")
	}

	scheduler := api.NewRateReloadScheduler(handler, cfg.RateReloadSpec)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped")
}
