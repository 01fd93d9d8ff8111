/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the clinic planning server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load YAML config + env overrides
  3. Configure structured logging
  4. Open the SQLite expense store
  5. Build handler and router
  6. Start HTTP server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config path (default: config.yaml)
  -port    HTTP port override (0 = use config)
  -db      SQLite path override ("" = use config; ":memory:" works)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for
  in-flight requests, close the database, exit.

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Config file shape
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinsim/planning-engine/api"
	"github.com/clinsim/planning-engine/config"
	"github.com/clinsim/planning-engine/logging"
	"github.com/clinsim/planning-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "config.yaml", "YAML config path")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	logging.Setup()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Server.SQLitePath = *dbPath
	}

	store, err := sqlite.New(cfg.Server.SQLitePath)
	if err != nil {
		slog.Error("failed to open expense store", "error", err, "path", cfg.Server.SQLitePath)
		os.Exit(1)
	}
	defer store.Close()

	handler := api.NewHandler(store, cfg.Defaults)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr, "db", cfg.Server.SQLitePath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
