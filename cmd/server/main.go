/*
main.go - Application entry point

PURPOSE:
  Command line for the roster engine. "serve" runs the HTTP API (and the
  optional monthly scheduler); "generate" prints a single roster without a
  server; "scenario" seeds a database with demo staff.

STARTUP SEQUENCE (serve):
  1. Load configuration (env, optional YAML defaults, flags)
  2. Initialize logging
  3. Open the store (SQLite file, SQLite ":memory:", or ":mem:" in-memory maps)
  4. Create metrics, generator, handler and router
  5. Start the scheduler when enabled
  6. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close the store

EXAMPLES:
  # Run with file database
  roster-engine serve --db=./data/roster.db

  # Run with in-memory store on a different port
  roster-engine serve --db=":mem:" --port=3000

  # Print November 2025 for four people as CSV
  roster-engine generate --year 2025 --month 10 --total 4 --format csv

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/warp/roster-engine/api"
	"github.com/warp/roster-engine/config"
	"github.com/warp/roster-engine/logging"
	"github.com/warp/roster-engine/store"
	"github.com/warp/roster-engine/store/memory"
	"github.com/warp/roster-engine/store/sqlite"
)

var (
	logger zerolog.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "roster-engine",
	Short:         "Monthly shift roster generator",
	Long:          "Generates monthly shift rosters that spread hours evenly across staff, and serves them over HTTP.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	servePort int
	serveDB   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the roster API server",
	Long:  "Start the HTTP API server and, when ROSTER_SCHEDULER_ENABLED is set, the monthly pre-generation scheduler",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (overrides ROSTER_HTTP_PORT)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", `Database path, ":memory:" or ":mem:" (overrides ROSTER_DB_PATH)`)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(scenarioCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads configuration (called by commands that need it).
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger = logging.Setup(cfg.Environment)
	return nil
}

// openStore opens the store selected by c.DBPath.
func openStore(c *config.Config) (store.Store, error) {
	if c.UsesMemoryStore() {
		return memory.New(), nil
	}
	return sqlite.New(c.DBPath)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	if servePort != 0 {
		cfg.HTTPPort = servePort
	}
	if serveDB != "" {
		cfg.DBPath = serveDB
	}

	logger.Info().
		Str("env", cfg.Environment).
		Str("db", cfg.DBPath).
		Msg("roster engine starting")

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := api.NewMetrics(reg)

	gen := api.NewGenerator(st, cfg.Defaults, metrics, logger)
	handler := api.NewHandler(st, gen, logger)

	scheduler := api.NewRosterScheduler(gen, cfg.SchedulerInterval, logger)
	scheduler.Enabled = cfg.SchedulerEnabled
	handler.Scheduler = scheduler
	scheduler.Start()

	router := api.NewRouter(handler, metrics, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.HTTPPort).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down gracefully...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("roster engine stopped")
	return nil
}
