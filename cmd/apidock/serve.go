package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ShayestehHS/apidock/internal/api"
	"github.com/ShayestehHS/apidock/internal/authhook"
	"github.com/ShayestehHS/apidock/internal/executor"
	"github.com/ShayestehHS/apidock/internal/filter"
	"github.com/ShayestehHS/apidock/internal/history"
	"github.com/ShayestehHS/apidock/internal/logging"
	"github.com/ShayestehHS/apidock/internal/settings"
	"github.com/ShayestehHS/apidock/internal/stats"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the apidock portal server",
	Long: `Starts the documentation portal server.

The server will:
  - Merge the override document into the generated OpenAPI schema
  - Serve the endpoint index and filter API at /api/
  - Stream filter results and execution history over WebSocket
  - Execute try-console requests against the documented service

Configuration is loaded from config.yaml in the current directory,
or specify a custom config file with the --config flag.`,
	RunE: runServe,
}

var portFlag int

func init() {
	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 0, "Override server port")

	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if portFlag > 0 {
		cfg.Server.Port = portFlag
	}

	logger := logging.New(cfg.Logging)

	merged, index, err := buildIndex(cfg)
	if err != nil {
		return err
	}
	logger.Info().Int("endpoints", len(index)).Msg("endpoint index built")

	// Filter engine and its owning controller
	filterEngine := filter.NewEngine(index)
	controller := filter.NewController(filterEngine, cfg.Console.Debounce)

	// Durable settings store under the data dir
	store, err := settings.NewFileStore(cfg.Console.DataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize settings store: %w", err)
	}
	defaultHost := cfg.Console.DefaultHost
	if defaultHost == "" {
		defaultHost = fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	settingsService, err := settings.NewService(store, defaultHost)
	if err != nil {
		return fmt.Errorf("failed to initialize settings: %w", err)
	}

	// Auth hook is optional; an empty command disables it
	var hook authhook.Hook
	if commandHook := authhook.NewCommandHook(cfg.Console.AuthCommand, cfg.Console.AuthTimeout); commandHook != nil {
		hook = commandHook
	}

	execService := executor.NewExecutor(nil)
	historyService := history.NewService(cfg.Console.HistorySize)
	statsCollector := stats.NewCollector()

	router := api.NewRouter(filterEngine, controller, settingsService, hook, execService, historyService, statsCollector, logger)
	router.ServeMergedSchema(merged)
	router.ServeDocsFromFS(cfg.Docs.OutputDir)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     router.Handler(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("starting apidock portal server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
	}

	logger.Info().Msg("server stopped")
	return nil
}
