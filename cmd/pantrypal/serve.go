package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/pantrypal/internal/config"
	"github.com/dukerupert/pantrypal/internal/database"
	"github.com/dukerupert/pantrypal/internal/logging"
	"github.com/dukerupert/pantrypal/internal/server"
)

// scanSessionMaxIdle is how long an untouched scan session stays open.
const scanSessionMaxIdle = 30 * time.Minute

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().String("port", "", "listen port (overrides PANTRYPAL_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func serve(cfg *config.Config) error {
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsesDevSecret() {
		logger.Warn("PANTRYPAL_JWT_SECRET is not set; using the development secret")
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	srv := server.New(db, cfg, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Recipe suggestions fan out to the recipe API.
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	defer bgCancel()

	if sched := srv.PushScheduler(); sched != nil {
		sched.Start(bgCtx)
		defer sched.Stop()
		logger.Info("expiry reminders enabled", "horizon_days", cfg.ExpiryHorizonDays)
	}

	// Background cleanup goroutine
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					slog.Error("cleanup expired sessions", "error", err)
				} else if n > 0 {
					slog.Info("cleaned up expired sessions", "count", n)
				}
				srv.RateLimiter().Cleanup()
				if n := srv.ScanHandler().CleanupSessions(scanSessionMaxIdle); n > 0 {
					slog.Info("closed idle scan sessions", "count", n)
				}
			case <-bgCtx.Done():
				return
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("pantrypal starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("shutting down")
	bgCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
