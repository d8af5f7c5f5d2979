// ABOUTME: CLI command for running the REST API server.
// ABOUTME: Registers Prometheus collectors and shuts down gracefully on signals.
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
	"github.com/spf13/cobra"

	"github.com/lifelog/lifelog/internal/api"
	"github.com/lifelog/lifelog/internal/telemetry"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Long: `Run the correlation API server.

ENDPOINTS:

  GET   /healthz                                        Liveness probe
  GET   /metrics                                        Prometheus metrics
  GET   /api/v1/metrics                                 Metric catalog
  GET   /api/v1/users/:user_id/correlations             List correlations
  GET   /api/v1/users/:user_id/correlations/stats       Summary stats
  GET   /api/v1/users/:user_id/correlations/:id         One correlation
  POST  /api/v1/users/:user_id/correlations/calculate   Run a scan
  PATCH /api/v1/users/:user_id/correlations/:id/status  Pin/dismiss/restore
  POST  /api/v1/users/:user_id/correlations/:id/feedback Record feedback

The bind address comes from --addr, falling back to listen_addr in config.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := telemetry.Register(prometheus.DefaultRegisterer); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}

		addr := cfg.GetListenAddr()
		if serveAddr != "" {
			addr = serveAddr
		}

		server := api.NewServer(svc, logger)
		httpServer := &http.Server{
			Addr:              addr,
			Handler:           server.Handler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", addr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				errCh <- err
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case sig := <-sigChan:
			logger.Info("shutting down", "signal", sig.String())
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "bind address (default from config, then :8787)")
	rootCmd.AddCommand(serveCmd)
}
