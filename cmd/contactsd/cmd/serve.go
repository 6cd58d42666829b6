package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/izniy/NexusBook/common"
	"github.com/izniy/NexusBook/modules/api"
)

const shutdownTimeout = 10 * time.Second

var preload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the contacts HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		metrics := common.NewMetrics(reg)
		dir := newDirectory(cfg, logger, metrics)

		if preload {
			// a failed warm-up is retried by the first read
			if _, err := dir.Refresh(ctx); err != nil {
				logger.Warn("preload failed", "error", err)
			}
		}

		srv := &http.Server{
			Addr:              cfg.Addr,
			Handler:           api.NewHandler(dir, cfg, logger, metrics, reg),
			ReadHeaderTimeout: 5 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("listening", "addr", cfg.Addr, "upstream_configured", cfg.UpstreamURL != "")
			errCh <- srv.ListenAndServe()
		}()

		select {
		case err := <-errCh:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case <-ctx.Done():
		}

		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&cfg.Addr, "addr", "a", cfg.Addr, "address to listen on")
	serveCmd.Flags().IntVar(&cfg.DefaultLimit, "default-limit", cfg.DefaultLimit, "page size used when a request has no limit")
	serveCmd.Flags().BoolVar(&preload, "preload", false, "load the directory before accepting requests")
	rootCmd.AddCommand(serveCmd)
}
