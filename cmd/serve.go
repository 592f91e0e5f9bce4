package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/vogapi/logger"
	"github.com/yumyai/vogapi/pkg/handler"
	"github.com/yumyai/vogapi/pkg/middle"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the query API over HTTP",
	Long: `Serve the species, group and sequence indices over HTTP.

Every index is built before the listener opens unless --lazy is given, in
which case each one is built by the first request that needs it.`,
	Example: "  vogapi serve --data /srv/vog --listen :8080",
	RunE:    runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	lazy, _ := cmd.Flags().GetBool("lazy")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Start:", zap.String("Version", version))

	vdb, err := openDB()
	if err != nil {
		return err
	}
	defer vdb.Close()

	if cfg.Preload && !lazy {
		if err := vdb.Preload(ctx); err != nil {
			logger.Fatal("Failed to load data", zap.String("dir", cfg.DataDir), zap.Error(err))
		}
	} else {
		logger.Info("Lazy mode, indices are built on first use")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middle.NewMetrics(reg)
	handler.RegisterDatasetMetrics(reg, vdb)

	dbctx := &handler.DBContext{DB: vdb, Version: version}
	mux := handler.NewRouter(dbctx, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	base := logger.L()
	srv := &http.Server{
		Addr: cfg.Listen,
		Handler: middle.Chain(mux,
			middle.RequestIDMiddleware(base),
			middle.LoggingMiddleware(base),
			metrics.Middleware,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", cfg.Listen))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// set flags
func init() {
	serveCmd.Flags().StringP("listen", "l", "0.0.0.0:8080", "address to listen on")
	serveCmd.Flags().Bool("lazy", false, "build indices on first request instead of at startup")
	serveCmd.Flags().Duration("shutdown-timeout", 10*time.Second, "grace period for in-flight requests")

	bindFlag("listen", serveCmd, "listen")
	bindFlag("shutdown-timeout", serveCmd, "shutdown-timeout")

	rootCmd.AddCommand(serveCmd)
}
