package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AngelCh415/novaretail/internal/httpx"
)

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the KPI API",
		Long: `Load the dataset and serve the KPI API.

Environment variables:
  PORT                  listen port (default: 8080)
  LOG_LEVEL             debug, info, warn or error (default: info)
  LOG_FORMAT            json or text (default: json)
  HTTP_TIMEOUT_SECONDS  read header timeout (default: 15)
  EXPORT_FILENAME       CSV download name (default: novaretail_data_oct2025.csv)
  TOP_REGIONS           buckets in the region breakdown (default: 5)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}
	cmd.Flags().String("port", "", "listen port")
	_ = v.BindPFlag("port", cmd.Flags().Lookup("port"))
	return cmd
}

func runServe(cmd *cobra.Command, v *viper.Viper) error {
	a := newApp(loadConfig(v), source(), os.Stdout)
	slog.SetDefault(a.log)

	// Fail fast: a malformed or inconsistent dataset must not be served.
	if _, err := a.loader.Load(); err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + a.cfg.Port,
		Handler:           httpx.NewRouter(a.log, a.st, a.svc, a.tel, httpx.Options{ExportFilename: a.cfg.ExportFilename}),
		ReadHeaderTimeout: a.cfg.HTTPTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("starting server", slog.String("port", a.cfg.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		a.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
