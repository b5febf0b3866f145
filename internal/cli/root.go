package cli

import (
	"io"
	"log/slog"
	"net/url"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AngelCh415/novaretail/internal/config"
	"github.com/AngelCh415/novaretail/internal/ingest"
	"github.com/AngelCh415/novaretail/internal/metrics"
	"github.com/AngelCh415/novaretail/internal/store"
	"github.com/AngelCh415/novaretail/internal/utils"
)

// app wires one process worth of pipeline components.
type app struct {
	cfg    config.Config
	log    *slog.Logger
	st     *store.MemoryStore
	tel    *utils.Telemetry
	loader *ingest.Loader
	svc    *metrics.Service
}

func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func newApp(cfg config.Config, src ingest.Source, logOut io.Writer) *app {
	logger := newLogger(cfg, logOut)
	tel := utils.NewTelemetry()
	st := store.NewMemoryStore()
	loader := ingest.NewLoader(src, st, logger, tel)
	return &app{
		cfg:    cfg,
		log:    logger,
		st:     st,
		tel:    tel,
		loader: loader,
		svc:    metrics.NewService(loader, st, tel, cfg.TopRegions),
	}
}

// source is swapped in tests.
var source = ingest.Embedded

// NewRootCmd builds the command tree. Flags override env and config file.
func NewRootCmd(version string) *cobra.Command {
	v := config.NewViper()

	root := &cobra.Command{
		Use:   "novaretail",
		Short: "NovaRetail acquisition KPIs",
		Long: `novaretail loads the NovaRetail October 2025 acquisition dataset
(leads, campaigns, CRM enrichment), derives CTR, conversion rate and cost per
lead, and serves them filtered by acquisition channel.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = v.ReadInConfig()
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, v)
		},
	}

	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().String("log-format", "", "log format (json, text)")
	_ = v.BindPFlag("log_level", root.PersistentFlags().Lookup("log-level"))
	_ = v.BindPFlag("log_format", root.PersistentFlags().Lookup("log-format"))

	root.AddCommand(newServeCmd(v), newKPIsCmd(v), newBreakdownCmd(v), newExportCmd(v))
	return root
}

func Execute(version string) error {
	return NewRootCmd(version).Execute()
}

func loadConfig(v *viper.Viper) config.Config {
	return config.FromViper(v)
}

// channelQuery turns --channel flags into the query the service expects.
// Without the flag every channel is selected.
func channelQuery(cmd *cobra.Command, channels []string) url.Values {
	q := url.Values{}
	if cmd.Flags().Changed("channel") {
		q["channel"] = channels
		if len(channels) == 0 {
			q["channel"] = []string{""}
		}
	}
	return q
}

func cliApp(v *viper.Viper) *app {
	return newApp(loadConfig(v), source(), os.Stderr)
}
