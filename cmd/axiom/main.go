package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/axiom"
	"github.com/bft-labs/axiom/internal/cliconfig"
	"github.com/bft-labs/axiom/internal/docwatch"
	"github.com/bft-labs/axiom/pkg/log"
	"github.com/bft-labs/axiom/pkg/metrics"
)

const longHelp = `Unidirectional state container tooling.

The watch command keeps a TOML document loaded in a state store and reloads
it whenever the file changes. Reloads run as commands under the scheduler:
in latest mode a change cancels a reload still in progress, in sequential
mode changes are queued and reloaded in order.`

var watchExample = strings.TrimSpace(`
  axiom watch --file ./app.toml
  axiom watch --file ./app.toml --mode sequential --metrics-addr :9090
  axiom watch --config $HOME/.axiom/config.toml --once
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func main() {
	root := &cobra.Command{
		Use:           "axiom",
		Short:         "Unidirectional state container tooling",
		Long:          longHelp,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newWatchCommand())

	if err := root.Execute(); err != nil {
		logger := cliconfig.Logger(zerolog.InfoLevel)
		logger.Error().Err(err).Msg("axiom")
		os.Exit(1)
	}
}

func newWatchCommand() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	cmd := &cobra.Command{
		Use:     "watch",
		Short:   "Keep a TOML document loaded and reload it on change",
		Example: watchExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := axiom.ValidateModuleVersions(); err != nil {
				return err
			}

			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			}

			// Environment overrides the file; explicitly set flags override both.
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, _ := cfg.Level()
			zl := cliconfig.Logger(level)
			zl.Info().Interface("config", cfg).Msg("configuration")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cfg, log.NewZerologAdapterWithLogger(zl))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.axiom/config.toml)")
	flags.StringVar(&cfg.File, "file", cfg.File, "TOML document to watch")
	flags.StringVar(&cfg.Mode, "mode", cfg.Mode, "reload mode: latest or sequential")
	flags.DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "quiet period after a file event before reloading")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "how long to wait for running reloads on exit")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve Prometheus metrics on this address (disabled when empty)")
	flags.BoolVar(&cfg.Once, "once", cfg.Once, "load the document once and exit")

	return cmd
}

func runWatch(ctx context.Context, cfg cliconfig.Config, logger log.Logger) error {
	opts := []docwatch.Option{docwatch.WithLogger(logger)}

	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, docwatch.WithEventHandler(metrics.NewCollector(metrics.WithRegisterer(reg))))

		srv := serveMetrics(cfg.MetricsAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if err := docwatch.New(cfg, opts...).Run(ctx); err != nil {
		return err
	}
	logger.Info("stopped")
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", log.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", log.Err(err))
		}
	}()
	return srv
}
