package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/guanqun/uethers/internal/config"
	"github.com/guanqun/uethers/internal/log"
	"github.com/guanqun/uethers/internal/metrics"
	"github.com/guanqun/uethers/internal/output"
	"github.com/guanqun/uethers/internal/provider"
	"github.com/guanqun/uethers/rpc"
)

const (
	autoSelectSamples  = 3
	autoSelectInterval = 50 * time.Millisecond
)

type flags struct {
	config      string
	envFile     string
	provider    string
	format      string
	logLevel    string
	logFormat   string
	metricsAddr string
	noColor     bool
}

// app is what every subcommand needs once the persistent flags are parsed.
type app struct {
	cfg      *config.Config
	pool     *provider.Pool
	printer  *output.Printer
	logger   *slog.Logger
	provider string

	metricsSrv  *http.Server
	metricsAddr string
}

// client returns the --provider client, or the first configured one. With
// --provider auto every provider is probed first and the best one is used.
func (a *app) client(ctx context.Context) (*rpc.Client, error) {
	name := a.provider
	if name == provider.AutoSelect {
		best, err := provider.SelectBest(ctx, a.pool, autoSelectSamples, autoSelectInterval)
		if best.Name == "" {
			return nil, err
		}
		if err != nil {
			a.logger.Warn("provider selection", "err", err)
		}
		a.printer.AutoSelected(best.Name, best.SuccessRate, best.Latency.P95)
		name = best.Name
	}

	p, err := a.cfg.Find(name)
	if err != nil {
		return nil, err
	}
	return a.pool.Client(p.Name)
}

// requestContext bounds a single command by the default timeout.
func (a *app) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, a.cfg.Defaults.Timeout*2)
}

func newRootCmd() (*cobra.Command, *app) {
	var f flags
	a := &app{}

	root := &cobra.Command{
		Use:   "uethers",
		Short: "Typed Ethereum JSON-RPC queries across one or more providers",
		Long: `uethers decodes Ethereum JSON-RPC responses into strict typed values and
reports exactly which field failed when a node sends something malformed.

Providers are read from a YAML file; URLs may reference environment variables
(${ALCHEMY_URL}) which are loaded from .env when present.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd, &f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "providers.yaml", "Path to providers config")
	pf.StringVar(&f.envFile, "env-file", ".env", "Environment file loaded before the config")
	pf.StringVarP(&f.provider, "provider", "p", "", "Provider to query; \"auto\" picks the healthiest (defaults to the first configured)")
	pf.StringVarP(&f.format, "format", "f", string(output.FormatTerminal), "Output format: terminal or json")
	pf.StringVar(&f.logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	pf.StringVar(&f.logFormat, "log-format", "console", "Log format: console or json")
	pf.StringVar(&f.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
	pf.BoolVar(&f.noColor, "no-color", false, "Disable colored output")

	root.AddCommand(
		balanceCmd(a),
		nonceCmd(a),
		codeCmd(a),
		storageCmd(a),
		accountCmd(a),
		blockNumberCmd(a),
		blockCmd(a),
		txCmd(a),
		receiptCmd(a),
		callCmd(a),
		compareCmd(a),
		healthCmd(a),
		watchCmd(a),
	)
	return root, a
}

func (a *app) setup(cmd *cobra.Command, f *flags) error {
	level, err := log.ParseLevel(f.logLevel)
	if err != nil {
		return err
	}
	a.logger, err = log.NewLogger(cmd.ErrOrStderr(), f.logFormat, level)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(f.format)
	if err != nil {
		return err
	}
	if f.noColor || format == output.FormatJSON {
		color.NoColor = true
	}
	a.printer = output.New(cmd.OutOrStdout(), format)

	if err := config.LoadEnv(f.envFile); err != nil {
		return err
	}
	a.cfg, err = config.Load(f.config, a.logger)
	if err != nil {
		return err
	}
	a.provider = f.provider
	if a.provider != provider.AutoSelect {
		if _, err := a.cfg.Find(a.provider); err != nil {
			return err
		}
	}

	opts := []rpc.Option{rpc.WithLogger(a.logger)}
	if f.metricsAddr != "" {
		reg := prometheus.NewRegistry()
		rec := metrics.NewRecorder()
		rec.Register(reg)
		opts = append(opts, rpc.WithObserver(rec))
		if err := a.serveMetrics(f.metricsAddr, reg); err != nil {
			return err
		}
	}
	a.pool = provider.NewPool(a.cfg, opts...)
	return nil
}

func (a *app) serveMetrics(addr string, reg *prometheus.Registry) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("metrics listener: %w", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	a.metricsSrv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	a.metricsAddr = ln.Addr().String()

	go func() {
		if err := a.metricsSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server stopped", "err", err)
		}
	}()
	a.logger.Info("serving metrics", "addr", a.metricsAddr)
	return nil
}

func (a *app) shutdown() error {
	if a.metricsSrv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.metricsSrv.Shutdown(ctx)
}
