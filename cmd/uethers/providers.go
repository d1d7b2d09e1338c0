package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"

	"github.com/guanqun/uethers/internal/metrics"
	"github.com/guanqun/uethers/internal/output"
	"github.com/guanqun/uethers/internal/provider"
	"github.com/guanqun/uethers/internal/reports"
	"github.com/guanqun/uethers/rpc"
)

type head struct {
	height uint64
	hash   common.Hash
}

// fetchHead fetches the block at `at` and returns its number and hash.
// Pending blocks have neither and count as a failure.
func fetchHead(ctx context.Context, c *rpc.Client, at rpc.BlockIdentifier) (head, error) {
	b, err := c.GetBlockByNumber(ctx, at)
	if err != nil {
		return head{}, err
	}
	if b.IsPending() {
		return head{}, fmt.Errorf("%s: block %s is still pending", c.Name(), at)
	}
	n, _ := b.Number.Quantity.Uint64()
	return head{height: n, hash: b.Hash.Hash}, nil
}

// saveReport writes data under dir when --report-dir was given.
func (a *app) saveReport(dir, prefix string, data any) error {
	if dir == "" {
		return nil
	}
	path, err := reports.Write(dir, prefix, data, time.Now())
	if err != nil {
		return err
	}
	a.logger.Info("report written", "path", path)
	return nil
}

func compareCmd(a *app) *cobra.Command {
	var reportDir string

	cmd := &cobra.Command{
		Use:   "compare [block]",
		Short: "Fetch the same block from all providers and compare hashes",
		Long: `Detects stale data or chain forks by comparing block hashes across providers.
latest is first resolved to the lowest head any provider reports, so every
provider is asked for the same height. earliest compares genesis; pending is
rejected.

Examples:
  uethers compare
  uethers compare 14727266`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sel := ""
			if len(args) > 0 {
				sel = args[0]
			}
			at, err := rpc.ParseBlockIdentifier(sel)
			if err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			tag, _ := at.Tag()
			switch tag {
			case rpc.TagPending:
				return errors.New("pending blocks have no number or hash to compare; use latest or a block number")
			case rpc.TagEarliest:
				at = rpc.AtBlock(0)
			}

			// Heads are collected for every selector so drift is reported;
			// latest is then pinned to the lowest head so every provider is
			// asked for the same height.
			heights := map[string]uint64{}
			var lowest uint64
			for _, r := range provider.ExecuteAll(ctx, a.pool, func(ctx context.Context, c *rpc.Client) (uint64, error) {
				return c.GetBlockNumber(ctx)
			}) {
				if r.Err != nil {
					a.logger.Warn("provider skipped", "provider", r.Provider, "err", r.Err)
					continue
				}
				if len(heights) == 0 || r.Value < lowest {
					lowest = r.Value
				}
				heights[r.Provider] = r.Value
			}
			if tag == rpc.TagLatest && len(heights) > 0 {
				at = rpc.AtBlock(lowest)
			}

			results := provider.ExecuteAll(ctx, a.pool, func(ctx context.Context, c *rpc.Client) (head, error) {
				return fetchHead(ctx, c, at)
			})

			report := &output.CompareReport{Block: at.String()}
			hashes := map[string]common.Hash{}
			var ref uint64
			for _, r := range results {
				report.Rows = append(report.Rows, output.CompareRow{
					Provider: r.Provider,
					Height:   r.Value.height,
					Hash:     r.Value.hash,
					Latency:  r.Latency,
					Err:      r.Err,
				})
				if r.Err == nil {
					hashes[r.Provider] = r.Value.hash
					ref = r.Value.height
				}
			}
			report.Consistency = metrics.NewConsistencyChecker(metrics.DefaultHeightDrift).Check(heights, hashes, ref)
			if err := a.saveReport(reportDir, "compare", report); err != nil {
				return err
			}
			return a.printer.Compare(report)
		},
	}

	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Also write the JSON report into this directory")
	return cmd
}

func healthCmd(a *app) *cobra.Command {
	var (
		samples   int
		interval  time.Duration
		reportDir string
	)

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Sample eth_blockNumber on every provider and report latency percentiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if samples <= 0 {
				samples = a.cfg.Defaults.HealthSamples
			}
			collector := metrics.NewCollector()
			if err := provider.Probe(cmd.Context(), a.pool, samples, interval, collector); err != nil {
				return err
			}
			report := &output.HealthReport{
				Timestamp: time.Now(),
				Samples:   samples,
				Providers: collector.Calculate(),
			}
			if err := a.saveReport(reportDir, "health", report); err != nil {
				return err
			}
			return a.printer.Health(report)
		},
	}

	cmd.Flags().IntVarP(&samples, "samples", "n", 0, "Samples per provider (defaults to config)")
	cmd.Flags().DurationVar(&interval, "interval", 200*time.Millisecond, "Delay between samples")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Also write the JSON report into this directory")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		once     bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Continuously monitor head height and hash on every provider",
		Long: `Continuously monitor all providers, showing block height, latency and
whether they agree on the head.

Examples:
  uethers watch
  uethers watch --interval 5s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = a.cfg.Defaults.WatchInterval
			}
			state := output.NewWatchState(interval, 5)
			checker := metrics.NewConsistencyChecker(metrics.DefaultHeightDrift)
			ctx := cmd.Context()

			refresh := func() error {
				rctx, cancel := a.requestContext(ctx)
				defer cancel()

				results := provider.ExecuteAll(rctx, a.pool, func(ctx context.Context, c *rpc.Client) (head, error) {
					return fetchHead(ctx, c, rpc.Latest)
				})
				now := time.Now()
				heights := map[string]uint64{}
				for _, r := range results {
					state.Update(now, r.Provider, r.Latency, r.Value.height, r.Value.hash, r.Err)
					if r.Err == nil {
						heights[r.Provider] = r.Value.height
					}
				}
				// Heads at different heights have different hashes by
				// definition, so only hashes at the lowest head are compared.
				var ref uint64
				hashes := map[string]common.Hash{}
				for name, h := range heights {
					if len(hashes) == 0 || h < ref {
						ref, hashes = h, map[string]common.Hash{}
					}
					if h == ref {
						hashes[name] = state.Providers[name].Hash
					}
				}
				return a.printer.Watch(now, state, checker.Check(heights, hashes, ref))
			}

			if err := refresh(); err != nil || once {
				return err
			}

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
					if err := refresh(); err != nil {
						return err
					}
				}
			}
		},
	}

	cmd.Flags().DurationVarP(&interval, "interval", "i", 0, "Refresh interval (defaults to config)")
	cmd.Flags().BoolVar(&once, "once", false, "Render a single frame and exit")
	return cmd
}
