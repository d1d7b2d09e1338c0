package provider

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guanqun/uethers/internal/metrics"
	"github.com/guanqun/uethers/rpc"
)

// Result is one provider's answer.
type Result[T any] struct {
	Provider string
	Value    T
	Latency  time.Duration
	Err      error
}

// ExecuteAll runs fn once per provider concurrently. Results come back in
// provider order. A failing provider never cancels the others; only ctx does.
func ExecuteAll[T any](
	ctx context.Context,
	pool *Pool,
	fn func(ctx context.Context, c *rpc.Client) (T, error),
) []Result[T] {
	providers := pool.Providers()
	results := make([]Result[T], len(providers))

	var g errgroup.Group
	for i, prov := range providers {
		g.Go(func() error {
			results[i].Provider = prov.Name
			c, err := pool.Client(prov.Name)
			if err != nil {
				results[i].Err = err
				return nil
			}
			start := time.Now()
			results[i].Value, results[i].Err = fn(ctx, c)
			results[i].Latency = time.Since(start)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Probe samples eth_blockNumber against every provider, samples times each
// with interval between rounds, and feeds the collector.
func Probe(ctx context.Context, pool *Pool, samples int, interval time.Duration, collector *metrics.Collector) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, prov := range pool.Providers() {
		c, err := pool.Client(prov.Name)
		if err != nil {
			return err
		}
		g.Go(func() error {
			for i := range samples {
				if i > 0 {
					select {
					case <-gctx.Done():
						return gctx.Err()
					case <-time.After(interval):
					}
				}

				start := time.Now()
				height, err := c.GetBlockNumber(gctx)
				collector.Add(metrics.Sample{
					Provider: prov.Name,
					Latency:  time.Since(start),
					Block:    height,
					Err:      err,
				})
			}
			return nil
		})
	}
	return g.Wait()
}
