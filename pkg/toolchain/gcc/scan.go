package gcc

import (
	"context"
	"time"

	"github.com/tmaxmax/crossprobe/pkg/toolchain"
	"golang.org/x/sync/errgroup"
)

// ScanResult is the outcome of configuring a single target.
type ScanResult struct {
	Target Target
	// Env holds what the target's probes found. It is only complete if Err is nil.
	Env *toolchain.Env
	// Err is the first probe failure.
	Err error
	// Elapsed is the time spent configuring the target.
	Elapsed time.Duration
}

// Scan configures every target with its own Env and reports which ones are
// installed. Targets are configured in parallel, but the probes of a single
// target still run in order. A failing target does not stop the others;
// only the cancellation of ctx does.
func Scan(ctx context.Context, resolver *toolchain.Resolver, targets []Target) ([]ScanResult, error) {
	results := make([]ScanResult, len(targets))
	g, gctx := errgroup.WithContext(ctx)

	for i := range targets {
		i := i

		g.Go(func() error {
			t := targets[i].withDefaults()
			conf := toolchain.NewConf(resolver)
			start := time.Now()

			probes := []toolchain.Probe{t.ConfigureCC, t.ConfigureCXX}
			var err error
			for j, name := range t.Probes() {
				if err = toolchain.RunProbe(gctx, conf, name, probes[j]); err != nil {
					break
				}
			}

			results[i] = ScanResult{Target: t, Env: conf.Env, Err: err, Elapsed: time.Since(start)}

			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
