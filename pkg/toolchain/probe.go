package toolchain

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/log"
)

// Conf holds the state of one configuration run.
type Conf struct {
	// Env receives the programs found by the probes.
	Env *Env
	// Resolver performs the lookups.
	Resolver *Resolver
	// Logger reports progress. Defaults to the resolver's logger.
	Logger *log.Logger
}

// NewConf creates a configuration run over a fresh Env.
func NewConf(resolver *Resolver) *Conf {
	if resolver == nil {
		resolver = &Resolver{}
	}
	return &Conf{Env: NewEnv(), Resolver: resolver, Logger: resolver.Logger}
}

func (c *Conf) logger() *log.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	if c.Resolver != nil && c.Resolver.Logger != nil {
		return c.Resolver.Logger
	}
	return log.New(io.Discard)
}

// Resolve resolves spec into the run's Env.
func (c *Conf) Resolve(ctx context.Context, spec ToolSpec) (Tool, error) {
	return c.Resolver.ResolveTool(ctx, c.Env, spec)
}

// A Probe detects one part of a toolchain and records it into conf.Env.
// Any error it returns aborts the configuration run.
type Probe func(ctx context.Context, conf *Conf) error

// Detect runs the named probes one after the other. Each probe works on a
// copy of conf.Env that replaces it only when the probe succeeds, so a failing
// probe leaves no partial results behind. The first failure stops the run.
func Detect(ctx context.Context, conf *Conf, names ...string) error {
	for _, name := range names {
		probe, err := LookupProbe(name)
		if err != nil {
			return err
		}

		if err := RunProbe(ctx, conf, name, probe); err != nil {
			return err
		}
	}

	return nil
}

// RunProbe runs a single probe with the same guarantees as Detect.
func RunProbe(ctx context.Context, conf *Conf, name string, probe Probe) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("toolchain: probe %q canceled: %w", name, err)
	}

	staged := &Conf{Env: conf.Env.Clone(), Resolver: conf.Resolver, Logger: conf.Logger}
	if staged.Resolver == nil {
		staged.Resolver = &Resolver{}
	}

	conf.logger().Debug("running probe", "probe", name)
	if err := probe(ctx, staged); err != nil {
		return fmt.Errorf("toolchain: probe %q failed: %w", name, err)
	}

	conf.Env.replaceWith(staged.Env)
	return nil
}

// LookupProbe returns the probe registered under name.
func LookupProbe(name string) (Probe, error) {
	probesMutex.RLock()
	probe := probes[name]
	probesMutex.RUnlock()

	if probe == nil {
		return nil, fmt.Errorf("toolchain: missing probe %q, forgotten import?", name)
	}

	return probe, nil
}

// Probes returns the names of the registered probes in registration order.
func Probes() []string {
	probesMutex.RLock()
	defer probesMutex.RUnlock()

	return append([]string(nil), probesNames...)
}

var (
	probes      = map[string]Probe{}
	probesNames []string // provide ordered iteration for the map
	probesMutex sync.RWMutex
)

// RegisterProbe makes a probe available to Detect under the given name.
// If a probe with the same name already exists or the provided probe is nil,
// this function panics. If the name is empty or has path separators or path
// list separators, this function panics.
func RegisterProbe(name string, probe Probe) {
	probesMutex.Lock()
	defer probesMutex.Unlock()

	if !isValidImplementationName(name) {
		panic(fmt.Sprintf("toolchain: probe name %q has invalid characters", name))
	}

	if probes[name] != nil {
		panic(fmt.Sprintf("toolchain: probe %q is already registered", name))
	}

	if probe == nil {
		panic(fmt.Sprintf("toolchain: probe provided for %q is nil", name))
	}

	probes[name] = probe
	probesNames = append(probesNames, name)
}
