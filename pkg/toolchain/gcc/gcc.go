/*
Package gcc provides probes for GCC cross toolchains installed on the
host system.

A Target describes one toolchain family as data: the prefixes its programs
are installed under, the directories they live in and how the compiler is
validated. Importing the package registers the probes of the built-in
targets with package toolchain, named "<target>-cc" and "<target>-cxx".
*/
package gcc

import (
	"fmt"
	"sync"

	"github.com/tmaxmax/crossprobe/pkg/toolchain"
)

const (
	compilerName = "gcc"

	ccSuffix     = "gcc"
	cxxSuffix    = "g++"
	arSuffix     = "ar"
	ranlibSuffix = "ranlib"

	ccProbeSuffix  = "-cc"
	cxxProbeSuffix = "-cxx"
)

// DefaultTarget is the target used when none is requested.
const DefaultTarget = "arm-linux"

var builtinTargets = []Target{
	{
		Name:          "arm-linux",
		Prefixes:      []string{"arm-linux-"},
		Dirs:          []string{"/usr/arm/bin"},
		CXXPrefixes:   []string{"arm-linux-"},
		RecordVersion: true,
	},
	{
		Name:        "arm-linux-gnueabi",
		Prefixes:    []string{"arm-linux-gnueabi-"},
		Dirs:        []string{"/usr/arm/bin", "/usr/bin"},
		ToolDirs:    []string{"/usr/arm/bin"},
		CXXPrefixes: []string{"arm-linux-", "arm-linux-gnueabi-"},
		CXXDirs:     []string{"/usr/arm/bin"},
	},
}

var (
	targets      = map[string]Target{}
	targetsNames []string
	targetsMutex sync.RWMutex
)

func init() {
	for _, t := range builtinTargets {
		if err := Register(t); err != nil {
			panic(err)
		}
	}
}

// Register validates the target and registers its probes with package toolchain.
func Register(t Target) error {
	if err := t.Validate(); err != nil {
		return err
	}

	targetsMutex.Lock()
	defer targetsMutex.Unlock()

	if _, ok := targets[t.Name]; ok {
		return fmt.Errorf("gcc: target %q is already registered", t.Name)
	}

	t = t.withDefaults()
	for _, name := range t.Probes() {
		if _, err := toolchain.LookupProbe(name); err == nil {
			return fmt.Errorf("gcc: probe %q of target %q is already registered", name, t.Name)
		}
	}

	toolchain.RegisterProbe(t.Name+ccProbeSuffix, t.ConfigureCC)
	toolchain.RegisterProbe(t.Name+cxxProbeSuffix, t.ConfigureCXX)

	targets[t.Name] = t
	targetsNames = append(targetsNames, t.Name)

	return nil
}

// Lookup returns the registered target with the given name.
func Lookup(name string) (Target, error) {
	targetsMutex.RLock()
	defer targetsMutex.RUnlock()

	t, ok := targets[name]
	if !ok {
		return Target{}, fmt.Errorf("gcc: unknown target %q", name)
	}

	return t, nil
}

// Targets returns the registered targets in registration order.
func Targets() []Target {
	targetsMutex.RLock()
	defer targetsMutex.RUnlock()

	out := make([]Target, 0, len(targetsNames))
	for _, name := range targetsNames {
		out = append(out, targets[name])
	}

	return out
}
