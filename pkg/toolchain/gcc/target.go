package gcc

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/tmaxmax/crossprobe/pkg/toolchain"
)

// Target is a GCC cross toolchain family.
type Target struct {
	// Name identifies the target, for example "arm-linux".
	Name string `mapstructure:"name"`
	// Prefixes are prepended to the program names of the C toolchain
	// ("arm-linux-" gives arm-linux-gcc, arm-linux-ar...), in priority order.
	Prefixes []string `mapstructure:"prefixes"`
	// Dirs are searched for the C compiler. When empty, PATH is searched.
	Dirs []string `mapstructure:"dirs"`
	// ToolDirs are searched for the archiver and ranlib. Defaults to Dirs.
	ToolDirs []string `mapstructure:"tool_dirs"`
	// CXXPrefixes are the prefixes of the C++ compiler. Defaults to Prefixes.
	CXXPrefixes []string `mapstructure:"cxx_prefixes"`
	// CXXDirs are searched for the C++ compiler. Defaults to Dirs.
	CXXDirs []string `mapstructure:"cxx_dirs"`
	// Marker must appear in the output of "gcc --version". When empty,
	// the name of the compiler found is expected.
	Marker string `mapstructure:"marker"`
	// RecordVersion stores the compiler version as CC_VERSION.
	RecordVersion bool `mapstructure:"record_version"`
}

// Validate reports whether the target can be used to build probes.
func (t Target) Validate() error {
	if t.Name == "" || strings.ContainsAny(t.Name, `/\`+string(os.PathListSeparator)) {
		return fmt.Errorf("gcc: invalid target name %q", t.Name)
	}
	if len(t.Prefixes) == 0 {
		return fmt.Errorf("gcc: target %q has no prefixes", t.Name)
	}
	for _, p := range append(append([]string(nil), t.Prefixes...), t.CXXPrefixes...) {
		if p == "" || strings.ContainsAny(p, `/\`) {
			return fmt.Errorf("gcc: target %q has invalid prefix %q", t.Name, p)
		}
	}
	return nil
}

func (t Target) withDefaults() Target {
	if len(t.ToolDirs) == 0 {
		t.ToolDirs = t.Dirs
	}
	if len(t.CXXPrefixes) == 0 {
		t.CXXPrefixes = t.Prefixes
	}
	if len(t.CXXDirs) == 0 {
		t.CXXDirs = t.Dirs
	}
	return t
}

// Probes returns the names of the target's probes in the order they should run.
func (t Target) Probes() []string {
	return []string{t.Name + ccProbeSuffix, t.Name + cxxProbeSuffix}
}

func names(prefixes []string, suffix string) []string {
	out := make([]string, len(prefixes))
	for i, p := range prefixes {
		out[i] = p + suffix
	}
	return out
}

// CCSpec describes the lookup of the C compiler, which is also the C linker.
func (t Target) CCSpec() toolchain.ToolSpec {
	return toolchain.ToolSpec{
		Role:      toolchain.KeyCC,
		Aliases:   []string{toolchain.KeyLinkCC},
		Names:     names(t.Prefixes, ccSuffix),
		Dirs:      t.Dirs,
		Validator: &toolchain.Validator{Marker: t.Marker},
	}
}

// ARSpec describes the lookup of the archiver installed with the compiler
// that has the given prefix.
func (t Target) ARSpec(prefix string) toolchain.ToolSpec {
	return toolchain.ToolSpec{
		Role:  toolchain.KeyAR,
		Names: []string{prefix + arSuffix},
		Dirs:  t.withDefaults().ToolDirs,
	}
}

// RanlibSpec describes the lookup of the archive indexer installed with the
// compiler that has the given prefix.
func (t Target) RanlibSpec(prefix string) toolchain.ToolSpec {
	return toolchain.ToolSpec{
		Role:  toolchain.KeyRanlib,
		Names: []string{prefix + ranlibSuffix},
		Dirs:  t.withDefaults().ToolDirs,
	}
}

// CXXSpec describes the lookup of the C++ compiler, which also serves as
// C++ linker and as preprocessor.
func (t Target) CXXSpec() toolchain.ToolSpec {
	d := t.withDefaults()
	return toolchain.ToolSpec{
		Role: toolchain.KeyCXX,
		Aliases: []string{
			toolchain.KeyLinkCXX,
			toolchain.KeyCompilerCXX,
			toolchain.KeyCPP,
			toolchain.KeyLinkCPP,
		},
		Names: names(d.CXXPrefixes, cxxSuffix),
		Dirs:  d.CXXDirs,
	}
}

// ConfigureCC finds and validates the C compiler, then the archiver and
// ranlib of the same family. All three are required. Nothing is written to
// conf.Env unless every step succeeds.
func (t Target) ConfigureCC(ctx context.Context, conf *toolchain.Conf) error {
	staged := stage(conf)

	cc, err := staged.Resolve(ctx, t.CCSpec())
	if err != nil {
		return err
	}
	staged.Env.SetString(toolchain.KeyCCName, compilerName)

	prefix := strings.TrimSuffix(cc.Name, ccSuffix)
	for _, spec := range []toolchain.ToolSpec{t.ARSpec(prefix), t.RanlibSpec(prefix)} {
		if _, err := staged.Resolve(ctx, spec); err != nil {
			return err
		}
	}

	if t.RecordVersion {
		version, err := staged.Resolver.DumpVersion(ctx, toolchain.KeyCC, cc.Value)
		if err != nil {
			return err
		}
		if version != nil {
			staged.Env.Set(toolchain.KeyCCVersion, version)
		}
	}

	conf.Env.Merge(staged.Env)
	return nil
}

// ConfigureCXX finds the C++ compiler. It is not validated.
func (t Target) ConfigureCXX(ctx context.Context, conf *toolchain.Conf) error {
	staged := stage(conf)

	if _, err := staged.Resolve(ctx, t.CXXSpec()); err != nil {
		return err
	}
	staged.Env.SetString(toolchain.KeyCXXName, compilerName)

	conf.Env.Merge(staged.Env)
	return nil
}

// stage returns a run over an empty Env that shares conf's resolver.
func stage(conf *toolchain.Conf) *toolchain.Conf {
	resolver := conf.Resolver
	if resolver == nil {
		resolver = &toolchain.Resolver{}
	}
	return &toolchain.Conf{Env: toolchain.NewEnv(), Resolver: resolver, Logger: conf.Logger}
}
