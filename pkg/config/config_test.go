package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
	"github.com/tmaxmax/crossprobe/pkg/config"
	"github.com/tmaxmax/crossprobe/pkg/toolchain"
	"github.com/tmaxmax/crossprobe/pkg/toolchain/gcc"
)

const tomlConfig = `
target = "board"
timeout = "10s"
format = "yaml"

[[targets]]
name = "board"
prefixes = ["arm-board-linux-gnueabi-", "arm-linux-"]
dirs = ["/opt/board/bin", "/usr/arm/bin"]
tool_dirs = ["/opt/board/bin"]
marker = "board"
record_version = true
`

const yamlConfig = `
target: arm-linux-gnueabi
honor_env: false
probes:
  - arm-linux-gnueabi-cc
log_level: debug
`

func writeConfig(tb testing.TB, dir, name, content string) string {
	tb.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		tb.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	type test struct {
		name      string
		setup     func(t *testing.T, dir string) config.LoadOptions
		expect    config.Config
		expectErr bool
	}

	defaults := config.Default()

	tests := []test{
		{
			name: "Defaults",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				return config.LoadOptions{Dir: dir}
			},
			expect: defaults,
		},
		{
			name: "TOMLInDir",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				writeConfig(t, dir, "crossprobe.toml", tomlConfig)
				return config.LoadOptions{Dir: dir}
			},
			expect: config.Config{
				Target:   "board",
				Timeout:  10 * time.Second,
				HonorEnv: true,
				Format:   "yaml",
				LogLevel: "info",
				Targets: []gcc.Target{{
					Name:          "board",
					Prefixes:      []string{"arm-board-linux-gnueabi-", "arm-linux-"},
					Dirs:          []string{"/opt/board/bin", "/usr/arm/bin"},
					ToolDirs:      []string{"/opt/board/bin"},
					Marker:        "board",
					RecordVersion: true,
				}},
			},
		},
		{
			name: "ExplicitYAML",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				return config.LoadOptions{File: writeConfig(t, dir, "probe.yaml", yamlConfig)}
			},
			expect: config.Config{
				Target:   "arm-linux-gnueabi",
				Probes:   []string{"arm-linux-gnueabi-cc"},
				Timeout:  toolchain.DefaultTimeout,
				Format:   "text",
				LogLevel: "debug",
			},
		},
		{
			name: "EnvOverridesFile",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				writeConfig(t, dir, "crossprobe.toml", tomlConfig)
				t.Setenv("CROSSPROBE_FORMAT", "json")
				t.Setenv("CROSSPROBE_HONOR_ENV", "false")
				return config.LoadOptions{Dir: dir}
			},
			expect: func() config.Config {
				c := defaults
				c.Target = "board"
				c.Timeout = 10 * time.Second
				c.Format = "json"
				c.HonorEnv = false
				c.Targets = []gcc.Target{{
					Name:          "board",
					Prefixes:      []string{"arm-board-linux-gnueabi-", "arm-linux-"},
					Dirs:          []string{"/opt/board/bin", "/usr/arm/bin"},
					ToolDirs:      []string{"/opt/board/bin"},
					Marker:        "board",
					RecordVersion: true,
				}}
				return c
			}(),
		},
		{
			name: "FlagsOverrideEverything",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				writeConfig(t, dir, "crossprobe.toml", tomlConfig)
				t.Setenv("CROSSPROBE_FORMAT", "json")

				flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
				flags.String("target", defaults.Target, "")
				flags.String("format", defaults.Format, "")
				flags.Duration("timeout", defaults.Timeout, "")
				require.NoError(t, flags.Parse([]string{"--format", "toml", "--timeout", "1s"}))

				return config.LoadOptions{Dir: dir, Flags: flags}
			},
			expect: func() config.Config {
				c := defaults
				c.Target = "board"
				c.Timeout = time.Second
				c.Format = "toml"
				c.Targets = []gcc.Target{{
					Name:          "board",
					Prefixes:      []string{"arm-board-linux-gnueabi-", "arm-linux-"},
					Dirs:          []string{"/opt/board/bin", "/usr/arm/bin"},
					ToolDirs:      []string{"/opt/board/bin"},
					Marker:        "board",
					RecordVersion: true,
				}}
				return c
			}(),
		},
		{
			name: "MissingExplicitFile",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				return config.LoadOptions{File: filepath.Join(dir, "missing.toml")}
			},
			expectErr: true,
		},
		{
			name: "InvalidFormat",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				return config.LoadOptions{File: writeConfig(t, dir, "c.toml", `format = "ini"`)}
			},
			expectErr: true,
		},
		{
			name: "InvalidTarget",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				return config.LoadOptions{File: writeConfig(t, dir, "c.toml", "[[targets]]\nname = \"bad\"\n")}
			},
			expectErr: true,
		},
		{
			name: "DuplicateTarget",
			setup: func(t *testing.T, dir string) config.LoadOptions {
				content := "[[targets]]\nname = \"a\"\nprefixes = [\"a-\"]\n[[targets]]\nname = \"a\"\nprefixes = [\"b-\"]\n"
				return config.LoadOptions{File: writeConfig(t, dir, "c.toml", content)}
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.setup(t, t.TempDir())

			cfg, _, err := config.Load(opts)
			if tt.expectErr {
				require.Error(t, err, "Expected configuration to be rejected")
				return
			}

			require.NoError(t, err)
			require.Equal(t, tt.expect, *cfg)
		})
	}
}

func TestConfig_NewResolver(t *testing.T) {
	cfg := config.Default()
	cfg.HonorEnv = false
	cfg.Timeout = time.Second
	cfg.LogLevel = "debug"

	r := cfg.NewResolver(nil)
	require.False(t, r.HonorEnv)
	require.Equal(t, time.Second, r.Timeout)
	require.Equal(t, log.DebugLevel, cfg.Level())
	require.Equal(t, toolchain.FormatText, cfg.OutputFormat())
}
