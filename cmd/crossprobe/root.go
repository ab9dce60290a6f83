package main

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/tmaxmax/crossprobe/pkg/config"
	"github.com/tmaxmax/crossprobe/pkg/toolchain"
	"github.com/tmaxmax/crossprobe/pkg/toolchain/gcc"
)

type app struct {
	logger     *log.Logger
	configFile string
	cfg        *config.Config
}

func newRootCmd(logger *log.Logger) *cobra.Command {
	a := &app{logger: logger}
	defaults := config.Default()

	root := &cobra.Command{
		Use:           "crossprobe",
		Short:         "Detect a GCC cross toolchain for the build configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "configuration file (default: ./crossprobe.{toml,yaml,json} if present)")
	flags.StringP("target", "t", defaults.Target, "toolchain target to configure")
	flags.StringSlice("probes", defaults.Probes, "probes to run instead of the target's, in order")
	flags.Duration("timeout", defaults.Timeout, "timeout for every program run by the probes")
	flags.Bool("honor-env", defaults.HonorEnv, "let CC, CXX, AR and RANLIB from the environment replace the lookups")
	flags.StringP("format", "f", defaults.Format, fmt.Sprintf("output format, one of %v", toolchain.Formats))
	flags.String("log-level", defaults.LogLevel, "log level: debug, info, warn or error")

	root.AddCommand(newConfigureCmd(a))
	root.AddCommand(newScanCmd(a))
	root.AddCommand(newTargetsCmd(a))

	return root
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, used, err := config.Load(config.LoadOptions{
		File:  a.configFile,
		Flags: cmd.Flags(),
	})
	if err != nil {
		return err
	}

	a.logger.SetLevel(cfg.Level())
	if used != "" {
		a.logger.Debug("loaded configuration", "file", used)
	}

	for _, t := range cfg.Targets {
		if err := gcc.Register(t); err != nil {
			return fmt.Errorf("configuration target %q: %w", t.Name, err)
		}
	}

	a.cfg = cfg
	return nil
}

func (a *app) resolver() *toolchain.Resolver {
	return a.cfg.NewResolver(a.logger)
}
