package main

import (
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/tmaxmax/crossprobe/pkg/toolchain"
	"github.com/tmaxmax/crossprobe/pkg/toolchain/gcc"
)

func newConfigureCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Configure the selected target and print the resulting environment",
		Long: "Configure runs the probes of the selected target one after the other and prints\n" +
			"the environment they produced. Any missing or invalid program aborts the run.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := gcc.Lookup(a.cfg.Target)
			if err != nil {
				return err
			}

			probes := a.cfg.Probes
			if len(probes) == 0 {
				probes = target.Probes()
			}

			conf := toolchain.NewConf(a.resolver())
			start := time.Now()

			if err := toolchain.Detect(cmd.Context(), conf, probes...); err != nil {
				return err
			}

			a.logger.Info("configuration finished",
				"target", target.Name,
				"keys", conf.Env.Len(),
				"elapsed", units.HumanDuration(time.Since(start)))

			return conf.Env.Encode(cmd.OutOrStdout(), a.cfg.OutputFormat())
		},
	}
}
