package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tmaxmax/crossprobe/pkg/toolchain/gcc"
)

func newTargetsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the known toolchain targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TARGET\tPROBES\tPREFIXES\tDIRS")

			for _, t := range gcc.Targets() {
				name := t.Name
				if name == a.cfg.Target {
					name += " *"
				}
				dirs := strings.Join(t.Dirs, ",")
				if dirs == "" {
					dirs = "$PATH"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, strings.Join(t.Probes(), ","), strings.Join(t.Prefixes, ","), dirs)
			}

			return tw.Flush()
		},
	}
}
