package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/docker/go-units"
	"github.com/spf13/cobra"
	"github.com/tmaxmax/crossprobe/pkg/toolchain"
	"github.com/tmaxmax/crossprobe/pkg/toolchain/gcc"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [target...]",
		Short: "Report which targets are installed on this host",
		RunE: func(cmd *cobra.Command, args []string) error {
			targets := gcc.Targets()
			if len(args) != 0 {
				targets = nil
				for _, name := range args {
					t, err := gcc.Lookup(name)
					if err != nil {
						return err
					}
					targets = append(targets, t)
				}
			}

			results, err := gcc.Scan(cmd.Context(), a.resolver(), targets)
			if err != nil {
				return err
			}

			return writeScan(cmd.OutOrStdout(), results)
		},
	}
}

func writeScan(w io.Writer, results []gcc.ScanResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TARGET\tSTATUS\tCC\tSIZE\tVERSION\tTIME")

	for _, r := range results {
		status, size := "ok", "-"
		if r.Err != nil {
			status = scanStatus(r.Err)
		}

		cc := r.Env.Get(toolchain.KeyCC)
		if fi, err := os.Stat(cc.Path()); err == nil {
			size = units.HumanSize(float64(fi.Size()))
		}

		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Target.Name,
			status,
			orDash(cc.String()),
			size,
			orDash(joinVersion(r.Env.Get(toolchain.KeyCCVersion))),
			units.HumanDuration(r.Elapsed))
	}

	return tw.Flush()
}

func scanStatus(err error) string {
	var notFound *toolchain.ToolNotFoundError
	if errors.As(err, &notFound) {
		return "missing " + notFound.Role
	}

	var invalid *toolchain.ValidationError
	if errors.As(err, &invalid) {
		return "invalid " + invalid.Role
	}

	return "error"
}

func joinVersion(v toolchain.Value) string {
	return strings.Join(v, ".")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
