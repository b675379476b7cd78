package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sluice/internal/observ"
)

func printTimings(cmd *cobra.Command, report observ.Report) {
	out := cmd.OutOrStdout()
	for _, p := range report.Phases {
		if p.Note != "" {
			fmt.Fprintf(out, "%s %.1f ms (%s)\n", p.Name, p.DurationMS, p.Note)
			continue
		}
		fmt.Fprintf(out, "%s %.1f ms\n", p.Name, p.DurationMS)
	}
	fmt.Fprintf(out, "total %.1f ms\n", report.TotalMS)
}
