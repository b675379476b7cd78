package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sluice/internal/ir"
)

var dumpFunc string

func init() {
	dumpCmd.Flags().StringVar(&dumpFunc, "func", "", "dump only this function")
}

var dumpCmd = &cobra.Command{
	Use:   "dump <module.mp>",
	Short: "Print a module in textual form",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadModule(args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if useColor(cmd, os.Stdout) {
			header := color.New(color.FgCyan, color.Bold)
			header.Fprintf(out, "module %s (%d funcs)\n", args[0], len(m.Funcs))
		}
		if dumpFunc != "" {
			f := m.Lookup(dumpFunc)
			if f == nil {
				return fmt.Errorf("no function %q in module", dumpFunc)
			}
			return ir.DumpFunc(out, f)
		}
		return ir.DumpModule(out, m)
	},
}
