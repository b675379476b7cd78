package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sluice/internal/ir"
)

var validateCmd = &cobra.Command{
	Use:   "validate <module.mp>",
	Short: "Check a module's structural invariants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadModule(args[0])
		if err != nil {
			return err
		}
		quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
		if err := ir.Validate(m); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if !quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d funcs ok\n", args[0], len(m.Funcs))
		}
		return nil
	},
}
