package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jtang613/cvprobe/pkg/pdb"
)

func newDumpCmd() *cobra.Command {
	var functions, variables, publics, modules, all bool
	cmd := &cobra.Command{
		Use:   "dump <pdb-file>",
		Short: "dump functions/variables/public symbols/modules as JSON, demangled",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pdb.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer p.Close()

			if !functions && !variables && !publics && !modules {
				all = true
			}

			out := make(map[string]any)
			if functions || all {
				out["functions"] = p.Functions()
			}
			if variables || all {
				out["variables"] = p.Variables()
			}
			if publics || all {
				out["public_symbols"] = p.PublicSymbols()
			}
			if modules || all {
				out["modules"] = p.Modules()
			}
			return printJSON(out)
		},
	}
	cmd.Flags().BoolVar(&functions, "functions", false, "include functions")
	cmd.Flags().BoolVar(&variables, "variables", false, "include variables")
	cmd.Flags().BoolVar(&publics, "publics", false, "include public symbols")
	cmd.Flags().BoolVar(&modules, "modules", false, "include modules")
	return cmd
}
