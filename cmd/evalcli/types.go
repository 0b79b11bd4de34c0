package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jtang613/cvprobe/pkg/pdb"
)

func newTypesCmd() *cobra.Command {
	var indexArg string
	cmd := &cobra.Command{
		Use:   "types <pdb-file>",
		Short: "list named types, or show one type by index with --index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pdb.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer p.Close()

			if indexArg != "" {
				idx, err := strconv.ParseUint(indexArg, 0, 32)
				if err != nil {
					return fmt.Errorf("--index: %w", err)
				}
				ti := p.ResolveType(uint32(idx))
				if ti == nil {
					return fmt.Errorf("type 0x%x not found", idx)
				}
				return printJSON(ti)
			}
			return printJSON(p.Types())
		},
	}
	cmd.Flags().StringVar(&indexArg, "index", "", "show a single type index (e.g. 0x1003)")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
