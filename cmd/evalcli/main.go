// evalcli is a cobra-based CLI over the symbol-resolution and value-
// binding core: it opens a PDB, builds an Expression Context against it,
// and resolves names the way a debugger's expression evaluator would,
// short of actually parsing an expression grammar.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jtang613/cvprobe/pkg/exprctx"
	"github.com/jtang613/cvprobe/pkg/pdb"
)

var debugDump bool

func main() {
	root := &cobra.Command{
		Use:   "evalcli <command> <pdb-file>",
		Short: "resolve and bind symbols against a PDB's debug info",
	}
	root.PersistentFlags().BoolVar(&debugDump, "debug", false, "dump reconstructed Type/DataValue trees with go-spew")

	root.AddCommand(newEvalCmd())
	root.AddCommand(newReplCmd())
	root.AddCommand(newTypesCmd())
	root.AddCommand(newDumpCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openContext opens pdbPath and builds one Expression Context over its
// entire module scope (no function/block selected, matching a global
// lookup), backed by a stand-in thread with no live process behind it
// (see target.go).
func openContext(pdbPath string) (*pdb.PDB, *exprctx.Context, error) {
	p, err := pdb.Open(pdbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s: %w", pdbPath, err)
	}

	frame := exprctx.Frame{
		Module: p,
		Thread: noProcessThread{},
		Regs:   noProcessRegs{},
	}
	ctx, err := exprctx.New(frame, identityRegIDMapper)
	if err != nil {
		p.Close()
		return nil, nil, fmt.Errorf("building expression context: %w", err)
	}
	return p, ctx, nil
}
