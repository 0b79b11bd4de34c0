package main

import (
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/jtang613/cvprobe/pkg/exprctx"
)

func newEvalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "eval <pdb-file> <name>",
		Short: "resolve a single identifier and print its declaration, address, and value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, err := openContext(args[0])
			if err != nil {
				return err
			}
			defer p.Close()
			defer ctx.Close()

			return evalOne(ctx, args[1])
		},
	}
}

// evalOne resolves name and prints its kind, type, address, and value,
// reporting (not failing the whole run on) any step that errors — a
// global lacking a live process still has a resolvable address and
// type even though its value is unreadable.
func evalOne(ctx *exprctx.Context, name string) error {
	d, err := ctx.FindObject(name)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	dn, _ := d.Name()
	fmt.Printf("name:     %s\n", dn)
	fmt.Printf("kind:     %s\n", declKindString(d.Kind()))

	typ, err := d.Type()
	if err != nil {
		fmt.Printf("type:     <error: %v>\n", err)
	} else if debugDump {
		fmt.Printf("type:     %s\n", spew.Sdump(typ))
	} else {
		fmt.Printf("type:     %s\n", typeKindString(typ.Kind))
	}

	addr, err := ctx.GetAddress(d)
	if err != nil {
		fmt.Printf("address:  <error: %v>\n", err)
	} else {
		fmt.Printf("address:  0x%x\n", addr)
	}

	v, err := ctx.GetValue(d)
	if err != nil {
		fmt.Printf("value:    <error: %v>\n", err)
		return nil
	}
	if debugDump {
		fmt.Printf("value:    %s\n", spew.Sdump(v))
	} else {
		fmt.Printf("value:    %+v\n", v)
	}
	return nil
}
