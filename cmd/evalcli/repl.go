package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl <pdb-file>",
		Short: "interactively resolve identifiers against a PDB",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ctx, err := openContext(args[0])
			if err != nil {
				return err
			}
			defer p.Close()
			defer ctx.Close()

			rl, err := readline.New("eval> ")
			if err != nil {
				return fmt.Errorf("starting readline: %w", err)
			}
			defer rl.Close()

			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if line == "" {
					continue
				}
				if err := evalOne(ctx, line); err != nil {
					fmt.Println(err)
				}
			}
		},
	}
}
