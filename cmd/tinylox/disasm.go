package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/kristofer/tinylox/internal/config"
	"github.com/kristofer/tinylox/internal/engine"
	"github.com/kristofer/tinylox/pkg/chunk"
	"github.com/kristofer/tinylox/pkg/heap"
)

// newDisasmCmd builds the "disasm" subcommand: compile a single file and
// print its bytecode listing without running it.
func newDisasmCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "disasm <file>",
		Short: "Compile a tinylox source file and print its bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			path := args[0]
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "tinylox: reading %s", path)
			}

			h := heap.New()
			ck, err := engine.Compile(string(src), h)
			if err != nil {
				return err
			}

			chunk.Disassemble(cmd.OutOrStdout(), ck, path)
			return nil
		},
	}
}
