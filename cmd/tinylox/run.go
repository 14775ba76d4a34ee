package main

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kristofer/tinylox/internal/config"
	"github.com/kristofer/tinylox/internal/engine"
)

// newRunCmd builds the "run" subcommand: compile and execute one or more
// source files. Multiple files run concurrently, each against its own
// fresh VM and heap, coordinated with errgroup the way jcorbin/gothird's
// scripts/gen_vm_expects.go fans out independent per-file work — tinylox's
// analogue of that pattern, scaled down to "one goroutine per source file"
// instead of "one goroutine per golden test case".
func newRunCmd(trace *bool, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "run <file>...",
		Short: "Run one or more tinylox source files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runFiles(args, cfg, *trace, cmd.OutOrStdout())
		},
	}
}

// runFiles executes every file in paths concurrently. Each file gets its
// own heap and VM, so there is no shared mutable state between them; the
// first failure is returned once every file has finished running, the
// way errgroup.Group naturally collects results. Writes to out are
// serialized with a mutex since concurrent goroutines share one writer.
func runFiles(paths []string, cfg config.Config, trace bool, out io.Writer) error {
	var mu sync.Mutex
	g := new(errgroup.Group)
	for _, path := range paths {
		path := path
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "tinylox: reading %s", path)
			}

			var buf bytes.Buffer
			runErr := engine.Run(string(src), &buf, cfg, trace)

			mu.Lock()
			_, writeErr := out.Write(buf.Bytes())
			mu.Unlock()
			if writeErr != nil {
				return errors.Wrapf(writeErr, "tinylox: writing output for %s", path)
			}
			if runErr != nil {
				return errors.Wrapf(runErr, "tinylox: %s", path)
			}
			return nil
		})
	}
	return g.Wait()
}
