// Command tinylox is the CLI driver for the tinylox compiler and VM. It is
// a thin shell around the library packages: it owns file I/O, flag
// parsing, and exit codes, and nothing about language semantics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is stamped at release time; "dev" for local builds.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		trace      bool
		configPath string
	)

	root := &cobra.Command{
		Use:           "tinylox",
		Short:         "Compile and run tinylox scripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolVar(&trace, "trace", false, "enable the instruction-level execution tracer")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a TOML configuration file")

	runCmd := newRunCmd(&trace, &configPath)
	root.AddCommand(runCmd)
	root.AddCommand(newDisasmCmd(&configPath))
	root.AddCommand(newVersionCmd())

	// Running `tinylox a.lox b.lox` with no subcommand behaves like
	// `tinylox run a.lox b.lox`.
	root.RunE = runCmd.RunE
	root.Args = runCmd.Args

	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tinylox version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "tinylox %s\n", version)
			return nil
		},
	}
}
