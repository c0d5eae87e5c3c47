// Command p4fcls is the ambient LSP-style convenience binary: a
// publishDiagnostics-only language server (serve), a one-shot check
// subcommand, and a version subcommand, organized with
// github.com/spf13/cobra since it sits outside cmd/p4fc's single-argument
// core-CLI contract. cobra has no P4-semantic role to play here; it is
// purely this binary's own command dispatch, the ambient convenience a
// multi-subcommand tool needs that a single-argument one doesn't.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/p4fc/p4fc/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:   "p4fcls",
		Short: "p4fcls is the p4fc language server and one-shot diagnostics tool",
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the p4fcls version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), config.Version)
			return nil
		},
	}
}
