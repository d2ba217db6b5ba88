// Package main provides the entry point for the tsfang CLI tool.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfang/cmd/tsfang/commands"
	"github.com/Sumatoshi-tech/tsfang/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	globals := &commands.Globals{}

	rootCmd := &cobra.Command{
		Use:   "tsfang",
		Short: "tsfang - TypeScript linter",
		Long: `tsfang lints TypeScript and TSX sources.

Commands:
  lint      Report problems
  fix       Apply auto-fixes
  rules     List the available rules
  lsp       Start the language server
  mcp       Start the MCP server`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	globals.Register(rootCmd)

	rootCmd.AddCommand(commands.NewLintCommand(globals))
	rootCmd.AddCommand(commands.NewFixCommand(globals))
	rootCmd.AddCommand(commands.NewRulesCommand())
	rootCmd.AddCommand(commands.NewLSPCommand(globals))
	rootCmd.AddCommand(commands.NewMCPCommand(globals))
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		if !errors.Is(err, commands.ErrProblemsFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}

		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
