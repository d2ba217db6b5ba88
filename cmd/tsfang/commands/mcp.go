package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfang/pkg/mcp"
	"github.com/Sumatoshi-tech/tsfang/pkg/observability"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand(globals *Globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes tsfang as tools that AI agents can discover and invoke:
  - tsfang_lint: lint (and optionally fix) inline TypeScript or TSX code
  - tsfang_rules: list the available rules and their options`,
		Args: cobra.NoArgs,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			env, err := globals.setup(observability.ModeMCP)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Registry:     env.registry,
				Rules:        env.rules,
				MaxFixPasses: env.config.MaxFixPasses,
				Logger:       env.providers.Logger,
				Metrics:      env.metrics,
				Tracer:       env.providers.Tracer,
			})

			return errors.Join(srv.Run(cobraCmd.Context()), env.close())
		},
	}
}
