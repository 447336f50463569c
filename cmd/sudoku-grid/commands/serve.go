package commands

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/sudoku-grid-mcp/internal/server"
)

func serveCmd(info BuildInfo) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server over stdin/stdout",
		Long: `Run the MCP server over stdin/stdout.

The server is normally started by an MCP client, not by hand.
Set ` + envLogLevel + `=debug to trace the grid search on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if os.Getenv(envLogLevel) == "debug" {
				log.Printf("%s %s (built %s, commit %s)", server.ServerName, info.Version, info.BuildTime, info.GitCommit)
			}

			srv := server.New(params, info.Version, debugLog)
			return srv.Run(cmd.Context())
		},
	}
}
