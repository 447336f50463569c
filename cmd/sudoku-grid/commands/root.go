package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/sudoku-grid-mcp/internal/config"
)

const (
	envConfig   = "SUDOKU_GRID_CONFIG"
	envLogLevel = "SUDOKU_GRID_LOG_LEVEL"
)

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

var (
	configPath string
	params     config.Params
	debugLog   *log.Logger
)

// Execute runs the CLI until the command finishes or the process is
// interrupted.
func Execute(info BuildInfo) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return newRootCmd(info).ExecuteContext(ctx)
}

func newRootCmd(info BuildInfo) *cobra.Command {
	root := &cobra.Command{
		Use:          "sudoku-grid",
		Short:        "Locate 9x9 grids in images",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// stdout is reserved for the MCP protocol.
			log.SetOutput(os.Stderr)
			log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

			if os.Getenv(envLogLevel) == "debug" {
				debugLog = log.New(os.Stderr, "grid: ", log.Ldate|log.Ltime|log.Lmicroseconds)
			}

			path := configPath
			if path == "" {
				path = os.Getenv(envConfig)
			}
			p, err := config.Load(path)
			if err != nil {
				return err
			}
			params = p
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "YAML file with detection parameters (default $"+envConfig+")")

	root.AddCommand(serveCmd(info), findCmd(), versionCmd(info))
	return root
}
