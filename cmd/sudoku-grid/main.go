package main

import (
	"os"

	"github.com/ironsheep/sudoku-grid-mcp/cmd/sudoku-grid/commands"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	info := commands.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit}
	if err := commands.Execute(info); err != nil {
		os.Exit(1)
	}
}
