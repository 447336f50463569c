// Package commands defines the sudoku-grid CLI.
//
// Commands
//
//   - serve    Run the MCP server on stdin/stdout
//   - find     Locate grids in image files and write overlays
//   - version  Print version information
//
// # Configuration
//
// Detection parameters come from the YAML file given with --config or the
// SUDOKU_GRID_CONFIG environment variable, on top of built-in defaults.
// SUDOKU_GRID_LOG_LEVEL=debug traces the grid search on stderr.
package commands
