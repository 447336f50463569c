// Package server implements the MCP (Model Context Protocol) server for Sudoku
// grid detection.
//
// This package provides a JSON-RPC 2.0 server that exposes grid detection
// through the MCP protocol, so that an AI assistant can locate a puzzle in a
// photograph, check the detection visually and cut out the board or single
// cells.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Line Detection:
//   - image_binarize: The binary image the search runs on
//   - image_detect_lines: Hough lines, strongest first
//
// Grid Operations:
//   - sudoku_find_grid: Locate the 9x9 grid
//   - sudoku_grid_overlay: Draw the detected grid
//   - sudoku_extract: Straighten the board
//   - sudoku_extract_cell: Cut out one cell
//
// # Caching
//
// Decoded images and detected grids are cached by path for the lifetime of
// the server process, so the grid tools can be called in any order and the
// search runs once per image.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An image without a grid is not an error for sudoku_find_grid, which
// reports found=false. The other grid tools fail with "no grid found".
//
// # Usage
//
//	srv := server.New(config.Default(), version, nil)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
