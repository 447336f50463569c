package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/sudoku-grid-mcp/internal/detection"
	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
	"github.com/ironsheep/sudoku-grid-mcp/internal/grid"
	"github.com/ironsheep/sudoku-grid-mcp/internal/imaging"
	"github.com/ironsheep/sudoku-grid-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "sudoku_find_grid").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads images and detected grids from the caches as needed
//  4. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Line Detection
	case "image_binarize":
		return s.handleImageBinarize(args)
	case "image_detect_lines":
		return s.handleImageDetectLines(args)

	// Grid Operations
	case "sudoku_find_grid":
		return s.handleSudokuFindGrid(args)
	case "sudoku_grid_overlay":
		return s.handleSudokuGridOverlay(args)
	case "sudoku_extract":
		return s.handleSudokuExtract(args)
	case "sudoku_extract_cell":
		return s.handleSudokuExtractCell(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
// Empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{
		Code:    code,
		Message: message,
	}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// detect returns the grid of the image at path, running the search once
// per path.
func (s *Server) detect(path string) (image.Image, *pipeline.Detection, error) {
	img, err := s.cache.Load(path)
	if err != nil {
		return nil, nil, err
	}

	s.mu.RLock()
	det, ok := s.grids[path]
	s.mu.RUnlock()
	if ok {
		return img, det, nil
	}

	det, err = s.detector.Detect(s.ctx, img)
	if err != nil {
		return img, nil, err
	}

	s.mu.Lock()
	s.grids[path] = det
	s.mu.Unlock()

	return img, det, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Line Detection Handlers ===

func (s *Server) handleImageBinarize(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	prep, err := s.detector.Prepare(img)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(prep.Binary)
}

type imageDetectLinesArgs struct {
	Path     string `json:"path"`
	MaxLines int    `json:"max_lines"`
}

// LinesResult lists the strongest straight lines of an image.
type LinesResult struct {
	Lines []detection.Peak `json:"lines"`
	Count int              `json:"count"`
}

func (s *Server) handleImageDetectLines(args json.RawMessage) (interface{}, error) {
	var a imageDetectLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.MaxLines == 0 {
		a.MaxLines = s.detector.Params().MaxLines
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	peaks, err := s.detector.Lines(img, a.MaxLines)
	if err != nil {
		return nil, err
	}
	return &LinesResult{Lines: peaks, Count: len(peaks)}, nil
}

// === Grid Operation Handlers ===

// FindGridResult reports the outcome of a grid search. A missing grid is a
// normal outcome, not an error.
type FindGridResult struct {
	Found   bool                `json:"found"`
	Message string              `json:"message,omitempty"`
	Grid    *pipeline.Detection `json:"grid,omitempty"`
}

func (s *Server) handleSudokuFindGrid(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, det, err := s.detect(a.Path)
	if errors.Is(err, grid.ErrNoGrid) {
		return &FindGridResult{Found: false, Message: err.Error()}, nil
	}
	if err != nil {
		return nil, err
	}
	return &FindGridResult{Found: true, Grid: det}, nil
}

type sudokuGridOverlayArgs struct {
	Path      string  `json:"path"`
	Color     string  `json:"color"`
	Opacity   float64 `json:"opacity"`
	Width     float64 `json:"width"`
	ShowScore bool    `json:"show_score"`
}

func (s *Server) handleSudokuGridOverlay(args json.RawMessage) (interface{}, error) {
	var a sudokuGridOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Width == 0 {
		a.Width = 2
	}
	img, det, err := s.detect(a.Path)
	if err != nil {
		return nil, err
	}

	opts := imaging.OverlayOptions{Color: a.Color, Opacity: a.Opacity, Width: a.Width}
	if a.ShowScore {
		opts.Label = fmt.Sprintf("score %.3f", det.Score)
	}
	overlay, err := det.Overlay(img, opts)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(overlay)
}

type sudokuExtractArgs struct {
	Path string `json:"path"`
	Size int    `json:"size"`
}

// ExtractResult is a straightened image together with the source corners
// it was cut from.
type ExtractResult struct {
	*imaging.EncodedImage
	Corners [4]geometry.Point `json:"corners"`
}

func (s *Server) handleSudokuExtract(args json.RawMessage) (interface{}, error) {
	var a sudokuExtractArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = 450
	}
	img, det, err := s.detect(a.Path)
	if err != nil {
		return nil, err
	}
	board, err := det.Board(img, a.Size)
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(board)
	if err != nil {
		return nil, err
	}
	return &ExtractResult{EncodedImage: enc, Corners: det.Corners}, nil
}

type sudokuExtractCellArgs struct {
	Path   string `json:"path"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	Size   int    `json:"size"`
	Margin int    `json:"margin"`
}

func (s *Server) handleSudokuExtractCell(args json.RawMessage) (interface{}, error) {
	var a sudokuExtractCellArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Size == 0 {
		a.Size = 64
	}
	img, det, err := s.detect(a.Path)
	if err != nil {
		return nil, err
	}
	cell, err := det.Cell(img, a.Row, a.Col, a.Size, a.Margin)
	if err != nil {
		return nil, err
	}
	corners, err := grid.Corners(det.Grid, grid.CellRange(a.Row), grid.CellRange(a.Col))
	if err != nil {
		return nil, err
	}
	enc, err := imaging.EncodePNG(cell)
	if err != nil {
		return nil, err
	}
	return &ExtractResult{EncodedImage: enc, Corners: corners}, nil
}
