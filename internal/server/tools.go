package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// pathProperty is the schema of the path argument every tool takes.
func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format. The decoded image is cached for subsequent operations.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Line Detection
		{
			Name:        "image_binarize",
			Description: "Return the black and white image the grid search runs on, as base64-encoded PNG. Ink is white. Use this to see why a grid was or was not found.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_detect_lines",
			Description: "Detect straight lines with a Hough transform. Lines are returned in polar form (distance from the top-left corner, angle of the normal in radians) with their vote counts, strongest first.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"max_lines": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of lines to return. Default 100",
						"default":     100,
					},
				},
				"required": []string{"path"},
			},
		},

		// Grid Operations
		{
			Name:        "sudoku_find_grid",
			Description: "Locate a 9x9 grid (such as a Sudoku board) in an image. Returns the 10 horizontal and 10 vertical boundary lines, the board corners and the detection scores, or found=false when the image holds no grid.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sudoku_grid_overlay",
			Description: "Draw the detected grid over the image and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"color": map[string]interface{}{
						"type":        "string",
						"description": "Hex color for grid lines (e.g., '#FF0000'). Default red",
						"default":     "#FF0000",
					},
					"opacity": map[string]interface{}{
						"type":        "number",
						"description": "Opacity of the grid lines, 0 to 1. Default 1",
						"default":     1.0,
					},
					"width": map[string]interface{}{
						"type":        "number",
						"description": "Width of inner grid lines in pixels. Default 2",
						"default":     2.0,
					},
					"show_score": map[string]interface{}{
						"type":        "boolean",
						"description": "Print the detection score in the top-left corner. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sudoku_extract",
			Description: "Straighten the detected board into a square image with a perspective warp and return it as base64-encoded PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the output square in pixels. Default 450",
						"default":     450,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "sudoku_extract_cell",
			Description: "Cut a single cell out of the straightened board and return it as base64-encoded PNG. Rows and columns are 0-based from the top-left.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"row": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     8,
						"description": "Cell row (0-8, from top)",
					},
					"col": map[string]interface{}{
						"type":        "integer",
						"minimum":     0,
						"maximum":     8,
						"description": "Cell column (0-8, from left)",
					},
					"size": map[string]interface{}{
						"type":        "integer",
						"description": "Side of the output square in pixels. Default 64",
						"default":     64,
					},
					"margin": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels trimmed from every side of the cell to drop grid lines. Default 0",
						"default":     0,
					},
				},
				"required": []string{"path", "row", "col"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
