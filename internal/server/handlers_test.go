package server

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/sudoku-grid-mcp/internal/grid"
	"github.com/ironsheep/sudoku-grid-mcp/internal/imaging"
)

// paperImage returns a white w x h image.
func paperImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return img
}

// boardImage returns white paper with a black 9x9 grid of 3 pixel strokes
// centred on origin + k*step.
func boardImage(size, origin, step int) *image.RGBA {
	img := paperImage(size, size)
	lo, hi := origin-1, origin+9*step+1
	for k := 0; k <= 9; k++ {
		c := origin + k*step
		for d := -1; d <= 1; d++ {
			for p := lo; p <= hi; p++ {
				img.Set(c+d, p, color.Black)
				img.Set(p, c+d, color.Black)
			}
		}
	}
	return img
}

func writeTestImage(t *testing.T, img image.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func pathArgs(path string, extra ...string) json.RawMessage {
	s := fmt.Sprintf(`{"path":%q`, path)
	for _, e := range extra {
		s += "," + e
	}
	return json.RawMessage(s + "}")
}

func TestHandleImageLoad(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, paperImage(120, 80))

	result, err := s.executeTool("image_load", pathArgs(path))
	require.NoError(t, err)

	info, ok := result.(*imaging.ImageInfo)
	require.True(t, ok)
	assert.Equal(t, 120, info.Width)
	assert.Equal(t, 80, info.Height)
	assert.Equal(t, "png", info.Format)

	dims, err := s.executeTool("image_dimensions", pathArgs(path))
	require.NoError(t, err)
	assert.Equal(t, &imaging.DimensionsResult{Width: 120, Height: 80}, dims)
}

func TestExecuteTool_Errors(t *testing.T) {
	s := newTestServer()

	_, err := s.executeTool("image_rotate", pathArgs("/tmp/x.png"))
	assert.ErrorContains(t, err, "unknown tool")

	_, err = s.executeTool("image_load", json.RawMessage(`not json`))
	assert.Error(t, err)

	_, err = s.executeTool("image_load", pathArgs("/nonexistent/board.png"))
	assert.ErrorContains(t, err, "failed to open image")
}

func TestHandleImageBinarize(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, boardImage(460, 50, 40))

	result, err := s.executeTool("image_binarize", pathArgs(path))
	require.NoError(t, err)

	enc, ok := result.(*imaging.EncodedImage)
	require.True(t, ok)
	assert.Equal(t, 460, enc.Width)
	assert.Equal(t, 460, enc.Height)
	assert.Equal(t, "image/png", enc.MimeType)
	assert.NotEmpty(t, enc.ImageBase64)
}

func TestHandleImageDetectLines(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, boardImage(460, 50, 40))

	result, err := s.executeTool("image_detect_lines", pathArgs(path, `"max_lines":4`))
	require.NoError(t, err)
	lines := result.(*LinesResult)
	assert.Equal(t, 4, lines.Count)
	assert.Len(t, lines.Lines, 4)

	result, err = s.executeTool("image_detect_lines", pathArgs(path))
	require.NoError(t, err)
	lines = result.(*LinesResult)
	assert.GreaterOrEqual(t, lines.Count, 20, "every grid line is a peak")
	assert.LessOrEqual(t, lines.Count, s.detector.Params().MaxLines)
}

func TestHandleSudokuFindGrid(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, boardImage(460, 50, 40))

	result, err := s.executeTool("sudoku_find_grid", pathArgs(path))
	require.NoError(t, err)

	found, ok := result.(*FindGridResult)
	require.True(t, ok)
	require.True(t, found.Found)
	require.NotNil(t, found.Grid)

	want := [4][2]float64{{50, 50}, {410, 50}, {410, 410}, {50, 410}}
	for i, c := range found.Grid.Corners {
		assert.InDelta(t, want[i][0], c.X, 2, "corner %d x", i)
		assert.InDelta(t, want[i][1], c.Y, 2, "corner %d y", i)
	}
	assert.Greater(t, found.Grid.Score, 0.5)

	_, err = s.executeTool("sudoku_find_grid", pathArgs(path))
	require.NoError(t, err)
	assert.Len(t, s.grids, 1, "detections are cached per path")
}

func TestHandleSudokuFindGrid_NoGrid(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, paperImage(200, 200))

	result, err := s.executeTool("sudoku_find_grid", pathArgs(path))
	require.NoError(t, err, "a missing grid is not an error")
	assert.Equal(t, &FindGridResult{Found: false, Message: grid.ErrNoGrid.Error()}, result)

	_, err = s.executeTool("sudoku_grid_overlay", pathArgs(path))
	assert.ErrorIs(t, err, grid.ErrNoGrid)
}

func TestHandleSudokuGridOverlay(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, boardImage(460, 50, 40))

	result, err := s.executeTool("sudoku_grid_overlay", pathArgs(path, `"color":"#00FF00"`, `"show_score":true`))
	require.NoError(t, err)
	enc := result.(*imaging.EncodedImage)
	assert.Equal(t, 460, enc.Width)
	assert.Equal(t, 460, enc.Height)

	_, err = s.executeTool("sudoku_grid_overlay", pathArgs(path, `"color":"green"`))
	assert.Error(t, err)
}

func TestHandleSudokuExtract(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, boardImage(460, 50, 40))

	result, err := s.executeTool("sudoku_extract", pathArgs(path))
	require.NoError(t, err)
	board := result.(*ExtractResult)
	assert.Equal(t, 450, board.Width, "default size")
	assert.Equal(t, 450, board.Height)
	assert.InDelta(t, 50, board.Corners[0].X, 2)
	assert.InDelta(t, 410, board.Corners[2].Y, 2)

	result, err = s.executeTool("sudoku_extract", pathArgs(path, `"size":90`))
	require.NoError(t, err)
	assert.Equal(t, 90, result.(*ExtractResult).Width)
}

func TestHandleSudokuExtractCell(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, boardImage(460, 50, 40))

	result, err := s.executeTool("sudoku_extract_cell", pathArgs(path, `"row":8`, `"col":8`))
	require.NoError(t, err)
	cell := result.(*ExtractResult)
	assert.Equal(t, 64, cell.Width, "default size")
	assert.InDelta(t, 370, cell.Corners[0].X, 2)
	assert.InDelta(t, 370, cell.Corners[0].Y, 2)
	assert.InDelta(t, 410, cell.Corners[2].X, 2)
	assert.InDelta(t, 410, cell.Corners[2].Y, 2)

	result, err = s.executeTool("sudoku_extract_cell", pathArgs(path, `"row":2`, `"col":5`, `"size":32`, `"margin":2`))
	require.NoError(t, err)
	assert.Equal(t, 32, result.(*ExtractResult).Height)

	_, err = s.executeTool("sudoku_extract_cell", pathArgs(path, `"row":9`, `"col":0`))
	assert.ErrorIs(t, err, grid.ErrRange)
}

func TestHandleToolsCall(t *testing.T) {
	s := newTestServer()
	path := writeTestImage(t, paperImage(40, 30))

	params, err := json.Marshal(ToolCallParams{Name: "image_dimensions", Arguments: pathArgs(path)})
	require.NoError(t, err)
	resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 1, Method: "tools/call", Params: params})
	require.NotNil(t, resp)
	require.Nil(t, resp.Error)

	content := resp.Result.(map[string]interface{})["content"].([]map[string]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "text", content[0]["type"])
	assert.JSONEq(t, `{"width":40,"height":30}`, content[0]["text"].(string))

	params, err = json.Marshal(ToolCallParams{Name: "image_dimensions", Arguments: pathArgs("/nonexistent.png")})
	require.NoError(t, err)
	resp = s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 2, Method: "tools/call", Params: params})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32000, resp.Error.Code)

	resp = s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: 3, Method: "tools/call", Params: json.RawMessage(`"oops"`)})
	require.NotNil(t, resp.Error)
	assert.Equal(t, -32602, resp.Error.Code)
}
