// Package pipeline runs grid detection on a photograph from end to end:
// binarize, detect lines, search for the grid and map it back to source
// coordinates.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/sudoku-grid-mcp/internal/config"
	"github.com/ironsheep/sudoku-grid-mcp/internal/detection"
	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
	"github.com/ironsheep/sudoku-grid-mcp/internal/grid"
	"github.com/ironsheep/sudoku-grid-mcp/internal/imaging"
)

// Detection is a grid located in a source image.
type Detection struct {
	// Result is expressed in source image coordinates.
	grid.Result

	// Corners of the whole board: top-left, top-right, bottom-right,
	// bottom-left.
	Corners [4]geometry.Point `json:"corners"`

	// Scale is the factor between the binary image searched and the source.
	Scale float64 `json:"scale"`
}

// Detector locates grids in images. It is safe for concurrent use.
type Detector struct {
	params config.Params
	hough  *detection.Hough
	finder *grid.Finder
}

// NewDetector builds a detector from params. logger may be nil.
func NewDetector(params config.Params, logger *log.Logger) *Detector {
	hough := detection.NewHough(params.VoteThreshold)
	return &Detector{
		params: params,
		hough:  hough,
		finder: grid.NewFinder(hough, params, logger),
	}
}

// Params returns the parameters the detector was built with.
func (d *Detector) Params() config.Params {
	return d.params
}

// Prepare binarizes img the way Detect does.
func (d *Detector) Prepare(img image.Image) (*detection.Prepared, error) {
	return detection.Prepare(img, d.params.Prepare)
}

// Lines returns the strongest Hough peaks of img in source coordinates.
func (d *Detector) Lines(img image.Image, maxCount int) ([]detection.Peak, error) {
	prep, err := d.Prepare(img)
	if err != nil {
		return nil, err
	}

	peaks := d.hough.Peaks(prep.Binary)
	if maxCount > 0 && len(peaks) > maxCount {
		peaks = peaks[:maxCount]
	}
	for i := range peaks {
		peaks[i].Line = toSource(peaks[i].Line, img.Bounds(), prep.Scale)
	}
	return peaks, nil
}

// Detect finds the grid in img. It returns grid.ErrNoGrid when there is
// none.
func (d *Detector) Detect(ctx context.Context, img image.Image) (*Detection, error) {
	prep, err := d.Prepare(img)
	if err != nil {
		return nil, err
	}

	res, err := d.finder.Find(ctx, prep.Binary)
	if err != nil {
		return nil, fmt.Errorf("failed to search grid: %w", err)
	}
	if res == nil {
		return nil, grid.ErrNoGrid
	}

	out := *res
	for i := range out.Grid.Horizontal {
		out.Grid.Horizontal[i] = toSource(out.Grid.Horizontal[i], img.Bounds(), prep.Scale)
		out.Grid.Vertical[i] = toSource(out.Grid.Vertical[i], img.Bounds(), prep.Scale)
	}

	corners, err := grid.Corners(out.Grid, grid.FullRange, grid.FullRange)
	if err != nil {
		return nil, err
	}

	return &Detection{Result: out, Corners: corners, Scale: prep.Scale}, nil
}

// toSource maps a line found in the prepared image, whose origin is at
// (0, 0), to the source image with the given bounds.
func toSource(l geometry.Line, bounds image.Rectangle, scale float64) geometry.Line {
	return l.Scale(scale).Translate(float64(bounds.Min.X), float64(bounds.Min.Y))
}

// Overlay draws the detected grid over img.
func (d *Detection) Overlay(img image.Image, opts imaging.OverlayOptions) (*image.RGBA, error) {
	segs, err := d.Grid.Segments()
	if err != nil {
		return nil, err
	}
	return imaging.GridOverlay(img, segs, opts)
}

// Board straightens the detected board into a size x size square.
func (d *Detection) Board(img image.Image, size int) (*image.NRGBA, error) {
	return imaging.Warp(img, d.Corners, size)
}

// Cell cuts cell (row, col) out of the straightened board and returns it
// as a size x size square. margin trims that many board pixels from every
// side of the cell.
func (d *Detection) Cell(img image.Image, row, col, size, margin int) (*image.NRGBA, error) {
	if row < 0 || row >= imaging.BoardCells || col < 0 || col >= imaging.BoardCells {
		return nil, fmt.Errorf("%w: cell (%d,%d)", grid.ErrRange, row, col)
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid cell size %d", size)
	}

	board, err := d.Board(img, size*imaging.BoardCells)
	if err != nil {
		return nil, err
	}
	return imaging.CropCell(board, row, col, margin, size)
}
