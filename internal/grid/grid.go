package grid

import (
	"errors"
	"fmt"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

var (
	// ErrNoGrid is returned by callers that need a grid when the search
	// found none. Finder itself reports that case as a nil Result.
	ErrNoGrid = errors.New("no grid found")

	// ErrNoIntersection means two grid lines that must cross do not.
	ErrNoIntersection = errors.New("grid lines do not intersect")

	// ErrRange means a row or column range is outside the grid.
	ErrRange = errors.New("range outside grid")
)

// Grid is ten row boundaries and ten column boundaries. Horizontal lines
// run top to bottom, vertical lines left to right.
type Grid struct {
	Horizontal [gridLines]geometry.Line `json:"horizontal"`
	Vertical   [gridLines]geometry.Line `json:"vertical"`
}

// Alignment holds the spacing scores of the two line sets of a grid.
type Alignment struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
}

// Result is the best grid found in an image.
type Result struct {
	Grid      Grid      `json:"grid"`
	Score     float64   `json:"score"`
	Alignment Alignment `json:"alignment"`
	Coverage  float64   `json:"coverage"`

	// Cluster is the center in degrees of the angle bucket the grid came
	// from.
	Cluster float64 `json:"cluster"`
}

// Range selects boundary lines Start..End of a grid, 0 <= Start < End <= 9.
// Range{0, 9} is the whole board, Range{r, r+1} a single row or column.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FullRange spans the whole board.
var FullRange = Range{Start: 0, End: gridCells}

// CellRange spans the single cell row or column i.
func CellRange(i int) Range {
	return Range{Start: i, End: i + 1}
}

func (r Range) valid() bool {
	return r.Start >= 0 && r.Start < r.End && r.End <= gridCells
}

// Corners returns the corners of the area bounded by rows and cols in the
// order top-left, top-right, bottom-right, bottom-left.
func Corners(g Grid, rows, cols Range) ([4]geometry.Point, error) {
	var corners [4]geometry.Point
	if !rows.valid() || !cols.valid() {
		return corners, fmt.Errorf("%w: rows %v, cols %v", ErrRange, rows, cols)
	}

	pairs := [4][2]geometry.Line{
		{g.Horizontal[rows.Start], g.Vertical[cols.Start]},
		{g.Horizontal[rows.Start], g.Vertical[cols.End]},
		{g.Horizontal[rows.End], g.Vertical[cols.End]},
		{g.Horizontal[rows.End], g.Vertical[cols.Start]},
	}
	for i, p := range pairs {
		pt, ok := geometry.Intersect(p[0], p[1])
		if !ok {
			return corners, fmt.Errorf("%w: %v and %v", ErrNoIntersection, p[0], p[1])
		}
		corners[i] = pt
	}
	return corners, nil
}

// Segments returns the twenty grid lines clipped to the outer frame: each
// horizontal line between the first and last vertical line, then each
// vertical line between the first and last horizontal line.
func (g Grid) Segments() ([]geometry.Segment, error) {
	segs := make([]geometry.Segment, 0, 2*gridLines)

	appendBetween := func(l, from, to geometry.Line) error {
		a, ok := geometry.Intersect(l, from)
		if !ok {
			return fmt.Errorf("%w: %v and %v", ErrNoIntersection, l, from)
		}
		b, ok := geometry.Intersect(l, to)
		if !ok {
			return fmt.Errorf("%w: %v and %v", ErrNoIntersection, l, to)
		}
		segs = append(segs, geometry.Segment{A: a, B: b})
		return nil
	}

	for _, h := range g.Horizontal {
		if err := appendBetween(h, g.Vertical[0], g.Vertical[gridCells]); err != nil {
			return nil, err
		}
	}
	for _, v := range g.Vertical {
		if err := appendBetween(v, g.Horizontal[0], g.Horizontal[gridCells]); err != nil {
			return nil, err
		}
	}
	return segs, nil
}

// Oriented returns the grid with horizontal lines ordered top to bottom and
// vertical lines left to right. Line sets arrive in crossing order, so at
// most a reversal is needed.
func (g Grid) Oriented() Grid {
	first, ok1 := geometry.Intersect(g.Horizontal[0], g.Vertical[0])
	last, ok2 := geometry.Intersect(g.Horizontal[gridCells], g.Vertical[0])
	if ok1 && ok2 && first.Y > last.Y {
		reverse(&g.Horizontal)
	}

	first, ok1 = geometry.Intersect(g.Vertical[0], g.Horizontal[0])
	last, ok2 = geometry.Intersect(g.Vertical[gridCells], g.Horizontal[0])
	if ok1 && ok2 && first.X > last.X {
		reverse(&g.Vertical)
	}
	return g
}

// Scale maps the grid into an image resized by factor f.
func (g Grid) Scale(f float64) Grid {
	for i := range g.Horizontal {
		g.Horizontal[i] = g.Horizontal[i].Scale(f)
		g.Vertical[i] = g.Vertical[i].Scale(f)
	}
	return g
}

func reverse(lines *[gridLines]geometry.Line) {
	for i, j := 0, len(lines)-1; i < j; i, j = i+1, j-1 {
		lines[i], lines[j] = lines[j], lines[i]
	}
}
