package grid

import (
	"image"

	"github.com/ironsheep/sudoku-grid-mcp/internal/imaging"
)

// Evaluate traces every combination of a horizontal and a vertical line set
// over bin and returns the best grid, or nil when there is nothing to
// combine or no combination touches ink.
//
// bin holds ink as 255. A combination scores
//
//	alignH · alignV · coverage
//
// where coverage is the fraction of the traced grid lines, strokeWidth
// pixels wide, that lands on ink. Ties keep the earlier combination.
func Evaluate(bin *image.Gray, horizontal, vertical []LineSet, strokeWidth float64) *Result {
	if len(horizontal) == 0 || len(vertical) == 0 {
		return nil
	}

	var best *Result
	for _, h := range horizontal {
		for _, v := range vertical {
			best = better(best, score(bin, h, v, strokeWidth))
		}
	}

	if best == nil || best.Score <= 0 {
		return nil
	}
	return best
}

func score(bin *image.Gray, h, v LineSet, strokeWidth float64) *Result {
	g := Grid{Horizontal: h.Lines, Vertical: v.Lines}
	segs, err := g.Segments()
	if err != nil {
		return nil
	}

	mask := imaging.SegmentMask(bin.Bounds(), segs, strokeWidth)
	coverage := imaging.InkCoverage(bin, mask)

	return &Result{
		Grid:      g.Oriented(),
		Score:     h.Score * v.Score * coverage,
		Alignment: Alignment{Horizontal: h.Score, Vertical: v.Score},
		Coverage:  coverage,
	}
}

// better returns the higher scoring of two results, preferring a on ties.
func better(a, b *Result) *Result {
	switch {
	case b == nil:
		return a
	case a == nil:
		return b
	case b.Score > a.Score:
		return b
	}
	return a
}
