package grid

import (
	"math"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// SplitByAngle separates lines within tolerance radians of reference (mod π)
// from the rest. Both results keep input order.
func SplitByAngle(lines []geometry.Line, reference, tolerance float64) (similar, other []geometry.Line) {
	for _, l := range lines {
		if geometry.AngleDiff(l.Angle, reference) < tolerance {
			similar = append(similar, l)
		} else {
			other = append(other, l)
		}
	}
	return similar, other
}

// horizontalness is the mean separation of a family from the π/2 normal of
// a horizontal line. Smaller means more horizontal.
func horizontalness(lines []geometry.Line) float64 {
	if len(lines) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for _, l := range lines {
		sum += geometry.AngleDiff(l.Angle, math.Pi/2)
	}
	return sum / float64(len(lines))
}
