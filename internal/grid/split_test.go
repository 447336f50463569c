package grid

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

func TestSplitByAngle(t *testing.T) {
	lines := []geometry.Line{
		{Distance: 10, Angle: deg(2)},
		{Distance: 20, Angle: deg(91)},
		{Distance: 30, Angle: deg(178)},
		{Distance: 40, Angle: deg(88)},
		{Distance: 50, Angle: deg(45)},
	}

	similar, other := SplitByAngle(lines, 0, deg(10))
	assert.Equal(t, []geometry.Line{lines[0], lines[2]}, similar, "wraps around π")
	assert.Equal(t, []geometry.Line{lines[1], lines[3], lines[4]}, other)

	similar, other = SplitByAngle(nil, 0, deg(10))
	assert.Empty(t, similar)
	assert.Empty(t, other)
}

func TestHorizontalness(t *testing.T) {
	flat := []geometry.Line{{Angle: math.Pi / 2}, {Angle: deg(92)}}
	steep := []geometry.Line{{Angle: 0}, {Angle: deg(178)}}

	assert.Less(t, horizontalness(flat), horizontalness(steep))
	assert.InDelta(t, deg(1), horizontalness(flat), 1e-12)
	assert.True(t, math.IsInf(horizontalness(nil), 1))
}
