package grid

import (
	"math"
	"sort"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

const (
	gridLines = 10
	gridCells = gridLines - 1
)

// minCrossingAngle is the smallest angle between a family line and a divider
// whose crossing still counts. Shallower crossings drift far along the
// divider for tiny angle errors.
const minCrossingAngle = 10 * math.Pi / 180

// View is the image area intersections must fall in, grown by Padding on
// every side.
type View struct {
	Width   int
	Height  int
	Padding float64
}

// Contains reports whether p lies in the extended view.
func (v View) Contains(p geometry.Point) bool {
	return geometry.PointInExtendedView(p, v.Width, v.Height, v.Padding)
}

// LineSet is ten lines of one family, ordered by where they cross a
// perpendicular line, with an alignment score in (0, 1]. A score of 1 means
// perfectly even spacing.
type LineSet struct {
	Lines [gridLines]geometry.Line `json:"lines"`
	Score float64                  `json:"score"`
}

// projection is a family line and where it crosses the divider.
type projection struct {
	pos  float64
	line geometry.Line
}

// project intersects every line with the divider and returns the crossing
// positions along the divider, sorted and shifted so the first is 0. Lines
// that do not cross it inside the view, or cross it shallower than
// minCrossingAngle, are dropped.
func project(family []geometry.Line, divider geometry.Line, view View) []projection {
	dir := divider.Direction()
	// Keep the dominant component positive so dividers either side of 0/π
	// order crossings the same way.
	if (math.Abs(dir.X) >= math.Abs(dir.Y) && dir.X < 0) || (math.Abs(dir.X) < math.Abs(dir.Y) && dir.Y < 0) {
		dir = geometry.Point{X: -dir.X, Y: -dir.Y}
	}

	out := make([]projection, 0, len(family))
	for _, l := range family {
		p, ok := geometry.IntersectMinAngle(l, divider, minCrossingAngle)
		if !ok || !view.Contains(p) {
			continue
		}
		out = append(out, projection{pos: p.X*dir.X + p.Y*dir.Y, line: l})
	}
	if len(out) == 0 {
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].pos < out[j].pos })
	origin := out[0].pos
	for i := range out {
		out[i].pos -= origin
	}
	return out
}

// nearestTable maps every integer coordinate in [0, int(max)] to the index
// of the closest position. positions must be sorted and non-negative.
//
// Each position claims its own cell, then spreads outward in both
// directions until it meets a cell already claimed at a distance no greater
// than its own. Ties go to the lower index.
func nearestTable(positions []float64) []int {
	if len(positions) == 0 {
		return nil
	}

	size := int(positions[len(positions)-1]) + 1
	owner := make([]int, size)
	dist := make([]float64, size)
	for c := range owner {
		owner[c] = -1
	}

	// claim reports whether cell c was taken by point k.
	claim := func(c, k int) bool {
		d := math.Abs(positions[k] - float64(c))
		if owner[c] >= 0 && (dist[c] < d || (dist[c] == d && owner[c] < k)) {
			return false
		}
		owner[c], dist[c] = k, d
		return true
	}

	cells := make([]int, len(positions))
	for k, p := range positions {
		cells[k] = clamp(int(math.Round(p)), 0, size-1)
		claim(cells[k], k)
	}

	for k := range positions {
		for c := cells[k] - 1; c >= 0 && claim(c, k); c-- {
		}
		for c := cells[k] + 1; c < size && claim(c, k); c++ {
		}
	}
	return owner
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Align finds every set of ten family lines whose crossings with divider
// are evenly spaced.
//
// Each pair of crossings at least nine lines apart fixes a step; the ten
// expected positions at that step are resolved to their nearest crossings.
// A candidate is dropped when two expected positions resolve to the same
// line or when the summed relative gap deviation exceeds maxDeviation. The
// score is one minus the mean deviation per gap.
//
// When several pairs resolve to the same lines the best score is kept.
// Results are ordered by score, best first.
func Align(family []geometry.Line, divider geometry.Line, view View, maxDeviation float64) []LineSet {
	pts := project(family, divider, view)
	if len(pts) < gridLines {
		return nil
	}

	positions := make([]float64, len(pts))
	for i, p := range pts {
		positions[i] = p.pos
	}
	table := nearestTable(positions)
	last := len(table) - 1

	best := make(map[[gridLines]geometry.Line]float64)
	var idx [gridLines]int

	for i := 0; i+gridCells < len(positions); i++ {
	candidates:
		for j := i + gridCells; j < len(positions); j++ {
			step := (positions[j] - positions[i]) / gridCells
			if !(step > 0) || math.IsInf(step, 0) {
				continue
			}

			deviation := 0.0
			for k := 0; k < gridLines; k++ {
				expected := positions[i] + step*float64(k)
				idx[k] = table[clamp(int(math.Round(expected)), 0, last)]
				if k == 0 {
					continue
				}
				if idx[k] <= idx[k-1] {
					continue candidates
				}
				gap := positions[idx[k]] - positions[idx[k-1]]
				deviation += math.Abs(gap-step) / step
				if deviation > maxDeviation {
					continue candidates
				}
			}

			var key [gridLines]geometry.Line
			for k, n := range idx {
				key[k] = pts[n].line
			}
			score := 1 - deviation/gridCells
			if prev, ok := best[key]; !ok || score > prev {
				best[key] = score
			}
		}
	}

	return rankLineSets(best, len(best))
}

// AlignFamily aligns the family against every divider and averages each line
// set's score over all dividers, counting 0 for dividers that did not
// produce it. The best top sets are returned, best first.
func AlignFamily(family, dividers []geometry.Line, view View, maxDeviation float64, top int) []LineSet {
	if len(dividers) == 0 || top <= 0 {
		return nil
	}

	sums := make(map[[gridLines]geometry.Line]float64)
	for _, d := range dividers {
		for _, set := range Align(family, d, view, maxDeviation) {
			sums[set.Lines] += set.Score
		}
	}

	n := float64(len(dividers))
	for k := range sums {
		sums[k] /= n
	}
	return rankLineSets(sums, top)
}

// rankLineSets orders scored sets best first, breaking ties by line
// coordinates, and keeps at most top of them.
func rankLineSets(scores map[[gridLines]geometry.Line]float64, top int) []LineSet {
	sets := make([]LineSet, 0, len(scores))
	for lines, score := range scores {
		sets = append(sets, LineSet{Lines: lines, Score: score})
	}

	sort.Slice(sets, func(i, j int) bool {
		if sets[i].Score != sets[j].Score {
			return sets[i].Score > sets[j].Score
		}
		return compareLineArrays(sets[i].Lines, sets[j].Lines) < 0
	})

	if len(sets) > top {
		sets = sets[:top]
	}
	return sets
}

func compareLineArrays(a, b [gridLines]geometry.Line) int {
	for k := range a {
		if c := compareLines(a[k], b[k]); c != 0 {
			return c
		}
	}
	return 0
}

func compareLines(a, b geometry.Line) int {
	switch {
	case a.Distance < b.Distance:
		return -1
	case a.Distance > b.Distance:
		return 1
	case a.Angle < b.Angle:
		return -1
	case a.Angle > b.Angle:
		return 1
	}
	return 0
}
