package grid

import (
	"math"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// DedupeOptions configures Dedupe.
type DedupeOptions struct {
	MinAngleDeg float64 // lines closer than this are near-parallel
	MinDistance float64 // near-parallel lines closer than this in r are duplicates
	Padding     float64 // extended view padding, fraction of the image size
}

// Dedupe removes repeated detections of the same physical stroke.
//
// For every pair i < j of near-parallel lines, line j is dropped when the
// two lines cross inside the extended view or their distances differ by less
// than MinDistance. Earlier lines win, so the input order (strongest first)
// decides which detection survives. Dedupe is idempotent.
func Dedupe(lines []geometry.Line, width, height int, opts DedupeOptions) []geometry.Line {
	return dedupe(lines, width, height, opts, newAngleCache(opts.MinAngleDeg))
}

func dedupe(lines []geometry.Line, width, height int, opts DedupeOptions, cache *angleCache) []geometry.Line {
	removed := make([]bool, len(lines))

	for i := range lines {
		if removed[i] {
			continue
		}
		for j := i + 1; j < len(lines); j++ {
			if removed[j] {
				continue
			}
			if isDuplicate(lines[i], lines[j], width, height, opts, cache) {
				removed[j] = true
			}
		}
	}

	kept := make([]geometry.Line, 0, len(lines))
	for i, l := range lines {
		if !removed[i] {
			kept = append(kept, l)
		}
	}
	return kept
}

func isDuplicate(a, b geometry.Line, width, height int, opts DedupeOptions, cache *angleCache) bool {
	if !cache.similar(a.Angle, b.Angle) {
		return false
	}

	// Angles that straddle 0/π flip the sign of r.
	rb := b.Distance
	if math.Abs(a.Angle-b.Angle) > math.Pi/2 {
		rb = -rb
	}
	if math.Abs(a.Distance-rb) < opts.MinDistance {
		return true
	}

	p, ok := geometry.Intersect(a, b)
	if !ok {
		return false
	}
	return geometry.PointInExtendedView(p, width, height, opts.Padding)
}
