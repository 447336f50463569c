package grid

import (
	"math"
	"sync"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// angleCache memoizes whether two line orientations are closer than a fixed
// threshold. The relation is symmetric, so entries are keyed by the sorted
// angle pair.
type angleCache struct {
	threshold float64 // radians

	mu    sync.RWMutex
	pairs map[[2]float64]bool
}

func newAngleCache(thresholdDeg float64) *angleCache {
	return &angleCache{
		threshold: thresholdDeg * math.Pi / 180,
		pairs:     make(map[[2]float64]bool),
	}
}

// similar reports whether a and b differ by less than the threshold, mod π.
func (c *angleCache) similar(a, b float64) bool {
	key := [2]float64{a, b}
	if b < a {
		key = [2]float64{b, a}
	}

	c.mu.RLock()
	v, ok := c.pairs[key]
	c.mu.RUnlock()
	if ok {
		return v
	}

	v = geometry.AngleDiff(a, b) < c.threshold

	c.mu.Lock()
	c.pairs[key] = v
	c.mu.Unlock()

	return v
}
