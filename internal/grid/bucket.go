package grid

import (
	"math"
	"sort"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// AngleRange is a closed interval of line orientations in degrees, within
// [0, 180].
type AngleRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether deg lies in the range.
func (r AngleRange) Contains(deg float64) bool {
	return r.Min <= deg && deg <= r.Max
}

// Bucket is an angular window centered on Center degrees. A window crossing
// 0°/180° is stored as two ranges; an orthogonal bucket also holds the
// window shifted by 90°.
type Bucket struct {
	Center float64      `json:"center"`
	Ranges []AngleRange `json:"ranges"`
}

// Contains reports whether a line orientation in radians falls in any of the
// bucket's ranges.
func (b Bucket) Contains(angle float64) bool {
	deg := geometry.NormalizeAngle(angle) * 180 / math.Pi
	for _, r := range b.Ranges {
		if r.Contains(deg) {
			return true
		}
	}
	return false
}

// Cluster is a bucket together with the lines that fell into it, in input
// order.
type Cluster struct {
	Center float64         `json:"center"`
	Lines  []geometry.Line `json:"lines"`
}

// GenerateBuckets returns windows of windowDeg centered every stepDeg.
// Centers cover [0°, 90°) when orthogonal is set, since each bucket then
// also holds its perpendicular, and [0°, 180°) otherwise.
func GenerateBuckets(windowDeg, stepDeg float64, orthogonal bool) []Bucket {
	if windowDeg <= 0 || stepDeg <= 0 {
		return nil
	}

	limit := 180.0
	if orthogonal {
		limit = 90
	}

	var buckets []Bucket
	for k := 0; float64(k)*stepDeg < limit; k++ {
		center := float64(k) * stepDeg
		lo, hi := center-windowDeg/2, center+windowDeg/2

		b := Bucket{Center: center}
		b.Ranges = appendWrapped(b.Ranges, lo, hi)
		if orthogonal {
			b.Ranges = appendWrapped(b.Ranges, lo+90, hi+90)
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// appendWrapped adds [lo, hi] folded into [0, 180].
func appendWrapped(ranges []AngleRange, lo, hi float64) []AngleRange {
	switch {
	case lo < 0:
		return append(ranges, AngleRange{0, hi}, AngleRange{180 + lo, 180})
	case hi > 180:
		return append(ranges, AngleRange{lo, 180}, AngleRange{0, hi - 180})
	default:
		return append(ranges, AngleRange{lo, hi})
	}
}

// AssignBuckets sorts lines into every bucket they fall in. Buckets that
// match nothing are dropped, a bucket whose lines are identical to an
// earlier bucket's is dropped, and the result is ordered by line count,
// richest first. Ties keep bucket order.
func AssignBuckets(buckets []Bucket, lines []geometry.Line) []Cluster {
	var clusters []Cluster
	seen := make(map[string]bool)

	for _, b := range buckets {
		var matched []geometry.Line
		members := make([]byte, 0, len(lines))
		for i, l := range lines {
			if b.Contains(l.Angle) {
				matched = append(matched, l)
				members = appendIndex(members, i)
			}
		}
		if len(matched) == 0 {
			continue
		}

		key := string(members)
		if seen[key] {
			continue
		}
		seen[key] = true

		clusters = append(clusters, Cluster{Center: b.Center, Lines: matched})
	}

	sort.SliceStable(clusters, func(i, j int) bool {
		return len(clusters[i].Lines) > len(clusters[j].Lines)
	})
	return clusters
}

func appendIndex(b []byte, i int) []byte {
	return append(b, byte(i>>24), byte(i>>16), byte(i>>8), byte(i))
}
