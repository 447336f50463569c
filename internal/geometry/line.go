package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// DefaultViewPadding extends the image by 50% on every side when deciding
// whether an intersection is plausibly part of something visible.
const DefaultViewPadding = 0.5

// parallelEpsilon is the smallest |sin(θa-θb)| still treated as a crossing.
const parallelEpsilon = 1e-9

// Line is a straight line in polar (Hesse normal) form:
//
//	x·cos(Angle) + y·sin(Angle) = Distance
//
// Distance is signed, Angle is in [0, π). Lines are plain values; two lines
// with the same coordinates are the same line.
type Line struct {
	Distance float64 `json:"distance"`
	Angle    float64 `json:"angle"`
}

// String implements fmt.Stringer.
func (l Line) String() string {
	return fmt.Sprintf("Line{r: %.2f, θ: %.2f°}", l.Distance, l.Angle*180/math.Pi)
}

// Scale maps the line into an image resized by factor f around the origin.
// Uniform scaling keeps the angle and scales the distance.
func (l Line) Scale(f float64) Line {
	return Line{Distance: l.Distance * f, Angle: l.Angle}
}

// Translate maps the line into coordinates shifted by (dx, dy), so that a
// point p on l corresponds to p + (dx, dy) on the result.
func (l Line) Translate(dx, dy float64) Line {
	return Line{Distance: l.Distance + dx*math.Cos(l.Angle) + dy*math.Sin(l.Angle), Angle: l.Angle}
}

// Direction returns the unit vector running along the line.
func (l Line) Direction() Point {
	return Point{X: -math.Sin(l.Angle), Y: math.Cos(l.Angle)}
}

// NormalizeAngle folds an angle into [0, π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, math.Pi)
	if a < 0 {
		a += math.Pi
	}
	return a
}

// AngleDiff returns the separation of two line orientations, which is
// periodic in π. The result is in [0, π/2].
func AngleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), math.Pi)
	if d > math.Pi/2 {
		d = math.Pi - d
	}
	return d
}

// Point is a position in image space, origin at the top-left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DistanceTo returns the Euclidean distance to other.
func (p Point) DistanceTo(other Point) float64 {
	return Distance(p, other)
}

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Segment is the finite piece of a line between two points.
type Segment struct {
	A Point `json:"a"`
	B Point `json:"b"`
}

// Length returns the length of the segment.
func (s Segment) Length() float64 {
	return Distance(s.A, s.B)
}

// Intersect solves
//
//	x·cos(θa) + y·sin(θa) = ra
//	x·cos(θb) + y·sin(θb) = rb
//
// and reports false when the lines are parallel (angles equal modulo π) or
// the system cannot be solved.
func Intersect(a, b Line) (Point, bool) {
	if math.Abs(math.Sin(a.Angle-b.Angle)) < parallelEpsilon {
		return Point{}, false
	}

	A := mat.NewDense(2, 2, []float64{
		math.Cos(a.Angle), math.Sin(a.Angle),
		math.Cos(b.Angle), math.Sin(b.Angle),
	})
	rhs := mat.NewVecDense(2, []float64{a.Distance, b.Distance})

	var x mat.VecDense
	if err := x.SolveVec(A, rhs); err != nil {
		return Point{}, false
	}

	p := Point{X: x.AtVec(0), Y: x.AtVec(1)}
	if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
		return Point{}, false
	}
	return p, true
}

// IntersectMinAngle is Intersect, but also treats lines whose orientations
// differ by less than minAngle radians as non-intersecting.
func IntersectMinAngle(a, b Line, minAngle float64) (Point, bool) {
	if minAngle > 0 && AngleDiff(a.Angle, b.Angle) < minAngle {
		return Point{}, false
	}
	return Intersect(a, b)
}

// PointInExtendedView reports whether p lies inside the image grown by
// padding (a fraction of width and height) on every side.
func PointInExtendedView(p Point, width, height int, padding float64) bool {
	w, h := float64(width), float64(height)
	minX, maxX := -w*padding, w+w*padding
	minY, maxY := -h*padding, h+h*padding
	return minX <= p.X && p.X <= maxX && minY <= p.Y && p.Y <= maxY
}
