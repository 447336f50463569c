// Package geometry holds the small set of primitives the grid search is
// built on: polar lines, their intersections, distances, the extended-view
// test used to reject far-away crossings, and a planar homography used to
// rectify a detected board.
//
// Lines use the Hesse normal form x·cos(θ) + y·sin(θ) = r with θ in [0, π)
// and a signed r, which is also what the Hough line source produces. The
// coordinate system is the usual image one: origin at the top-left corner,
// X to the right, Y down.
package geometry
