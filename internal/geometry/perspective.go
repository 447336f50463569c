package geometry

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrDegenerateQuad is returned when four point pairs do not define a
// perspective transform (three collinear corners, repeated points).
var ErrDegenerateQuad = errors.New("points do not define a perspective transform")

// Homography is a planar perspective transform stored as a 3x3 matrix with
// h33 fixed to 1.
type Homography struct {
	h *mat.Dense
}

// NewHomography computes the transform that maps each src[i] onto dst[i].
//
// Each correspondence contributes two rows to an 8x8 system in the unknowns
// h11..h32:
//
//	u = (h11·x + h12·y + h13) / (h31·x + h32·y + 1)
//	v = (h21·x + h22·y + h23) / (h31·x + h32·y + 1)
func NewHomography(src, dst [4]Point) (*Homography, error) {
	A := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y

		A.SetRow(i, []float64{x, y, 1, 0, 0, 0, -x * u, -y * u})
		A.SetRow(i+4, []float64{0, 0, 0, x, y, 1, -x * v, -y * v})
		b.SetVec(i, u)
		b.SetVec(i+4, v)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(A, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateQuad, err)
	}

	data := make([]float64, 9)
	for i := 0; i < 8; i++ {
		data[i] = sol.AtVec(i)
	}
	data[8] = 1

	return &Homography{h: mat.NewDense(3, 3, data)}, nil
}

// Project applies the transform to p.
func (t *Homography) Project(p Point) Point {
	h := t.h.RawMatrix().Data
	w := h[6]*p.X + h[7]*p.Y + h[8]
	return Point{
		X: (h[0]*p.X + h[1]*p.Y + h[2]) / w,
		Y: (h[3]*p.X + h[4]*p.Y + h[5]) / w,
	}
}
