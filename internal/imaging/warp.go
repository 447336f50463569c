package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// Warp maps the quadrilateral corners of img (top-left, top-right,
// bottom-right, bottom-left) onto a size x size square with a single
// perspective transform. Pixels are sampled bilinearly; points that fall
// outside img are transparent.
func Warp(img image.Image, corners [4]geometry.Point, size int) (*image.NRGBA, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid warp size %d", size)
	}

	s := float64(size)
	square := [4]geometry.Point{{X: 0, Y: 0}, {X: s, Y: 0}, {X: s, Y: s}, {X: 0, Y: s}}

	// Map output pixels back into the source.
	h, err := geometry.NewHomography(square, corners)
	if err != nil {
		return nil, fmt.Errorf("failed to warp image: %w", err)
	}

	src := imaging.Clone(img)
	offset := img.Bounds().Min
	dst := image.NewNRGBA(image.Rect(0, 0, size, size))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p := h.Project(geometry.Point{X: float64(x) + 0.5, Y: float64(y) + 0.5})
			dst.SetNRGBA(x, y, bilinear(src, p.X-float64(offset.X), p.Y-float64(offset.Y)))
		}
	}
	return dst, nil
}

// bilinear samples img at (x, y), where integer coordinates are pixel
// centers. Neighbours outside the image count as transparent.
func bilinear(img *image.NRGBA, x, y float64) color.NRGBA {
	if math.IsNaN(x) || math.IsNaN(y) {
		return color.NRGBA{}
	}

	x0, y0 := math.Floor(x), math.Floor(y)
	fx, fy := x-x0, y-y0
	ix, iy := int(x0), int(y0)

	var acc [4]float64
	add := func(px, py int, w float64) {
		if w == 0 || !(image.Point{X: px, Y: py}.In(img.Rect)) {
			return
		}
		c := img.NRGBAAt(px, py)
		a := float64(c.A) * w
		acc[0] += float64(c.R) * a
		acc[1] += float64(c.G) * a
		acc[2] += float64(c.B) * a
		acc[3] += a
	}
	add(ix, iy, (1-fx)*(1-fy))
	add(ix+1, iy, fx*(1-fy))
	add(ix, iy+1, (1-fx)*fy)
	add(ix+1, iy+1, fx*fy)

	if acc[3] == 0 {
		return color.NRGBA{}
	}
	return color.NRGBA{
		R: uint8(math.Round(acc[0] / acc[3])),
		G: uint8(math.Round(acc[1] / acc[3])),
		B: uint8(math.Round(acc[2] / acc[3])),
		A: uint8(math.Round(math.Min(acc[3], 255))),
	}
}
