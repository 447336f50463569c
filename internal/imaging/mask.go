package imaging

import (
	"image"
	"math"

	"golang.org/x/image/vector"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// SegmentMask rasterizes segments as strokes of the given width onto an
// alpha mask covering bounds. A segment endpoint at (x, y) lies on the
// center of pixel (x, y). Parts of a stroke outside bounds are clipped.
func SegmentMask(bounds image.Rectangle, segs []geometry.Segment, width float64) *image.Alpha {
	mask := image.NewAlpha(bounds)
	if bounds.Empty() || width <= 0 {
		return mask
	}

	r := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	ox := float64(bounds.Min.X) - 0.5
	oy := float64(bounds.Min.Y) - 0.5
	half := width / 2

	for _, s := range segs {
		length := s.Length()
		if length == 0 {
			continue
		}
		// Unit normal, scaled to half the stroke width. Every quad is
		// wound the same way relative to its segment, so overlaps add up
		// instead of cancelling.
		nx := -(s.B.Y - s.A.Y) / length * half
		ny := (s.B.X - s.A.X) / length * half

		ax, ay := s.A.X-ox, s.A.Y-oy
		bx, by := s.B.X-ox, s.B.Y-oy

		r.MoveTo(float32(ax+nx), float32(ay+ny))
		r.LineTo(float32(bx+nx), float32(by+ny))
		r.LineTo(float32(bx-nx), float32(by-ny))
		r.LineTo(float32(ax-nx), float32(ay-ny))
		r.ClosePath()
	}

	r.Draw(mask, bounds, image.Opaque, image.Point{})
	return mask
}

// InkCoverage returns the fraction of mask that lies on ink (bin >= 128),
// weighting each pixel by its mask alpha. The result is in [0, 1] and is 0
// for an empty mask.
func InkCoverage(bin *image.Gray, mask *image.Alpha) float64 {
	area := bin.Bounds().Intersect(mask.Bounds())

	var traced, inked float64
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			a := float64(mask.AlphaAt(x, y).A)
			if a == 0 {
				continue
			}
			traced += a
			if bin.GrayAt(x, y).Y >= 128 {
				inked += a
			}
		}
	}

	if traced == 0 {
		return 0
	}
	return math.Min(1, inked/traced)
}
