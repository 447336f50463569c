package imaging

import (
	"image"
	"image/color"
	"math"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// cannyBlurRadius is the gaussian radius applied before taking gradients.
const cannyBlurRadius = 1.4

// Canny performs Canny edge detection and returns a binary image where
// edges are 255 and everything else is 0. Bounds start at the origin.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - thresholdLow: Gradient magnitude (0-255) below which pixels are
//     discarded. Typical value: 50.
//   - thresholdHigh: Gradient magnitude (0-255) above which pixels are
//     always edges. Typical value: 150.
//
// # Algorithm
//
//  1. Grayscale conversion and gaussian blur (bild)
//
//  2. Gradient computation: Sobel operators for X and Y gradients
//     magnitude = sqrt(Gx² + Gy²)
//     direction = atan2(Gy, Gx)
//
//  3. Non-maximum suppression: thin edges to 1-pixel width by keeping only
//     local maxima in the gradient direction
//
//  4. Hysteresis: pixels between the thresholds are kept only when one of
//     their 8 neighbours is above thresholdHigh
//
// Grid detection works on filled strokes rather than outlines, so the
// adaptive threshold is the default binarization. Canny suits clean scans
// with thin printed lines, where both edges of a stroke merge.
func Canny(img image.Image, thresholdLow, thresholdHigh int) *image.Gray {
	if img.Bounds().Empty() {
		return image.NewGray(image.Rectangle{})
	}

	blurred := blur.Gaussian(effect.Grayscale(img), cannyBlurRadius)
	b := blurred.Bounds()
	width, height := b.Dx(), b.Dy()
	result := image.NewGray(image.Rect(0, 0, width, height))

	lum := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			lum[y*width+x] = float64(blurred.RGBAAt(b.Min.X+x, b.Min.Y+y).R) / 255
		}
	}
	at := func(x, y int) float64 {
		return lum[clampInt(y, 0, height-1)*width+clampInt(x, 0, width-1)]
	}

	magnitude := make([]float64, width*height)
	direction := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gx := at(x+1, y-1) + 2*at(x+1, y) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x-1, y) - at(x-1, y+1)
			gy := at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1) -
				at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1)
			magnitude[y*width+x] = math.Hypot(gx, gy)
			direction[y*width+x] = math.Atan2(gy, gx)
		}
	}

	suppressed := make([]float64, width*height)
	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			i := y*width + x
			dx, dy := gradientNeighbour(direction[i])
			n1 := magnitude[(y-dy)*width+x-dx]
			n2 := magnitude[(y+dy)*width+x+dx]
			if magnitude[i] >= n1 && magnitude[i] >= n2 {
				suppressed[i] = magnitude[i]
			}
		}
	}

	low := float64(thresholdLow) / 255
	high := float64(thresholdHigh) / 255
	strong := func(x, y int) bool {
		return suppressed[clampInt(y, 0, height-1)*width+clampInt(x, 0, width-1)] >= high
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := suppressed[y*width+x]
			if v < low {
				continue
			}
			keep := v >= high
			for ky := -1; ky <= 1 && !keep; ky++ {
				for kx := -1; kx <= 1 && !keep; kx++ {
					keep = strong(x+kx, y+ky)
				}
			}
			if keep {
				result.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return result
}

// gradientNeighbour quantizes a gradient direction to the pixel offset of
// the neighbour across the edge.
func gradientNeighbour(angle float64) (dx, dy int) {
	a := math.Mod(angle+math.Pi, math.Pi) // fold to [0, π)
	switch {
	case a < math.Pi/8 || a >= 7*math.Pi/8:
		return 1, 0
	case a < 3*math.Pi/8:
		return 1, 1
	case a < 5*math.Pi/8:
		return 0, 1
	default:
		return -1, 1
	}
}

// clampInt constrains val to the range [lo, hi].
func clampInt(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
