package detection

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/sudoku-grid-mcp/internal/config"
	"github.com/ironsheep/sudoku-grid-mcp/internal/imaging"
)

// thresholdOffset is how much darker than its neighbourhood a pixel must be
// to count as ink.
const thresholdOffset = 4

// Prepared is a binary image ready for line detection.
type Prepared struct {
	// Binary holds ink as 255 and background as 0, with bounds starting at
	// the origin.
	Binary *image.Gray

	// Scale maps Binary coordinates back to the source image:
	// source = binary * Scale.
	Scale float64
}

// Prepare downscales img to at most MaxImageSize on its longer side and
// binarizes it with the configured mode.
func Prepare(img image.Image, p config.PrepareParams) (*Prepared, error) {
	bounds := img.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("failed to prepare image: empty bounds %v", bounds)
	}

	src := imaging.Downscale(img, p.MaxImageSize)
	scale := float64(bounds.Dx()) / float64(src.Bounds().Dx())

	var bin *image.Gray
	switch p.Mode {
	case config.BinarizeAdaptive, "":
		bin = RemoveBlobs(AdaptiveThreshold(src))
	case config.BinarizeCanny:
		bin = imaging.Canny(src, p.CannyLow, p.CannyHigh)
	default:
		return nil, fmt.Errorf("failed to prepare image: unknown mode %q", p.Mode)
	}

	return &Prepared{Binary: bin, Scale: scale}, nil
}

// Grayscale converts img to an 8-bit gray image with bounds at the origin.
func Grayscale(img image.Image) *image.Gray {
	// bild returns the luma replicated across the RGB channels.
	rgba := effect.Grayscale(img)
	b := rgba.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.SetGray(x, y, color.Gray{Y: rgba.RGBAAt(b.Min.X+x, b.Min.Y+y).R})
		}
	}
	return gray
}

// WindowSize returns the longer image side divided by divider, rounded up
// to an odd number.
func WindowSize(bounds image.Rectangle, divider int) int {
	window := max(bounds.Dx(), bounds.Dy()) / divider
	if window%2 == 0 {
		window++
	}
	return window
}

// AdaptiveThreshold marks pixels darker than the mean of their
// neighbourhood as ink (255). The neighbourhood is a tenth of the longer
// image side.
func AdaptiveThreshold(img image.Image) *image.Gray {
	gray := Grayscale(img)
	window := WindowSize(gray.Bounds(), 10)
	mean := blur.Box(gray, float64(window/2))

	return compareToMean(gray, mean, func(v, m int) bool {
		return v < m-thresholdOffset
	})
}

// RemoveBlobs clears ink pixels whose neighbourhood, a twentieth of the
// longer image side, is mostly ink. Solid areas such as shadows and filled
// cells lose their body and keep only their outline.
func RemoveBlobs(bin *image.Gray) *image.Gray {
	window := WindowSize(bin.Bounds(), 20)
	mean := blur.Box(bin, float64(window/2))

	return compareToMean(bin, mean, func(v, m int) bool {
		return v > m+128
	})
}

// compareToMean builds a binary image from gray and its local mean, which
// bild returns as RGBA with equal channels.
func compareToMean(gray *image.Gray, mean *image.RGBA, ink func(v, m int) bool) *image.Gray {
	b := gray.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	mb := mean.Bounds()

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := int(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			m := int(mean.RGBAAt(mb.Min.X+x, mb.Min.Y+y).R)
			if ink(v, m) {
				out.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return out
}
