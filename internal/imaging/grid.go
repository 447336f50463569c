package imaging

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// DefaultOverlayColor is the stroke colour used when none is given.
const DefaultOverlayColor = "#FF0000"

// OverlayOptions controls how a detected grid is drawn over its image.
type OverlayOptions struct {
	// Color is the stroke colour as "#RRGGBB" or "#RGB".
	Color string

	// Opacity of the strokes, 0 to 1. Zero means opaque.
	Opacity float64

	// Width of inner grid strokes in pixels. The outer frame is drawn
	// twice as wide.
	Width float64

	// Label is drawn in the top-left corner when not empty.
	Label string
}

// GridOverlay draws grid segments over a copy of img.
//
// segs are expected in the order produced for a 9x9 grid: ten horizontal
// segments top to bottom, then ten vertical segments left to right. The
// first and last segment of each family form the outer frame. Any other
// number of segments is drawn with the inner stroke width.
func GridOverlay(img image.Image, segs []geometry.Segment, opts OverlayOptions) (*image.RGBA, error) {
	if opts.Color == "" {
		opts.Color = DefaultOverlayColor
	}
	if opts.Width <= 0 {
		opts.Width = 2
	}

	stroke, err := parseHexColor(opts.Color, opts.Opacity)
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	result := image.NewRGBA(bounds)
	draw.Draw(result, bounds, img, bounds.Min, draw.Src)

	var inner, frame []geometry.Segment
	for i, s := range segs {
		if len(segs) == 20 && (i == 0 || i == 9 || i == 10 || i == 19) {
			frame = append(frame, s)
		} else {
			inner = append(inner, s)
		}
	}

	src := image.NewUniform(stroke)
	draw.DrawMask(result, bounds, src, image.Point{}, SegmentMask(bounds, inner, opts.Width), bounds.Min, draw.Over)
	draw.DrawMask(result, bounds, src, image.Point{}, SegmentMask(bounds, frame, 2*opts.Width), bounds.Min, draw.Over)

	if opts.Label != "" {
		drawLabel(result, bounds.Min.X+4, bounds.Min.Y+4, opts.Label,
			color.RGBA{255, 255, 255, 255}, color.RGBA{0, 0, 0, 180})
	}

	return result, nil
}

// parseHexColor parses a colour like "#FF0000" and applies opacity.
func parseHexColor(hex string, opacity float64) (color.NRGBA, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}

	alpha := uint8(255)
	if opacity > 0 && opacity < 1 {
		alpha = uint8(opacity*255 + 0.5)
	}
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// drawLabel draws text on a filled background box with its top-left
// corner at (x, y).
func drawLabel(img *image.RGBA, x, y int, text string, fg, bg color.RGBA) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(fg),
		Face: face,
	}

	width := d.MeasureString(text).Ceil()
	box := image.Rect(x-2, y-2, x+width+2, y+face.Height+2).Intersect(img.Bounds())
	draw.Draw(img, box, image.NewUniform(bg), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}
