package detection

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/sudoku-grid-mcp/internal/config"
)

// paper returns a white RGBA image.
func paper(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func fillRect(img draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
}

func TestWindowSize(t *testing.T) {
	tests := []struct {
		bounds  image.Rectangle
		divider int
		want    int
	}{
		{image.Rect(0, 0, 100, 50), 10, 11},
		{image.Rect(0, 0, 50, 90), 10, 9},
		{image.Rect(0, 0, 200, 100), 20, 11},
		{image.Rect(0, 0, 5, 5), 10, 1},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, WindowSize(tt.bounds, tt.divider), "%v / %d", tt.bounds, tt.divider)
	}
}

func TestGrayscale(t *testing.T) {
	img := paper(40, 20)
	fillRect(img, image.Rect(0, 0, 10, 20), color.Black)
	fillRect(img, image.Rect(10, 0, 20, 20), color.RGBA{128, 128, 128, 255})
	fillRect(img, image.Rect(20, 0, 30, 20), color.RGBA{255, 0, 0, 255})

	gray := Grayscale(img)
	require.Equal(t, image.Rect(0, 0, 40, 20), gray.Bounds())

	assert.Equal(t, uint8(0), gray.GrayAt(5, 5).Y)
	assert.InDelta(t, 128, gray.GrayAt(15, 5).Y, 1)
	assert.InDelta(t, 76, gray.GrayAt(25, 5).Y, 2, "red is dark in luma")
	assert.Equal(t, uint8(255), gray.GrayAt(35, 5).Y)
}

func TestGrayscale_SubImage(t *testing.T) {
	img := paper(40, 40)
	fillRect(img, image.Rect(30, 30, 32, 32), color.Black)

	gray := Grayscale(img.SubImage(image.Rect(20, 20, 40, 40)))
	require.Equal(t, image.Rect(0, 0, 20, 20), gray.Bounds())

	assert.Equal(t, uint8(0), gray.GrayAt(10, 10).Y)
	assert.Equal(t, uint8(255), gray.GrayAt(0, 0).Y)
}

func TestAdaptiveThreshold(t *testing.T) {
	img := paper(200, 200)
	fillRect(img, image.Rect(100, 0, 102, 200), color.Black)

	bin := AdaptiveThreshold(img)
	require.Equal(t, image.Rect(0, 0, 200, 200), bin.Bounds())

	assert.Equal(t, uint8(255), bin.GrayAt(100, 50).Y, "dark stroke is ink")
	assert.Equal(t, uint8(255), bin.GrayAt(101, 150).Y)
	assert.Equal(t, uint8(0), bin.GrayAt(20, 20).Y, "paper is background")
	assert.Equal(t, uint8(0), bin.GrayAt(110, 50).Y)
}

func TestAdaptiveThreshold_UniformImage(t *testing.T) {
	bin := AdaptiveThreshold(paper(64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			require.Equal(t, uint8(0), bin.GrayAt(x, y).Y)
		}
	}
}

func TestRemoveBlobs(t *testing.T) {
	bin := image.NewGray(image.Rect(0, 0, 200, 200))
	fillRect(bin, image.Rect(20, 20, 80, 80), color.Gray{Y: 255})
	fillRect(bin, image.Rect(150, 0, 152, 200), color.Gray{Y: 255})

	out := RemoveBlobs(bin)

	assert.Equal(t, uint8(0), out.GrayAt(50, 50).Y, "solid area is cleared")
	assert.Equal(t, uint8(255), out.GrayAt(150, 100).Y, "thin stroke survives")
	assert.Equal(t, uint8(0), out.GrayAt(120, 100).Y)
}

func TestPrepare_Downscales(t *testing.T) {
	img := paper(800, 400)
	fillRect(img, image.Rect(396, 0, 404, 400), color.Black)

	p := config.Default().Prepare
	p.MaxImageSize = 400

	prep, err := Prepare(img, p)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 400, 200), prep.Binary.Bounds())
	assert.InDelta(t, 2.0, prep.Scale, 1e-9)
	assert.Equal(t, uint8(255), prep.Binary.GrayAt(200, 100).Y)
}

func TestPrepare_SmallImageKeepsScale(t *testing.T) {
	prep, err := Prepare(paper(120, 80), config.Default().Prepare)
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 120, 80), prep.Binary.Bounds())
	assert.InDelta(t, 1.0, prep.Scale, 1e-9)
}

func TestPrepare_Canny(t *testing.T) {
	img := paper(100, 100)
	fillRect(img, image.Rect(40, 0, 60, 100), color.Black)

	p := config.Default().Prepare
	p.Mode = config.BinarizeCanny

	prep, err := Prepare(img, p)
	require.NoError(t, err)

	ink := 0
	for y := 10; y < 90; y++ {
		for x := 0; x < 100; x++ {
			if prep.Binary.GrayAt(x, y).Y == 255 {
				ink++
			}
		}
	}
	assert.Positive(t, ink, "the stroke edges are found")
	assert.Equal(t, uint8(0), prep.Binary.GrayAt(50, 50).Y, "the stroke body is not an edge")
}

func TestPrepare_Errors(t *testing.T) {
	p := config.Default().Prepare

	_, err := Prepare(image.NewRGBA(image.Rectangle{}), p)
	assert.Error(t, err)

	p.Mode = "sobel"
	_, err = Prepare(paper(10, 10), p)
	assert.ErrorContains(t, err, "unknown mode")
}
