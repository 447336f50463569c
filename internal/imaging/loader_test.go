package imaging

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// uniform returns a w x h image filled with c.
func uniform(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writeImage encodes img into a file named name inside a test directory
// and returns its path.
func writeImage(t *testing.T, name string, img image.Image, encode func(io.Writer, image.Image) error) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, encode(f, img))
	return path
}

func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	return writeImage(t, "test.png", img, png.Encode)
}

func TestImageCache_Load(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, uniform(100, 100, color.RGBA{255, 0, 0, 255}))

	img1, err := cache.Load(path)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img1.Bounds())

	img2, err := cache.Load(path)
	require.NoError(t, err)
	assert.Same(t, img1, img2, "second load is served from the cache")
	assert.Equal(t, 1, cache.Len())
}

func TestImageCache_LoadErrors(t *testing.T) {
	cache := NewImageCache()

	_, err := cache.Load("/nonexistent/path/to/image.png")
	assert.ErrorContains(t, err, "failed to open image")

	path := filepath.Join(t.TempDir(), "invalid.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0o600))
	_, err = cache.Load(path)
	assert.ErrorContains(t, err, "failed to decode image")

	assert.Zero(t, cache.Len(), "failures are not cached")
}

func TestImageCache_ClearAndEvict(t *testing.T) {
	cache := NewImageCache()
	a := writePNG(t, uniform(10, 10, color.White))
	b := writePNG(t, uniform(20, 20, color.Black))

	_, err := cache.Load(a)
	require.NoError(t, err)
	_, err = cache.Load(b)
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	cache.Evict(a)
	assert.Equal(t, 1, cache.Len())
	cache.Evict("/nonexistent/path")
	assert.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Zero(t, cache.Len())
}

func TestImageCache_ConcurrentAccess(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, uniform(50, 50, color.Gray{Y: 128}))

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load error: %v", err)
	}
	assert.Equal(t, 1, cache.Len())
}

func TestLoadImageInfo(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, uniform(200, 150, color.RGBA{255, 128, 64, 255}))

	info, err := LoadImageInfo(cache, path)
	require.NoError(t, err)

	assert.Equal(t, 200, info.Width)
	assert.Equal(t, 150, info.Height)
	assert.Equal(t, "png", info.Format)
	assert.False(t, info.Grayscale)
	assert.Positive(t, info.FileSizeBytes)
}

func TestLoadImageInfo_Formats(t *testing.T) {
	img := uniform(16, 12, color.RGBA{40, 80, 120, 255})
	jpegEncode := func(w io.Writer, m image.Image) error { return jpeg.Encode(w, m, nil) }

	tests := []struct {
		name   string
		file   string
		encode func(io.Writer, image.Image) error
		format string
	}{
		{"png", "board.png", png.Encode, "png"},
		{"jpeg", "board.jpg", jpegEncode, "jpeg"},
		{"bmp", "board.bmp", bmp.Encode, "bmp"},
		{"tiff", "board.tif", func(w io.Writer, m image.Image) error { return tiff.Encode(w, m, nil) }, "tiff"},
		{"content wins over extension", "board.xyz", png.Encode, "png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeImage(t, tt.file, img, tt.encode)

			info, err := LoadImageInfo(NewImageCache(), path)
			require.NoError(t, err)
			assert.Equal(t, tt.format, info.Format)
			assert.Equal(t, 16, info.Width)
			assert.Equal(t, 12, info.Height)
		})
	}
}

func TestLoadImageInfo_Grayscale(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 8, 8))
	path := writePNG(t, gray)

	info, err := LoadImageInfo(NewImageCache(), path)
	require.NoError(t, err)
	assert.True(t, info.Grayscale)
}

func TestGetDimensions(t *testing.T) {
	cache := NewImageCache()
	path := writePNG(t, uniform(300, 200, color.White))

	dims, err := GetDimensions(cache, path)
	require.NoError(t, err)
	assert.Equal(t, &DimensionsResult{Width: 300, Height: 200}, dims)

	_, err = GetDimensions(cache, "/nonexistent/image.png")
	assert.Error(t, err)
}
