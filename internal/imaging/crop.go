package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// BoardCells is the number of cells along each side of a board.
const BoardCells = 9

// CropCell extracts cell (row, col) from a straightened square board, as
// produced by Warp. margin trims that many pixels from every side of the
// cell, negative values grow it instead. When size is positive the cell is
// resized to size x size.
func CropCell(board image.Image, row, col, margin, size int) (*image.NRGBA, error) {
	if row < 0 || row >= BoardCells || col < 0 || col >= BoardCells {
		return nil, fmt.Errorf("cell (%d,%d) outside %dx%d board", row, col, BoardCells, BoardCells)
	}

	bounds := board.Bounds()
	cellW := float64(bounds.Dx()) / BoardCells
	cellH := float64(bounds.Dy()) / BoardCells

	x1 := bounds.Min.X + int(float64(col)*cellW) + margin
	y1 := bounds.Min.Y + int(float64(row)*cellH) + margin
	x2 := bounds.Min.X + int(float64(col+1)*cellW) - margin
	y2 := bounds.Min.Y + int(float64(row+1)*cellH) - margin

	rect := image.Rect(x1, y1, x2, y2).Intersect(bounds)
	if rect.Empty() {
		return nil, fmt.Errorf("invalid crop region: margin %d leaves nothing of cell (%d,%d)", margin, row, col)
	}

	cell := imaging.Crop(board, rect)
	if size > 0 && (cell.Bounds().Dx() != size || cell.Bounds().Dy() != size) {
		cell = imaging.Resize(cell, size, size, imaging.Lanczos)
	}
	return cell, nil
}

// Downscale fits img within maxSize on its longer side, returning it
// unchanged when it already fits.
func Downscale(img image.Image, maxSize int) image.Image {
	b := img.Bounds()
	if maxSize <= 0 || (b.Dx() <= maxSize && b.Dy() <= maxSize) {
		return img
	}
	return imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)
}
