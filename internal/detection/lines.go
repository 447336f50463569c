package detection

import (
	"image"
	"math"
	"sort"

	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// DefaultAngleSteps samples line orientations every degree.
const DefaultAngleSteps = 180

// peakRadius is the half size of the window a peak must dominate.
const peakRadius = 2

// Peak is an accumulator maximum: a line and the number of ink pixels on it.
type Peak struct {
	Line  geometry.Line `json:"line"`
	Votes int           `json:"votes"`
}

// Hough detects straight lines in binary images with the standard Hough
// transform over (r, θ), θ in [0, π).
type Hough struct {
	// Threshold is the minimum number of votes for a peak. Zero means a
	// quarter of the shorter image side.
	Threshold int

	// AngleSteps is the number of θ bins. Zero means DefaultAngleSteps.
	AngleSteps int
}

// NewHough returns a detector with the given vote threshold.
func NewHough(threshold int) *Hough {
	return &Hough{Threshold: threshold, AngleSteps: DefaultAngleSteps}
}

// DetectLines returns at most maxCount lines, most votes first. It
// implements grid.LineSource.
func (h *Hough) DetectLines(bin *image.Gray, maxCount int) []geometry.Line {
	peaks := h.Peaks(bin)
	if maxCount >= 0 && len(peaks) > maxCount {
		peaks = peaks[:maxCount]
	}

	lines := make([]geometry.Line, len(peaks))
	for i, p := range peaks {
		lines[i] = p.Line
	}
	return lines
}

// Peaks returns every local accumulator maximum at or above the threshold,
// sorted by votes. Equal votes keep accumulator order, so the output is
// deterministic. Pixels of 128 or more are ink. Line coordinates are
// relative to bin.Bounds().Min.
func (h *Hough) Peaks(bin *image.Gray) []Peak {
	bounds := bin.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	numAngles := h.AngleSteps
	if numAngles <= 0 {
		numAngles = DefaultAngleSteps
	}
	threshold := h.Threshold
	if threshold <= 0 {
		threshold = min(width, height) / 4
	}

	cosT := make([]float64, numAngles)
	sinT := make([]float64, numAngles)
	for t := range cosT {
		angle := float64(t) * math.Pi / float64(numAngles)
		cosT[t] = math.Cos(angle)
		sinT[t] = math.Sin(angle)
	}

	// Rows are r + maxDist, so negative distances fit.
	maxDist := int(math.Ceil(math.Hypot(float64(width), float64(height))))
	numRho := 2*maxDist + 1
	acc := make([]int, numRho*numAngles)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if bin.GrayAt(x+bounds.Min.X, y+bounds.Min.Y).Y < 128 {
				continue
			}
			for t := 0; t < numAngles; t++ {
				rho := int(math.Round(float64(x)*cosT[t]+float64(y)*sinT[t])) + maxDist
				acc[rho*numAngles+t]++
			}
		}
	}

	// votesAt reads the accumulator with θ wrapping around π, where the
	// line (r, θ) becomes (-r, θ-π).
	votesAt := func(r, t int) int {
		if t < 0 {
			t += numAngles
			r = 2*maxDist - r
		} else if t >= numAngles {
			t -= numAngles
			r = 2*maxDist - r
		}
		if r < 0 || r >= numRho {
			return 0
		}
		return acc[r*numAngles+t]
	}

	var peaks []Peak
	for r := 0; r < numRho; r++ {
		for t := 0; t < numAngles; t++ {
			votes := acc[r*numAngles+t]
			if votes < threshold || !isLocalMax(votesAt, r, t, votes) {
				continue
			}
			peaks = append(peaks, Peak{
				Line: geometry.Line{
					Distance: float64(r - maxDist),
					Angle:    float64(t) * math.Pi / float64(numAngles),
				},
				Votes: votes,
			})
		}
	}

	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].Votes > peaks[j].Votes
	})
	return peaks
}

// isLocalMax reports whether no cell in the surrounding window has more
// votes. Plateaus yield one peak per cell.
func isLocalMax(votesAt func(r, t int) int, r, t, votes int) bool {
	for dr := -peakRadius; dr <= peakRadius; dr++ {
		for dt := -peakRadius; dt <= peakRadius; dt++ {
			if dr == 0 && dt == 0 {
				continue
			}
			if votesAt(r+dr, t+dt) > votes {
				return false
			}
		}
	}
	return true
}
