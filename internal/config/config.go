// Package config holds the tunable parameters of the grid search and the
// preprocessing that feeds it.
//
// Defaults reproduce the values the detector was tuned with. A YAML file can
// override any subset of them:
//
//	max_lines: 150
//	bucket:
//	  window_deg: 18
//	  step_deg: 9
//
// Fields missing from the file keep their default.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Binarization modes.
const (
	BinarizeAdaptive = "adaptive"
	BinarizeCanny    = "canny"
)

// Params configures one run of the grid finder.
type Params struct {
	// MaxLines caps the number of Hough lines handed to the search.
	MaxLines int `yaml:"max_lines"`

	// VoteThreshold is the minimum accumulator count for a Hough peak.
	// Zero means a quarter of the shorter image side.
	VoteThreshold int `yaml:"vote_threshold"`

	Dedupe  DedupeParams  `yaml:"dedupe"`
	Bucket  BucketParams  `yaml:"bucket"`
	Search  SearchParams  `yaml:"search"`
	Score   ScoreParams   `yaml:"score"`
	Prepare PrepareParams `yaml:"prepare"`

	// Workers bounds the number of clusters searched concurrently.
	// Zero means GOMAXPROCS.
	Workers int `yaml:"workers"`
}

// DedupeParams controls near-duplicate line removal.
type DedupeParams struct {
	MinAngleDeg float64 `yaml:"min_angle_deg"`
	MinDistance float64 `yaml:"min_distance"`
	ViewPadding float64 `yaml:"view_padding"`
}

// BucketParams controls angular clustering.
type BucketParams struct {
	WindowDeg       float64 `yaml:"window_deg"`
	StepDeg         float64 `yaml:"step_deg"`
	Orthogonal      bool    `yaml:"orthogonal"`
	MinClusterLines int     `yaml:"min_cluster_lines"`
}

// SearchParams controls the family split and the evenly spaced subset search.
type SearchParams struct {
	SplitTolerance float64 `yaml:"split_tolerance"` // radians
	MinFamilyLines int     `yaml:"min_family_lines"`
	MaxDeviation   float64 `yaml:"max_deviation"`
	TopLineSets    int     `yaml:"top_line_sets"`
}

// ScoreParams controls the ink coverage scorer.
type ScoreParams struct {
	StrokeWidth float64 `yaml:"stroke_width"`
}

// PrepareParams controls how a photograph becomes a binary image.
type PrepareParams struct {
	Mode         string `yaml:"mode"`
	MaxImageSize int    `yaml:"max_image_size"`
	CannyLow     int    `yaml:"canny_low"`
	CannyHigh    int    `yaml:"canny_high"`
}

// Default returns the parameters the detector was tuned with.
func Default() Params {
	return Params{
		MaxLines: 100,
		Dedupe: DedupeParams{
			MinAngleDeg: 15,
			MinDistance: 3,
			ViewPadding: 0.5,
		},
		Bucket: BucketParams{
			WindowDeg:       18,
			StepDeg:         9,
			Orthogonal:      true,
			MinClusterLines: 20,
		},
		Search: SearchParams{
			SplitTolerance: 0.5,
			MinFamilyLines: 10,
			MaxDeviation:   0.2,
			TopLineSets:    3,
		},
		Score: ScoreParams{
			StrokeWidth: 2,
		},
		Prepare: PrepareParams{
			Mode:         BinarizeAdaptive,
			MaxImageSize: 1000,
			CannyLow:     50,
			CannyHigh:    150,
		},
	}
}

// Load reads a YAML file on top of Default. An empty path returns the
// defaults unchanged.
func Load(path string) (Params, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return p, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return p, err
	}
	return p, nil
}

// Validate rejects parameter combinations the search cannot run with.
func (p Params) Validate() error {
	switch {
	case p.MaxLines < 20:
		return fmt.Errorf("%w: max_lines must be at least 20, got %d", ErrInvalid, p.MaxLines)
	case p.Bucket.WindowDeg <= 0 || p.Bucket.WindowDeg >= 90:
		return fmt.Errorf("%w: bucket.window_deg must be in (0, 90), got %g", ErrInvalid, p.Bucket.WindowDeg)
	case p.Bucket.StepDeg <= 0:
		return fmt.Errorf("%w: bucket.step_deg must be positive, got %g", ErrInvalid, p.Bucket.StepDeg)
	case p.Search.MinFamilyLines < 10:
		return fmt.Errorf("%w: search.min_family_lines must be at least 10, got %d", ErrInvalid, p.Search.MinFamilyLines)
	case p.Search.MaxDeviation <= 0:
		return fmt.Errorf("%w: search.max_deviation must be positive", ErrInvalid)
	case p.Search.TopLineSets < 1:
		return fmt.Errorf("%w: search.top_line_sets must be at least 1", ErrInvalid)
	case p.Score.StrokeWidth <= 0:
		return fmt.Errorf("%w: score.stroke_width must be positive", ErrInvalid)
	case p.Prepare.Mode != BinarizeAdaptive && p.Prepare.Mode != BinarizeCanny:
		return fmt.Errorf("%w: unknown prepare.mode %q", ErrInvalid, p.Prepare.Mode)
	case p.Workers < 0:
		return fmt.Errorf("%w: workers must not be negative", ErrInvalid)
	}
	return nil
}

// WorkerCount resolves Workers, defaulting to GOMAXPROCS.
func (p Params) WorkerCount() int {
	if p.Workers > 0 {
		return p.Workers
	}
	return runtime.GOMAXPROCS(0)
}
