package grid

import (
	"context"
	"image"
	"log"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/sudoku-grid-mcp/internal/config"
	"github.com/ironsheep/sudoku-grid-mcp/internal/geometry"
)

// LineSource detects straight lines in a binary image. Lines must be
// returned strongest first and at most maxCount of them.
type LineSource interface {
	DetectLines(bin *image.Gray, maxCount int) []geometry.Line
}

// Finder searches binary images for a 9x9 grid. A Finder is safe for
// concurrent use.
type Finder struct {
	source  LineSource
	params  config.Params
	logger  *log.Logger
	buckets []Bucket
	angles  *angleCache
}

// NewFinder returns a Finder that takes its lines from source. logger may be
// nil to disable debug traces.
func NewFinder(source LineSource, params config.Params, logger *log.Logger) *Finder {
	return &Finder{
		source:  source,
		params:  params,
		logger:  logger,
		buckets: GenerateBuckets(params.Bucket.WindowDeg, params.Bucket.StepDeg, params.Bucket.Orthogonal),
		angles:  newAngleCache(params.Dedupe.MinAngleDeg),
	}
}

func (f *Finder) debugf(format string, args ...interface{}) {
	if f.logger != nil {
		f.logger.Printf(format, args...)
	}
}

// Find returns the best grid in bin, where ink is 255, or nil when the
// image holds no recognizable grid. The only errors are context errors.
func (f *Finder) Find(ctx context.Context, bin *image.Gray) (*Result, error) {
	lines := f.source.DetectLines(bin, f.params.MaxLines)
	return f.FindLines(ctx, bin, lines)
}

// FindLines runs the search on lines already detected in bin.
func (f *Finder) FindLines(ctx context.Context, bin *image.Gray, lines []geometry.Line) (*Result, error) {
	b := bin.Bounds()
	view := View{Width: b.Dx(), Height: b.Dy(), Padding: f.params.Dedupe.ViewPadding}

	lines = dedupe(lines, view.Width, view.Height, DedupeOptions{
		MinAngleDeg: f.params.Dedupe.MinAngleDeg,
		MinDistance: f.params.Dedupe.MinDistance,
		Padding:     f.params.Dedupe.ViewPadding,
	}, f.angles)

	var clusters []Cluster
	for _, c := range AssignBuckets(f.buckets, lines) {
		if len(c.Lines) < f.params.Bucket.MinClusterLines {
			continue
		}
		clusters = append(clusters, c)
	}
	f.debugf("%d lines after dedupe, %d clusters to search", len(lines), len(clusters))
	if len(clusters) == 0 {
		return nil, ctx.Err()
	}

	results := make([]*Result, len(clusters))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.params.WorkerCount())

	for i, c := range clusters {
		i, c := i, c
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = f.searchCluster(bin, c, view)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Clusters are already ordered richest first, so folding in slot order
	// keeps the earlier cluster on ties.
	var best *Result
	for _, r := range results {
		best = better(best, r)
	}
	return best, nil
}

func (f *Finder) searchCluster(bin *image.Gray, c Cluster, view View) *Result {
	p := f.params.Search
	similar, other := SplitByAngle(c.Lines, c.Center*math.Pi/180, p.SplitTolerance)
	if len(similar) < p.MinFamilyLines || len(other) < p.MinFamilyLines {
		f.debugf("cluster %.1f°: families of %d and %d lines, skipped", c.Center, len(similar), len(other))
		return nil
	}

	horizontal, vertical := similar, other
	if horizontalness(other) < horizontalness(similar) {
		horizontal, vertical = other, similar
	}

	hSets := AlignFamily(horizontal, vertical, view, p.MaxDeviation, p.TopLineSets)
	vSets := AlignFamily(vertical, horizontal, view, p.MaxDeviation, p.TopLineSets)
	f.debugf("cluster %.1f°: %d horizontal and %d vertical line sets", c.Center, len(hSets), len(vSets))

	r := Evaluate(bin, hSets, vSets, f.params.Score.StrokeWidth)
	if r == nil {
		return nil
	}
	r.Cluster = c.Center
	f.debugf("cluster %.1f°: score %.4f (coverage %.3f)", c.Center, r.Score, r.Coverage)
	return r
}
