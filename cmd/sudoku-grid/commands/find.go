package commands

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/ironsheep/sudoku-grid-mcp/internal/grid"
	imgops "github.com/ironsheep/sudoku-grid-mcp/internal/imaging"
	"github.com/ironsheep/sudoku-grid-mcp/internal/pipeline"
)

type findOptions struct {
	outDir    string
	boardSize int
	color     string
}

func findCmd() *cobra.Command {
	var opts findOptions

	cmd := &cobra.Command{
		Use:   "find [files or globs...]",
		Short: "Locate grids in image files",
		Long: `Locate the 9x9 grid in each image and print its score and corners.

With --out, an overlay of the detected grid is written for every image as
<name>_grid.png, and with --board-size also the straightened board as
<name>_board.png.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args)
			if err != nil {
				return err
			}
			if opts.outDir != "" {
				if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
					return fmt.Errorf("failed to create output directory: %w", err)
				}
			}

			det := pipeline.NewDetector(params, debugLog)
			out := cmd.OutOrStdout()
			failed := 0
			for _, f := range files {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				if err := findOne(cmd, det, f, opts, out); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f, err)
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d images failed", failed, len(files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "", "directory to write overlay images to")
	cmd.Flags().IntVar(&opts.boardSize, "board-size", 0, "also write the straightened board at this size (requires --out)")
	cmd.Flags().StringVar(&opts.color, "color", imgops.DefaultOverlayColor, "overlay line color")
	return cmd
}

// expandArgs resolves glob patterns, keeping plain paths as given so a
// missing file is reported by the loader.
func expandArgs(args []string) ([]string, error) {
	var files []string
	for _, a := range args {
		if !strings.ContainsAny(a, "*?[") {
			files = append(files, a)
			continue
		}
		matches, err := filepath.Glob(a)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", a, err)
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, errors.New("no input files")
	}
	return files, nil
}

// openImage decodes path and applies its EXIF orientation, so photos taken
// with a rotated camera are searched upright.
func openImage(path string) (image.Image, error) {
	return imaging.Open(path, imaging.AutoOrientation(true))
}

func findOne(cmd *cobra.Command, det *pipeline.Detector, path string, opts findOptions, out io.Writer) error {
	img, err := openImage(path)
	if err != nil {
		return err
	}

	found, err := det.Detect(cmd.Context(), img)
	if errors.Is(err, grid.ErrNoGrid) {
		fmt.Fprintf(out, "%s: no grid found\n", path)
		return nil
	}
	if err != nil {
		return err
	}

	c := found.Corners
	fmt.Fprintf(out, "%s: score %.4f coverage %.3f corners (%.0f,%.0f) (%.0f,%.0f) (%.0f,%.0f) (%.0f,%.0f)\n",
		path, found.Score, found.Coverage, c[0].X, c[0].Y, c[1].X, c[1].Y, c[2].X, c[2].Y, c[3].X, c[3].Y)

	if opts.outDir == "" {
		return nil
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	overlay, err := found.Overlay(img, imgops.OverlayOptions{
		Color: opts.color,
		Label: fmt.Sprintf("score %.3f", found.Score),
	})
	if err != nil {
		return err
	}
	if err := imaging.Save(overlay, filepath.Join(opts.outDir, base+"_grid.png")); err != nil {
		return fmt.Errorf("failed to save overlay: %w", err)
	}

	if opts.boardSize > 0 {
		board, err := found.Board(img, opts.boardSize)
		if err != nil {
			return err
		}
		if err := imaging.Save(board, filepath.Join(opts.outDir, base+"_board.png")); err != nil {
			return fmt.Errorf("failed to save board: %w", err)
		}
	}
	return nil
}
