// Package imaging provides the pixel-level collaborators of the grid
// detector: loading and caching source images, binarization by edge
// detection, rasterizing grid lines into masks and measuring the ink under
// them, drawing detected grids, straightening a board with a perspective
// warp and cutting out its cells.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based with the origin at the
// top-left corner, X increasing rightward and Y increasing downward.
// Geometric points (geometry.Point) are continuous: Point{x, y} is the
// center of pixel (x, y), the convention the Hough detector votes in.
//
// # Binary Images
//
// Binary images are *image.Gray where ink is 255 and background is 0. Any
// value of 128 or more is read as ink.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Other operations are
// stateless and never modify their inputs.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid
// redundant disk reads. Large images may consume significant memory when
// cached; use Evict() or Clear() in long-running processes.
package imaging
