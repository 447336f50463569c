// Package detection turns a photograph into the straight lines the grid
// search works on.
//
// # Preprocessing
//
// Prepare converts an image to a binary one where ink is 255:
//
//  1. Downscale so the longest side fits the configured maximum
//  2. Convert to grayscale
//  3. Adaptive threshold against a box-blurred local mean
//  4. Drop large dark blobs (shadows, printed backgrounds) that are
//     darker than their surroundings by a wide margin
//
// With the "canny" mode the thresholding steps are replaced by a Canny edge
// map, which suits boards printed on colored paper.
//
// # Line Detection
//
// Hough votes every ink pixel into a (rho, theta) accumulator with one
// degree angle bins and one pixel distance bins. Peaks are the accumulator
// cells above the vote threshold that are maximal in their 5x5
// neighbourhood, with the theta axis wrapping from 180 degrees back to 0 at
// negated distance.
//
// # Coordinate System
//
// Lines use geometry.Line: the distance of the line from the top-left
// corner and the angle of its normal, in [0, pi). Point{x, y} is the center
// of pixel (x, y).
package detection
