// Package grid locates a 9x9 grid in a binary image from its straight lines.
//
// The search runs in stages, each a plain function over polar lines:
//
//   - Dedupe drops repeated detections of the same stroke.
//   - GenerateBuckets and AssignBuckets cluster lines into overlapping
//     angular windows, each holding one orientation and its perpendicular.
//   - SplitByAngle separates a cluster into its two line families.
//   - AlignFamily finds the ten lines of a family that cross the other
//     family at the most evenly spaced positions.
//   - Evaluate traces every combination of aligned sets over the image and
//     keeps the one whose lines run along the most ink.
//
// Finder wires the stages together and searches clusters concurrently.
// Finding no grid is a normal outcome and is reported as a nil Result.
package grid
