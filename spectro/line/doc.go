// Package line locates the spectrum line in a frame.
//
// A spectrum appears as a bright, roughly straight band. The Detector first
// looks for the brightest row and accepts it when it stands out clearly from
// the median row brightness. Otherwise it falls back to a luminance-weighted
// Hough accumulation over a bounded range of tilt angles. Manual builds a
// Geometry from two operator points instead.
//
// Geometries are straight segments only.
package line
