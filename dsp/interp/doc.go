// Package interp provides the interpolation primitives used by the spectral
// pipeline.
//
//   - [Parabolic]:       3-point parabolic vertex for sub-pixel peak refinement
//   - [Bilinear]:        clamp-to-edge bilinear weights on a sampled 2D grid
//   - [Linear]:          2-point linear interpolation
//   - [CrossingLinear]:  fractional position where a segment crosses a level
package interp
