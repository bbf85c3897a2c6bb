// Package frame holds the in-memory image representation consumed by the
// spectral pipeline.
//
// A Frame stores interleaved linear-light RGB samples as float64. Callers
// that decode images convert once with FromImage, which removes the sRGB
// transfer curve so that averaging and luminance are computed on linear
// values. The package never decodes files itself.
package frame
