// Package savgol implements Savitzky-Golay smoothing filters.
//
// A Savitzky-Golay filter fits a polynomial of the given order to every
// window of samples by least squares and replaces the centre sample with the
// fitted value. Compared to a moving average it preserves the height and width
// of spectral peaks much better.
//
// The first and last window/2 samples are evaluated from a single polynomial
// fitted to the first and last full window, so the output has the same length
// as the input and polynomials up to the filter order pass through unchanged.
package savgol
