// Package conv provides the convolution primitives behind profile smoothing.
//
// Two strategies are offered:
//
//   - Direct convolution: O(N*M) sliding dot products, best for short kernels
//   - Overlap-add (OLA): FFT-based block convolution for long kernels
//
// [Convolve] selects between them based on kernel length. [Filter] wraps
// either path with edge extension so a smoothing kernel produces an output of
// the same length as its input without darkening the profile ends.
//
// # Usage
//
//	full, err := conv.Convolve(signal, kernel)           // len(signal)+len(kernel)-1
//	same, err := conv.Filter(signal, kernel, conv.EdgeReflect)
//
// For repeated convolution with the same kernel, create a reusable convolver:
//
//	oa, err := conv.NewOverlapAdd(kernel, 0)
//	result, err := oa.Process(signal)
package conv
