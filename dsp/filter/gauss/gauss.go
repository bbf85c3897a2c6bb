// Package gauss provides Gaussian smoothing for one-dimensional signals.
package gauss

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectro/dsp/conv"
)

// DefaultTruncate is the kernel radius in units of sigma.
const DefaultTruncate = 4.0

// ErrInvalidSigma is returned for non-positive or non-finite sigma.
var ErrInvalidSigma = errors.New("gauss: sigma must be positive and finite")

// Kernel returns a normalized, symmetric Gaussian kernel with standard
// deviation sigma (in samples). The radius is ceil(truncate*sigma), so the
// kernel length is always odd. A truncate <= 0 selects DefaultTruncate.
func Kernel(sigma, truncate float64) ([]float64, error) {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSigma, sigma)
	}
	if truncate <= 0 {
		truncate = DefaultTruncate
	}

	radius := int(math.Ceil(truncate * sigma))
	k := make([]float64, 2*radius+1)

	var sum float64
	for i := range k {
		d := float64(i - radius)
		k[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += k[i]
	}
	for i := range k {
		k[i] /= sum
	}
	return k, nil
}

// Smooth convolves x with a Gaussian kernel of the given sigma using
// reflected edges. The result has the same length as x.
func Smooth(x []float64, sigma float64) ([]float64, error) {
	k, err := Kernel(sigma, DefaultTruncate)
	if err != nil {
		return nil, err
	}
	return conv.Filter(x, k, conv.EdgeReflect)
}
