package conv

import "fmt"

// Edge selects how a signal is extended beyond its ends before filtering.
type Edge int

const (
	// EdgeReflect mirrors about the end samples (d c b | a b c d | c b a).
	EdgeReflect Edge = iota

	// EdgeNearest repeats the end samples (a a a | a b c d | d d d).
	EdgeNearest

	// EdgeZero pads with zeros.
	EdgeZero
)

// String returns the edge mode name.
func (e Edge) String() string {
	switch e {
	case EdgeReflect:
		return "reflect"
	case EdgeNearest:
		return "nearest"
	case EdgeZero:
		return "zero"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// Extend returns a copy of x with left samples prepended and right samples
// appended according to edge.
func Extend(x []float64, left, right int, edge Edge) []float64 {
	n := len(x)
	if left < 0 {
		left = 0
	}
	if right < 0 {
		right = 0
	}

	out := make([]float64, left+n+right)
	copy(out[left:], x)
	if n == 0 {
		return out
	}

	for i := 0; i < left; i++ {
		out[i] = sampleAt(x, i-left, edge)
	}
	for i := 0; i < right; i++ {
		out[left+n+i] = sampleAt(x, n+i, edge)
	}
	return out
}

// sampleAt returns x[i] with out-of-range indices resolved by edge.
func sampleAt(x []float64, i int, edge Edge) float64 {
	n := len(x)
	if i >= 0 && i < n {
		return x[i]
	}

	switch edge {
	case EdgeZero:
		return 0
	case EdgeNearest:
		if i < 0 {
			return x[0]
		}
		return x[n-1]
	default:
		if n == 1 {
			return x[0]
		}
		period := 2 * (n - 1)
		i %= period
		if i < 0 {
			i += period
		}
		if i >= n {
			i = period - i
		}
		return x[i]
	}
}

// Filter convolves x with an odd-length kernel centred on each sample and
// returns a result of len(x) samples. The signal is extended by edge before
// convolution so that the ends see a full kernel.
func Filter(x, kernel []float64, edge Edge) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}
	if len(kernel)%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrEvenKernel, len(kernel))
	}

	half := len(kernel) / 2
	padded := Extend(x, half, half, edge)

	full, err := Convolve(padded, kernel)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(x))
	copy(out, full[2*half:2*half+len(x)])
	return out, nil
}
