package rank

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/cwbudde/algo-spectro/dsp/core"
)

// Errors returned by the filters.
var (
	ErrInvalidWindow     = errors.New("rank: window must be odd and >= 1")
	ErrInvalidPercentile = errors.New("rank: percentile must be in [0, 100]")
	ErrNonFinite         = errors.New("rank: input contains NaN or Inf")
)

func checkWindow(window int) error {
	if window < 1 || window%2 == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	return nil
}

// bounds returns the inclusive window [lo, hi] for index i.
func bounds(i, half, n int) (lo, hi int) {
	return core.ClampInt(i-half, 0, n-1), core.ClampInt(i+half, 0, n-1)
}

// Median returns the running median of x over a centred window.
func Median(x []float64, window int) ([]float64, error) {
	return Percentile(x, window, 50)
}

// Percentile returns the running p-th percentile (linear interpolation
// between order statistics) of x over a centred window. x must be finite.
func Percentile(x []float64, window int, p float64) ([]float64, error) {
	if err := checkWindow(window); err != nil {
		return nil, err
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPercentile, p)
	}
	if !core.AllFinite(x) {
		return nil, ErrNonFinite
	}

	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	half := window / 2
	sorted := make([]float64, 0, window)

	// Window of index 0 is [0, half].
	curLo, curHi := 0, -1
	for i := 0; i < n; i++ {
		lo, hi := bounds(i, half, n)
		for curHi < hi {
			curHi++
			sorted = insertSorted(sorted, x[curHi])
		}
		for curLo < lo {
			sorted = removeSorted(sorted, x[curLo])
			curLo++
		}
		out[i] = core.PercentileSorted(sorted, p)
	}
	return out, nil
}

func insertSorted(s []float64, v float64) []float64 {
	idx := sort.SearchFloat64s(s, v)
	return slices.Insert(s, idx, v)
}

func removeSorted(s []float64, v float64) []float64 {
	idx := sort.SearchFloat64s(s, v)
	if idx < len(s) && s[idx] == v {
		return slices.Delete(s, idx, idx+1)
	}
	return s
}

// Min returns the running minimum of x over a centred window. It runs in
// O(n) using a monotonic deque of candidate indices.
func Min(x []float64, window int) ([]float64, error) {
	if err := checkWindow(window); err != nil {
		return nil, err
	}

	n := len(x)
	out := make([]float64, n)
	if n == 0 {
		return out, nil
	}

	half := window / 2
	deque := make([]int, 0, window)
	head := 0
	next := 0

	for i := 0; i < n; i++ {
		lo, hi := bounds(i, half, n)
		for next <= hi {
			for len(deque) > head && x[deque[len(deque)-1]] >= x[next] {
				deque = deque[:len(deque)-1]
			}
			deque = append(deque, next)
			next++
		}
		for deque[head] < lo {
			head++
		}
		out[i] = x[deque[head]]

		// Compact so the backing array stays bounded.
		if head > window {
			deque = append(deque[:0], deque[head:]...)
			head = 0
		}
	}
	return out, nil
}
