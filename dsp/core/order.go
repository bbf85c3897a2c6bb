package core

import (
	"math"
	"sort"
)

// Mean returns the arithmetic mean of data, or 0 for an empty slice.
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0
	}
	var sum float64
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// MeanStd returns the mean and population standard deviation of data.
func MeanStd(data []float64) (mean, std float64) {
	if len(data) == 0 {
		return 0, 0
	}
	mean = Mean(data)
	var ss float64
	for _, v := range data {
		d := v - mean
		ss += d * d
	}
	return mean, math.Sqrt(ss / float64(len(data)))
}

// Median returns the median of data without modifying it.
// An empty slice yields NaN.
func Median(data []float64) float64 {
	return Percentile(data, 50)
}

// Percentile returns the p-th percentile (0..100) of data using linear
// interpolation between closest ranks. data is not modified.
// An empty slice yields NaN.
func Percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return PercentileSorted(sorted, p)
}

// PercentileSorted is Percentile for input that is already sorted ascending.
func PercentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	p = Clamp(p, 0, 100)
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// ArgMax returns the index and value of the first maximum in data.
// It returns -1 for an empty slice.
func ArgMax(data []float64) (index int, value float64) {
	if len(data) == 0 {
		return -1, 0
	}
	index, value = 0, data[0]
	for i, v := range data {
		if v > value {
			index, value = i, v
		}
	}
	return index, value
}
