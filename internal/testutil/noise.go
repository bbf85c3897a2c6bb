package testutil

import (
	"math/rand"
	randv2 "math/rand/v2"
)

// UniformNoise returns n samples drawn uniformly from [-amplitude, amplitude)
// with a fixed seed.
func UniformNoise(seed int64, amplitude float64, n int) []float64 {
	out := make([]float64, n)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// GaussianNoise returns n zero-mean normal samples with standard deviation
// sigma, reproducible for a given seed.
func GaussianNoise(seed uint64, sigma float64, n int) []float64 {
	out := make([]float64, n)
	rng := randv2.New(randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range out {
		out[i] = sigma * rng.NormFloat64()
	}
	return out
}
