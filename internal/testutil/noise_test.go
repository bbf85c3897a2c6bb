package testutil

import (
	"math"
	"slices"
	"testing"
)

func TestUniformNoiseBoundsAndSeed(t *testing.T) {
	a := UniformNoise(42, 0.5, 1000)
	for i, v := range a {
		if v < -0.5 || v >= 0.5 {
			t.Fatalf("index %d: %v outside [-0.5, 0.5)", i, v)
		}
	}
	if !slices.Equal(a, UniformNoise(42, 0.5, 1000)) {
		t.Fatal("same seed produced different noise")
	}
	if slices.Equal(a, UniformNoise(43, 0.5, 1000)) {
		t.Fatal("different seeds produced identical noise")
	}
}

func TestGaussianNoiseMoments(t *testing.T) {
	x := GaussianNoise(7, 0.1, 20000)
	var sum, sumSq float64
	for _, v := range x {
		sum += v
		sumSq += v * v
	}
	mean := sum / float64(len(x))
	std := math.Sqrt(sumSq/float64(len(x)) - mean*mean)
	if math.Abs(mean) > 0.005 {
		t.Fatalf("mean = %v, want ~0", mean)
	}
	if math.Abs(std-0.1) > 0.005 {
		t.Fatalf("std = %v, want ~0.1", std)
	}
	if !slices.Equal(x[:10], GaussianNoise(7, 0.1, 10)) {
		t.Fatal("same seed produced different noise")
	}
}
