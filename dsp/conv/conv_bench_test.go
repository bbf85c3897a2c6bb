package conv

import (
	"fmt"
	"math"
	"testing"
)

// Profile-sized signals with smoothing-sized kernels.
var benchSizes = []struct {
	signal int
	kernel int
}{
	{640, 11},
	{640, 33},
	{1920, 11},
	{1920, 65},
	{1920, 201},
	{4096, 401},
}

func BenchmarkDirect(b *testing.B) {
	for _, size := range benchSizes {
		signal := makeTestSignal(size.signal)
		kernel := makeTestKernel(size.kernel)

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = Direct(signal, kernel)
			}
		})
	}
}

func BenchmarkOverlapAdd(b *testing.B) {
	for _, size := range benchSizes {
		signal := makeTestSignal(size.signal)
		kernel := makeTestKernel(size.kernel)

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = OverlapAddConvolve(signal, kernel)
			}
		})
	}
}

func BenchmarkFilter(b *testing.B) {
	for _, size := range benchSizes {
		signal := makeTestSignal(size.signal)
		kernel := makeTestKernel(size.kernel)

		b.Run(fmt.Sprintf("signal=%d_kernel=%d", size.signal, size.kernel), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = Filter(signal, kernel, EdgeReflect)
			}
		})
	}
}

func makeTestSignal(n int) []float64 {
	signal := make([]float64, n)
	for i := range signal {
		signal[i] = math.Sin(2*math.Pi*float64(i)/100) + 0.5*math.Cos(2*math.Pi*float64(i)/30)
	}
	return signal
}

// makeTestKernel returns an odd-length normalized Gaussian.
func makeTestKernel(n int) []float64 {
	if n%2 == 0 {
		n++
	}
	kernel := make([]float64, n)
	center := float64(n-1) / 2
	sigma := center / 4
	var sum float64
	for i := range kernel {
		x := (float64(i) - center) / sigma
		kernel[i] = math.Exp(-x * x / 2)
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}
