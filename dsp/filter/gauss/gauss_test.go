package gauss

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/internal/testutil"
)

func TestKernelNormalizedAndSymmetric(t *testing.T) {
	for _, sigma := range []float64{0.5, 1, 2, 7.3} {
		k, err := Kernel(sigma, 0)
		if err != nil {
			t.Fatal(err)
		}
		if len(k)%2 != 1 {
			t.Fatalf("sigma %v: len = %d, want odd", sigma, len(k))
		}
		wantRadius := int(math.Ceil(DefaultTruncate * sigma))
		if len(k) != 2*wantRadius+1 {
			t.Fatalf("sigma %v: len = %d, want %d", sigma, len(k), 2*wantRadius+1)
		}

		var sum float64
		for i, v := range k {
			sum += v
			if !core.NearlyEqual(v, k[len(k)-1-i], 1e-15) {
				t.Fatalf("sigma %v: kernel not symmetric at %d", sigma, i)
			}
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("sigma %v: sum = %v, want 1", sigma, sum)
		}
	}
}

func TestKernelInvalidSigma(t *testing.T) {
	for _, sigma := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		if _, err := Kernel(sigma, 0); !errors.Is(err, ErrInvalidSigma) {
			t.Fatalf("sigma %v: err = %v, want ErrInvalidSigma", sigma, err)
		}
	}
}

func TestSmoothPreservesConstant(t *testing.T) {
	x := testutil.Constant(3.5, 50)
	y, err := Smooth(x, 2)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireClose(t, y, x, 1e-12)
}

func TestSmoothKeepsPeakPosition(t *testing.T) {
	x := testutil.GaussianBump(120, 60, 4, 1, 0.1)
	y, err := Smooth(x, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(y) != len(x) {
		t.Fatalf("len = %d, want %d", len(y), len(x))
	}
	idx, v := core.ArgMax(y)
	if idx != 60 {
		t.Fatalf("peak index = %d, want 60", idx)
	}
	if v >= 1.1 {
		t.Fatalf("peak height %v not attenuated", v)
	}
}

func TestSmoothLongKernel(t *testing.T) {
	// sigma 20 gives a 161-tap kernel, which takes the FFT convolution path.
	x := testutil.GaussianBump(400, 200, 30, 1, 0)
	y, err := Smooth(x, 20)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireFinite(t, y)
	idx, _ := core.ArgMax(y)
	if idx != 200 {
		t.Fatalf("peak index = %d, want 200", idx)
	}
}
