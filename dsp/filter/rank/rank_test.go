package rank

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/internal/testutil"
)

func bruteForce(x []float64, window int, stat func([]float64) float64) []float64 {
	half := window / 2
	out := make([]float64, len(x))
	for i := range x {
		lo, hi := bounds(i, half, len(x))
		out[i] = stat(x[lo : hi+1])
	}
	return out
}

func minOf(s []float64) float64 {
	m := math.Inf(1)
	for _, v := range s {
		m = math.Min(m, v)
	}
	return m
}

func TestMedianRemovesSpike(t *testing.T) {
	x := []float64{1, 1, 1, 9, 1, 1, 1}
	y, err := Median(x, 3)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireClose(t, y, testutil.Constant(1, 7), 0)
}

func TestMedianShrinkingEdges(t *testing.T) {
	x := []float64{5, 1, 3, 2, 4}
	y, err := Median(x, 5)
	if err != nil {
		t.Fatal(err)
	}
	// Windows: [5 1 3] [5 1 3 2] [5 1 3 2 4] [1 3 2 4] [3 2 4]
	want := []float64{3, 2.5, 3, 2.5, 3}
	testutil.RequireClose(t, y, want, 1e-12)
}

func TestMatchesBruteForce(t *testing.T) {
	x := testutil.UniformNoise(11, 1, 97)
	// Duplicate values exercise removal of equal keys.
	x[10], x[11], x[12] = 0.25, 0.25, 0.25

	for _, window := range []int{1, 3, 9, 31, 201} {
		gotMed, err := Median(x, window)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireClose(t, gotMed, bruteForce(x, window, core.Median), 1e-12)

		gotMin, err := Min(x, window)
		if err != nil {
			t.Fatal(err)
		}
		testutil.RequireClose(t, gotMin, bruteForce(x, window, minOf), 0)

		gotP, err := Percentile(x, window, 10)
		if err != nil {
			t.Fatal(err)
		}
		p10 := func(s []float64) float64 { return core.Percentile(s, 10) }
		testutil.RequireClose(t, gotP, bruteForce(x, window, p10), 1e-12)
	}
}

func TestMinTracksBaseline(t *testing.T) {
	x := testutil.Ramp(100, 2, 0.01)
	testutil.AddInto(x, testutil.GaussianBump(100, 50, 2, 5, 0))

	y, err := Min(x, 21)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range y {
		if v > x[i] {
			t.Fatalf("min[%d] = %v exceeds input %v", i, v, x[i])
		}
	}
	if y[50] > 2.5 {
		t.Fatalf("min under peak = %v, want near baseline", y[50])
	}
}

func TestInvalidArguments(t *testing.T) {
	x := []float64{1, 2, 3}
	if _, err := Median(x, 4); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
	if _, err := Min(x, 0); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("err = %v, want ErrInvalidWindow", err)
	}
	if _, err := Percentile(x, 3, 101); !errors.Is(err, ErrInvalidPercentile) {
		t.Fatalf("err = %v, want ErrInvalidPercentile", err)
	}
}

func TestEmptyInput(t *testing.T) {
	y, err := Min(nil, 3)
	if err != nil || len(y) != 0 {
		t.Fatalf("Min(nil) = %v, %v", y, err)
	}
	y, err = Median(nil, 3)
	if err != nil || len(y) != 0 {
		t.Fatalf("Median(nil) = %v, %v", y, err)
	}
}

func TestPercentileRejectsNonFinite(t *testing.T) {
	for _, bad := range []float64{math.NaN(), math.Inf(1)} {
		x := []float64{1, 2, bad, 4, 5, 6, 7}
		if _, err := Median(x, 3); !errors.Is(err, ErrNonFinite) {
			t.Fatalf("Median(%v) err = %v, want ErrNonFinite", bad, err)
		}
	}
}
