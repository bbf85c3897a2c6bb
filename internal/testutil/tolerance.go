package testutil

import (
	"fmt"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectro/dsp/core"
)

// RequireClose fails t unless got and want have the same length and every
// pair differs by at most eps.
func RequireClose(t *testing.T, got, want []float64, eps float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %d, want %d", len(got), len(want))
	}
	for i := range got {
		if diff := math.Abs(got[i] - want[i]); !(diff <= eps) {
			t.Fatalf("sample %d: got %v, want %v (diff %v > %v)", i, got[i], want[i], diff, eps)
		}
	}
}

// RequireFinite fails t at the first NaN or Inf sample.
func RequireFinite(t *testing.T, data []float64) {
	t.Helper()
	if core.AllFinite(data) {
		return
	}
	for i, v := range data {
		if !core.IsFinite(v) {
			t.Fatalf("sample %d: non-finite value %v", i, v)
		}
	}
}

// MaxDeviation returns the largest absolute difference between a and b.
func MaxDeviation(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("length mismatch: %d vs %d", len(a), len(b))
	}
	var worst float64
	for i := range a {
		worst = math.Max(worst, math.Abs(a[i]-b[i]))
	}
	return worst, nil
}
