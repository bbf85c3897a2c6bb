package savgol

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-spectro/internal/testutil"
)

func TestDesignValidation(t *testing.T) {
	tests := []struct {
		name   string
		window int
		order  int
		want   error
	}{
		{name: "even window", window: 10, order: 2, want: ErrInvalidWindow},
		{name: "too small", window: 1, order: 0, want: ErrInvalidWindow},
		{name: "order too high", window: 5, order: 4, want: ErrInvalidOrder},
		{name: "negative order", window: 5, order: -1, want: ErrInvalidOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Design(tt.window, tt.order); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestCoefficientsKnownValues(t *testing.T) {
	// Classic 5-point quadratic smoothing coefficients: (-3, 12, 17, 12, -3)/35.
	f, err := Design(5, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-3.0 / 35, 12.0 / 35, 17.0 / 35, 12.0 / 35, -3.0 / 35}
	testutil.RequireClose(t, f.Coefficients(), want, 1e-12)
}

func TestCoefficientsSumToOne(t *testing.T) {
	for _, tc := range []struct{ w, o int }{{5, 2}, {7, 3}, {11, 3}, {21, 4}} {
		f, err := Design(tc.w, tc.o)
		if err != nil {
			t.Fatal(err)
		}
		var sum float64
		for _, c := range f.Coefficients() {
			sum += c
		}
		if math.Abs(sum-1) > 1e-12 {
			t.Fatalf("window %d order %d: sum = %v", tc.w, tc.o, sum)
		}
	}
}

func TestApplyPreservesPolynomial(t *testing.T) {
	n := 40
	x := make([]float64, n)
	for i := range x {
		v := float64(i)
		x[i] = 0.5 - 0.2*v + 0.01*v*v + 0.001*v*v*v
	}

	f, err := Design(11, 3)
	if err != nil {
		t.Fatal(err)
	}
	y, err := f.Apply(x)
	if err != nil {
		t.Fatal(err)
	}
	testutil.RequireClose(t, y, x, 1e-9)
}

func TestApplyReducesNoise(t *testing.T) {
	clean := testutil.GaussianBump(200, 100, 8, 1, 0)
	noisy := testutil.UniformNoise(3, 0.05, 200)
	testutil.AddInto(noisy, clean)

	f, err := Design(15, 3)
	if err != nil {
		t.Fatal(err)
	}
	y, err := f.Apply(noisy)
	if err != nil {
		t.Fatal(err)
	}

	before, _ := testutil.MaxDeviation(noisy, clean)
	after, _ := testutil.MaxDeviation(y, clean)
	if after >= before {
		t.Fatalf("smoothing did not reduce error: before %v after %v", before, after)
	}
}

func TestApplyTooShort(t *testing.T) {
	f, err := Design(7, 2)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.Apply([]float64{1, 2, 3}); !errors.Is(err, ErrTooShort) {
		t.Fatalf("err = %v, want ErrTooShort", err)
	}
}
