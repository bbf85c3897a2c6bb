package calibration

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectro/spectro/profile"
)

var fixedTime = time.Date(2026, 3, 14, 15, 9, 26, 535897932, time.UTC)

func clock() time.Time { return fixedTime }

func threeLines() []Point {
	return []Point{
		{Pixel: 100, Wavelength: 405.0, Label: "Hg 405"},
		{Pixel: 300, Wavelength: 532.0, Label: "laser"},
		{Pixel: 500, Wavelength: 650.0},
	}
}

func TestEndToEndQuadratic(t *testing.T) {
	m, err := Fit(threeLines(), 2, WithClock(clock))
	require.NoError(t, err)

	require.Equal(t, 2, m.Order())
	require.InDelta(t, 532.0, m.Apply(300), 1e-6)
	require.InDelta(t, 405.0, m.Apply(100), 1e-6)
	require.InDelta(t, 650.0, m.Apply(500), 1e-6)

	metrics := m.Metrics()
	require.InDelta(t, 1.0, metrics.R2, 1e-12)
	require.InDelta(t, 0.0, metrics.RMSE, 1e-9)
	require.InDelta(t, 0.0, metrics.MaxError, 1e-9)
	require.Len(t, metrics.Residuals, 3)

	lo, hi := m.Domain()
	require.Equal(t, 100.0, lo)
	require.Equal(t, 500.0, hi)
	require.Empty(t, m.Warnings())
	require.Equal(t, fixedTime, m.CreatedAt())
	require.Equal(t, "Hg 405", m.Points()[0].Label)
}

func TestExactInterpolationAllOrders(t *testing.T) {
	truth := func(x float64) float64 { return 380 + 0.45*x - 2e-5*x*x + 1e-9*x*x*x }
	pixels := []float64{12.5, 240, 611, 903.25}

	for order := MinOrder; order <= MaxOrder; order++ {
		points := make([]Point, order+1)
		for i := range points {
			// Spread the points across the range.
			x := pixels[i*(len(pixels)-1)/order]
			points[i] = Point{Pixel: x, Wavelength: truth(x)}
		}

		m, err := Fit(points, order)
		require.NoError(t, err, "order %d", order)
		require.InDelta(t, 1.0, m.Metrics().R2, 1e-9, "order %d", order)
		require.InDelta(t, 0.0, m.Metrics().RMSE, 1e-7, "order %d", order)
		for _, p := range points {
			require.InDelta(t, p.Wavelength, m.Apply(p.Pixel), 1e-7, "order %d", order)
		}
	}
}

func TestLeastSquaresLinear(t *testing.T) {
	points := []Point{{Pixel: 0, Wavelength: 400.1}, {Pixel: 100, Wavelength: 449.9}, {Pixel: 200, Wavelength: 500.2}, {Pixel: 300, Wavelength: 549.8}}
	m, err := Fit(points, 1)
	require.NoError(t, err)

	c := m.Coefficients()
	require.Len(t, c, 2)
	require.InDelta(t, 0.4994, c[1], 1e-4)
	require.Less(t, m.Metrics().R2, 1.0)
	require.Greater(t, m.Metrics().R2, 0.999)
	require.Greater(t, m.Metrics().RMSE, 0.0)

	var maxAbs float64
	for _, r := range m.Metrics().Residuals {
		maxAbs = math.Max(maxAbs, math.Abs(r))
	}
	require.Equal(t, maxAbs, m.Metrics().MaxError)
}

func TestFitErrors(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		order  int
		want   error
	}{
		{name: "order zero", points: threeLines(), order: 0, want: ErrInvalidOrder},
		{name: "order four", points: threeLines(), order: 4, want: ErrInvalidOrder},
		{name: "two points order two", points: threeLines()[:2], order: 2, want: ErrInsufficientPoints},
		{name: "no points", points: nil, order: 1, want: ErrInsufficientPoints},
		{
			name:   "duplicate pixel",
			points: []Point{{Pixel: 100, Wavelength: 405}, {Pixel: 100, Wavelength: 406}, {Pixel: 500, Wavelength: 650}},
			order:  2,
			want:   ErrIllConditionedFit,
		},
		{
			name:   "duplicate pixel linear",
			points: []Point{{Pixel: 250, Wavelength: 500}, {Pixel: 250, Wavelength: 510}},
			order:  1,
			want:   ErrIllConditionedFit,
		},
		{
			name:   "near-duplicate pixel",
			points: []Point{{Pixel: 1000, Wavelength: 500}, {Pixel: 1000 + 1e-8, Wavelength: 510}, {Pixel: 0, Wavelength: 400}},
			order:  1,
			want:   ErrIllConditionedFit,
		},
		{name: "nan", points: []Point{{Pixel: math.NaN(), Wavelength: 1}, {Pixel: 2, Wavelength: 3}}, order: 1, want: ErrInvalidPoint},
		{name: "inf", points: []Point{{Pixel: 1, Wavelength: math.Inf(1)}, {Pixel: 2, Wavelength: 3}}, order: 1, want: ErrInvalidPoint},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Fit(tt.points, tt.order)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestWithDomain(t *testing.T) {
	m, err := Fit(threeLines(), 1, WithDomain(0, 1023))
	require.NoError(t, err)
	lo, hi := m.Domain()
	require.Equal(t, 0.0, lo)
	require.Equal(t, 1023.0, hi)
	require.True(t, m.InDomain(1000))
	require.False(t, m.InDomain(1024))

	_, err = Fit(threeLines(), 1, WithDomain(10, 10))
	require.ErrorIs(t, err, ErrInvalidDomain)
}

func TestNonMonotonicWarning(t *testing.T) {
	// A parabola that turns over inside the points' range.
	points := []Point{{Pixel: 0, Wavelength: 500}, {Pixel: 100, Wavelength: 600}, {Pixel: 200, Wavelength: 500}}
	m, err := Fit(points, 2)
	require.NoError(t, err)
	require.Len(t, m.Warnings(), 1)
	require.Contains(t, m.Warnings()[0], "not monotonic")
	require.Contains(t, m.Warnings()[0], "100.000")
}

func TestTurningPointOutsidePointsNotWarned(t *testing.T) {
	// 500 + x - 0.002x² turns at x = 250, beyond the last point but inside
	// the widened domain.
	points := []Point{{Pixel: 0, Wavelength: 500}, {Pixel: 100, Wavelength: 580}, {Pixel: 200, Wavelength: 620}}
	m, err := Fit(points, 2, WithDomain(0, 400))
	require.NoError(t, err)
	require.Empty(t, m.Warnings())
}

func TestFlatWarning(t *testing.T) {
	m, err := Fit([]Point{{Pixel: 0, Wavelength: 500}, {Pixel: 100, Wavelength: 500}}, 1)
	require.NoError(t, err)
	require.Equal(t, 1.0, m.Metrics().R2)
	require.Len(t, m.Warnings(), 1)
	require.Contains(t, m.Warnings()[0], "zero slope")
}

func TestInvert(t *testing.T) {
	m, err := Fit(threeLines(), 2)
	require.NoError(t, err)

	px, err := m.Invert(532)
	require.NoError(t, err)
	require.InDelta(t, 300, px, 1e-6)

	_, err = m.Invert(900)
	require.ErrorIs(t, err, ErrNoInverse)

	lin, err := Fit(threeLines()[:2], 1)
	require.NoError(t, err)
	px, err = lin.Invert(468.5)
	require.NoError(t, err)
	require.InDelta(t, 200, px, 1e-9)
}

func TestWavelengthsAndGettersCopy(t *testing.T) {
	m, err := Fit(threeLines(), 2)
	require.NoError(t, err)

	p := profile.FromLuminance(make([]float64, 600))
	wl := m.Wavelengths(p)
	require.Len(t, wl, 600)
	require.InDelta(t, 532, wl[300], 1e-6)

	c := m.Coefficients()
	c[0] = 0
	require.NotEqual(t, 0.0, m.Coefficients()[0])

	pts := m.Points()
	pts[0].Pixel = -1
	require.Equal(t, 100.0, m.Points()[0].Pixel)
}
