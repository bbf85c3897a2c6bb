package sample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectro/internal/testutil"
	"github.com/cwbudde/algo-spectro/spectro/frame"
	"github.com/cwbudde/algo-spectro/spectro/line"
)

func noiseFrame(t *testing.T, width, height int) *frame.Frame {
	t.Helper()
	f, err := frame.New(width, height)
	require.NoError(t, err)
	r := testutil.UniformNoise(1, 0.5, width*height)
	g := testutil.UniformNoise(2, 0.5, width*height)
	b := testutil.UniformNoise(3, 0.5, width*height)
	for i := range r {
		f.Set(i%width, i/width, frame.RGB{R: r[i] + 0.5, G: g[i] + 0.5, B: b[i] + 0.5})
	}
	return f
}

func TestThicknessOneReproducesRow(t *testing.T) {
	f := noiseFrame(t, 40, 10)
	s, err := New()
	require.NoError(t, err)

	g, err := line.Manual(40, 10, line.Point{X: 0, Y: 4}, line.Point{X: 39, Y: 4}, 1)
	require.NoError(t, err)

	p, err := s.Sample(f, g)
	require.NoError(t, err)
	require.Equal(t, 40, p.Len())

	lum := f.LuminanceMap()
	for x := 0; x < 40; x++ {
		require.Equal(t, lum[4*40+x], p.Samples[x].Luminance, "x=%d", x)
		require.Equal(t, f.At(x, 4), p.Samples[x].Color, "x=%d", x)
	}
}

func TestBandAveragesNotSums(t *testing.T) {
	// Rows 3, 4, 5 hold 0.2, 0.5, 0.8; a 3-px band on row 4 averages to 0.5.
	lum := make([]float64, 10*9)
	for x := 0; x < 10; x++ {
		lum[3*10+x] = 0.2
		lum[4*10+x] = 0.5
		lum[5*10+x] = 0.8
	}
	f, err := frame.FromGray(10, 9, lum)
	require.NoError(t, err)

	s, err := New()
	require.NoError(t, err)
	p, err := s.Sample(f, line.Geometry{Start: line.Point{X: 0, Y: 4}, End: line.Point{X: 9, Y: 4}, Thickness: 3})
	require.NoError(t, err)

	for _, v := range p.Luminance() {
		require.InDelta(t, 0.5, v, 1e-12)
	}
}

func TestTiltedLineFollowsBand(t *testing.T) {
	lum := testutil.BandGrid(120, 60, 30, 10, 3, 0, 1)
	f, err := frame.FromGray(120, 60, lum)
	require.NoError(t, err)

	// Line through (60, 30) at 10°: y = 30 + (x-60)*tan(10°).
	g := line.Geometry{
		Start:     line.Point{X: 10, Y: 30 - 50*0.17632698},
		End:       line.Point{X: 110, Y: 30 + 50*0.17632698},
		Thickness: 3,
	}
	s, err := New()
	require.NoError(t, err)
	p, err := s.Sample(f, g)
	require.NoError(t, err)
	require.Equal(t, g.Samples(), p.Len())

	for i, v := range p.Luminance() {
		require.Greater(t, v, 0.7, "sample %d left the band", i)
	}
}

func TestBandOverride(t *testing.T) {
	f := noiseFrame(t, 20, 10)
	g := line.Geometry{Start: line.Point{X: 0, Y: 5}, End: line.Point{X: 19, Y: 5}, Thickness: 9}

	s, err := New(WithBandOverride(1))
	require.NoError(t, err)
	p, err := s.Sample(f, g)
	require.NoError(t, err)
	require.Equal(t, f.At(7, 5), p.Samples[7].Color)

	_, err = New(WithBandOverride(25))
	require.ErrorIs(t, err, line.ErrInvalidGeometry)
}

func TestInvalidGeometry(t *testing.T) {
	f := noiseFrame(t, 20, 10)
	s, err := New()
	require.NoError(t, err)

	_, err = s.Sample(f, line.Geometry{Start: line.Point{X: 0, Y: 5}, End: line.Point{X: 25, Y: 5}, Thickness: 3})
	require.ErrorIs(t, err, line.ErrInvalidGeometry)

	_, err = s.Sample(f, line.Geometry{Start: line.Point{X: 3, Y: 5}, End: line.Point{X: 3, Y: 5}, Thickness: 3})
	require.ErrorIs(t, err, line.ErrInvalidGeometry)
}

func TestRejectsNonFiniteFrame(t *testing.T) {
	f := noiseFrame(t, 20, 10)
	f.Set(4, 5, frame.RGB{R: math.NaN()})
	s, err := New()
	require.NoError(t, err)

	_, err = s.Sample(f, line.Geometry{Start: line.Point{X: 0, Y: 5}, End: line.Point{X: 19, Y: 5}, Thickness: 1})
	require.ErrorIs(t, err, frame.ErrInvalidFrame)
}
