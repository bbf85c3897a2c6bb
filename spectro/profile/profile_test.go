package profile

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-spectro/spectro/frame"
)

func TestSignalPrefersSmoothed(t *testing.T) {
	p := FromLuminance([]float64{1, 2, 3})
	require.False(t, p.Conditioned())
	require.Equal(t, []float64{1, 2, 3}, p.Signal())

	q := p.WithSmoothed([]float64{4, 5, 6})
	require.True(t, q.Conditioned())
	require.Equal(t, []float64{4, 5, 6}, q.Signal())
	require.Equal(t, []float64{1, 2, 3}, q.Luminance())
	require.Nil(t, p.Smoothed)
}

func TestLuminanceIsCopy(t *testing.T) {
	p := FromLuminance([]float64{1, 2})
	lum := p.Luminance()
	lum[0] = 99
	require.Equal(t, 1.0, p.Samples[0].Luminance)
}

func TestPositions(t *testing.T) {
	p := FromLuminance(make([]float64, 4))
	require.Equal(t, 4, p.Len())
	require.Equal(t, []float64{0, 1, 2, 3}, p.Positions())
}

func TestColorStrip(t *testing.T) {
	p := New([]Sample{
		{Color: frame.RGB{R: 1}, Luminance: 0.2126},
		{Color: frame.RGB{R: 0.25, G: 0.5}},
		{},
	})

	strip := p.ColorStrip(false)
	require.Equal(t, color.RGBA{R: 255, A: 255}, strip[0])
	require.Equal(t, color.RGBA{A: 255}, strip[2])

	norm := p.ColorStrip(true)
	require.Equal(t, uint8(255), norm[1].G)
	require.Equal(t, frame.Encode8(0.5), norm[1].R)
	require.Equal(t, color.RGBA{A: 255}, norm[2])
}
