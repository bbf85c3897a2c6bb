package frame

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLuminanceWeights(t *testing.T) {
	require.InDelta(t, 1.0, RGB{1, 1, 1}.Luminance(), 1e-12)
	require.InDelta(t, 0.7152, RGB{0, 1, 0}.Luminance(), 1e-12)
	require.InDelta(t, 0.2126*0.5+0.0722*0.25, RGB{0.5, 0, 0.25}.Luminance(), 1e-12)
}

func TestTransferRoundTrip(t *testing.T) {
	for _, v := range []float64{0, 0.001, 0.0031308, 0.02, 0.2, 0.5, 0.9, 1} {
		require.InDelta(t, v, Linearize(Encode(v)), 1e-12, "v=%v", v)
	}
	require.Equal(t, uint8(255), Encode8(1))
	require.Equal(t, uint8(0), Encode8(-0.5))
	require.Equal(t, uint8(188), Encode8(0.5))
}

func TestNewAndValidate(t *testing.T) {
	f, err := New(4, 3)
	require.NoError(t, err)
	require.Len(t, f.Pix, 36)
	require.NoError(t, f.Validate())

	_, err = New(0, 3)
	require.ErrorIs(t, err, ErrInvalidFrame)

	_, err = FromRGB(2, 2, make([]float64, 11))
	require.ErrorIs(t, err, ErrInvalidFrame)

	var nilFrame *Frame
	require.ErrorIs(t, nilFrame.Validate(), ErrInvalidFrame)
}

func TestValidateRejectsOversizedDimensions(t *testing.T) {
	// 2^61 * 8 * 3 wraps to zero in int arithmetic.
	_, err := FromRGB(1<<61, 8, nil)
	require.ErrorIs(t, err, ErrInvalidFrame)

	_, err = New(MaxDimension+1, 1)
	require.ErrorIs(t, err, ErrInvalidFrame)

	_, err = FromGray(1, MaxDimension+1, nil)
	require.ErrorIs(t, err, ErrInvalidFrame)
}

func TestValidateFinite(t *testing.T) {
	f, err := FromGray(2, 1, []float64{0.5, 0.5})
	require.NoError(t, err)
	require.NoError(t, f.ValidateFinite())

	f.Pix[4] = math.NaN()
	require.False(t, f.Finite())
	require.ErrorIs(t, f.ValidateFinite(), ErrInvalidFrame)
}

func TestFromGrayLuminance(t *testing.T) {
	lum := []float64{0, 0.25, 0.5, 1}
	f, err := FromGray(2, 2, lum)
	require.NoError(t, err)
	require.InDeltaSlice(t, lum, f.LuminanceMap(), 1e-12)
	require.Equal(t, RGB{0.5, 0.5, 0.5}, f.At(0, 1))
}

func TestSetAt(t *testing.T) {
	f, err := New(3, 2)
	require.NoError(t, err)
	c := RGB{0.1, 0.2, 0.3}
	f.Set(2, 1, c)
	require.Equal(t, c, f.At(2, 1))
	require.Equal(t, RGB{}, f.At(1, 1))
}

func TestBilinear(t *testing.T) {
	f, err := FromGray(2, 2, []float64{0, 1, 2, 3})
	require.NoError(t, err)

	require.InDelta(t, 1.5, f.Bilinear(0.5, 0.5).R, 1e-12)
	require.InDelta(t, 0.5, f.Bilinear(0.5, 0).G, 1e-12)
	// Clamp-to-edge beyond the border.
	require.InDelta(t, 3.0, f.Bilinear(5, 5).B, 1e-12)
	require.InDelta(t, 0.0, f.Bilinear(-2, -1).R, 1e-12)
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 20, 12, 21))
	img.Set(10, 20, color.RGBA{R: 255, A: 255})
	img.Set(11, 20, color.RGBA{R: 188, G: 188, B: 188, A: 255})

	f, err := FromImage(img)
	require.NoError(t, err)
	require.Equal(t, 2, f.Width)
	require.Equal(t, 1, f.Height)
	require.Equal(t, RGB{1, 0, 0}, f.At(0, 0))

	// sRGB 188 is roughly 50% linear light.
	require.InDelta(t, 0.5, f.At(1, 0).Luminance(), 0.01)
}

func TestCloneIsDeep(t *testing.T) {
	f, err := FromGray(1, 1, []float64{0.5})
	require.NoError(t, err)
	g := f.Clone()
	g.Set(0, 0, RGB{})
	require.Equal(t, 0.5, f.At(0, 0).R)
	require.True(t, f.Finite())
}
