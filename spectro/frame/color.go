package frame

import (
	"math"
	"sync"
)

// BT.709 luminance weights for linear RGB.
const (
	LumaR = 0.2126
	LumaG = 0.7152
	LumaB = 0.0722
)

// RGB is a linear-light colour triple. Channels are nominally in [0, 1].
type RGB struct {
	R, G, B float64
}

// Luminance returns the BT.709 relative luminance of c.
func (c RGB) Luminance() float64 {
	return LumaR*c.R + LumaG*c.G + LumaB*c.B
}

// Scale returns c with every channel multiplied by s.
func (c RGB) Scale(s float64) RGB {
	return RGB{R: c.R * s, G: c.G * s, B: c.B * s}
}

// Add returns the channel-wise sum of c and o.
func (c RGB) Add(o RGB) RGB {
	return RGB{R: c.R + o.R, G: c.G + o.G, B: c.B + o.B}
}

// Linearize converts an sRGB-encoded value in [0, 1] to linear light using
// the IEC 61966-2-1 transfer function.
func Linearize(v float64) float64 {
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Encode converts a linear value in [0, 1] to sRGB encoding. Values outside
// [0, 1] are clamped.
func Encode(v float64) float64 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 1
	case v <= 0.0031308:
		return 12.92 * v
	default:
		return 1.055*math.Pow(v, 1/2.4) - 0.055
	}
}

// Encode8 converts a linear value to an 8-bit sRGB code value.
func Encode8(v float64) uint8 {
	return uint8(math.Round(Encode(v) * 255))
}

// linear16 maps 16-bit sRGB code values (as returned by color.Color.RGBA)
// to linear light.
var linear16 = sync.OnceValue(func() []float64 {
	lut := make([]float64, 1<<16)
	for i := range lut {
		lut[i] = Linearize(float64(i) / 0xffff)
	}
	return lut
})
