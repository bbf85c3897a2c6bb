// Package profile defines the 1D intensity and colour profile sampled along
// a spectrum line.
package profile

import (
	"image/color"

	"github.com/cwbudde/algo-spectro/spectro/frame"
)

// Sample is one position along the spectrum line.
type Sample struct {
	// Color is the band-averaged linear RGB.
	Color frame.RGB
	// Luminance is the BT.709 luminance of Color.
	Luminance float64
}

// Profile is an ordered sequence of samples, one per unit step along the
// line. Smoothed is nil until the profile has been conditioned; conditioning
// never modifies Samples.
type Profile struct {
	Samples  []Sample
	Smoothed []float64
}

// New returns a profile holding samples.
func New(samples []Sample) *Profile {
	return &Profile{Samples: samples}
}

// FromLuminance builds a neutral-colour profile from luminance values.
func FromLuminance(lum []float64) *Profile {
	samples := make([]Sample, len(lum))
	for i, v := range lum {
		samples[i] = Sample{Color: frame.RGB{R: v, G: v, B: v}, Luminance: v}
	}
	return &Profile{Samples: samples}
}

// Len returns the number of samples.
func (p *Profile) Len() int { return len(p.Samples) }

// Conditioned reports whether a smoothed signal is present.
func (p *Profile) Conditioned() bool { return p.Smoothed != nil }

// Luminance returns a copy of the raw luminance values.
func (p *Profile) Luminance() []float64 {
	out := make([]float64, len(p.Samples))
	for i, s := range p.Samples {
		out[i] = s.Luminance
	}
	return out
}

// Signal returns the smoothed signal when present, the raw luminance
// otherwise. The returned slice must not be modified.
func (p *Profile) Signal() []float64 {
	if p.Smoothed != nil {
		return p.Smoothed
	}
	return p.Luminance()
}

// Positions returns the pixel positions 0..Len-1 along the line.
func (p *Profile) Positions() []float64 {
	out := make([]float64, len(p.Samples))
	for i := range out {
		out[i] = float64(i)
	}
	return out
}

// WithSmoothed returns a shallow copy of p sharing Samples and carrying the
// given smoothed signal.
func (p *Profile) WithSmoothed(smoothed []float64) *Profile {
	return &Profile{Samples: p.Samples, Smoothed: smoothed}
}

// ColorStrip returns the sample colours encoded as 8-bit sRGB for display.
// When normalize is true each colour is scaled so its brightest channel is
// 1, which shows hue independent of intensity.
func (p *Profile) ColorStrip(normalize bool) []color.RGBA {
	out := make([]color.RGBA, len(p.Samples))
	for i, s := range p.Samples {
		c := s.Color
		if normalize {
			if m := max(c.R, c.G, c.B); m > 0 {
				c = c.Scale(1 / m)
			}
		}
		out[i] = color.RGBA{
			R: frame.Encode8(c.R),
			G: frame.Encode8(c.G),
			B: frame.Encode8(c.B),
			A: 0xff,
		}
	}
	return out
}
