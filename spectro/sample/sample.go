// Package sample extracts a profile from a frame along a line geometry.
//
// Positions are taken at unit steps along the line. At each position a band
// of Thickness points, spaced one pixel apart along the line normal and
// centred on the line, is sampled bilinearly from the linear RGB frame and
// averaged. A thickness of 1 reads the line pixel alone.
package sample

import (
	"fmt"

	"github.com/cwbudde/algo-spectro/spectro/frame"
	"github.com/cwbudde/algo-spectro/spectro/line"
	"github.com/cwbudde/algo-spectro/spectro/profile"
)

// Option configures a Sampler.
type Option func(*Sampler)

// WithBandOverride samples with the given thickness instead of the one
// carried by the geometry.
func WithBandOverride(thickness int) Option {
	return func(s *Sampler) { s.override = thickness }
}

// Sampler reads profiles from frames. It is stateless and safe for
// concurrent use.
type Sampler struct {
	override int
}

// New returns a Sampler.
func New(opts ...Option) (*Sampler, error) {
	s := &Sampler{}
	for _, opt := range opts {
		opt(s)
	}
	if s.override != 0 && (s.override < line.MinThickness || s.override > line.MaxThickness) {
		return nil, fmt.Errorf("%w: band override %d outside [%d, %d]",
			line.ErrInvalidGeometry, s.override, line.MinThickness, line.MaxThickness)
	}
	return s, nil
}

// Sample returns the profile of f along g. Frames with non-finite samples
// are rejected.
func (s *Sampler) Sample(f *frame.Frame, g line.Geometry) (*profile.Profile, error) {
	if err := f.ValidateFinite(); err != nil {
		return nil, err
	}
	if s.override != 0 {
		g.Thickness = s.override
	}
	if err := g.Validate(f.Width, f.Height); err != nil {
		return nil, err
	}

	n := g.Samples()
	u := g.Direction()
	normal := g.Normal()

	offsets := make([]line.Point, g.Thickness)
	for k := range offsets {
		offsets[k] = normal.Scale(float64(k) - float64(g.Thickness-1)/2)
	}
	inv := 1 / float64(g.Thickness)

	samples := make([]profile.Sample, n)
	for i := range samples {
		p := g.Start.Add(u.Scale(float64(i)))

		var sum frame.RGB
		for _, off := range offsets {
			q := p.Add(off)
			sum = sum.Add(f.Bilinear(q.X, q.Y))
		}
		c := sum.Scale(inv)
		samples[i] = profile.Sample{Color: c, Luminance: c.Luminance()}
	}

	return profile.New(samples), nil
}
