package testutil

import "math"

// GaussianBump returns a profile of the given length containing a single
// Gaussian peak of height amp centred at the (possibly fractional) position
// center, on top of a constant offset.
func GaussianBump(length int, center, sigma, amp, offset float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		d := float64(i) - center
		out[i] = offset + amp*math.Exp(-d*d/(2*sigma*sigma))
	}
	return out
}

// EmissionLines returns a profile with a Gaussian line of height amp and
// width sigma at every centre, on top of a constant offset.
func EmissionLines(length int, centers []float64, sigma, amp, offset float64) []float64 {
	out := Constant(offset, length)
	for _, c := range centers {
		AddInto(out, GaussianBump(length, c, sigma, amp, 0))
	}
	return out
}

// Constant returns length copies of value.
func Constant(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// AddInto adds src element-wise into dst. Extra elements are ignored.
func AddInto(dst, src []float64) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] += src[i]
	}
}

// Ramp returns a linear ramp from start with the given step.
func Ramp(length int, start, step float64) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// BandGrid returns a width×height row-major grid holding a background level
// with a bright straight band through (width/2, row) tilted by angleDeg. The
// band has a Gaussian cross-section of the given sigma and peak height.
func BandGrid(width, height int, row, angleDeg, sigma, background, peak float64) []float64 {
	out := make([]float64, width*height)
	rad := angleDeg * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	cx := float64(width) / 2
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// Signed distance from the band centreline.
			d := -(float64(x)-cx)*sin + (float64(y)-row)*cos
			out[y*width+x] = background + peak*math.Exp(-d*d/(2*sigma*sigma))
		}
	}
	return out
}
