package frame

import (
	"errors"
	"fmt"
	"image"

	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/dsp/interp"
)

// ErrInvalidFrame is returned for frames with non-positive dimensions or a
// pixel buffer that does not match them.
var ErrInvalidFrame = errors.New("frame: invalid frame")

// Channels is the number of interleaved samples per pixel.
const Channels = 3

// MaxDimension bounds Width and Height.
const MaxDimension = 1 << 16

func validSize(width, height int) bool {
	return width > 0 && height > 0 && width <= MaxDimension && height <= MaxDimension
}

// Frame is a row-major image of linear RGB pixels. The sample for channel c
// of pixel (x, y) is Pix[(y*Width+x)*3+c].
type Frame struct {
	Width  int
	Height int
	Pix    []float64
}

// New returns a black frame of the given size.
func New(width, height int) (*Frame, error) {
	if !validSize(width, height) {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, width, height)
	}
	return &Frame{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height*Channels),
	}, nil
}

// FromRGB wraps an interleaved linear RGB buffer. The buffer is not copied.
func FromRGB(width, height int, pix []float64) (*Frame, error) {
	f := &Frame{Width: width, Height: height, Pix: pix}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// FromGray builds a neutral frame whose luminance equals lum at every pixel.
// lum is row-major with width*height values.
func FromGray(width, height int, lum []float64) (*Frame, error) {
	if !validSize(width, height) || len(lum) != width*height {
		return nil, fmt.Errorf("%w: %d gray values for %dx%d", ErrInvalidFrame, len(lum), width, height)
	}
	pix := make([]float64, len(lum)*Channels)
	for i, v := range lum {
		pix[i*3] = v
		pix[i*3+1] = v
		pix[i*3+2] = v
	}
	return &Frame{Width: width, Height: height, Pix: pix}, nil
}

// FromImage converts a decoded image to a linear RGB frame. Colour values
// are treated as sRGB encoded; alpha is ignored.
func FromImage(img image.Image) (*Frame, error) {
	b := img.Bounds()
	f, err := New(b.Dx(), b.Dy())
	if err != nil {
		return nil, err
	}

	lut := linear16()
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			f.Pix[i] = lut[r]
			f.Pix[i+1] = lut[g]
			f.Pix[i+2] = lut[bl]
			i += Channels
		}
	}
	return f, nil
}

// Validate reports whether the frame dimensions and buffer are consistent.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if !validSize(f.Width, f.Height) {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, f.Width, f.Height)
	}
	if want := f.Width * f.Height * Channels; len(f.Pix) != want {
		return fmt.Errorf("%w: %d samples, want %d", ErrInvalidFrame, len(f.Pix), want)
	}
	return nil
}

// Contains reports whether (x, y) lies inside [0,Width)×[0,Height).
func (f *Frame) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(f.Width) && y < float64(f.Height)
}

// At returns the pixel at integer coordinates. It panics when out of range.
func (f *Frame) At(x, y int) RGB {
	i := (y*f.Width + x) * Channels
	return RGB{R: f.Pix[i], G: f.Pix[i+1], B: f.Pix[i+2]}
}

// Set stores c at integer coordinates. It panics when out of range.
func (f *Frame) Set(x, y int, c RGB) {
	i := (y*f.Width + x) * Channels
	f.Pix[i] = c.R
	f.Pix[i+1] = c.G
	f.Pix[i+2] = c.B
}

// Bilinear samples the frame at a fractional position. Coordinates beyond
// the border are clamped to the nearest edge pixel.
func (f *Frame) Bilinear(x, y float64) RGB {
	cell := interp.Bilinear(x, y, f.Width, f.Height)
	i00 := (cell.Y0*f.Width + cell.X0) * Channels
	i10 := (cell.Y0*f.Width + cell.X1) * Channels
	i01 := (cell.Y1*f.Width + cell.X0) * Channels
	i11 := (cell.Y1*f.Width + cell.X1) * Channels

	var out [Channels]float64
	for c := range out {
		out[c] = cell.Blend(f.Pix[i00+c], f.Pix[i10+c], f.Pix[i01+c], f.Pix[i11+c])
	}
	return RGB{R: out[0], G: out[1], B: out[2]}
}

// LuminanceMap returns the row-major BT.709 luminance of every pixel.
func (f *Frame) LuminanceMap() []float64 {
	out := make([]float64, f.Width*f.Height)
	for i := range out {
		p := f.Pix[i*Channels:]
		out[i] = LumaR*p[0] + LumaG*p[1] + LumaB*p[2]
	}
	return out
}

// Clone returns a deep copy of f.
func (f *Frame) Clone() *Frame {
	return &Frame{Width: f.Width, Height: f.Height, Pix: core.Clone(f.Pix)}
}

// Finite reports whether every sample is finite.
func (f *Frame) Finite() bool {
	return core.AllFinite(f.Pix)
}

// ValidateFinite is Validate followed by a check that every sample is
// finite.
func (f *Frame) ValidateFinite() error {
	if err := f.Validate(); err != nil {
		return err
	}
	if !f.Finite() {
		return fmt.Errorf("%w: non-finite samples", ErrInvalidFrame)
	}
	return nil
}
