package line

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/dsp/interp"
	"github.com/cwbudde/algo-spectro/spectro/frame"
)

// Method identifies how a line was found.
type Method int

const (
	// MethodBrightness is the brightest-row search.
	MethodBrightness Method = iota
	// MethodHough is the tilted-line fallback.
	MethodHough
)

func (m Method) String() string {
	switch m {
	case MethodBrightness:
		return "brightness"
	case MethodHough:
		return "hough"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Detection is the result of an automatic line search.
type Detection struct {
	Geometry Geometry

	// AngleDeg is the detected tilt in degrees (0 for the brightness path).
	AngleDeg float64

	// Offset is the row at which the line crosses the horizontal centre of
	// the frame, with sub-pixel precision.
	Offset float64

	// Confidence is the contrast ratio for MethodBrightness and the ridge
	// coverage fraction for MethodHough.
	Confidence float64

	Method Method
}

// Detector finds the spectrum line in frames. It holds no per-frame state
// and is safe for concurrent use.
type Detector struct {
	cfg Config
}

// NewDetector returns a detector configured by opts applied over
// DefaultConfig.
func NewDetector(opts ...Option) (*Detector, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Config returns the detector configuration.
func (d *Detector) Config() Config { return d.cfg }

// Detect locates the spectrum line in f. It returns an error wrapping
// ErrNoLineDetected when neither the brightness search nor the Hough
// fallback yields an acceptable candidate, and ctx.Err() when cancelled.
func (d *Detector) Detect(ctx context.Context, f *frame.Frame) (Detection, error) {
	if err := f.Validate(); err != nil {
		return Detection{}, err
	}
	if f.Width < 2 {
		return Detection{}, fmt.Errorf("%w: frame narrower than 2 px", ErrNoLineDetected)
	}
	if err := ctx.Err(); err != nil {
		return Detection{}, err
	}

	lum := f.LuminanceMap()

	det, contrast, ok := d.byBrightness(lum, f.Width, f.Height)
	if ok {
		return det, nil
	}
	if err := ctx.Err(); err != nil {
		return Detection{}, err
	}

	det, err := d.byHough(ctx, lum, f.Width, f.Height)
	if errors.Is(err, ErrNoLineDetected) {
		return Detection{}, fmt.Errorf("%w (row contrast %.3g, need %.3g)", err, contrast, d.cfg.MinContrast)
	}
	return det, err
}

// byBrightness runs the row-profile search. It returns the contrast ratio
// even when the candidate is rejected.
func (d *Detector) byBrightness(lum []float64, width, height int) (Detection, float64, bool) {
	rows := make([]float64, height)
	for y := range rows {
		rows[y] = core.Mean(lum[y*width : (y+1)*width])
	}

	peakRow, peak := core.ArgMax(rows)
	median := core.Median(rows)
	if !(peak > 0) {
		return Detection{}, 0, false
	}
	contrast := math.Inf(1)
	if median > 0 {
		contrast = peak / median
	}
	if contrast < d.cfg.MinContrast {
		return Detection{}, contrast, false
	}

	if fwhm := bandWidth(rows, peakRow, median+(peak-median)/2); fwhm > d.cfg.MaxBandFraction*float64(height) {
		return Detection{}, contrast, false
	}

	row := float64(peakRow)
	if peakRow > 0 && peakRow < height-1 {
		if off, _, ok := interp.Parabolic(rows[peakRow-1], peak, rows[peakRow+1]); ok {
			row += off
		}
	}
	row = core.Clamp(row, 0, float64(height-1))

	g := Geometry{
		Start:     Point{X: 0, Y: row},
		End:       Point{X: float64(width - 1), Y: row},
		Thickness: d.cfg.Thickness,
	}
	return Detection{
		Geometry:   g,
		Offset:     row,
		Confidence: contrast,
		Method:     MethodBrightness,
	}, contrast, true
}

// bandWidth returns the width of the contiguous run of rows around peak
// that stays above level, with linear interpolation at both crossings.
func bandWidth(rows []float64, peak int, level float64) float64 {
	left := float64(peak)
	for i := peak; i > 0; i-- {
		if rows[i-1] < level {
			left = float64(i) - interp.CrossingLinear(rows[i], rows[i-1], level)
			break
		}
		left = float64(i - 1)
	}

	right := float64(peak)
	for i := peak; i < len(rows)-1; i++ {
		if rows[i+1] < level {
			right = float64(i) + interp.CrossingLinear(rows[i], rows[i+1], level)
			break
		}
		right = float64(i + 1)
	}
	return right - left
}
