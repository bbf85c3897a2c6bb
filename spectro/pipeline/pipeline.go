// Package pipeline runs the per-frame processing chain: line detection or
// manual geometry, band sampling, conditioning, peak detection and, when a
// calibration is supplied, the pixel to wavelength mapping.
//
// Processing is synchronous. A Pipeline holds only immutable configuration
// and may be shared; the temporal state passed to Process is owned by the
// caller and must not be used concurrently.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectro/spectro/calibration"
	"github.com/cwbudde/algo-spectro/spectro/condition"
	"github.com/cwbudde/algo-spectro/spectro/frame"
	"github.com/cwbudde/algo-spectro/spectro/line"
	"github.com/cwbudde/algo-spectro/spectro/peak"
	"github.com/cwbudde/algo-spectro/spectro/profile"
	"github.com/cwbudde/algo-spectro/spectro/sample"
)

var (
	// ErrInvalidConfig is returned by New for an unusable configuration.
	ErrInvalidConfig = errors.New("pipeline: invalid configuration")
	// ErrPointMismatch is returned by PeakPoints when the peak and
	// wavelength counts differ.
	ErrPointMismatch = errors.New("pipeline: peak and wavelength counts differ")
)

// Mode selects how the line geometry is obtained.
type Mode int

const (
	// Automatic runs the line detector on every frame.
	Automatic Mode = iota
	// Manual uses the operator-supplied Start and End points.
	Manual
)

func (m Mode) String() string {
	switch m {
	case Automatic:
		return "automatic"
	case Manual:
		return "manual"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Config describes a pipeline.
type Config struct {
	Mode Mode

	// Start and End span the line in Manual mode.
	Start, End line.Point

	// Thickness is the sampling band width in pixels. In Automatic mode it
	// is passed to the detector before Detector options.
	Thickness int

	Detector  []line.Option
	Condition condition.Config
	Peaks     []peak.Option

	// DetectPeaks enables peak detection on the conditioned profile.
	DetectPeaks bool
}

// DefaultConfig returns automatic detection with default conditioning and
// peak detection enabled.
func DefaultConfig() Config {
	return Config{
		Mode:        Automatic,
		Thickness:   line.DefaultThickness,
		Condition:   condition.DefaultConfig(),
		DetectPeaks: true,
	}
}

// Pipeline processes frames.
type Pipeline struct {
	cfg         Config
	detector    *line.Detector
	sampler     *sample.Sampler
	conditioner *condition.Conditioner
	peaks       *peak.Detector
}

// New validates cfg and builds the stage objects.
func New(cfg Config) (*Pipeline, error) {
	if cfg.Thickness < line.MinThickness || cfg.Thickness > line.MaxThickness {
		return nil, fmt.Errorf("%w: thickness %d outside [%d, %d]",
			ErrInvalidConfig, cfg.Thickness, line.MinThickness, line.MaxThickness)
	}

	p := &Pipeline{cfg: cfg}

	switch cfg.Mode {
	case Automatic:
		opts := append([]line.Option{line.WithThickness(cfg.Thickness)}, cfg.Detector...)
		det, err := line.NewDetector(opts...)
		if err != nil {
			return nil, err
		}
		p.detector = det
	case Manual:
	default:
		return nil, fmt.Errorf("%w: unknown mode %d", ErrInvalidConfig, cfg.Mode)
	}

	var err error
	if p.sampler, err = sample.New(); err != nil {
		return nil, err
	}
	if p.conditioner, err = condition.New(cfg.Condition); err != nil {
		return nil, err
	}
	if cfg.DetectPeaks {
		if p.peaks, err = peak.NewDetector(cfg.Peaks...); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Result is the outcome of processing one frame.
type Result struct {
	Geometry line.Geometry

	// Detection is nil in Manual mode.
	Detection *line.Detection

	Profile *profile.Profile

	// Peaks is nil when peak detection is disabled.
	Peaks []peak.Peak
}

// Process runs all stages on f. temporal may be nil; it is only updated
// when conditioning succeeds. ctx is checked between stages.
func (p *Pipeline) Process(ctx context.Context, f *frame.Frame, temporal *condition.Temporal) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.ValidateFinite(); err != nil {
		return nil, err
	}

	res := &Result{}
	if p.cfg.Mode == Manual {
		g, err := line.Manual(f.Width, f.Height, p.cfg.Start, p.cfg.End, p.cfg.Thickness)
		if err != nil {
			return nil, err
		}
		res.Geometry = g
	} else {
		det, err := p.detector.Detect(ctx, f)
		if err != nil {
			return nil, err
		}
		res.Geometry = det.Geometry
		res.Detection = &det
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := p.sampler.Sample(f, res.Geometry)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Profile, err = p.conditioner.Condition(raw, temporal)
	if err != nil {
		return nil, err
	}

	if p.peaks != nil {
		res.Peaks = p.peaks.Detect(res.Profile)
	}
	return res, nil
}

// Calibrate returns the wavelength of every profile position under m.
func (r *Result) Calibrate(m *calibration.Model) []float64 {
	return m.Wavelengths(r.Profile)
}

// PeakPoints pairs peaks with operator-assigned wavelengths. A NaN
// wavelength leaves its peak unassigned.
func PeakPoints(peaks []peak.Peak, wavelengths []float64) ([]calibration.Point, error) {
	if len(peaks) != len(wavelengths) {
		return nil, fmt.Errorf("%w: %d peaks, %d wavelengths", ErrPointMismatch, len(peaks), len(wavelengths))
	}
	points := make([]calibration.Point, 0, len(peaks))
	for i, pk := range peaks {
		if math.IsNaN(wavelengths[i]) {
			continue
		}
		points = append(points, calibration.Point{
			Pixel:      pk.Position,
			Wavelength: wavelengths[i],
			Label:      fmt.Sprintf("peak %d", i+1),
		})
	}
	return points, nil
}
