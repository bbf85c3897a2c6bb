// Package condition derives the smoothed signal of a spectrum profile.
//
// Conditioning runs three optional stages on the luminance channel:
// background removal (a fraction of a rolling minimum or percentile is
// subtracted), smoothing (Gaussian, running median or Savitzky-Golay) and
// temporal averaging across frames. The raw samples and their colours are
// never modified.
package condition

import (
	"fmt"

	"github.com/cwbudde/algo-spectro/dsp/conv"
	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/dsp/filter/gauss"
	"github.com/cwbudde/algo-spectro/dsp/filter/rank"
	"github.com/cwbudde/algo-spectro/dsp/filter/savgol"
	"github.com/cwbudde/algo-spectro/spectro/profile"
)

// Conditioner applies a fixed Config. It holds only immutable designed
// filters and is safe for concurrent use; the Temporal passed to Condition
// is not.
type Conditioner struct {
	cfg    Config
	sg     *savgol.Filter
	kernel []float64
}

// New validates cfg and designs the filters it needs.
func New(cfg Config) (*Conditioner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Conditioner{cfg: cfg}
	switch cfg.Smoothing {
	case SavitzkyGolay:
		sg, err := savgol.Design(cfg.Window, cfg.PolyOrder)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.sg = sg
	case Gaussian:
		k, err := gauss.Kernel(cfg.Sigma, gauss.DefaultTruncate)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
		}
		c.kernel = k
	}
	return c, nil
}

// Config returns the conditioner configuration.
func (c *Conditioner) Config() Config { return c.cfg }

// Condition returns a profile sharing p's samples with Smoothed set. When
// temporal is non-nil the result is averaged with earlier frames and
// temporal is updated; it is left untouched if conditioning fails.
func (c *Conditioner) Condition(p *profile.Profile, temporal *Temporal) (*profile.Profile, error) {
	if p.Len() == 0 {
		return nil, fmt.Errorf("%w: empty profile", ErrProfileTooShort)
	}

	signal := p.Luminance()

	if c.cfg.Strength > 0 {
		baseline, err := c.Baseline(signal)
		if err != nil {
			return nil, err
		}
		for i := range signal {
			signal[i] -= c.cfg.Strength * baseline[i]
		}
	}

	smoothed, err := c.smooth(signal)
	if err != nil {
		return nil, err
	}

	if temporal != nil {
		smoothed = temporal.apply(smoothed)
	}
	return p.WithSmoothed(smoothed), nil
}

// Baseline returns the background estimate of signal. Estimator windows
// shrink at the ends of the signal.
func (c *Conditioner) Baseline(signal []float64) ([]float64, error) {
	switch c.cfg.Baseline {
	case Percentile:
		return rank.Percentile(signal, c.cfg.BaselineWindow, c.cfg.BaselinePercentile)
	default:
		return rank.Min(signal, c.cfg.BaselineWindow)
	}
}

func (c *Conditioner) smooth(x []float64) ([]float64, error) {
	switch c.cfg.Smoothing {
	case Gaussian:
		return conv.Filter(x, c.kernel, conv.EdgeReflect)
	case Median:
		return rank.Median(x, c.cfg.Window)
	case SavitzkyGolay:
		sg := c.sg
		if len(x) < sg.Window() {
			w := core.OddAtMost(len(x))
			if w < c.cfg.PolyOrder+2 {
				return nil, fmt.Errorf("%w: %d samples for Savitzky-Golay order %d", ErrProfileTooShort, len(x), c.cfg.PolyOrder)
			}
			var err error
			if sg, err = savgol.Design(w, c.cfg.PolyOrder); err != nil {
				return nil, err
			}
		}
		return sg.Apply(x)
	default:
		return x, nil
	}
}
