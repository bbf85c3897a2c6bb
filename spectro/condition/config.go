package condition

import (
	"errors"
	"fmt"
)

// Errors returned by the package.
var (
	ErrInvalidConfig   = errors.New("condition: invalid configuration")
	ErrProfileTooShort = errors.New("condition: profile too short")
)

// Method selects the smoothing filter.
type Method int

const (
	None Method = iota
	Gaussian
	Median
	SavitzkyGolay
)

func (m Method) String() string {
	switch m {
	case None:
		return "none"
	case Gaussian:
		return "gaussian"
	case Median:
		return "median"
	case SavitzkyGolay:
		return "savgol"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod returns the Method named s, as printed by Method.String.
func ParseMethod(s string) (Method, error) {
	for m := None; m <= SavitzkyGolay; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown smoothing method %q", ErrInvalidConfig, s)
}

// BaselineMethod selects the background estimator.
type BaselineMethod int

const (
	RollingMin BaselineMethod = iota
	Percentile
)

func (b BaselineMethod) String() string {
	switch b {
	case RollingMin:
		return "min"
	case Percentile:
		return "percentile"
	default:
		return fmt.Sprintf("BaselineMethod(%d)", int(b))
	}
}

// Config controls background removal and smoothing.
type Config struct {
	Smoothing Method

	// Window is the odd window length for Median and SavitzkyGolay.
	Window int
	// PolyOrder is the Savitzky-Golay polynomial order.
	PolyOrder int
	// Sigma is the Gaussian standard deviation in samples.
	Sigma float64

	Baseline           BaselineMethod
	BaselineWindow     int
	BaselinePercentile float64

	// Strength is the fraction of the estimated baseline subtracted from
	// the luminance; 0 disables background removal.
	Strength float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns Savitzky-Golay smoothing (11, 3) with background
// removal disabled.
func DefaultConfig() Config {
	return Config{
		Smoothing:          SavitzkyGolay,
		Window:             11,
		PolyOrder:          3,
		Sigma:              2,
		Baseline:           RollingMin,
		BaselineWindow:     101,
		BaselinePercentile: 10,
		Strength:           0,
	}
}

// NewConfig applies opts over DefaultConfig.
func NewConfig(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithSavitzkyGolay selects Savitzky-Golay smoothing.
func WithSavitzkyGolay(window, order int) Option {
	return func(c *Config) {
		c.Smoothing = SavitzkyGolay
		c.Window = window
		c.PolyOrder = order
	}
}

// WithGaussian selects Gaussian smoothing.
func WithGaussian(sigma float64) Option {
	return func(c *Config) {
		c.Smoothing = Gaussian
		c.Sigma = sigma
	}
}

// WithMedian selects running-median smoothing.
func WithMedian(window int) Option {
	return func(c *Config) {
		c.Smoothing = Median
		c.Window = window
	}
}

// WithoutSmoothing disables smoothing.
func WithoutSmoothing() Option {
	return func(c *Config) { c.Smoothing = None }
}

// WithRollingMinBaseline selects the rolling-minimum background estimator.
func WithRollingMinBaseline(window int, strength float64) Option {
	return func(c *Config) {
		c.Baseline = RollingMin
		c.BaselineWindow = window
		c.Strength = strength
	}
}

// WithPercentileBaseline selects the rolling-percentile background
// estimator.
func WithPercentileBaseline(window int, percentile, strength float64) Option {
	return func(c *Config) {
		c.Baseline = Percentile
		c.BaselineWindow = window
		c.BaselinePercentile = percentile
		c.Strength = strength
	}
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch c.Smoothing {
	case None:
	case Gaussian:
		if !(c.Sigma > 0) {
			return fmt.Errorf("%w: sigma %g must be positive", ErrInvalidConfig, c.Sigma)
		}
	case Median:
		if c.Window < 3 || c.Window%2 == 0 {
			return fmt.Errorf("%w: window %d must be odd and >= 3", ErrInvalidConfig, c.Window)
		}
	case SavitzkyGolay:
		if c.Window < 3 || c.Window%2 == 0 {
			return fmt.Errorf("%w: window %d must be odd and >= 3", ErrInvalidConfig, c.Window)
		}
		if c.PolyOrder < 0 || c.Window < c.PolyOrder+2 {
			return fmt.Errorf("%w: polynomial order %d needs window >= %d", ErrInvalidConfig, c.PolyOrder, c.PolyOrder+2)
		}
	default:
		return fmt.Errorf("%w: unknown smoothing %v", ErrInvalidConfig, c.Smoothing)
	}

	if !(c.Strength >= 0 && c.Strength <= 1) {
		return fmt.Errorf("%w: strength %g outside [0, 1]", ErrInvalidConfig, c.Strength)
	}
	if c.Strength == 0 {
		return nil
	}
	if c.BaselineWindow < 3 || c.BaselineWindow%2 == 0 {
		return fmt.Errorf("%w: baseline window %d must be odd and >= 3", ErrInvalidConfig, c.BaselineWindow)
	}
	switch c.Baseline {
	case RollingMin:
	case Percentile:
		if !(c.BaselinePercentile > 0 && c.BaselinePercentile < 100) {
			return fmt.Errorf("%w: baseline percentile %g outside (0, 100)", ErrInvalidConfig, c.BaselinePercentile)
		}
	default:
		return fmt.Errorf("%w: unknown baseline %v", ErrInvalidConfig, c.Baseline)
	}
	return nil
}
