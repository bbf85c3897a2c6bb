package line

import "fmt"

// Config holds detector tuning.
type Config struct {
	// Thickness is copied into every detected Geometry.
	Thickness int

	// MinContrast is the brightest-row to median-row ratio required to
	// accept the row-profile result without the Hough fallback.
	MinContrast float64

	// MaxBandFraction bounds the full width at half maximum of the bright
	// row band, relative to the frame height.
	MaxBandFraction float64

	// MaxTilt and AngleStep define the Hough angle trials, in degrees.
	MaxTilt   float64
	AngleStep float64

	// MinCoverage is the fraction of columns that must lie on the ridge for
	// a Hough candidate to be accepted.
	MinCoverage float64
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns the default detector configuration.
func DefaultConfig() Config {
	return Config{
		Thickness:       DefaultThickness,
		MinContrast:     1.5,
		MaxBandFraction: 0.3,
		MaxTilt:         30,
		AngleStep:       0.25,
		MinCoverage:     0.3,
	}
}

// WithThickness sets the band thickness of detected geometries.
func WithThickness(px int) Option {
	return func(c *Config) { c.Thickness = px }
}

// WithMinContrast sets the contrast threshold for the row-profile path.
func WithMinContrast(ratio float64) Option {
	return func(c *Config) { c.MinContrast = ratio }
}

// WithMaxBandFraction sets the largest accepted band width as a fraction of
// the frame height.
func WithMaxBandFraction(f float64) Option {
	return func(c *Config) { c.MaxBandFraction = f }
}

// WithMaxTilt sets the largest tilt tried by the Hough fallback.
func WithMaxTilt(deg float64) Option {
	return func(c *Config) { c.MaxTilt = deg }
}

// WithAngleStep sets the spacing of Hough angle trials.
func WithAngleStep(deg float64) Option {
	return func(c *Config) { c.AngleStep = deg }
}

// WithMinCoverage sets the ridge coverage required by the Hough fallback.
func WithMinCoverage(f float64) Option {
	return func(c *Config) { c.MinCoverage = f }
}

// Validate reports the first out-of-range field.
func (c Config) Validate() error {
	switch {
	case c.Thickness < MinThickness || c.Thickness > MaxThickness:
		return fmt.Errorf("%w: thickness %d outside [%d, %d]", ErrInvalidConfig, c.Thickness, MinThickness, MaxThickness)
	case !(c.MinContrast > 1):
		return fmt.Errorf("%w: min contrast %g must exceed 1", ErrInvalidConfig, c.MinContrast)
	case !(c.MaxBandFraction > 0 && c.MaxBandFraction <= 1):
		return fmt.Errorf("%w: max band fraction %g outside (0, 1]", ErrInvalidConfig, c.MaxBandFraction)
	case !(c.MaxTilt > 0 && c.MaxTilt <= 45):
		return fmt.Errorf("%w: max tilt %g outside (0, 45]", ErrInvalidConfig, c.MaxTilt)
	case !(c.AngleStep > 0 && c.AngleStep <= 5):
		return fmt.Errorf("%w: angle step %g outside (0, 5]", ErrInvalidConfig, c.AngleStep)
	case !(c.MinCoverage > 0 && c.MinCoverage <= 1):
		return fmt.Errorf("%w: min coverage %g outside (0, 1]", ErrInvalidConfig, c.MinCoverage)
	}
	return nil
}
