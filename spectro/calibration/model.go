package calibration

import (
	"fmt"
	"slices"
	"time"

	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/internal/polyroot"
	"github.com/cwbudde/algo-spectro/spectro/profile"
)

// Order limits.
const (
	MinOrder = 1
	MaxOrder = 3
)

// Point pairs a pixel position with a known wavelength in nanometres.
type Point struct {
	Pixel      float64
	Wavelength float64
	Label      string
}

// Metrics describes how well a model fits its points.
type Metrics struct {
	R2       float64
	RMSE     float64
	MaxError float64
	// Residuals holds wavelength - Apply(pixel) per point, in point order.
	Residuals []float64
}

// Model maps pixel positions to wavelengths.
type Model struct {
	order     int
	coeffs    []float64 // ascending powers of the pixel position
	domain    [2]float64
	metrics   Metrics
	points    []Point
	warnings  []string
	createdAt time.Time
}

// Order returns the polynomial order.
func (m *Model) Order() int { return m.order }

// Coefficients returns the polynomial coefficients, lowest power first.
func (m *Model) Coefficients() []float64 { return slices.Clone(m.coeffs) }

// Domain returns the pixel range the model is valid for.
func (m *Model) Domain() (lo, hi float64) { return m.domain[0], m.domain[1] }

// Metrics returns the fit metrics.
func (m *Model) Metrics() Metrics {
	out := m.metrics
	out.Residuals = slices.Clone(m.metrics.Residuals)
	return out
}

// Points returns the calibration points the model was fitted to.
func (m *Model) Points() []Point { return slices.Clone(m.points) }

// Warnings returns non-fatal findings about the fit, such as a mapping
// that is not monotonic over its domain.
func (m *Model) Warnings() []string { return slices.Clone(m.warnings) }

// CreatedAt returns the time the model was fitted.
func (m *Model) CreatedAt() time.Time { return m.createdAt }

// Apply returns the wavelength at pixel position px. Positions outside the
// domain are extrapolated.
func (m *Model) Apply(px float64) float64 {
	return core.PolyEval(m.coeffs, px)
}

// ApplyAll maps every pixel position in px.
func (m *Model) ApplyAll(px []float64) []float64 {
	out := make([]float64, len(px))
	for i, x := range px {
		out[i] = m.Apply(x)
	}
	return out
}

// Wavelengths returns the wavelength of every sample position of p.
func (m *Model) Wavelengths(p *profile.Profile) []float64 {
	return m.ApplyAll(p.Positions())
}

// InDomain reports whether px lies inside the model domain.
func (m *Model) InDomain(px float64) bool {
	return px >= m.domain[0] && px <= m.domain[1]
}

// Invert returns the pixel position inside the domain that maps to wl.
// It fails with ErrNoInverse when there is no such position or more than
// one. The result is a convenience; a fitted polynomial of order above 1
// need not be invertible.
func (m *Model) Invert(wl float64) (float64, error) {
	shifted := slices.Clone(m.coeffs)
	shifted[0] -= wl

	if m.order == 1 {
		px := -shifted[0] / shifted[1]
		if !m.InDomain(px) {
			return 0, fmt.Errorf("%w: %g nm maps outside the domain", ErrNoInverse, wl)
		}
		return px, nil
	}

	roots, err := polyroot.RealRootsIn(shifted, m.domain[0], m.domain[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrNoInverse, err)
	}
	if len(roots) != 1 {
		return 0, fmt.Errorf("%w: %d solutions for %g nm", ErrNoInverse, len(roots), wl)
	}
	return roots[0], nil
}

const flatWarning = "mapping has zero slope: all points share one wavelength"

// monotonicWarnings checks the sign of the slope between the outermost
// calibration pixels.
func monotonicWarnings(coeffs []float64, lo, hi float64) []string {
	deriv := polyroot.Trim(polyroot.Derivative(coeffs))
	if len(deriv) == 0 {
		return []string{flatWarning}
	}

	turns, err := polyroot.SignChangesIn(deriv, lo, hi)
	if err != nil {
		return []string{fmt.Sprintf("monotonicity check failed: %v", err)}
	}

	var out []string
	for _, x := range turns {
		out = append(out, fmt.Sprintf("mapping is not monotonic: slope changes sign at pixel %.3f", x))
	}
	return out
}

func finite(vs ...float64) bool {
	return core.AllFinite(vs)
}
