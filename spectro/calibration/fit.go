package calibration

import (
	"fmt"
	"math"
	"slices"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-spectro/dsp/core"
)

// maxCondition is the largest accepted 2-norm condition number of the
// scaled design matrix.
const maxCondition = 1e12

// duplicateTol is the relative pixel distance below which two points are
// treated as the same position.
const duplicateTol = 1e-9

type fitConfig struct {
	domain *[2]float64
	clock  func() time.Time
}

// FitOption configures Fit.
type FitOption func(*fitConfig)

// WithDomain sets the pixel domain of the model. By default the domain is
// the range of the calibration pixels.
func WithDomain(lo, hi float64) FitOption {
	return func(c *fitConfig) { c.domain = &[2]float64{lo, hi} }
}

// WithClock sets the time source for the model creation time.
func WithClock(now func() time.Time) FitOption {
	return func(c *fitConfig) { c.clock = now }
}

// Fit returns the least-squares polynomial of the given order through
// points. It needs at least order+1 points at distinct pixel positions and
// never lowers the order on its own.
func Fit(points []Point, order int, opts ...FitOption) (*Model, error) {
	cfg := fitConfig{clock: time.Now}
	for _, opt := range opts {
		opt(&cfg)
	}

	if order < MinOrder || order > MaxOrder {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	for i, p := range points {
		if !finite(p.Pixel, p.Wavelength) {
			return nil, fmt.Errorf("%w: point %d (%g px, %g nm)", ErrInvalidPoint, i, p.Pixel, p.Wavelength)
		}
	}
	if need := order + 1; len(points) < need {
		return nil, fmt.Errorf("%w: have %d, need %d for order %d", ErrInsufficientPoints, len(points), need, order)
	}

	pixels := make([]float64, len(points))
	for i, p := range points {
		pixels[i] = p.Pixel
	}
	sorted := slices.Clone(pixels)
	slices.Sort(sorted)
	lo, hi := sorted[0], sorted[len(sorted)-1]

	for i := 1; i < len(sorted); i++ {
		if core.NearlyEqual(sorted[i-1], sorted[i], duplicateTol) {
			return nil, fmt.Errorf("%w: duplicate pixel position %g", ErrIllConditionedFit, sorted[i])
		}
	}

	domain := [2]float64{lo, hi}
	if cfg.domain != nil {
		domain = *cfg.domain
		if !finite(domain[0], domain[1]) || !(domain[0] < domain[1]) {
			return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidDomain, domain[0], domain[1])
		}
	}

	coeffs, err := solve(points, order, (lo+hi)/2, (hi-lo)/2)
	if err != nil {
		return nil, err
	}

	m := &Model{
		order:     order,
		coeffs:    coeffs,
		domain:    domain,
		points:    slices.Clone(points),
		createdAt: cfg.clock(),
	}
	m.metrics = metricsFor(m, points)
	if flat(points) {
		m.warnings = []string{flatWarning}
	} else {
		m.warnings = monotonicWarnings(coeffs, lo, hi)
	}
	return m, nil
}

// solve fits the polynomial in t = (x-center)/half and returns coefficients
// in powers of x.
func solve(points []Point, order int, center, half float64) ([]float64, error) {
	rows := len(points)
	cols := order + 1

	design := mat.NewDense(rows, cols, nil)
	rhs := mat.NewVecDense(rows, nil)
	for i, p := range points {
		t := (p.Pixel - center) / half
		v := 1.0
		for k := 0; k < cols; k++ {
			design.Set(i, k, v)
			v *= t
		}
		rhs.SetVec(i, p.Wavelength)
	}

	if c := mat.Cond(design, 2); !(c <= maxCondition) {
		return nil, fmt.Errorf("%w: condition number %.3g", ErrIllConditionedFit, c)
	}

	var qr mat.QR
	qr.Factorize(design)

	var beta mat.VecDense
	if err := qr.SolveVecTo(&beta, false, rhs); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIllConditionedFit, err)
	}

	scaled := make([]float64, cols)
	for k := range scaled {
		scaled[k] = beta.AtVec(k)
	}
	return expand(scaled, center, half), nil
}

// expand rewrites sum_k b[k]*((x-c)/h)^k as sum_j a[j]*x^j.
func expand(b []float64, c, h float64) []float64 {
	a := make([]float64, len(b))
	for k, bk := range b {
		// ((x-c)/h)^k = h^-k * sum_j C(k,j) x^j (-c)^(k-j)
		f := bk / math.Pow(h, float64(k))
		for j := 0; j <= k; j++ {
			a[j] += f * binomial(k, j) * math.Pow(-c, float64(k-j))
		}
	}
	return a
}

func binomial(n, k int) float64 {
	r := 1.0
	for i := 1; i <= k; i++ {
		r = r * float64(n-k+i) / float64(i)
	}
	return r
}

func metricsFor(m *Model, points []Point) Metrics {
	n := float64(len(points))

	var mean float64
	for _, p := range points {
		mean += p.Wavelength
	}
	mean /= n

	res := make([]float64, len(points))
	var ssRes, ssTot, maxErr float64
	for i, p := range points {
		r := p.Wavelength - m.Apply(p.Pixel)
		res[i] = r
		ssRes += r * r
		d := p.Wavelength - mean
		ssTot += d * d
		maxErr = math.Max(maxErr, math.Abs(r))
	}

	rmse := math.Sqrt(ssRes / n)

	// With identical wavelengths R² is 1 only for a vanishing residual.
	r2 := 1.0
	if ssTot > 0 {
		r2 = 1 - ssRes/ssTot
	} else if rmse > 1e-9*math.Max(1, math.Abs(mean)) {
		r2 = 0
	}

	return Metrics{
		R2:        r2,
		RMSE:      rmse,
		MaxError:  maxErr,
		Residuals: res,
	}
}

func flat(points []Point) bool {
	for _, p := range points[1:] {
		if p.Wavelength != points[0].Wavelength {
			return false
		}
	}
	return true
}
