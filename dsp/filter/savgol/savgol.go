package savgol

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/cwbudde/algo-spectro/dsp/conv"
	"github.com/cwbudde/algo-spectro/dsp/core"
)

// Errors returned by Design and Apply.
var (
	ErrInvalidWindow = errors.New("savgol: window must be odd and >= 3")
	ErrInvalidOrder  = errors.New("savgol: invalid polynomial order")
	ErrTooShort      = errors.New("savgol: input shorter than window")
)

// Filter holds a designed Savitzky-Golay filter.
type Filter struct {
	window int
	order  int

	// proj maps a window of samples to polynomial coefficients in the
	// centred window coordinate t = j - window/2; shape (order+1) × window.
	proj *mat.Dense

	center []float64
}

// Design returns a Savitzky-Golay filter for the given odd window length and
// polynomial order. The window must satisfy window >= order+2.
func Design(window, order int) (*Filter, error) {
	if window < 3 || window%2 == 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWindow, window)
	}
	if order < 0 || window < order+2 {
		return nil, fmt.Errorf("%w: order %d with window %d (need window >= order+2)", ErrInvalidOrder, order, window)
	}

	half := window / 2
	cols := order + 1

	vander := mat.NewDense(window, cols, nil)
	for j := 0; j < window; j++ {
		t := float64(j - half)
		p := 1.0
		for k := 0; k < cols; k++ {
			vander.Set(j, k, p)
			p *= t
		}
	}

	ident := mat.NewDense(window, window, nil)
	for j := 0; j < window; j++ {
		ident.Set(j, j, 1)
	}

	var qr mat.QR
	qr.Factorize(vander)

	var proj mat.Dense
	if err := qr.SolveTo(&proj, false, ident); err != nil {
		return nil, fmt.Errorf("savgol: design failed: %w", err)
	}

	center := make([]float64, window)
	for j := range center {
		center[j] = proj.At(0, j)
	}

	return &Filter{
		window: window,
		order:  order,
		proj:   &proj,
		center: center,
	}, nil
}

// Window returns the filter window length.
func (f *Filter) Window() int { return f.window }

// Order returns the polynomial order.
func (f *Filter) Order() int { return f.order }

// Coefficients returns a copy of the centre smoothing coefficients.
func (f *Filter) Coefficients() []float64 {
	out := make([]float64, len(f.center))
	copy(out, f.center)
	return out
}

// Apply filters x and returns a new slice of the same length.
func (f *Filter) Apply(x []float64) ([]float64, error) {
	n := len(x)
	if n < f.window {
		return nil, fmt.Errorf("%w: %d < %d", ErrTooShort, n, f.window)
	}

	half := f.window / 2
	out := make([]float64, n)

	conv.SlidingDot(out[half:n-half], x, f.center)

	head := f.fitWindow(x[:f.window])
	tail := f.fitWindow(x[n-f.window:])
	for i := 0; i < half; i++ {
		out[i] = core.PolyEval(head, float64(i-half))
		out[n-half+i] = core.PolyEval(tail, float64(i+1))
	}

	return out, nil
}

// fitWindow returns the least-squares polynomial coefficients for one window.
func (f *Filter) fitWindow(segment []float64) []float64 {
	rows, _ := f.proj.Dims()
	coeffs := make([]float64, rows)
	for k := 0; k < rows; k++ {
		coeffs[k] = mat.Dot(f.proj.RowView(k), mat.NewVecDense(len(segment), segment))
	}
	return coeffs
}
