// Package polyroot finds roots of real polynomials. Coefficients of the
// public helpers are in ascending power order, matching the calibration
// models that use them.
package polyroot

import (
	"errors"
	"math"
	"math/cmplx"
	"sort"

	"github.com/cwbudde/algo-spectro/dsp/core"
)

// ErrDegeneratePolynomial is returned when a polynomial has degenerate
// coefficients (all zero, convergence failure, etc.).
var ErrDegeneratePolynomial = errors.New("polyroot: degenerate polynomial")

// RealTol is the relative tolerance on the imaginary part below which a root
// is treated as real.
const RealTol = 1e-7

// Trim drops trailing zero high-order coefficients.
func Trim(asc []float64) []float64 {
	n := len(asc)
	for n > 0 && asc[n-1] == 0 {
		n--
	}
	return asc[:n]
}

// Derivative returns the coefficients of the first derivative of the
// ascending-order polynomial asc.
func Derivative(asc []float64) []float64 {
	if len(asc) <= 1 {
		return nil
	}
	out := make([]float64, len(asc)-1)
	for k := 1; k < len(asc); k++ {
		out[k-1] = float64(k) * asc[k]
	}
	return out
}

// Roots returns all complex roots of the ascending-order polynomial asc.
// Constant polynomials have no roots; the zero polynomial is degenerate.
func Roots(asc []float64) ([]complex128, error) {
	asc = Trim(asc)
	switch len(asc) {
	case 0:
		return nil, ErrDegeneratePolynomial
	case 1:
		return nil, nil
	case 2:
		return []complex128{complex(-asc[0]/asc[1], 0)}, nil
	}

	desc := make([]complex128, len(asc))
	for i, c := range asc {
		desc[len(asc)-1-i] = complex(c, 0)
	}
	return DurandKerner(desc)
}

// RealRootsIn returns the real roots of asc lying in [lo, hi], sorted
// ascending. Roots closer than RealTol are reported once.
func RealRootsIn(asc []float64, lo, hi float64) ([]float64, error) {
	roots, err := Roots(asc)
	if err != nil {
		return nil, err
	}

	var out []float64
	for _, r := range roots {
		x := real(r)
		if math.Abs(imag(r)) > RealTol*math.Max(1, math.Abs(x)) {
			continue
		}
		if x < lo || x > hi {
			continue
		}
		out = append(out, x)
	}
	sort.Float64s(out)

	dedup := out[:0]
	for _, x := range out {
		if len(dedup) > 0 && math.Abs(x-dedup[len(dedup)-1]) <= RealTol*math.Max(1, math.Abs(x)) {
			continue
		}
		dedup = append(dedup, x)
	}
	return dedup, nil
}

// SignChangesIn returns the roots of asc in the open interval (lo, hi) at
// which the polynomial actually changes sign. Touching roots of even
// multiplicity are skipped.
func SignChangesIn(asc []float64, lo, hi float64) ([]float64, error) {
	roots, err := RealRootsIn(asc, lo, hi)
	if err != nil {
		return nil, err
	}

	var out []float64
	for _, x := range roots {
		if x <= lo || x >= hi {
			continue
		}
		h := 1e-6 * math.Max(1, math.Abs(x))
		left := core.PolyEval(asc, math.Max(lo, x-h))
		right := core.PolyEval(asc, math.Min(hi, x+h))
		if left*right < 0 {
			out = append(out, x)
		}
	}
	return out, nil
}

// DurandKerner finds all roots of a polynomial using the Durand-Kerner
// (Weierstrass) simultaneous iteration method. Coefficients are in descending
// power order: coeff[0]*z^n + coeff[1]*z^(n-1) + ... + coeff[n].
//
//nolint:cyclop
func DurandKerner(coeff []complex128) ([]complex128, error) {
	if len(coeff) < 2 {
		return nil, ErrDegeneratePolynomial
	}

	lead := coeff[0]
	if lead == 0 {
		return nil, ErrDegeneratePolynomial
	}

	n := len(coeff) - 1

	norm := make([]complex128, len(coeff))
	for i := range coeff {
		norm[i] = coeff[i] / lead
	}

	radius := 0.0
	for i := 1; i <= n; i++ {
		if r := cmplx.Abs(norm[i]); r > radius {
			radius = r
		}
	}

	if radius < 1 {
		radius = 1
	}

	roots := make([]complex128, n)
	for i := range n {
		angle := 2*math.Pi*float64(i)/float64(n) + 0.3
		r := radius * (1 + 0.1*float64(i)/float64(n))
		roots[i] = complex(r*math.Cos(angle), r*math.Sin(angle))
	}

	const (
		maxIter = 500
		tol     = 1e-12
	)

	for range maxIter {
		maxDelta := 0.0

		for i := range n {
			den := complex(1, 0)

			for j := range n {
				if i == j {
					continue
				}

				den *= roots[i] - roots[j]
			}

			if cmplx.Abs(den) == 0 {
				roots[i] += complex(1e-10, 1e-10)
				continue
			}

			f := PolyEval(norm, roots[i])
			delta := f / den

			roots[i] -= delta
			if d := cmplx.Abs(delta); d > maxDelta {
				maxDelta = d
			}
		}

		if maxDelta < tol {
			return roots, nil
		}
	}

	maxResidual := 0.0

	for _, r := range roots {
		res := cmplx.Abs(PolyEval(norm, r))
		if res > maxResidual {
			maxResidual = res
		}
	}

	if maxResidual < 1e-6 {
		return roots, nil
	}

	return nil, ErrDegeneratePolynomial
}

// PolyEval evaluates a polynomial at x using Horner's method. Coefficients
// are in descending power order: coeff[0]*x^n + ... + coeff[n].
func PolyEval(coeff []complex128, x complex128) complex128 {
	v := coeff[0]
	for i := 1; i < len(coeff); i++ {
		v = v*x + coeff[i]
	}

	return v
}
