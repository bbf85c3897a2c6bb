package interp

import "math"

// Linear interpolates between a and b at frac in [0,1].
func Linear(a, b, frac float64) float64 {
	return a + frac*(b-a)
}

// CrossingLinear returns the fractional offset in [0,1] at which the segment
// from a to b reaches level. It returns 0 when a == b.
func CrossingLinear(a, b, level float64) float64 {
	if a == b {
		return 0
	}
	t := (level - a) / (b - a)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// Parabolic fits y = a(x-x0)^2 + c through (-1, ym1), (0, y0), (1, yp1) and
// returns the vertex offset x0 relative to the centre sample together with the
// vertex height c.
//
// ok is false when the three samples are collinear (no curvature) or when the
// vertex falls outside [-1, 1]; offset is 0 and height is y0 in that case.
func Parabolic(ym1, y0, yp1 float64) (offset, height float64, ok bool) {
	denom := ym1 - 2*y0 + yp1
	if math.Abs(denom) < 1e-12 {
		return 0, y0, false
	}

	offset = 0.5 * (ym1 - yp1) / denom
	if math.Abs(offset) > 1 {
		return 0, y0, false
	}

	height = y0 - 0.25*(ym1-yp1)*offset
	return offset, height, true
}

// Cell describes the four grid neighbours and weights used for a bilinear
// lookup. X1/Y1 equal X0/Y0 at the upper border.
type Cell struct {
	X0, Y0, X1, Y1 int
	FX, FY         float64
}

// Bilinear returns the clamp-to-edge bilinear cell for position (x, y) on a
// width×height grid whose samples sit at integer coordinates. Positions
// outside the grid are clamped to the nearest edge sample.
func Bilinear(x, y float64, width, height int) Cell {
	x = clampCoord(x, width)
	y = clampCoord(y, height)

	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	c := Cell{X0: x0, Y0: y0, X1: x0, Y1: y0, FX: x - float64(x0), FY: y - float64(y0)}
	if x0+1 < width {
		c.X1 = x0 + 1
	} else {
		c.FX = 0
	}
	if y0+1 < height {
		c.Y1 = y0 + 1
	} else {
		c.FY = 0
	}
	return c
}

// Blend combines four corner values with the cell weights.
// v00 is at (X0,Y0), v10 at (X1,Y0), v01 at (X0,Y1), v11 at (X1,Y1).
func (c Cell) Blend(v00, v10, v01, v11 float64) float64 {
	top := v00 + c.FX*(v10-v00)
	bottom := v01 + c.FX*(v11-v01)
	return top + c.FY*(bottom-top)
}

func clampCoord(v float64, n int) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	if limit := float64(n - 1); v > limit {
		return limit
	}
	return v
}
