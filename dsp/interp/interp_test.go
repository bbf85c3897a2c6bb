package interp

import (
	"math"
	"testing"
)

func TestParabolicRecoversVertex(t *testing.T) {
	for _, x0 := range []float64{-0.4, -0.1, 0, 0.25, 0.49} {
		f := func(x float64) float64 { return -2*(x-x0)*(x-x0) + 3 }
		off, h, ok := Parabolic(f(-1), f(0), f(1))
		if !ok {
			t.Fatalf("x0=%v: expected ok", x0)
		}
		if math.Abs(off-x0) > 1e-12 {
			t.Fatalf("x0=%v: offset = %v", x0, off)
		}
		if math.Abs(h-3) > 1e-12 {
			t.Fatalf("x0=%v: height = %v, want 3", x0, h)
		}
	}
}

func TestParabolicFlat(t *testing.T) {
	off, h, ok := Parabolic(1, 2, 3)
	if ok || off != 0 || h != 2 {
		t.Fatalf("collinear: got (%v, %v, %v), want (0, 2, false)", off, h, ok)
	}
}

func TestBilinearIntegerPositions(t *testing.T) {
	c := Bilinear(2, 1, 4, 3)
	if c.X0 != 2 || c.Y0 != 1 || c.FX != 0 || c.FY != 0 {
		t.Fatalf("unexpected cell %+v", c)
	}
	if got := c.Blend(5, 100, 100, 100); got != 5 {
		t.Fatalf("Blend = %v, want 5", got)
	}
}

func TestBilinearClampsToEdge(t *testing.T) {
	c := Bilinear(-3, 10, 4, 3)
	if c.X0 != 0 || c.Y0 != 2 || c.Y1 != 2 || c.FY != 0 {
		t.Fatalf("unexpected cell %+v", c)
	}
}

func TestBilinearMidpoint(t *testing.T) {
	c := Bilinear(0.5, 0.5, 2, 2)
	if got := c.Blend(0, 1, 2, 3); got != 1.5 {
		t.Fatalf("Blend = %v, want 1.5", got)
	}
}

func TestCrossingLinear(t *testing.T) {
	if got := CrossingLinear(0, 2, 1); got != 0.5 {
		t.Fatalf("CrossingLinear = %v, want 0.5", got)
	}
	if got := CrossingLinear(1, 1, 1); got != 0 {
		t.Fatalf("CrossingLinear flat = %v, want 0", got)
	}
	if got := Linear(2, 4, 0.25); got != 2.5 {
		t.Fatalf("Linear = %v, want 2.5", got)
	}
}
