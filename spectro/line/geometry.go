package line

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectro/dsp/core"
)

// Thickness limits for a sampling band, in pixels.
const (
	MinThickness     = 1
	MaxThickness     = 20
	DefaultThickness = 5
)

// Errors returned by the package.
var (
	ErrNoLineDetected  = errors.New("line: no spectrum line detected")
	ErrInvalidGeometry = errors.New("line: invalid geometry")
	ErrInvalidConfig   = errors.New("line: invalid configuration")
)

// Point is a position in pixel coordinates; x grows to the right, y down.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{X: p.X * s, Y: p.Y * s} }

// Geometry is a straight sampling segment with a band thickness.
type Geometry struct {
	Start     Point
	End       Point
	Thickness int
}

// Validate checks the geometry against a width×height frame.
func (g Geometry) Validate(width, height int) error {
	if g.Thickness < MinThickness || g.Thickness > MaxThickness {
		return fmt.Errorf("%w: thickness %d outside [%d, %d]", ErrInvalidGeometry, g.Thickness, MinThickness, MaxThickness)
	}
	for _, p := range []Point{g.Start, g.End} {
		if !core.IsFinite(p.X) || !core.IsFinite(p.Y) {
			return fmt.Errorf("%w: non-finite point", ErrInvalidGeometry)
		}
		if p.X < 0 || p.Y < 0 || p.X >= float64(width) || p.Y >= float64(height) {
			return fmt.Errorf("%w: point (%g, %g) outside %dx%d frame", ErrInvalidGeometry, p.X, p.Y, width, height)
		}
	}
	if g.Length() < 1 {
		return fmt.Errorf("%w: start and end closer than one pixel", ErrInvalidGeometry)
	}
	return nil
}

// Length returns the Euclidean distance from Start to End.
func (g Geometry) Length() float64 {
	d := g.End.Sub(g.Start)
	return math.Hypot(d.X, d.Y)
}

// Samples returns the number of unit-spaced positions along the segment,
// floor(Length)+1.
func (g Geometry) Samples() int {
	return int(math.Floor(g.Length())) + 1
}

// Direction returns the unit vector from Start to End.
func (g Geometry) Direction() Point {
	l := g.Length()
	if l == 0 {
		return Point{}
	}
	return g.End.Sub(g.Start).Scale(1 / l)
}

// Normal returns the unit normal, Direction rotated by +90°.
func (g Geometry) Normal() Point {
	u := g.Direction()
	return Point{X: -u.Y, Y: u.X}
}

// AngleDeg returns the tilt of the segment in degrees, measured from the
// positive x axis towards positive y.
func (g Geometry) AngleDeg() float64 {
	d := g.End.Sub(g.Start)
	return math.Atan2(d.Y, d.X) * 180 / math.Pi
}

// Manual returns the geometry spanned by two operator-supplied points after
// validating it against the frame size.
func Manual(width, height int, start, end Point, thickness int) (Geometry, error) {
	g := Geometry{Start: start, End: end, Thickness: thickness}
	if err := g.Validate(width, height); err != nil {
		return Geometry{}, err
	}
	return g, nil
}
