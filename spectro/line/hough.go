package line

import (
	"context"
	"fmt"
	"math"

	"github.com/cwbudde/algo-spectro/dsp/core"
)

type ridgePixel struct {
	x, y float64 // relative to the frame centre
	w    float64
}

// byHough searches tilted lines through the bright ridge of the frame.
// Pixels at or above mean+2σ vote with their luminance into 1-px offset
// bins for every angle trial.
func (d *Detector) byHough(ctx context.Context, lum []float64, width, height int) (Detection, error) {
	mean, std := core.MeanStd(lum)
	if !(std > 0) {
		return Detection{}, fmt.Errorf("%w: uniform frame", ErrNoLineDetected)
	}
	threshold := mean + 2*std

	cx := float64(width-1) / 2
	cy := float64(height-1) / 2

	mask := make([]bool, len(lum))
	var ridge []ridgePixel
	for i, v := range lum {
		if v >= threshold {
			mask[i] = true
			ridge = append(ridge, ridgePixel{
				x: float64(i%width) - cx,
				y: float64(i/width) - cy,
				w: v,
			})
		}
	}
	if len(ridge) == 0 {
		return Detection{}, fmt.Errorf("%w: empty ridge mask", ErrNoLineDetected)
	}

	radius := int(math.Ceil(math.Hypot(cx, cy))) + 1
	acc := make([]float64, 2*radius+1)

	steps := int(math.Floor(2*d.cfg.MaxTilt/d.cfg.AngleStep + 1e-9))
	bestVotes := -1.0
	var bestAngle, bestRho float64

	for s := 0; s <= steps; s++ {
		if err := ctx.Err(); err != nil {
			return Detection{}, err
		}

		angle := -d.cfg.MaxTilt + float64(s)*d.cfg.AngleStep
		sin, cos := math.Sincos(angle * math.Pi / 180)

		core.Zero(acc)
		for _, p := range ridge {
			rho := -p.x*sin + p.y*cos
			acc[int(math.Round(rho))+radius] += p.w
		}

		for bin, v := range acc {
			if v > bestVotes || (v == bestVotes && math.Abs(angle) < math.Abs(bestAngle)) {
				bestVotes = v
				bestAngle = angle
				bestRho = float64(bin - radius)
			}
		}
	}

	g, cols, ok := clipLine(bestAngle, bestRho, width, height, d.cfg.Thickness)
	if !ok {
		return Detection{}, fmt.Errorf("%w: best candidate at %.2f° leaves the frame", ErrNoLineDetected, bestAngle)
	}

	coverage := ridgeCoverage(mask, width, height, bestAngle, bestRho, cols)
	if coverage < d.cfg.MinCoverage {
		return Detection{}, fmt.Errorf("%w: ridge coverage %.2f below %.2f", ErrNoLineDetected, coverage, d.cfg.MinCoverage)
	}

	return Detection{
		Geometry:   g,
		AngleDeg:   bestAngle,
		Offset:     cy + bestRho/math.Cos(bestAngle*math.Pi/180),
		Confidence: coverage,
		Method:     MethodHough,
	}, nil
}

// lineY returns the row of the line (angle, rho) at column x, with rho
// measured from the frame centre.
func lineY(angle, rho float64, x float64, width, height int) float64 {
	sin, cos := math.Sincos(angle * math.Pi / 180)
	cx := float64(width-1) / 2
	cy := float64(height-1) / 2
	return cy + (rho+(x-cx)*sin)/cos
}

// clipLine intersects the line with the frame and returns the in-frame
// segment together with the number of integer columns it spans.
func clipLine(angle, rho float64, width, height, thickness int) (Geometry, int, bool) {
	maxX := float64(width - 1)
	maxY := float64(height - 1)

	y0 := lineY(angle, rho, 0, width, height)
	slope := lineY(angle, rho, 1, width, height) - y0

	xa, xb := 0.0, maxX
	if slope != 0 {
		// Columns where 0 <= y0 + slope*x <= maxY.
		lo := (0 - y0) / slope
		hi := (maxY - y0) / slope
		if lo > hi {
			lo, hi = hi, lo
		}
		xa = math.Max(xa, lo)
		xb = math.Min(xb, hi)
	} else if y0 < 0 || y0 > maxY {
		return Geometry{}, 0, false
	}
	if xb-xa < 1 {
		return Geometry{}, 0, false
	}

	g := Geometry{
		Start:     Point{X: xa, Y: core.Clamp(y0+slope*xa, 0, maxY)},
		End:       Point{X: xb, Y: core.Clamp(y0+slope*xb, 0, maxY)},
		Thickness: thickness,
	}
	cols := int(math.Floor(xb)) - int(math.Ceil(xa)) + 1
	return g, cols, true
}

// ridgeCoverage returns the fraction of in-frame columns whose line pixel,
// or one of its vertical neighbours, is in the ridge mask.
func ridgeCoverage(mask []bool, width, height int, angle, rho float64, cols int) float64 {
	if cols <= 0 {
		return 0
	}
	hits := 0
	for x := 0; x < width; x++ {
		y := lineY(angle, rho, float64(x), width, height)
		if y < -0.5 || y > float64(height)-0.5 {
			continue
		}
		row := int(math.Round(y))
		for dy := -1; dy <= 1; dy++ {
			r := row + dy
			if r >= 0 && r < height && mask[r*width+x] {
				hits++
				break
			}
		}
	}
	return math.Min(1, float64(hits)/float64(cols))
}
