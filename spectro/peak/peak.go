// Package peak finds prominent peaks in spectrum profiles with sub-pixel
// position refinement.
//
// Candidates are local maxima; flat tops collapse to their midpoint.
// Prominence follows the usual topographic definition: the height of a
// peak above the higher of the two lowest points reached before climbing
// to a higher peak (or the signal end) on either side.
package peak

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-spectro/dsp/interp"
	"github.com/cwbudde/algo-spectro/spectro/profile"
)

// ErrInvalidConfig is returned by NewDetector for out-of-range options.
var ErrInvalidConfig = errors.New("peak: invalid configuration")

// Order selects the order of returned peaks.
type Order int

const (
	// ByPosition sorts peaks by ascending position.
	ByPosition Order = iota
	// ByAmplitude sorts peaks by descending amplitude.
	ByAmplitude
)

// Peak is a detected maximum.
type Peak struct {
	// Position is the refined sub-pixel position along the profile.
	Position float64
	// Amplitude is the refined height at Position.
	Amplitude float64
	// Prominence is measured on the integer maximum.
	Prominence float64
	// Width is the full width at half prominence, in samples.
	Width float64
	// Index is the integer sample of the maximum.
	Index int
}

type config struct {
	minProminence float64
	minHeight     float64
	minDistance   float64
	maxPeaks      int
	order         Order
}

// Option configures a Detector.
type Option func(*config)

// WithMinProminence drops peaks less prominent than p.
func WithMinProminence(p float64) Option {
	return func(c *config) { c.minProminence = p }
}

// WithMinHeight drops peaks lower than h.
func WithMinHeight(h float64) Option {
	return func(c *config) { c.minHeight = h }
}

// WithMinDistance merges peaks closer than px samples, keeping the higher
// one.
func WithMinDistance(px float64) Option {
	return func(c *config) { c.minDistance = px }
}

// WithMaxPeaks keeps at most n peaks, the most prominent first. Zero means
// no limit.
func WithMaxPeaks(n int) Option {
	return func(c *config) { c.maxPeaks = n }
}

// WithOrder sets the output order.
func WithOrder(o Order) Option {
	return func(c *config) { c.order = o }
}

// Detector finds peaks. It is immutable and safe for concurrent use.
type Detector struct {
	cfg config
}

// NewDetector returns a detector. By default every local maximum is
// reported in ascending position order.
func NewDetector(opts ...Option) (*Detector, error) {
	cfg := config{minHeight: math.Inf(-1)}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case !(cfg.minProminence >= 0):
		return nil, fmt.Errorf("%w: min prominence %g", ErrInvalidConfig, cfg.minProminence)
	case math.IsNaN(cfg.minHeight):
		return nil, fmt.Errorf("%w: min height is NaN", ErrInvalidConfig)
	case !(cfg.minDistance >= 0):
		return nil, fmt.Errorf("%w: min distance %g", ErrInvalidConfig, cfg.minDistance)
	case cfg.maxPeaks < 0:
		return nil, fmt.Errorf("%w: max peaks %d", ErrInvalidConfig, cfg.maxPeaks)
	case cfg.order != ByPosition && cfg.order != ByAmplitude:
		return nil, fmt.Errorf("%w: order %d", ErrInvalidConfig, cfg.order)
	}
	return &Detector{cfg: cfg}, nil
}

// Detect returns the peaks of the profile's smoothed signal, or of its raw
// luminance when it has not been conditioned.
func (d *Detector) Detect(p *profile.Profile) []Peak {
	return d.DetectSignal(p.Signal())
}

// DetectSignal returns the peaks of x.
func (d *Detector) DetectSignal(x []float64) []Peak {
	cands := localMaxima(x)

	kept := cands[:0]
	for _, c := range cands {
		if x[c.index] < d.cfg.minHeight {
			continue
		}
		c.prominence, c.leftBase, c.rightBase = prominence(x, c.index)
		if c.prominence < d.cfg.minProminence {
			continue
		}
		kept = append(kept, c)
	}

	if d.cfg.minDistance > 0 {
		kept = byDistance(x, kept, d.cfg.minDistance)
	}

	if d.cfg.maxPeaks > 0 && len(kept) > d.cfg.maxPeaks {
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].prominence > kept[j].prominence })
		kept = kept[:d.cfg.maxPeaks]
	}

	peaks := make([]Peak, len(kept))
	for i, c := range kept {
		peaks[i] = refine(x, c)
	}

	switch d.cfg.order {
	case ByAmplitude:
		sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Amplitude > peaks[j].Amplitude })
	default:
		sort.SliceStable(peaks, func(i, j int) bool { return peaks[i].Position < peaks[j].Position })
	}
	return peaks
}

type candidate struct {
	index               int
	prominence          float64
	leftBase, rightBase int
}

// localMaxima returns interior maxima. A plateau counts once, at its middle
// sample (the left one for even lengths).
func localMaxima(x []float64) []candidate {
	var out []candidate
	n := len(x)
	i := 1
	for i < n-1 {
		if x[i-1] < x[i] {
			ahead := i + 1
			for ahead < n-1 && x[ahead] == x[i] {
				ahead++
			}
			if x[ahead] < x[i] {
				out = append(out, candidate{index: (i + ahead - 1) / 2})
				i = ahead
				continue
			}
		}
		i++
	}
	return out
}

// prominence walks outward from peak until a strictly higher sample or the
// signal end, tracking the minimum on each side.
func prominence(x []float64, peak int) (prom float64, leftBase, rightBase int) {
	h := x[peak]

	leftMin := h
	leftBase = peak
	for i := peak - 1; i >= 0 && x[i] <= h; i-- {
		if x[i] < leftMin {
			leftMin = x[i]
			leftBase = i
		}
	}

	rightMin := h
	rightBase = peak
	for i := peak + 1; i < len(x) && x[i] <= h; i++ {
		if x[i] < rightMin {
			rightMin = x[i]
			rightBase = i
		}
	}

	return h - math.Max(leftMin, rightMin), leftBase, rightBase
}

// byDistance drops candidates within dist of a higher candidate. Candidates
// must be sorted by index.
func byDistance(x []float64, cands []candidate, dist float64) []candidate {
	order := make([]int, len(cands))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return x[cands[order[a]].index] > x[cands[order[b]].index] })

	removed := make([]bool, len(cands))
	for _, i := range order {
		if removed[i] {
			continue
		}
		for j := i - 1; j >= 0 && float64(cands[i].index-cands[j].index) < dist; j-- {
			removed[j] = true
		}
		for j := i + 1; j < len(cands) && float64(cands[j].index-cands[i].index) < dist; j++ {
			removed[j] = true
		}
	}

	out := cands[:0]
	for i, c := range cands {
		if !removed[i] {
			out = append(out, c)
		}
	}
	return out
}

func refine(x []float64, c candidate) Peak {
	p := Peak{
		Position:   float64(c.index),
		Amplitude:  x[c.index],
		Prominence: c.prominence,
		Index:      c.index,
	}
	if off, height, ok := interp.Parabolic(x[c.index-1], x[c.index], x[c.index+1]); ok {
		p.Position += off
		p.Amplitude = height
	}
	p.Width = halfWidth(x, c)
	return p
}

// halfWidth returns the width of the peak at half its prominence, bounded
// by its bases.
func halfWidth(x []float64, c candidate) float64 {
	level := x[c.index] - c.prominence/2

	left := float64(c.leftBase)
	for i := c.index; i > c.leftBase; i-- {
		if x[i-1] <= level {
			left = float64(i) - interp.CrossingLinear(x[i], x[i-1], level)
			break
		}
	}

	right := float64(c.rightBase)
	for i := c.index; i < c.rightBase; i++ {
		if x[i+1] <= level {
			right = float64(i) + interp.CrossingLinear(x[i], x[i+1], level)
			break
		}
	}
	return right - left
}
