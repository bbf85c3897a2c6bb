package condition

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-spectro/dsp/core"
)

// TemporalMode selects how successive frames are averaged.
type TemporalMode int

const (
	// EMA is an exponential moving average with weight Alpha on the newest
	// frame.
	EMA TemporalMode = iota
	// Window is the plain mean of the last Size frames.
	Window
)

// TemporalConfig configures a Temporal.
type TemporalConfig struct {
	Mode  TemporalMode
	Size  int
	Alpha float64
}

// DefaultTemporalConfig returns an EMA over 5 frames with alpha 0.3.
func DefaultTemporalConfig() TemporalConfig {
	return TemporalConfig{Mode: EMA, Size: 5, Alpha: 0.3}
}

// Temporal is the per-session rolling state for live averaging. It resets
// itself when the profile length changes. A Temporal must be used by one
// goroutine at a time.
type Temporal struct {
	cfg TemporalConfig

	// Window mode keeps a ring of frames; EMA keeps only the running state.
	ring  [][]float64
	next  int
	state []float64
	count int

	scratch []float64
	source  string
}

// NewTemporal validates cfg and returns an empty state.
func NewTemporal(cfg TemporalConfig) (*Temporal, error) {
	if cfg.Size < 1 {
		return nil, fmt.Errorf("%w: temporal size %d must be >= 1", ErrInvalidConfig, cfg.Size)
	}
	if cfg.Mode == EMA && !(cfg.Alpha > 0 && cfg.Alpha <= 1) {
		return nil, fmt.Errorf("%w: temporal alpha %g outside (0, 1]", ErrInvalidConfig, cfg.Alpha)
	}
	if cfg.Mode != EMA && cfg.Mode != Window {
		return nil, fmt.Errorf("%w: unknown temporal mode %d", ErrInvalidConfig, cfg.Mode)
	}
	return &Temporal{cfg: cfg}, nil
}

// Reset drops all buffered frames.
func (t *Temporal) Reset() {
	t.ring = t.ring[:0]
	t.next = 0
	t.count = 0
}

// ResetFor resets the state when sourceID differs from the last source seen
// and reports whether it did.
func (t *Temporal) ResetFor(sourceID string) bool {
	if sourceID == t.source {
		return false
	}
	t.source = sourceID
	t.Reset()
	return true
}

// Len returns the number of frames contributing to the current average,
// capped at Size.
func (t *Temporal) Len() int { return t.count }

// apply folds x into the state and returns the averaged signal as a new
// slice. Buffers are reused across frames of the same length.
func (t *Temporal) apply(x []float64) []float64 {
	if t.count > 0 && len(t.state) != len(x) {
		t.Reset()
	}
	n := len(x)

	switch t.cfg.Mode {
	case Window:
		var frame []float64
		if len(t.ring) < t.cfg.Size {
			frame = make([]float64, n)
			t.ring = append(t.ring, frame)
		} else {
			frame = t.ring[t.next]
		}
		core.CopyInto(frame, x)
		t.next = (t.next + 1) % t.cfg.Size

		t.scratch = core.EnsureLen(t.scratch, n)
		core.Zero(t.scratch)
		for _, f := range t.ring {
			vecmath.AddBlockInPlace(t.scratch, f)
		}
		t.state = core.EnsureLen(t.state, n)
		vecmath.ScaleBlock(t.state, t.scratch, 1/float64(len(t.ring)))
		t.count = len(t.ring)

	default:
		if t.count == 0 {
			t.state = core.EnsureLen(t.state, n)
			core.CopyInto(t.state, x)
		} else {
			// state = alpha*x + (1-alpha)*state
			t.scratch = core.EnsureLen(t.scratch, n)
			vecmath.ScaleBlock(t.scratch, x, t.cfg.Alpha)
			vecmath.ScaleBlockInPlace(t.state, 1-t.cfg.Alpha)
			vecmath.AddBlockInPlace(t.state, t.scratch)
		}
		t.count = min(t.count+1, t.cfg.Size)
	}

	out := make([]float64, n)
	copy(out, t.state)
	return out
}
