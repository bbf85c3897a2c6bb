package live

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-spectro/spectro/calibration"
	"github.com/cwbudde/algo-spectro/spectro/condition"
	"github.com/cwbudde/algo-spectro/spectro/pipeline"
)

// Update is delivered for every processed frame.
type Update struct {
	ID     int64
	Source string

	// Result is nil when Err is set.
	Result *pipeline.Result

	// Wavelengths is set when the session has a calibration.
	Wavelengths []float64

	// PeakWavelengths holds the calibrated wavelength at each refined peak
	// position, in Result.Peaks order. It is set with Wavelengths.
	PeakWavelengths []float64

	Err error

	// Dropped is the total number of frames discarded by the slot.
	Dropped uint64
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithCalibration applies m to every result.
func WithCalibration(m *calibration.Model) SessionOption {
	return func(s *Session) { s.model = m }
}

// Session processes a live frame stream. It owns the temporal conditioning
// state; Run must not be called concurrently with itself. The setters may
// be called from any goroutine while Run is active.
type Session struct {
	log  *slog.Logger
	slot *Slot

	mu       sync.Mutex
	pipe     *pipeline.Pipeline
	model    *calibration.Model
	temporal *condition.Temporal
	frozen   bool
}

// NewSession returns a session running p with temporal averaging per tcfg.
func NewSession(p *pipeline.Pipeline, tcfg condition.TemporalConfig, opts ...SessionOption) (*Session, error) {
	temporal, err := condition.NewTemporal(tcfg)
	if err != nil {
		return nil, err
	}
	s := &Session{
		log:      slog.New(slog.DiscardHandler),
		slot:     NewSlot(),
		pipe:     p,
		temporal: temporal,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SetPipeline replaces the pipeline and resets temporal state.
func (s *Session) SetPipeline(p *pipeline.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pipe = p
	s.temporal.Reset()
}

// SetCalibration replaces the calibration; nil removes it.
func (s *Session) SetCalibration(m *calibration.Model) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = m
}

// Freeze stops or resumes processing. Frames arriving while frozen are
// discarded. Temporal state is reset on every change.
func (s *Session) Freeze(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.frozen == on {
		return
	}
	s.frozen = on
	s.temporal.Reset()
	s.log.Info("session freeze changed", "frozen", on)
}

// Frozen reports whether the session is frozen.
func (s *Session) Frozen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frozen
}

// Dropped returns the number of frames discarded by latest-wins delivery.
func (s *Session) Dropped() uint64 { return s.slot.Dropped() }

// Run reads src on a producer goroutine and processes the newest available
// frame on the calling goroutine, passing each outcome to out. It returns
// when ctx is done, when src ends after its last frame has been processed,
// or with the error of a failing src.
func (s *Session) Run(ctx context.Context, src Source, out func(Update)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srcDone := make(chan error, 1)
	go func() {
		srcDone <- src.Run(ctx, func(p Packet) { s.slot.Offer(p) })
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-srcDone:
			if err != nil {
				s.log.Error("frame source failed", "error", err)
				return err
			}
			select {
			case p := <-s.slot.C():
				if u, ok := s.process(ctx, p); ok {
					out(u)
				}
			default:
			}
			return nil
		case p := <-s.slot.C():
			if u, ok := s.process(ctx, p); ok {
				out(u)
			}
		}
	}
}

func (s *Session) process(ctx context.Context, p Packet) (Update, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.frozen {
		return Update{}, false
	}
	if s.temporal.ResetFor(p.Source) {
		s.log.Info("frame source changed", "source", p.Source)
	}

	u := Update{ID: p.ID, Source: p.Source, Dropped: s.slot.Dropped()}
	res, err := s.pipe.Process(ctx, p.Frame, s.temporal)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Update{}, false
		}
		s.log.Debug("frame not processed", "id", p.ID, "error", err)
		u.Err = err
		return u, true
	}

	u.Result = res
	if s.model != nil {
		u.Wavelengths = res.Calibrate(s.model)
		u.PeakWavelengths = make([]float64, len(res.Peaks))
		for i, pk := range res.Peaks {
			u.PeakWavelengths[i] = s.model.Apply(pk.Position)
		}
	}
	return u, true
}
