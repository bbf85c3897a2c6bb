package live

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"syscall"
	"time"

	"github.com/pebbe/zmq4"

	"github.com/cwbudde/algo-spectro/spectro/frame"
)

// Source produces frames. Run calls emit for every frame until ctx is done
// or the source fails; it returns nil on cancellation.
type Source interface {
	Run(ctx context.Context, emit func(Packet)) error
}

// Simulator renders a synthetic emission spectrum: a horizontal band with a
// few narrow lines on a faint continuum, plus sensor noise.
type Simulator struct {
	Name          string
	Width, Height int

	// Rate is the frame rate in frames per second.
	Rate float64

	// Lines are the emission line positions as fractions of the width.
	Lines []float64

	// Noise is the standard deviation of the additive noise.
	Noise float64

	// Frames stops the simulator after that many frames when positive.
	Frames int

	Seed uint64
}

// DefaultSimulator returns a 640×480 source at 30 frames per second with
// three lines.
func DefaultSimulator() *Simulator {
	return &Simulator{
		Name:   "simulator",
		Width:  640,
		Height: 480,
		Rate:   30,
		Lines:  []float64{0.16, 0.47, 0.78},
		Noise:  0.005,
		Seed:   1,
	}
}

// Run implements Source.
func (s *Simulator) Run(ctx context.Context, emit func(Packet)) error {
	if s.Width < 2 || s.Height < 2 {
		return fmt.Errorf("live: simulator size %dx%d", s.Width, s.Height)
	}
	if !(s.Rate > 0) {
		return fmt.Errorf("live: simulator rate %g", s.Rate)
	}

	rng := rand.New(rand.NewPCG(s.Seed, s.Seed^0x9e3779b97f4a7c15))
	ticker := time.NewTicker(time.Duration(float64(time.Second) / s.Rate))
	defer ticker.Stop()

	for id := int64(0); s.Frames <= 0 || id < int64(s.Frames); id++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		f, err := s.Render(rng)
		if err != nil {
			return err
		}
		emit(Packet{ID: id, Source: s.Name, Frame: f})
	}
	return nil
}

// Render draws one frame using rng for the noise.
func (s *Simulator) Render(rng *rand.Rand) (*frame.Frame, error) {
	f, err := frame.New(s.Width, s.Height)
	if err != nil {
		return nil, err
	}

	row := float64(s.Height) / 2
	const bandSigma, lineSigma = 3.0, 2.5

	spectrum := make([]frame.RGB, s.Width)
	for x := range spectrum {
		// A warm continuum rising towards the right edge.
		t := float64(x) / float64(s.Width-1)
		c := frame.RGB{R: 0.04 + 0.06*t, G: 0.05, B: 0.06 - 0.04*t}
		for i, l := range s.Lines {
			d := float64(x) - l*float64(s.Width-1)
			a := 0.8 * math.Exp(-d*d/(2*lineSigma*lineSigma))
			switch i % 3 {
			case 0:
				c = c.Add(frame.RGB{R: 0.2 * a, G: 0.3 * a, B: a})
			case 1:
				c = c.Add(frame.RGB{R: 0.3 * a, G: a, B: 0.2 * a})
			default:
				c = c.Add(frame.RGB{R: a, G: 0.3 * a, B: 0.1 * a})
			}
		}
		spectrum[x] = c
	}

	for y := 0; y < s.Height; y++ {
		d := float64(y) - row
		w := math.Exp(-d * d / (2 * bandSigma * bandSigma))
		for x := 0; x < s.Width; x++ {
			c := spectrum[x].Scale(w)
			if s.Noise > 0 {
				n := s.Noise * rng.NormFloat64()
				c = c.Add(frame.RGB{R: n, G: n, B: n})
			}
			f.Set(x, y, frame.RGB{R: max(c.R, 0), G: max(c.G, 0), B: max(c.B, 0)})
		}
	}
	return f, nil
}

// ZMQSource receives CBOR frame messages on a ZeroMQ PULL socket.
type ZMQSource struct {
	Endpoint string
	Logger   *slog.Logger

	// PollInterval bounds how long a receive blocks before ctx is checked
	// again.
	PollInterval time.Duration
}

// Run implements Source.
func (z *ZMQSource) Run(ctx context.Context, emit func(Packet)) error {
	log := z.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	poll := z.PollInterval
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}

	socket, err := zmq4.NewSocket(zmq4.PULL)
	if err != nil {
		return fmt.Errorf("live: zmq socket: %w", err)
	}
	defer socket.Close()

	if err := socket.SetRcvtimeo(poll); err != nil {
		return fmt.Errorf("live: zmq receive timeout: %w", err)
	}
	if err := socket.Connect(z.Endpoint); err != nil {
		return fmt.Errorf("live: zmq connect %s: %w", z.Endpoint, err)
	}
	log.Info("zmq source connected", "endpoint", z.Endpoint)

	var failures uint64
	for {
		if ctx.Err() != nil {
			return nil
		}

		msg, err := socket.RecvBytes(0)
		if err != nil {
			switch zmq4.AsErrno(err) {
			case zmq4.Errno(syscall.EAGAIN), zmq4.Errno(syscall.EINTR):
				continue
			}
			return fmt.Errorf("live: zmq receive: %w", err)
		}

		p, err := DecodeFrame(msg)
		if err != nil {
			failures++
			if failures == 1 || failures%100 == 0 {
				log.Warn("dropping undecodable message", "error", err, "failures", failures)
			}
			continue
		}
		emit(p)
	}
}
