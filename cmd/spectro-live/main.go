// Command spectro-live runs the spectrum pipeline on a live frame stream and
// broadcasts the results to websocket clients.
//
// Frames come from a ZeroMQ PULL endpoint carrying CBOR frame messages, or
// from the built-in simulator when no endpoint is given.
//
// Examples:
//
//	spectro-live -addr :8080
//	spectro-live -endpoint tcp://camera:5557 -calibration cfl
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cwbudde/algo-spectro/dsp/core"
	"github.com/cwbudde/algo-spectro/live"
	"github.com/cwbudde/algo-spectro/spectro/calibration"
	"github.com/cwbudde/algo-spectro/spectro/calibration/store"
	"github.com/cwbudde/algo-spectro/spectro/condition"
	"github.com/cwbudde/algo-spectro/spectro/line"
	"github.com/cwbudde/algo-spectro/spectro/peak"
	"github.com/cwbudde/algo-spectro/spectro/pipeline"
)

func main() {
	var (
		addr       = flag.String("addr", ":8080", "HTTP listen address")
		endpoint   = flag.String("endpoint", "", "ZMQ endpoint for frames (default: simulator)")
		simRate    = flag.Float64("sim-rate", 30, "simulator frame rate")
		thickness  = flag.Int("thickness", line.DefaultThickness, "sampling band thickness in pixels")
		prominence = flag.Float64("prominence", 0.02, "minimum peak prominence")
		temporal   = flag.String("temporal", "ema", "temporal averaging: ema or window")
		tsize      = flag.Int("temporal-size", 5, "frames in the temporal window")
		alpha      = flag.Float64("temporal-alpha", 0.3, "EMA weight of the newest frame")
		calName    = flag.String("calibration", "", "stored calibration name or profile file")
		storeDir   = flag.String("store", "", "calibration profile directory (default: user config dir)")
		verbose    = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if err := run(log, options{
		addr:       *addr,
		endpoint:   *endpoint,
		simRate:    *simRate,
		thickness:  *thickness,
		prominence: *prominence,
		temporal:   *temporal,
		tsize:      *tsize,
		alpha:      *alpha,
		calName:    *calName,
		storeDir:   *storeDir,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	addr       string
	endpoint   string
	simRate    float64
	thickness  int
	prominence float64
	temporal   string
	tsize      int
	alpha      float64
	calName    string
	storeDir   string
}

func run(log *slog.Logger, o options) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := pipeline.DefaultConfig()
	cfg.Thickness = o.thickness
	cfg.Peaks = []peak.Option{peak.WithMinProminence(o.prominence)}
	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	tcfg := condition.TemporalConfig{Size: o.tsize, Alpha: o.alpha}
	switch o.temporal {
	case "ema":
		tcfg.Mode = condition.EMA
	case "window":
		tcfg.Mode = condition.Window
	default:
		return fmt.Errorf("-temporal: unknown mode %q", o.temporal)
	}

	var model *calibration.Model
	if o.calName != "" {
		if model, err = loadCalibration(o.storeDir, o.calName); err != nil {
			return err
		}
		log.Info("calibration loaded", "name", o.calName, "order", model.Order())
	}

	session, err := live.NewSession(p, tcfg, live.WithLogger(log), live.WithCalibration(model))
	if err != nil {
		return err
	}

	var src live.Source
	if o.endpoint != "" {
		src = &live.ZMQSource{Endpoint: o.endpoint, Logger: log}
	} else {
		sim := live.DefaultSimulator()
		sim.Rate = o.simRate
		src = sim
		log.Info("no endpoint given, using simulator", "rate", o.simRate)
	}

	srv := newServer(log, session)
	errc := make(chan error, 2)
	go func() {
		errc <- session.Run(ctx, src, srv.publish)
	}()
	go func() {
		errc <- srv.serve(ctx, o.addr)
	}()

	log.Info("serving", "addr", o.addr)
	err = <-errc
	stop()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func loadCalibration(dir, name string) (*calibration.Model, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate profile directory: %w", err)
		}
		dir = filepath.Join(base, "algo-spectro", "profiles")
	}
	st, err := store.Open(dir)
	if err != nil {
		return nil, err
	}
	return st.Load(name)
}

// finite replaces non-finite values so the slice can be JSON encoded.
func finite(xs []float64) []float64 {
	if xs == nil {
		return nil
	}
	out := make([]float64, len(xs))
	for i, v := range xs {
		if core.IsFinite(v) {
			out[i] = v
		}
	}
	return out
}
