package main

import (
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"github.com/cwbudde/algo-spectro/spectro/calibration/store"
	"github.com/cwbudde/algo-spectro/spectro/condition"
	"github.com/cwbudde/algo-spectro/spectro/frame"
	"github.com/cwbudde/algo-spectro/spectro/line"
	"github.com/cwbudde/algo-spectro/spectro/peak"
	"github.com/cwbudde/algo-spectro/spectro/pipeline"
)

// pipelineFlags are shared by the commands that process an image.
type pipelineFlags struct {
	line       string
	thickness  int
	smooth     string
	window     int
	polyOrder  int
	sigma      float64
	baseline   float64
	prominence float64
	maxPeaks   int
	verbose    bool
}

func (p *pipelineFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&p.line, "line", "", "manual line as x0,y0,x1,y1 (default: detect automatically)")
	fs.IntVar(&p.thickness, "thickness", line.DefaultThickness, "sampling band thickness in pixels")
	fs.StringVar(&p.smooth, "smooth", "savgol", "smoothing: none, gaussian, median or savgol")
	fs.IntVar(&p.window, "window", 11, "window length for savgol and median smoothing")
	fs.IntVar(&p.polyOrder, "polyorder", 3, "savgol polynomial order")
	fs.Float64Var(&p.sigma, "sigma", 2, "gaussian smoothing sigma in samples")
	fs.Float64Var(&p.baseline, "baseline", 0, "background removal strength in [0, 1]")
	fs.Float64Var(&p.prominence, "prominence", 0.02, "minimum peak prominence")
	fs.IntVar(&p.maxPeaks, "max-peaks", 0, "report at most this many peaks (0 = all)")
	fs.BoolVar(&p.verbose, "v", false, "verbose logging")
}

func (p *pipelineFlags) config() (pipeline.Config, error) {
	cfg := pipeline.DefaultConfig()
	cfg.Thickness = p.thickness

	if p.line != "" {
		pts, err := parseFloats(p.line)
		if err != nil {
			return cfg, fmt.Errorf("-line: %w", err)
		}
		if len(pts) != 4 {
			return cfg, fmt.Errorf("-line: want x0,y0,x1,y1, got %d values", len(pts))
		}
		cfg.Mode = pipeline.Manual
		cfg.Start = line.Point{X: pts[0], Y: pts[1]}
		cfg.End = line.Point{X: pts[2], Y: pts[3]}
	}

	method, err := condition.ParseMethod(p.smooth)
	if err != nil {
		return cfg, fmt.Errorf("-smooth: %w", err)
	}
	var smooth condition.Option
	switch method {
	case condition.None:
		smooth = condition.WithoutSmoothing()
	case condition.Gaussian:
		smooth = condition.WithGaussian(p.sigma)
	case condition.Median:
		smooth = condition.WithMedian(p.window)
	default:
		smooth = condition.WithSavitzkyGolay(p.window, p.polyOrder)
	}
	cfg.Condition = condition.NewConfig(
		smooth,
		condition.WithRollingMinBaseline(condition.DefaultConfig().BaselineWindow, p.baseline),
	)

	cfg.Peaks = []peak.Option{
		peak.WithMinProminence(p.prominence),
		peak.WithMaxPeaks(p.maxPeaks),
	}
	return cfg, nil
}

func loadFrame(path string) (*frame.Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	img, format, err := image.Decode(fh)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	f, err := frame.FromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%s (%s): %w", path, format, err)
	}
	return f, nil
}

func openStore(dir string) (*store.Store, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("locate profile directory: %w", err)
		}
		dir = filepath.Join(base, "algo-spectro", "profiles")
	}
	return store.Open(dir)
}

// parseFloats parses a comma separated list of numbers.
func parseFloats(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", f)
		}
		out = append(out, v)
	}
	return out, nil
}
