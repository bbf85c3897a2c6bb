package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-spectro/spectro/calibration"
	"github.com/cwbudde/algo-spectro/spectro/pipeline"
)

func runCalibrate(args []string) error {
	fs := flag.NewFlagSet("calibrate", flag.ContinueOnError)
	var pf pipelineFlags
	pf.register(fs)
	lines := fs.String("lines", "", "known wavelengths in nm, matched to the most prominent peaks in pixel order")
	pairs := fs.String("points", "", "explicit calibration points as px=nm,px=nm,... (no image needed)")
	reverse := fs.Bool("reverse", false, "wavelength decreases with pixel position")
	order := fs.Int("order", 2, "polynomial order (1-3)")
	name := fs.String("name", "", "save the calibration under this name")
	desc := fs.String("description", "", "description stored with the calibration")
	storeDir := fs.String("store", "", "calibration profile directory (default: user config dir)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spectro calibrate [flags] [image]\n\n")
		fmt.Fprintf(os.Stderr, "Either -lines with an image or -points without one is required.\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	var (
		points []calibration.Point
		err    error
	)
	switch {
	case *pairs != "":
		points, err = parsePairs(*pairs)
	case *lines != "" && fs.NArg() == 1:
		points, err = pointsFromImage(fs.Arg(0), pf, *lines, *reverse)
	default:
		fs.Usage()
		return fmt.Errorf("calibrate: need -points, or -lines and one image")
	}
	if err != nil {
		return err
	}

	model, err := calibration.Fit(points, *order)
	if err != nil {
		return err
	}
	if err := printFit(os.Stdout, model); err != nil {
		return err
	}

	if *name == "" {
		return nil
	}
	st, err := openStore(*storeDir)
	if err != nil {
		return err
	}
	path, err := st.Save(*name, *desc, model)
	if err != nil {
		return err
	}
	fmt.Printf("\nsaved %s\n", path)
	return nil
}

// pointsFromImage matches the len(lines) most prominent peaks to lines in
// pixel order.
func pointsFromImage(path string, pf pipelineFlags, lines string, reverse bool) ([]calibration.Point, error) {
	wl, err := parseFloats(lines)
	if err != nil {
		return nil, fmt.Errorf("-lines: %w", err)
	}
	if len(wl) == 0 {
		return nil, fmt.Errorf("-lines: no wavelengths given")
	}

	pf.maxPeaks = len(wl)
	res, err := process(path, pf)
	if err != nil {
		return nil, err
	}
	if len(res.Peaks) < len(wl) {
		return nil, fmt.Errorf("found %d peaks for %d lines; lower -prominence or check the line", len(res.Peaks), len(wl))
	}

	sort.Float64s(wl)
	if reverse {
		slices.Reverse(wl)
	}
	// Peaks come back in pixel order.
	return pipeline.PeakPoints(res.Peaks[:len(wl)], wl)
}

// parsePairs parses "px=nm" pairs separated by commas.
func parsePairs(s string) ([]calibration.Point, error) {
	var points []calibration.Point
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		px, nm, ok := strings.Cut(field, "=")
		if !ok {
			return nil, fmt.Errorf("-points: %q is not px=nm", field)
		}
		p, err := strconv.ParseFloat(strings.TrimSpace(px), 64)
		if err != nil {
			return nil, fmt.Errorf("-points: invalid pixel %q", px)
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(nm), 64)
		if err != nil {
			return nil, fmt.Errorf("-points: invalid wavelength %q", nm)
		}
		points = append(points, calibration.Point{Pixel: p, Wavelength: w})
	}
	return points, nil
}

func printFit(w io.Writer, m *calibration.Model) error {
	met := m.Metrics()
	lo, hi := m.Domain()
	fmt.Fprintf(w, "order %d, coefficients %v\n", m.Order(), m.Coefficients())
	fmt.Fprintf(w, "domain [%.1f, %.1f] px, R² %.6f, RMSE %.4f nm, max error %.4f nm\n\n", lo, hi, met.R2, met.RMSE, met.MaxError)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Pixel\tWavelength [nm]\tFitted [nm]\tResidual [nm]")
	fmt.Fprintln(tw, "-----\t---------------\t-----------\t-------------")
	for i, p := range m.Points() {
		fmt.Fprintf(tw, "%.2f\t%.3f\t%.3f\t%+.4f\n", p.Pixel, p.Wavelength, m.Apply(p.Pixel), met.Residuals[i])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, warn := range m.Warnings() {
		fmt.Fprintf(w, "warning: %s\n", warn)
	}
	return nil
}
