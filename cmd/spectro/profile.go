package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/cwbudde/algo-spectro/spectro/calibration"
	"github.com/cwbudde/algo-spectro/spectro/pipeline"
)

func runProfile(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ContinueOnError)
	var pf pipelineFlags
	pf.register(fs)
	csvPath := fs.String("csv", "", "write the profile as CSV to this file (- for stdout)")
	calName := fs.String("calibration", "", "stored calibration name or profile file")
	storeDir := fs.String("store", "", "calibration profile directory (default: user config dir)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spectro profile [flags] image\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("profile: expected one image, got %d arguments", fs.NArg())
	}

	log := newLogger(pf.verbose)

	var model *calibration.Model
	if *calName != "" {
		st, err := openStore(*storeDir)
		if err != nil {
			return err
		}
		if model, err = st.Load(*calName); err != nil {
			return err
		}
		for _, w := range model.Warnings() {
			log.Warn("calibration", "warning", w)
		}
	}

	res, err := process(fs.Arg(0), pf)
	if err != nil {
		return err
	}
	if d := res.Detection; d != nil {
		log.Info("line detected", "method", d.Method, "offset", d.Offset,
			"angle", d.AngleDeg, "confidence", d.Confidence)
	}

	var wavelengths []float64
	if model != nil {
		wavelengths = res.Calibrate(model)
	}

	if err := printPeaks(os.Stdout, res, model); err != nil {
		return err
	}

	switch *csvPath {
	case "":
		return nil
	case "-":
		return writeCSV(os.Stdout, res, wavelengths)
	default:
		fh, err := os.Create(*csvPath)
		if err != nil {
			return err
		}
		if err := writeCSV(fh, res, wavelengths); err != nil {
			fh.Close()
			return err
		}
		return fh.Close()
	}
}

func process(path string, pf pipelineFlags) (*pipeline.Result, error) {
	cfg, err := pf.config()
	if err != nil {
		return nil, err
	}
	p, err := pipeline.New(cfg)
	if err != nil {
		return nil, err
	}
	f, err := loadFrame(path)
	if err != nil {
		return nil, err
	}
	return p.Process(context.Background(), f, nil)
}

func printPeaks(w io.Writer, res *pipeline.Result, model *calibration.Model) error {
	g := res.Geometry
	if _, err := fmt.Fprintf(w, "line (%.1f, %.1f) -> (%.1f, %.1f), thickness %d, %d samples\n\n",
		g.Start.X, g.Start.Y, g.End.X, g.End.Y, g.Thickness, res.Profile.Len()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "Peak\tPosition [px]\tAmplitude\tProminence\tFWHM [px]"
	rule := "----\t-------------\t---------\t----------\t---------"
	if model != nil {
		header += "\tWavelength [nm]"
		rule += "\t---------------"
	}
	fmt.Fprintln(tw, header)
	fmt.Fprintln(tw, rule)

	for i, pk := range res.Peaks {
		fmt.Fprintf(tw, "%d\t%.2f\t%.4f\t%.4f\t%.2f", i+1, pk.Position, pk.Amplitude, pk.Prominence, pk.Width)
		if model != nil {
			fmt.Fprintf(tw, "\t%.2f", model.Apply(pk.Position))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

func writeCSV(w io.Writer, res *pipeline.Result, wavelengths []float64) error {
	cw := csv.NewWriter(w)
	header := []string{"position", "r", "g", "b", "luminance", "smoothed"}
	if wavelengths != nil {
		header = append(header, "wavelength_nm")
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'g', 8, 64) }
	signal := res.Profile.Signal()
	for i, s := range res.Profile.Samples {
		row := []string{strconv.Itoa(i), ff(s.Color.R), ff(s.Color.G), ff(s.Color.B), ff(s.Luminance), ff(signal[i])}
		if wavelengths != nil {
			row = append(row, ff(wavelengths[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
