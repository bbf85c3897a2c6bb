// Command spectro extracts and calibrates spectra from still images.
//
// Usage:
//
//	spectro <command> [flags] [args]
//
// Commands:
//
//	profile    print the peaks of an image's spectrum, optionally as CSV
//	calibrate  fit a wavelength calibration from known emission lines
//	profiles   list, delete, import or export stored calibrations
//
// Examples:
//
//	spectro profile -csv out.csv lamp.png
//	spectro profile -line 12,240,620,236 -thickness 7 lamp.png
//	spectro calibrate -lines 435.8,546.1,611.6 -name cfl lamp.png
//	spectro profile -calibration cfl sky.jpg
//	spectro profiles list
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	var err error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "profile":
		err = runProfile(args)
	case "calibrate":
		err = runCalibrate(args)
	case "profiles":
		err = runProfiles(args)
	case "help", "-h", "-help":
		usage()
		return
	default:
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: spectro <command> [flags] [args]\n\n")
	fmt.Fprintf(os.Stderr, "Extracts, smooths and calibrates spectra from still images.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  profile    print the peaks of an image's spectrum, optionally as CSV\n")
	fmt.Fprintf(os.Stderr, "  calibrate  fit a wavelength calibration from known emission lines\n")
	fmt.Fprintf(os.Stderr, "  profiles   list, delete, import or export stored calibrations\n")
	fmt.Fprintf(os.Stderr, "\nRun 'spectro <command> -h' for the flags of a command.\n")
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
