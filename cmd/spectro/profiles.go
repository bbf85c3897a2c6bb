package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"
	"time"
)

func runProfiles(args []string) error {
	fs := flag.NewFlagSet("profiles", flag.ContinueOnError)
	storeDir := fs.String("store", "", "calibration profile directory (default: user config dir)")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: spectro profiles [flags] <list|show|delete|import|export> [args]\n\n")
		fmt.Fprintf(os.Stderr, "  list                  list stored calibrations, newest first\n")
		fmt.Fprintf(os.Stderr, "  show NAME             print a calibration and its fit\n")
		fmt.Fprintf(os.Stderr, "  delete NAME           remove a calibration\n")
		fmt.Fprintf(os.Stderr, "  import FILE [NAME]    copy a profile file into the store\n")
		fmt.Fprintf(os.Stderr, "  export NAME FILE      write a calibration to a file\n\nFlags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	st, err := openStore(*storeDir)
	if err != nil {
		return err
	}

	sub := "list"
	if fs.NArg() > 0 {
		sub = fs.Arg(0)
	}
	rest := fs.Args()
	if len(rest) > 0 {
		rest = rest[1:]
	}

	switch {
	case sub == "list":
		entries, err := st.List()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Name\tOrder\tPoints\tCreated\tDescription")
		fmt.Fprintln(tw, "----\t-----\t------\t-------\t-----------")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", e.Name, e.Order, e.Points, e.CreatedAt.Local().Format(time.DateTime), e.Description)
		}
		return tw.Flush()
	case sub == "show" && len(rest) == 1:
		m, err := st.Load(rest[0])
		if err != nil {
			return err
		}
		return printFit(os.Stdout, m)
	case sub == "delete" && len(rest) == 1:
		return st.Delete(rest[0])
	case sub == "import" && (len(rest) == 1 || len(rest) == 2):
		name := ""
		if len(rest) == 2 {
			name = rest[1]
		}
		path, err := st.Import(rest[0], name)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case sub == "export" && len(rest) == 2:
		return st.Export(rest[0], rest[1])
	default:
		fs.Usage()
		return fmt.Errorf("profiles: invalid arguments %q", fs.Args())
	}
}
