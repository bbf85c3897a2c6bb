package main

import (
	"testing"

	"github.com/cwbudde/algo-spectro/spectro/condition"
	"github.com/cwbudde/algo-spectro/spectro/pipeline"
)

func TestParseFloats(t *testing.T) {
	got, err := parseFloats(" 1.5, 2,, -3e2 ")
	if err != nil {
		t.Fatalf("parseFloats: %v", err)
	}
	want := []float64{1.5, 2, -300}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %g, want %g", i, got[i], want[i])
		}
	}

	if _, err := parseFloats("1,x"); err == nil {
		t.Fatal("expected error for non-numeric field")
	}
}

func TestParsePairs(t *testing.T) {
	pts, err := parsePairs("100=405, 300=532,500 = 650")
	if err != nil {
		t.Fatalf("parsePairs: %v", err)
	}
	if len(pts) != 3 || pts[1].Pixel != 300 || pts[2].Wavelength != 650 {
		t.Fatalf("unexpected points %+v", pts)
	}

	for _, bad := range []string{"100", "a=405", "100=b"} {
		if _, err := parsePairs(bad); err == nil {
			t.Fatalf("parsePairs(%q): expected error", bad)
		}
	}
}

func TestPipelineFlagsConfig(t *testing.T) {
	pf := pipelineFlags{line: "0,10,99,12", thickness: 3, smooth: "gaussian", sigma: 1.5, window: 11, polyOrder: 3}
	cfg, err := pf.config()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	if cfg.Mode != pipeline.Manual || cfg.End.X != 99 || cfg.Thickness != 3 {
		t.Fatalf("unexpected geometry config %+v", cfg)
	}
	if cfg.Condition.Smoothing != condition.Gaussian || cfg.Condition.Sigma != 1.5 {
		t.Fatalf("unexpected condition config %+v", cfg.Condition)
	}
	if _, err := pipeline.New(cfg); err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}

	pf.line = "1,2,3"
	if _, err := pf.config(); err == nil {
		t.Fatal("expected error for short -line")
	}

	pf.line = ""
	pf.smooth = "boxcar"
	if _, err := pf.config(); err == nil {
		t.Fatal("expected error for unknown smoothing")
	}
}
