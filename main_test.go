// main_test.go - Tests for command-line and config file resolution

package main

import (
	"flag"
	"image/color"
	"testing"
)

func TestParseCommandLine_Defaults(t *testing.T) {
	cfg, opts, err := parseCommandLine(nil)
	if err != nil {
		t.Fatalf("parseCommandLine returned error: %v", err)
	}
	if *cfg != *DefaultConfiguration() {
		t.Fatalf("config = %+v, want defaults", cfg)
	}
	if opts.showVersion || opts.quiet || opts.dumpArt != "" {
		t.Fatalf("opts = %+v", opts)
	}
}

func TestParseCommandLine_Flags(t *testing.T) {
	cfg, opts, err := parseCommandLine([]string{
		"-port", "1234", "-group=", "-color", "#ff0000", "-fade-alpha", "32",
		"-scaler", "bilinear", "-backend", "headless", "-quiet", "-tone-hz", "660",
	})
	if err != nil {
		t.Fatalf("parseCommandLine returned error: %v", err)
	}
	if cfg.ListenerPort != 1234 || cfg.MulticastGroup != "" {
		t.Fatalf("listen = %q:%d", cfg.MulticastGroup, cfg.ListenerPort)
	}
	if cfg.BrightColor != (color.NRGBA{0xFF, 0, 0, 0xFF}) || cfg.DarkColor != (color.NRGBA{38, 0, 0, 0xFF}) {
		t.Fatalf("colours = %v %v", cfg.BrightColor, cfg.DarkColor)
	}
	if cfg.FadeAlpha != 32 || cfg.Scaler != SCALER_BILINEAR || cfg.Backend != BACKEND_HEADLESS || cfg.ToneHz != 660 {
		t.Fatalf("config = %+v", cfg)
	}
	if !opts.quiet {
		t.Fatal("-quiet not recorded")
	}
}

func TestParseCommandLine_FlagsOverrideConfigFile(t *testing.T) {
	path := writeLuaConfig(t, `
port = 5000
backend = "terminal"
color = "#00ff00"
`)
	cfg, _, err := parseCommandLine([]string{"-config", path, "-port", "6000"})
	if err != nil {
		t.Fatalf("parseCommandLine returned error: %v", err)
	}
	if cfg.ListenerPort != 6000 {
		t.Fatalf("port = %d, want flag value 6000", cfg.ListenerPort)
	}
	if cfg.Backend != BACKEND_TERMINAL || cfg.BrightColor.G != 0xFF {
		t.Fatalf("config file values lost: backend=%s colour=%v", cfg.Backend, cfg.BrightColor)
	}
}

func TestParseCommandLine_Errors(t *testing.T) {
	for _, args := range [][]string{
		{"-color", "red"},
		{"-backend", "sdl"},
		{"-refresh", "0"},
		{"-nosuchflag"},
		{"-config", "/nonexistent/screen.lua"},
	} {
		if _, _, err := parseCommandLine(args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
	if _, _, err := parseCommandLine([]string{"-h"}); err != flag.ErrHelp {
		t.Errorf("-h returned %v, want flag.ErrHelp", err)
	}
}
