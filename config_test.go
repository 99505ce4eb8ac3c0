// config_test.go - Tests for configuration defaults, Lua config files and validation

package main

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLuaConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "screen.lua")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}
	return path
}

func TestDefaultConfiguration(t *testing.T) {
	c := DefaultConfiguration()
	if c.ListenerPort != 9999 || c.MulticastGroup != "224.0.0.8" {
		t.Fatalf("listen = %s:%d", c.MulticastGroup, c.ListenerPort)
	}
	if c.BrightColor != (color.NRGBA{0x33, 0x99, 0x00, 0xFF}) {
		t.Fatalf("BrightColor = %v", c.BrightColor)
	}
	if c.FadeAlpha != 0x40 || c.ScanlineAlpha != 0x80 || c.ScanlineSpacing != 3 {
		t.Fatalf("fade = %#x/%#x/%d", c.FadeAlpha, c.ScanlineAlpha, c.ScanlineSpacing)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#339900", color.NRGBA{0x33, 0x99, 0x00, 0xFF}, true},
		{"ffffff", color.NRGBA{0xFF, 0xFF, 0xFF, 0xFF}, true},
		{" #0A0b0C ", color.NRGBA{0x0A, 0x0B, 0x0C, 0xFF}, true},
		{"#fff", color.NRGBA{}, false},
		{"#gg0000", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("ParseColor(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if tt.ok && got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDeriveDarkColor(t *testing.T) {
	got := DeriveDarkColor(color.NRGBA{0x33, 0x99, 0x00, 0xFF})
	if got != (color.NRGBA{7, 22, 0, 0xFF}) {
		t.Fatalf("DeriveDarkColor(#339900) = %v, want {7 22 0 255}", got)
	}
	c := DefaultConfiguration()
	c.SetBrightColor(color.NRGBA{200, 100, 0, 0xFF})
	if c.DarkColor != (color.NRGBA{30, 15, 0, 0xFF}) {
		t.Fatalf("DarkColor after SetBrightColor = %v", c.DarkColor)
	}
}

func TestLoadLuaConfig(t *testing.T) {
	path := writeLuaConfig(t, `
port = 7000 + 1
group = ""
peer = "127.0.0.1:8888"
color = "#ff8000"
fade_alpha = 0x20
scanline_alpha = 0x60
scanline_spacing = 2
scaler = "bilinear"
refresh_rate = 50
tone_hz = 880
backend = "headless"
`)
	c := DefaultConfiguration()
	if err := LoadLuaConfig(path, c); err != nil {
		t.Fatalf("LoadLuaConfig returned error: %v", err)
	}
	if c.ListenerPort != 7001 || c.MulticastGroup != "" || c.PeerAddress != "127.0.0.1:8888" {
		t.Fatalf("network = %d %q %q", c.ListenerPort, c.MulticastGroup, c.PeerAddress)
	}
	if c.BrightColor != (color.NRGBA{0xFF, 0x80, 0x00, 0xFF}) || c.DarkColor != DeriveDarkColor(c.BrightColor) {
		t.Fatalf("colours = %v %v", c.BrightColor, c.DarkColor)
	}
	if c.FadeAlpha != 0x20 || c.ScanlineAlpha != 0x60 || c.ScanlineSpacing != 2 {
		t.Fatalf("fade = %#x/%#x/%d", c.FadeAlpha, c.ScanlineAlpha, c.ScanlineSpacing)
	}
	if c.Scaler != SCALER_BILINEAR || c.RefreshRate != 50 || c.ToneHz != 880 || c.Backend != BACKEND_HEADLESS {
		t.Fatalf("config = %+v", c)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestLoadLuaConfig_UnsetKeepsDefaults(t *testing.T) {
	path := writeLuaConfig(t, `-- nothing set
local unused = 1
`)
	c := DefaultConfiguration()
	if err := LoadLuaConfig(path, c); err != nil {
		t.Fatalf("LoadLuaConfig returned error: %v", err)
	}
	if *c != *DefaultConfiguration() {
		t.Fatalf("config changed: %+v", c)
	}
}

func TestLoadLuaConfig_Errors(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`port = "nine"`, "port: expected number"},
		{`fade_alpha = 300`, "out of range"},
		{`color = "green"`, "invalid colour"},
		{`scaler = 3`, "scaler: expected string"},
		{`port = `, "screen.lua"},
	}
	for _, tt := range tests {
		err := LoadLuaConfig(writeLuaConfig(t, tt.body), DefaultConfiguration())
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%q: error = %v, want it to mention %q", tt.body, err, tt.want)
		}
	}
	if err := LoadLuaConfig(filepath.Join(t.TempDir(), "missing.lua"), DefaultConfiguration()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestConfiguration_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Configuration)
	}{
		{"port", func(c *Configuration) { c.ListenerPort = 70000 }},
		{"group", func(c *Configuration) { c.MulticastGroup = "192.168.1.1" }},
		{"peer", func(c *Configuration) { c.PeerAddress = "no-port" }},
		{"spacing", func(c *Configuration) { c.ScanlineSpacing = 0 }},
		{"refresh", func(c *Configuration) { c.RefreshRate = 0 }},
		{"tone", func(c *Configuration) { c.ToneHz = 0 }},
		{"scaler", func(c *Configuration) { c.Scaler = "lanczos" }},
		{"backend", func(c *Configuration) { c.Backend = "sdl" }},
	}
	for _, tt := range tests {
		c := DefaultConfiguration()
		tt.mutate(c)
		if err := c.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestConfiguration_String(t *testing.T) {
	c := DefaultConfiguration()
	s := c.String()
	for _, want := range []string{"multicast 224.0.0.8:9999", "key state address: none", "#339900"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
	c.MulticastGroup = ""
	c.PeerAddress = "10.0.0.2:9998"
	s = c.String()
	if !strings.Contains(s, "udp port 9999") || !strings.Contains(s, "10.0.0.2:9998") {
		t.Errorf("String() = %q", s)
	}
}
