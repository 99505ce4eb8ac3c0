// config.go - Screen configuration: defaults, Lua config file and validation

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

/*
Configuration is resolved once at startup, in this order:

  1. DefaultConfiguration()
  2. globals set by an optional Lua file (-config screen.lua)
  3. command-line flags that were given explicitly

A config file is ordinary Lua, so values may be computed:

  port        = 9999
  group       = "224.0.0.8"   -- "" listens unicast
  color       = "#339900"
  fade_alpha  = 0x40
  scaler      = "bilinear"
*/

package main

import (
	"fmt"
	"image/color"
	"net"
	"strconv"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

const (
	DEFAULT_LISTENER_PORT   = 9999
	DEFAULT_MULTICAST_GROUP = "224.0.0.8"
	DEFAULT_BRIGHT_COLOR    = "#339900"
	DEFAULT_TONE_HZ         = 440.0
	DARK_COLOR_PERCENT      = 15

	SCALER_NEAREST  = "nearest"
	SCALER_BILINEAR = "bilinear"

	BACKEND_EBITEN   = "ebiten"
	BACKEND_TERMINAL = "terminal"
	BACKEND_HEADLESS = "headless"
)

type Configuration struct {
	ListenerPort   int
	MulticastGroup string
	PeerAddress    string // key-state feedback target, carried but unused

	BrightColor color.NRGBA
	DarkColor   color.NRGBA

	FadeAlpha       uint8
	ScanlineAlpha   uint8
	ScanlineSpacing int
	Scaler          string

	RefreshRate int
	ToneHz      float64
	Backend     string
	AssetDir    string
}

func DefaultConfiguration() *Configuration {
	bright, _ := ParseColor(DEFAULT_BRIGHT_COLOR)
	return &Configuration{
		ListenerPort:    DEFAULT_LISTENER_PORT,
		MulticastGroup:  DEFAULT_MULTICAST_GROUP,
		BrightColor:     bright,
		DarkColor:       DeriveDarkColor(bright),
		FadeAlpha:       DEFAULT_FADE_ALPHA,
		ScanlineAlpha:   DEFAULT_SCAN_ALPHA,
		ScanlineSpacing: DEFAULT_SCAN_SPACE,
		Scaler:          SCALER_NEAREST,
		RefreshRate:     RENDER_REFRESH_RATE,
		ToneHz:          DEFAULT_TONE_HZ,
		Backend:         BACKEND_EBITEN,
	}
}

// ParseColor accepts "#rrggbb" or "rrggbb".
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xFF}, nil
}

// DeriveDarkColor is the fade colour: the bright colour at 15% intensity.
func DeriveDarkColor(bright color.NRGBA) color.NRGBA {
	scale := func(v uint8) uint8 {
		return uint8(int(v) * DARK_COLOR_PERCENT / 100)
	}
	return color.NRGBA{R: scale(bright.R), G: scale(bright.G), B: scale(bright.B), A: 0xFF}
}

// SetBrightColor updates the bright colour and the fade colour derived from it.
func (c *Configuration) SetBrightColor(bright color.NRGBA) {
	c.BrightColor = bright
	c.DarkColor = DeriveDarkColor(bright)
}

// LoadLuaConfig runs path and copies recognised globals into c.
func LoadLuaConfig(path string, c *Configuration) error {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoFile(path); err != nil {
		return fmt.Errorf("config %s: %w", path, err)
	}

	var errs []string
	setInt := func(name string, dst *int) {
		if err := luaInt(L, name, dst); err != nil {
			errs = append(errs, err.Error())
		}
	}
	setByte := func(name string, dst *uint8) {
		v := int(*dst)
		if err := luaInt(L, name, &v); err != nil {
			errs = append(errs, err.Error())
			return
		}
		if v < 0 || v > 0xFF {
			errs = append(errs, fmt.Sprintf("%s: %d out of range 0-255", name, v))
			return
		}
		*dst = uint8(v)
	}
	setString := func(name string, dst *string) {
		if err := luaString(L, name, dst); err != nil {
			errs = append(errs, err.Error())
		}
	}

	setInt("port", &c.ListenerPort)
	setString("group", &c.MulticastGroup)
	setString("peer", &c.PeerAddress)
	setByte("fade_alpha", &c.FadeAlpha)
	setByte("scanline_alpha", &c.ScanlineAlpha)
	setInt("scanline_spacing", &c.ScanlineSpacing)
	setString("scaler", &c.Scaler)
	setInt("refresh_rate", &c.RefreshRate)
	setString("backend", &c.Backend)
	setString("assets", &c.AssetDir)

	switch lv := L.GetGlobal("tone_hz").(type) {
	case lua.LNumber:
		c.ToneHz = float64(lv)
	case *lua.LNilType:
	default:
		errs = append(errs, fmt.Sprintf("tone_hz: expected number, got %s", lv.Type()))
	}

	colour := ""
	setString("color", &colour)
	if colour != "" {
		bright, err := ParseColor(colour)
		if err != nil {
			errs = append(errs, err.Error())
		} else {
			c.SetBrightColor(bright)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config %s: %s", path, strings.Join(errs, "; "))
	}
	return nil
}

func luaInt(L *lua.LState, name string, dst *int) error {
	switch lv := L.GetGlobal(name).(type) {
	case lua.LNumber:
		*dst = int(lv)
	case *lua.LNilType:
	default:
		return fmt.Errorf("%s: expected number, got %s", name, lv.Type())
	}
	return nil
}

func luaString(L *lua.LState, name string, dst *string) error {
	switch lv := L.GetGlobal(name).(type) {
	case lua.LString:
		*dst = string(lv)
	case *lua.LNilType:
	default:
		return fmt.Errorf("%s: expected string, got %s", name, lv.Type())
	}
	return nil
}

func (c *Configuration) Validate() error {
	if c.ListenerPort < 0 || c.ListenerPort > 0xFFFF {
		return fmt.Errorf("listener port %d out of range", c.ListenerPort)
	}
	if c.MulticastGroup != "" {
		ip := net.ParseIP(c.MulticastGroup)
		if ip == nil || !ip.IsMulticast() {
			return fmt.Errorf("%q is not a multicast address", c.MulticastGroup)
		}
	}
	if c.PeerAddress != "" {
		if _, err := net.ResolveUDPAddr("udp", c.PeerAddress); err != nil {
			return fmt.Errorf("peer address %q: %w", c.PeerAddress, err)
		}
	}
	if c.ScanlineSpacing < 1 {
		return fmt.Errorf("scanline spacing must be at least 1, got %d", c.ScanlineSpacing)
	}
	if c.RefreshRate < 1 || c.RefreshRate > 240 {
		return fmt.Errorf("refresh rate %d out of range 1-240", c.RefreshRate)
	}
	if c.ToneHz <= 0 {
		return fmt.Errorf("tone frequency must be positive, got %g", c.ToneHz)
	}
	switch c.Scaler {
	case SCALER_NEAREST, SCALER_BILINEAR:
	default:
		return fmt.Errorf("unknown scaler %q", c.Scaler)
	}
	switch c.Backend {
	case BACKEND_EBITEN, BACKEND_TERMINAL, BACKEND_HEADLESS:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

func (c *Configuration) String() string {
	listen := fmt.Sprintf("udp port %d", c.ListenerPort)
	if c.MulticastGroup != "" {
		listen = fmt.Sprintf("multicast %s:%d", c.MulticastGroup, c.ListenerPort)
	}
	peer := c.PeerAddress
	if peer == "" {
		peer = "none"
	}
	return fmt.Sprintf("Configuration{screen update listen: %s, key state address: %s, color: #%02x%02x%02x, backend: %s}",
		listen, peer, c.BrightColor.R, c.BrightColor.G, c.BrightColor.B, c.Backend)
}
