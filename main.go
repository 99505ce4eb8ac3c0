// main.go - Main entry point for the CHIP-8 CRT screen

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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

func boilerPlate() {
	fmt.Println("\n\033[38;2;51;153;0m CHIP-8 SCREEN\033[0m")
	fmt.Println("A remote 64x32 phosphor display for CHIP-8 emulators.")
	fmt.Println("(c) 2024 - 2026 Zayn Otley")
	fmt.Println("License: GPLv3 or later")
}

type cliOptions struct {
	showVersion bool
	dumpArt     string
	quiet       bool
}

// parseCommandLine resolves defaults, then the Lua config file, then the
// flags the user actually passed.
func parseCommandLine(args []string) (*Configuration, cliOptions, error) {
	var (
		opts       cliOptions
		configPath string
		port       int
		group      string
		peer       string
		colour     string
		fadeAlpha  uint
		scanAlpha  uint
		scanSpace  int
		scaler     string
		refresh    int
		toneHz     float64
		backend    string
		assets     string
	)
	def := DefaultConfiguration()

	flagSet := flag.NewFlagSet("chip8screen", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagSet.StringVar(&configPath, "config", "", "Lua configuration file")
	flagSet.IntVar(&port, "port", def.ListenerPort, "UDP port for screen updates")
	flagSet.StringVar(&group, "group", def.MulticastGroup, "Multicast group to join (empty for unicast)")
	flagSet.StringVar(&peer, "peer", "", "Emulator address for key state (host:port)")
	flagSet.StringVar(&colour, "color", DEFAULT_BRIGHT_COLOR, "Phosphor colour (#rrggbb)")
	flagSet.UintVar(&fadeAlpha, "fade-alpha", uint(def.FadeAlpha), "Fade overlay alpha (0-255)")
	flagSet.UintVar(&scanAlpha, "scanline-alpha", uint(def.ScanlineAlpha), "Scanline alpha (0-255)")
	flagSet.IntVar(&scanSpace, "scanline-spacing", def.ScanlineSpacing, "Rows between scanlines")
	flagSet.StringVar(&scaler, "scaler", def.Scaler, "Upscaler: nearest or bilinear")
	flagSet.IntVar(&refresh, "refresh", def.RefreshRate, "Render rate in Hz")
	flagSet.Float64Var(&toneHz, "tone-hz", def.ToneHz, "Beep frequency in Hz")
	flagSet.StringVar(&backend, "backend", def.Backend, "Display: ebiten, terminal or headless")
	flagSet.StringVar(&assets, "assets", "", "Directory holding the monitor PNG art")
	flagSet.BoolVar(&opts.showVersion, "version", false, "Print version and compiled features")
	flagSet.StringVar(&opts.dumpArt, "dump-art", "", "Write the built-in monitor art to a directory and exit")
	flagSet.BoolVar(&opts.quiet, "quiet", false, "Suppress per-datagram warnings")
	flagSet.Usage = func() {
		flagSet.SetOutput(os.Stdout)
		fmt.Println("Usage: ./chip8screen [-config screen.lua] [-port 9999] [-group 224.0.0.8] [-backend ebiten|terminal|headless]")
		flagSet.PrintDefaults()
	}
	if err := flagSet.Parse(args); err != nil {
		return nil, opts, err
	}

	cfg := DefaultConfiguration()
	if configPath != "" {
		if err := LoadLuaConfig(configPath, cfg); err != nil {
			return nil, opts, err
		}
	}

	var err error
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.ListenerPort = port
		case "group":
			cfg.MulticastGroup = group
		case "peer":
			cfg.PeerAddress = peer
		case "color":
			bright, perr := ParseColor(colour)
			if perr != nil {
				err = perr
				return
			}
			cfg.SetBrightColor(bright)
		case "fade-alpha":
			cfg.FadeAlpha = uint8(min(fadeAlpha, 0xFF))
		case "scanline-alpha":
			cfg.ScanlineAlpha = uint8(min(scanAlpha, 0xFF))
		case "scanline-spacing":
			cfg.ScanlineSpacing = scanSpace
		case "scaler":
			cfg.Scaler = scaler
		case "refresh":
			cfg.RefreshRate = refresh
		case "tone-hz":
			cfg.ToneHz = toneHz
		case "backend":
			cfg.Backend = backend
		case "assets":
			cfg.AssetDir = assets
		}
	})
	if err != nil {
		return nil, opts, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, opts, err
	}
	return cfg, opts, nil
}

func loadArt(cfg *Configuration) (*CRTArt, error) {
	if cfg.AssetDir == "" {
		return DefaultCRTArt(cfg.BrightColor), nil
	}
	return LoadCRTArt(cfg.AssetDir)
}

func main() {
	boilerPlate()

	cfg, opts, err := parseCommandLine(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if opts.showVersion {
		printFeatures()
		return
	}
	quietWarnings.Store(opts.quiet)

	art, err := loadArt(cfg)
	if err != nil {
		fmt.Printf("Failed to load monitor art: %v\n", err)
		os.Exit(1)
	}
	if opts.dumpArt != "" {
		if err := art.WritePNGs(opts.dumpArt); err != nil {
			fmt.Printf("Failed to write monitor art: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Monitor art written to %s\n", opts.dumpArt)
		return
	}

	fmt.Println(cfg)

	var tone ToneGenerator
	otoTone, err := NewOtoTone(TONE_SAMPLE_RATE, cfg.ToneHz)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sound unavailable, continuing silent: %v\n", err)
	} else {
		tone = otoTone
		defer otoTone.Close()
	}

	sink := NewPeripheralStateSink(tone)
	compositor := NewPhosphorCompositor(cfg, art)

	ingest := NewNetworkIngest(cfg.ListenerPort, cfg.MulticastGroup, DecodePeripheralMessage, sink)
	if err := ingest.Listen(); err != nil {
		fmt.Printf("Failed to start listener: %v\n", err)
		os.Exit(1)
	}
	defer ingest.Stop()

	output, err := NewVideoOutput(cfg.Backend)
	if err != nil {
		fmt.Printf("Failed to initialize video: %v\n", err)
		os.Exit(1)
	}
	if err := output.SetDisplayConfig(DisplayConfig{Width: FRAME_WIDTH, Height: FRAME_HEIGHT, Title: "CHIP-8"}); err != nil {
		fmt.Printf("Failed to configure video: %v\n", err)
		os.Exit(1)
	}

	scheduler := NewRenderScheduler(compositor, sink, output, cfg.RefreshRate)
	runtimeStatus.setComponents(ingest, sink, scheduler, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := ingest.Start(); err != nil {
		fmt.Printf("Failed to start listener: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Listening for CHIP-8 screen updates on %v\n", ingest.LocalAddr())

	if err := output.Start(); err != nil {
		fmt.Printf("Failed to start video: %v\n", err)
		os.Exit(1)
	}
	defer output.Close()

	scheduler.Start(ctx)
	defer scheduler.Stop()

	select {
	case <-ctx.Done():
	case <-output.Done():
	}
	fmt.Println("Shutting down.")
}
