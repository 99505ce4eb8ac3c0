//go:build !headless

// video_backend_ebiten.go - Ebiten window for the CHIP-8 CRT screen

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
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.design/x/clipboard"
	"golang.org/x/image/font/basicfont"
)

// Share of the monitor the window may take when it opens
const EBITEN_WINDOW_FIT = 0.9

func init() {
	compiledFeatures = append(compiledFeatures, "video:ebiten")
}

type EbitenOutput struct {
	running     atomic.Bool
	window      *ebiten.Image
	width       int
	height      int
	title       string
	fullscreen  bool
	windowedW   int
	windowedH   int
	frameBuffer []byte
	bufferMutex sync.RWMutex
	frameCount  atomic.Uint64
	firstDraw   chan struct{}
	done        chan struct{}
	doneOnce    sync.Once

	clipboardOnce sync.Once
	clipboardOK   bool
	showStatusBar bool
}

func NewEbitenOutput() (VideoOutput, error) {
	return &EbitenOutput{
		width:       FRAME_WIDTH,
		height:      FRAME_HEIGHT,
		title:       "CHIP-8",
		windowedW:   FRAME_WIDTH,
		windowedH:   FRAME_HEIGHT,
		frameBuffer: make([]byte, FRAME_WIDTH*FRAME_HEIGHT*4),
		firstDraw:   make(chan struct{}, 1),
		done:        make(chan struct{}),
	}, nil
}

func (eo *EbitenOutput) Start() error {
	if eo.running.Load() {
		return nil
	}
	eo.running.Store(true)
	eo.fitWindowToMonitor()
	ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
	ebiten.SetWindowTitle(eo.title)
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	ebiten.SetVsyncEnabled(true)
	if eo.fullscreen {
		ebiten.SetFullscreen(true)
	}

	go func() {
		defer func() {
			eo.running.Store(false)
			eo.closeDone()
		}()
		if err := ebiten.RunGame(eo); err != nil {
			fmt.Printf("Ebiten error: %v\n", err)
		}
	}()

	// Wait for first Draw call to ensure Ebiten is ready
	select {
	case <-eo.firstDraw:
	case <-eo.done:
		return &VideoError{Operation: "start", Details: "window closed before first frame"}
	}
	return nil
}

// fitWindowToMonitor shrinks the window so the whole monitor art fits on
// the desktop; the frame itself stays full size.
func (eo *EbitenOutput) fitWindowToMonitor() {
	mw, mh := ebiten.Monitor().Size()
	if mw <= 0 || mh <= 0 {
		return
	}
	scale := min(1.0,
		EBITEN_WINDOW_FIT*float64(mw)/float64(eo.width),
		EBITEN_WINDOW_FIT*float64(mh)/float64(eo.height))
	eo.windowedW = int(float64(eo.width) * scale)
	eo.windowedH = int(float64(eo.height) * scale)
}

func (eo *EbitenOutput) closeDone() {
	eo.doneOnce.Do(func() {
		close(eo.done)
	})
}

func (eo *EbitenOutput) Stop() error {
	eo.running.Store(false)
	return nil
}

func (eo *EbitenOutput) Close() error {
	return eo.Stop()
}

func (eo *EbitenOutput) Done() <-chan struct{} {
	return eo.done
}

func (eo *EbitenOutput) UpdateFrame(data []byte) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()
	if len(data) != len(eo.frameBuffer) {
		return &VideoError{
			Operation: "update frame",
			Details:   fmt.Sprintf("got %d bytes, want %d", len(data), len(eo.frameBuffer)),
		}
	}
	copy(eo.frameBuffer, data)
	return nil
}

func (eo *EbitenOutput) SetDisplayConfig(config DisplayConfig) error {
	eo.bufferMutex.Lock()
	defer eo.bufferMutex.Unlock()

	if config.Width > 0 && config.Height > 0 {
		eo.width = config.Width
		eo.height = config.Height
	}
	if config.Title != "" {
		eo.title = config.Title
	}
	if newSize := eo.width * eo.height * 4; len(eo.frameBuffer) != newSize {
		eo.frameBuffer = make([]byte, newSize)
	}
	eo.windowedW = eo.width
	eo.windowedH = eo.height
	eo.fullscreen = config.Fullscreen
	if eo.window != nil {
		eo.window.Deallocate()
		eo.window = nil
	}
	return nil
}

func (eo *EbitenOutput) GetDisplayConfig() DisplayConfig {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	return DisplayConfig{
		Width:      eo.width,
		Height:     eo.height,
		Title:      eo.title,
		Fullscreen: eo.fullscreen,
	}
}

func (eo *EbitenOutput) GetFrameCount() uint64 {
	return eo.frameCount.Load()
}

func (eo *EbitenOutput) IsStarted() bool {
	return eo.running.Load()
}

func (eo *EbitenOutput) Update() error {
	if ebiten.IsWindowBeingClosed() || !eo.running.Load() {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		eo.bufferMutex.Lock()
		eo.fullscreen = !eo.fullscreen
		ebiten.SetFullscreen(eo.fullscreen)
		if !eo.fullscreen {
			ebiten.SetWindowSize(eo.windowedW, eo.windowedH)
		}
		eo.bufferMutex.Unlock()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		eo.bufferMutex.Lock()
		eo.showStatusBar = !eo.showStatusBar
		eo.bufferMutex.Unlock()
	}

	ctrl := ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)
	shift := ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight)
	if ctrl && shift && inpututil.IsKeyJustPressed(ebiten.KeyC) {
		eo.copyFrameToClipboard()
	}
	return nil
}

// frameImage wraps a copy of the current frame buffer.
func (eo *EbitenOutput) frameImage() *image.RGBA {
	eo.bufferMutex.RLock()
	defer eo.bufferMutex.RUnlock()
	img := image.NewRGBA(image.Rect(0, 0, eo.width, eo.height))
	copy(img.Pix, eo.frameBuffer)
	return img
}

// copyFrameToClipboard puts the current frame on the clipboard as a PNG.
func (eo *EbitenOutput) copyFrameToClipboard() {
	eo.clipboardOnce.Do(func() {
		eo.clipboardOK = clipboard.Init() == nil
	})
	if !eo.clipboardOK {
		warnf("ebiten: clipboard unavailable\n")
		return
	}
	data, err := encodeFramePNG(eo.frameImage())
	if err != nil {
		warnf("ebiten: screenshot encode failed: %v\n", err)
		return
	}
	clipboard.Write(clipboard.FmtImage, data)
}

func encodeFramePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (eo *EbitenOutput) Draw(screen *ebiten.Image) {
	if eo.window == nil {
		eo.window = ebiten.NewImage(eo.width, eo.height)
	}

	eo.bufferMutex.RLock()
	eo.window.WritePixels(eo.frameBuffer)
	showStatusBar := eo.showStatusBar
	eo.bufferMutex.RUnlock()
	screen.DrawImage(eo.window, nil)
	if showStatusBar {
		eo.drawRuntimeStatusBar(screen)
	}

	eo.frameCount.Add(1)
	select {
	case eo.firstDraw <- struct{}{}:
	default:
	}
}

func (eo *EbitenOutput) Layout(_, _ int) (int, int) {
	return eo.width, eo.height
}

type statusToken struct {
	name    string
	enabled bool
}

func drawStatusLine(screen *ebiten.Image, x, baselineY int, label string, tokens []statusToken) {
	face := basicfont.Face7x13
	labelColor := color.RGBA{190, 190, 190, 255}
	offColor := color.RGBA{120, 120, 120, 255}
	onColor := color.RGBA{0, 220, 90, 255}

	text.Draw(screen, label, face, x, baselineY, labelColor)
	cursorX := x + text.BoundString(face, label).Dx() + 6

	for _, token := range tokens {
		c := offColor
		if token.enabled {
			c = onColor
		}
		text.Draw(screen, token.name, face, cursorX, baselineY, c)
		cursorX += text.BoundString(face, token.name).Dx() + 8
	}
}

func (eo *EbitenOutput) drawRuntimeStatusBar(screen *ebiten.Image) {
	r := runtimeStatus.snapshot().report()

	barHeight := 44
	if barHeight >= eo.height {
		return
	}
	y := eo.height - barHeight
	ebitenutil.DrawRect(screen, 0, float64(y), float64(eo.width), float64(barHeight), color.RGBA{0, 0, 0, 180})

	keys := make([]statusToken, 0, KEY_COUNT)
	for key := range KEY_COUNT {
		keys = append(keys, statusToken{name: fmt.Sprintf("%X", key), enabled: (r.Keys>>uint(key))&1 == 1})
	}
	drawStatusLine(screen, 6, y+13, "KEYS ", keys)
	drawStatusLine(screen, 6, y+26, "NET  ", []statusToken{
		{name: fmt.Sprintf("%s rx %d", r.Listen, r.Received), enabled: r.Received > 0},
		{name: "|", enabled: false},
		{name: fmt.Sprintf("drop %d", r.Dropped), enabled: r.Dropped > 0},
		{name: "|", enabled: false},
		{name: fmt.Sprintf("bad screen %d", r.Malformed), enabled: r.Malformed > 0},
	})
	drawStatusLine(screen, 6, y+39, "CRT  ", []statusToken{
		{name: "SOUND", enabled: r.Sound},
		{name: "|", enabled: false},
		{name: fmt.Sprintf("frames %d", r.Frames), enabled: true},
		{name: "|", enabled: false},
		{name: fmt.Sprintf("overruns %d", r.Overruns), enabled: r.Overruns > 0},
		{name: "|", enabled: false},
		{name: fmt.Sprintf("FPS %0.1f", ebiten.ActualFPS()), enabled: true},
	})

	legendColor := color.RGBA{160, 160, 160, 255}
	legend := "F11 Fullscreen  F12 Status Bar  Ctrl+Shift+C Copy"
	legendW := text.BoundString(basicfont.Face7x13, legend).Dx()
	legendX := max(eo.width-legendW-6, 6)
	text.Draw(screen, legend, basicfont.Face7x13, legendX, y+39, legendColor)
}
