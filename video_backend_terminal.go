// video_backend_terminal.go - Terminal video output using half-block cells

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
The terminal backend shows only the screen area of the composite frame, so
phosphor fade and scanlines survive but the bezel does not. Each character
cell covers two vertical samples drawn as '▀' with the upper sample as the
foreground colour and the lower as the background. The bottom row carries
the status line. Esc, q or Ctrl+C closes the display.
*/

package main

import (
	"image"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/term"
)

const TERMINAL_REDRAW_INTERVAL = 50 * time.Millisecond

func init() {
	compiledFeatures = append(compiledFeatures, "video:terminal")
}

type TerminalOutput struct {
	screen tcell.Screen

	mutex  sync.Mutex
	config DisplayConfig
	frame  []byte
	dirty  bool

	running    atomic.Bool
	frameCount atomic.Uint64
	stopCh     chan struct{}
	done       chan struct{}
	doneOnce   sync.Once
	stopOnce   sync.Once
	redrawDone chan struct{}
	eventDone  chan struct{}
}

func NewTerminalOutput() (VideoOutput, error) {
	return &TerminalOutput{
		config: DisplayConfig{Width: FRAME_WIDTH, Height: FRAME_HEIGHT},
		frame:  make([]byte, FRAME_WIDTH*FRAME_HEIGHT*4),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

func (to *TerminalOutput) Start() error {
	if to.running.Load() {
		return nil
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return &VideoError{Operation: "start", Details: "stdout is not a terminal"}
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return &VideoError{Operation: "start", Details: "terminal screen", Err: err}
	}
	if err := screen.Init(); err != nil {
		return &VideoError{Operation: "start", Details: "terminal init", Err: err}
	}
	screen.HideCursor()
	screen.Clear()
	to.screen = screen
	to.running.Store(true)

	to.redrawDone = make(chan struct{})
	to.eventDone = make(chan struct{})
	go to.eventLoop()
	go to.redrawLoop()
	return nil
}

func (to *TerminalOutput) eventLoop() {
	defer close(to.eventDone)
	for {
		ev := to.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			// Fini was called
			return
		case *tcell.EventResize:
			to.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				to.closeDone()
			}
		}
	}
}

func (to *TerminalOutput) redrawLoop() {
	defer close(to.redrawDone)
	ticker := time.NewTicker(TERMINAL_REDRAW_INTERVAL)
	defer ticker.Stop()
	for {
		select {
		case <-to.stopCh:
			return
		case <-ticker.C:
			to.redraw()
		}
	}
}

func (to *TerminalOutput) redraw() {
	to.mutex.Lock()
	if !to.dirty {
		to.mutex.Unlock()
		return
	}
	to.dirty = false
	cols, rows := to.screen.Size()
	drawTerminalFrame(to.screen, to.frame, to.config.Width, cols, rows-1)
	to.mutex.Unlock()

	status := runtimeStatus.snapshot().report().String()
	style := tcell.StyleDefault.Foreground(tcell.NewRGBColor(160, 160, 160)).Background(tcell.ColorBlack)
	for x := range cols {
		r := ' '
		if x < len(status) {
			r = rune(status[x])
		}
		to.screen.SetContent(x, rows-1, r, nil, style)
	}
	to.screen.Show()
}

// drawTerminalFrame samples the frame's screen area into a cols x rows grid
// of half-block cells.
func drawTerminalFrame(screen tcell.Screen, frame []byte, stride, cols, rows int) {
	if cols <= 0 || rows <= 0 {
		return
	}
	area := terminalScreenArea()
	for cy := range rows {
		for cx := range cols {
			top := sampleFrame(frame, stride, area, cx, cy*2, cols, rows*2)
			bottom := sampleFrame(frame, stride, area, cx, cy*2+1, cols, rows*2)
			style := tcell.StyleDefault.Foreground(top).Background(bottom)
			screen.SetContent(cx, cy, '▀', nil, style)
		}
	}
}

// terminalScreenArea is the phosphor screen rectangle in frame coordinates.
func terminalScreenArea() image.Rectangle {
	return SCREEN_RECT.Add(image.Pt(PHOSPHOR_OFFSET_X, PHOSPHOR_OFFSET_Y))
}

// sampleFrame returns the colour at the centre of grid cell (gx, gy) of a
// gw x gh grid laid over area.
func sampleFrame(frame []byte, stride int, area image.Rectangle, gx, gy, gw, gh int) tcell.Color {
	x := area.Min.X + (2*gx+1)*area.Dx()/(2*gw)
	y := area.Min.Y + (2*gy+1)*area.Dy()/(2*gh)
	i := (y*stride + x) * 4
	if i < 0 || i+3 >= len(frame) {
		return tcell.ColorBlack
	}
	return tcell.NewRGBColor(int32(frame[i]), int32(frame[i+1]), int32(frame[i+2]))
}

func (to *TerminalOutput) closeDone() {
	to.doneOnce.Do(func() {
		close(to.done)
	})
}

func (to *TerminalOutput) Stop() error {
	if !to.running.Load() {
		return nil
	}
	to.stopOnce.Do(func() {
		to.running.Store(false)
		close(to.stopCh)
		<-to.redrawDone
		to.screen.Fini()
		<-to.eventDone
	})
	return nil
}

func (to *TerminalOutput) Close() error {
	return to.Stop()
}

func (to *TerminalOutput) IsStarted() bool {
	return to.running.Load()
}

func (to *TerminalOutput) Done() <-chan struct{} {
	return to.done
}

func (to *TerminalOutput) SetDisplayConfig(config DisplayConfig) error {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	if config.Width > 0 && config.Height > 0 {
		to.config = config
		to.frame = make([]byte, config.Width*config.Height*4)
	}
	return nil
}

func (to *TerminalOutput) GetDisplayConfig() DisplayConfig {
	to.mutex.Lock()
	defer to.mutex.Unlock()
	return to.config
}

func (to *TerminalOutput) UpdateFrame(buffer []byte) error {
	to.mutex.Lock()
	copy(to.frame, buffer)
	to.dirty = true
	to.mutex.Unlock()
	to.frameCount.Add(1)
	return nil
}

func (to *TerminalOutput) GetFrameCount() uint64 {
	return to.frameCount.Load()
}
