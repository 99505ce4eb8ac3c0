// crt_compositor.go - Phosphor compositor for the CHIP-8 CRT screen

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
crt_compositor.go - Phosphor persistence and monitor composite

Every tick runs the full chain, whether or not the state changed, so the
phosphor keeps fading while the picture is static:

  DisplayBuffer 64x32 ──scale──> scaled 940x720 ──over──> phosphor 940x720
                                                              │
                                                     fade overlay (over)
                                                              │
  frame 1432x1071 = black + phosphor@(180,160) + glare + bezel + LEDs

The phosphor is never cleared. New pixels are drawn over it, then a constant
semi-transparent dark fill with brighter scanlines pulls every pixel toward
the fade colour. A pixel held lit settles at a fixed brightness after one
tick; a pixel switched off converges on the fade colour geometrically.
*/

package main

import (
	"bytes"
	"image"
	"image/color"
	"sync"

	"golang.org/x/image/draw"
)

// Compositor geometry
const (
	PHOSPHOR_WIDTH    = 940
	PHOSPHOR_HEIGHT   = 720
	FRAME_WIDTH       = 1432
	FRAME_HEIGHT      = 1071
	PHOSPHOR_OFFSET_X = 180
	PHOSPHOR_OFFSET_Y = 160

	SOUND_LED_SIZE     = 35
	SOUND_LED_RIGHT    = 195 // distance of the LED's left edge from the frame's right edge
	SOUND_LED_TOP      = 220
	KEY_LED_SIZE       = 31
	KEYPAD_RIGHT       = 240
	KEYPAD_BOTTOM      = 315
	KEY_COUNT          = 16
	KEYPAD_COLUMNS     = 4
	KEYPAD_ROWS        = 4
	DEFAULT_FADE_ALPHA = 0x40
	DEFAULT_SCAN_ALPHA = 0x80
	DEFAULT_SCAN_SPACE = 3
)

// SCREEN_RECT is where the 64x32 display lands inside the phosphor buffer.
var SCREEN_RECT = image.Rect(40, 40, 900, 680)

// keypadCells maps key codes to (column, row) on the 4x4 hex keypad:
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
var keypadCells = [KEY_COUNT]image.Point{
	0x0: {1, 3},
	0x1: {0, 0}, 0x2: {1, 0}, 0x3: {2, 0},
	0x4: {0, 1}, 0x5: {1, 1}, 0x6: {2, 1},
	0x7: {0, 2}, 0x8: {1, 2}, 0x9: {2, 2},
	0xA: {0, 3}, 0xB: {2, 3},
	0xC: {3, 0}, 0xD: {3, 1}, 0xE: {3, 2}, 0xF: {3, 3},
}

// KeyLEDCell returns the keypad (column, row) of a key code.
func KeyLEDCell(key int) image.Point {
	return keypadCells[key&0xF]
}

// KeyLEDRect returns the frame rectangle of a key's LED.
func KeyLEDRect(key int) image.Rectangle {
	cell := KeyLEDCell(key)
	x := FRAME_WIDTH - KEYPAD_RIGHT + cell.X*KEY_LED_SIZE
	y := FRAME_HEIGHT - KEYPAD_BOTTOM + cell.Y*KEY_LED_SIZE
	return image.Rect(x, y, x+KEY_LED_SIZE, y+KEY_LED_SIZE)
}

// SoundLEDRect returns the frame rectangle of the sound LED.
func SoundLEDRect() image.Rectangle {
	x := FRAME_WIDTH - SOUND_LED_RIGHT
	return image.Rect(x, SOUND_LED_TOP, x+SOUND_LED_SIZE, SOUND_LED_TOP+SOUND_LED_SIZE)
}

// PhosphorCompositor owns the image chain. Buffers are allocated once and
// mutated in place.
type PhosphorCompositor struct {
	mutex sync.Mutex

	onColor  color.NRGBA
	offColor color.NRGBA
	scaler   draw.Scaler
	art      *CRTArt

	display  *DisplayBuffer
	scaled   *image.RGBA
	phosphor *image.RGBA
	fade     *image.RGBA
	frame    *image.RGBA

	lastScreen [SCREEN_BYTES]byte
	decoded    bool
	renders    uint64
}

func NewPhosphorCompositor(cfg *Configuration, art *CRTArt) *PhosphorCompositor {
	bright := cfg.BrightColor
	phosphorBounds := image.Rect(0, 0, PHOSPHOR_WIDTH, PHOSPHOR_HEIGHT)

	c := &PhosphorCompositor{
		onColor:  color.NRGBA{bright.R, bright.G, bright.B, 0xFF},
		offColor: color.NRGBA{bright.R, bright.G, bright.B, 0x00},
		scaler:   scalerByName(cfg.Scaler),
		art:      art,
		display:  NewDisplayBuffer(),
		scaled:   image.NewRGBA(phosphorBounds),
		phosphor: image.NewRGBA(phosphorBounds),
		fade:     newFadeOverlay(phosphorBounds, cfg.DarkColor, cfg.FadeAlpha, cfg.ScanlineAlpha, cfg.ScanlineSpacing),
		frame:    image.NewRGBA(image.Rect(0, 0, FRAME_WIDTH, FRAME_HEIGHT)),
	}
	fillRect(c.phosphor, phosphorBounds, color.Black)
	fillRect(c.frame, c.frame.Bounds(), color.Black)
	return c
}

func scalerByName(name string) draw.Scaler {
	switch name {
	case SCALER_BILINEAR:
		return draw.BiLinear
	default:
		return draw.NearestNeighbor
	}
}

// newFadeOverlay builds the constant dimming layer: a flat fill at fadeAlpha
// with one scanline every spacing rows at scanAlpha on top of it.
func newFadeOverlay(bounds image.Rectangle, dark color.NRGBA, fadeAlpha, scanAlpha uint8, spacing int) *image.RGBA {
	fade := image.NewRGBA(bounds)
	fillRect(fade, bounds, color.NRGBA{dark.R, dark.G, dark.B, fadeAlpha})

	line := image.NewUniform(color.NRGBA{dark.R, dark.G, dark.B, scanAlpha})
	if spacing < 1 {
		spacing = 1
	}
	for y := bounds.Min.Y; y < bounds.Max.Y; y += spacing {
		draw.Draw(fade, image.Rect(bounds.Min.X, y, bounds.Max.X, y+1), line, image.Point{}, draw.Over)
	}
	return fade
}

// Render advances the phosphor by one tick and returns the composite frame.
// The returned image is reused by the next call.
func (c *PhosphorCompositor) Render(state PeripheralState) *image.RGBA {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.updateDisplay(state.Screen)
	c.scaleDisplay()
	c.accumulatePhosphor()
	c.composeFrame(state)
	c.renders++
	return c.frame
}

// updateDisplay re-decodes only when the bitmap bytes changed. A nil screen
// renders blank; a malformed one keeps the previous picture.
func (c *PhosphorCompositor) updateDisplay(screen []byte) {
	if screen == nil {
		screen = c.blankScreen()
	}
	if c.decoded && bytes.Equal(screen, c.lastScreen[:]) {
		return
	}
	if err := c.display.Decode(screen, c.onColor, c.offColor); err != nil {
		return
	}
	copy(c.lastScreen[:], screen)
	c.decoded = true
}

func (c *PhosphorCompositor) blankScreen() []byte {
	var blank [SCREEN_BYTES]byte
	return blank[:]
}

func (c *PhosphorCompositor) scaleDisplay() {
	draw.Draw(c.scaled, c.scaled.Bounds(), image.Transparent, image.Point{}, draw.Src)
	src := c.display.Image()
	c.scaler.Scale(c.scaled, SCREEN_RECT, src, src.Bounds(), draw.Src, nil)
}

func (c *PhosphorCompositor) accumulatePhosphor() {
	b := c.phosphor.Bounds()
	draw.Draw(c.phosphor, b, c.scaled, image.Point{}, draw.Over)
	draw.Draw(c.phosphor, b, c.fade, image.Point{}, draw.Over)
}

func (c *PhosphorCompositor) composeFrame(state PeripheralState) {
	b := c.frame.Bounds()
	draw.Draw(c.frame, b, image.Black, image.Point{}, draw.Src)

	dst := c.phosphor.Bounds().Add(image.Pt(PHOSPHOR_OFFSET_X, PHOSPHOR_OFFSET_Y))
	draw.Draw(c.frame, dst, c.phosphor, image.Point{}, draw.Over)

	if c.art == nil {
		return
	}
	draw.Draw(c.frame, b, c.art.Glare, image.Point{}, draw.Over)
	draw.Draw(c.frame, b, c.art.Bezel, image.Point{}, draw.Over)

	if state.Sound {
		c.drawLight(SoundLEDRect())
	}
	for key := range KEY_COUNT {
		if state.KeyPressed(key) {
			c.drawLight(KeyLEDRect(key))
		}
	}
}

// drawLight copies the matching region of the active art.
func (c *PhosphorCompositor) drawLight(r image.Rectangle) {
	draw.Draw(c.frame, r, c.art.Active, r.Min, draw.Over)
}

// Phosphor returns the accumulator. Callers must not hold it across Render.
func (c *PhosphorCompositor) Phosphor() *image.RGBA {
	return c.phosphor
}

// FadeOverlay returns the constant dimming layer.
func (c *PhosphorCompositor) FadeOverlay() *image.RGBA {
	return c.fade
}

// RenderCount reports how many ticks have been composited.
func (c *PhosphorCompositor) RenderCount() uint64 {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.renders
}
