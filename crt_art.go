// crt_art.go - Bezel, glare and indicator art for the CRT compositor

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
The monitor art is three full-frame overlays:

  bezel   the casing, opaque except for the hole the phosphor shows through
  glare   a faint reflection drawn over the phosphor, under the bezel
  active  lit indicator art; only the sub-rectangle of a lit LED is copied

Art is loaded once from three PNG files named after the monitor, or
generated here when no asset directory is configured.
*/

package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/draw"
)

const (
	ART_BEZEL_FILE  = "CHIP-8 monitor.png"
	ART_GLARE_FILE  = "CHIP-8 monitor - glare.png"
	ART_ACTIVE_FILE = "CHIP-8 monitor - active.png"
)

// Procedural art palette
var (
	artCasingColor = color.NRGBA{0x3A, 0x38, 0x33, 0xFF}
	artRimColor    = color.NRGBA{0x1C, 0x1B, 0x19, 0xFF}
	artWellColor   = color.NRGBA{0x22, 0x22, 0x22, 0xFF}
	artSoundColor  = color.NRGBA{0xFF, 0x80, 0x10, 0xFF}
)

const (
	artHoleRadius   = 48
	artRimWidth     = 12
	artWellMargin   = 3
	artLampMargin   = 6
	artGlarePeak    = 0x28
	artGlareCenterX = 420
	artGlareCenterY = 330
	artGlareRadiusX = 420
	artGlareRadiusY = 260
)

type CRTArt struct {
	Bezel  *image.RGBA
	Glare  *image.RGBA
	Active *image.RGBA
}

// LoadCRTArt reads the three overlay PNGs from dir. Each must be exactly the
// composite frame size so the LED positions line up.
func LoadCRTArt(dir string) (*CRTArt, error) {
	bezel, err := loadArtImage(filepath.Join(dir, ART_BEZEL_FILE))
	if err != nil {
		return nil, err
	}
	glare, err := loadArtImage(filepath.Join(dir, ART_GLARE_FILE))
	if err != nil {
		return nil, err
	}
	active, err := loadArtImage(filepath.Join(dir, ART_ACTIVE_FILE))
	if err != nil {
		return nil, err
	}
	return &CRTArt{Bezel: bezel, Glare: glare, Active: active}, nil
}

func loadArtImage(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &VideoError{Operation: "art load", Details: path, Err: err}
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, &VideoError{Operation: "art decode", Details: path, Err: err}
	}
	b := img.Bounds()
	if b.Dx() != FRAME_WIDTH || b.Dy() != FRAME_HEIGHT {
		return nil, &VideoError{
			Operation: "art load",
			Details:   fmt.Sprintf("%s is %dx%d, want %dx%d", path, b.Dx(), b.Dy(), FRAME_WIDTH, FRAME_HEIGHT),
		}
	}
	rgba := image.NewRGBA(image.Rect(0, 0, FRAME_WIDTH, FRAME_HEIGHT))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba, nil
}

// WritePNGs stores the art under dir using the names LoadCRTArt expects.
func (a *CRTArt) WritePNGs(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	files := []struct {
		name string
		img  *image.RGBA
	}{
		{ART_BEZEL_FILE, a.Bezel},
		{ART_GLARE_FILE, a.Glare},
		{ART_ACTIVE_FILE, a.Active},
	}
	for _, file := range files {
		if err := writePNG(filepath.Join(dir, file.name), file.img); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// DefaultCRTArt draws a plain casing with LED wells; lit key LEDs use the
// phosphor colour.
func DefaultCRTArt(bright color.NRGBA) *CRTArt {
	frame := image.Rect(0, 0, FRAME_WIDTH, FRAME_HEIGHT)
	art := &CRTArt{
		Bezel:  image.NewRGBA(frame),
		Glare:  image.NewRGBA(frame),
		Active: image.NewRGBA(frame),
	}

	hole := screenHoleRect()

	// Casing, then punch the rounded screen hole with a dark rim around it
	fillRect(art.Bezel, frame, artCasingColor)
	punchRoundedRect(art.Bezel, hole.Inset(-artRimWidth), artHoleRadius+artRimWidth, artRimColor)
	punchRoundedRect(art.Bezel, hole, artHoleRadius, color.NRGBA{})

	// LED wells on the bezel, lamps on the active layer
	sound := SoundLEDRect()
	fillRect(art.Bezel, sound.Inset(artWellMargin), artWellColor)
	fillRect(art.Active, sound.Inset(artLampMargin), artSoundColor)
	for key := range KEY_COUNT {
		cell := KeyLEDRect(key)
		fillRect(art.Bezel, cell.Inset(artWellMargin), artWellColor)
		fillRect(art.Active, cell.Inset(artLampMargin), color.NRGBA{bright.R, bright.G, bright.B, 0xFF})
	}

	drawGlare(art.Glare, hole)
	return art
}

// screenHoleRect is where the phosphor shows through the bezel, in frame
// coordinates.
func screenHoleRect() image.Rectangle {
	return SCREEN_RECT.Add(image.Pt(PHOSPHOR_OFFSET_X, PHOSPHOR_OFFSET_Y)).Inset(-20)
}

func fillRect(dst *image.RGBA, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Src)
}

// punchRoundedRect replaces every pixel inside the rounded rectangle with c.
func punchRoundedRect(dst *image.RGBA, r image.Rectangle, radius int, c color.NRGBA) {
	fill := color.RGBAModel.Convert(c).(color.RGBA)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if insideRoundedRect(x, y, r, radius) {
				dst.SetRGBA(x, y, fill)
			}
		}
	}
}

func insideRoundedRect(x, y int, r image.Rectangle, radius int) bool {
	cx := min(max(x, r.Min.X+radius), r.Max.X-1-radius)
	cy := min(max(y, r.Min.Y+radius), r.Max.Y-1-radius)
	dx, dy := x-cx, y-cy
	return dx*dx+dy*dy <= radius*radius
}

// drawGlare paints a soft elliptical white highlight inside the hole.
func drawGlare(dst *image.RGBA, hole image.Rectangle) {
	cx := float64(hole.Min.X + artGlareCenterX)
	cy := float64(hole.Min.Y + artGlareCenterY)
	for y := hole.Min.Y; y < hole.Max.Y; y++ {
		for x := hole.Min.X; x < hole.Max.X; x++ {
			nx := (float64(x) - cx) / artGlareRadiusX
			ny := (float64(y) - cy) / artGlareRadiusY
			d := nx*nx + ny*ny
			if d >= 1 {
				continue
			}
			a := uint8(math.Round(artGlarePeak * (1 - d) * (1 - d)))
			// Premultiplied white
			dst.SetRGBA(x, y, color.RGBA{a, a, a, a})
		}
	}
}
