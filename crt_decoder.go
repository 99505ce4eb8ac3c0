// crt_decoder.go - Packed 1-bit screen decoder for the CHIP-8 CRT screen

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
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"
)

// Display constants
const (
	DISPLAY_WIDTH  = 64
	DISPLAY_HEIGHT = 32
	DISPLAY_PIXELS = DISPLAY_WIDTH * DISPLAY_HEIGHT
	SCREEN_BYTES   = DISPLAY_PIXELS / 8
)

// ErrMalformedFrame is wrapped by every FrameError.
var ErrMalformedFrame = errors.New("malformed frame")

// FrameError provides detailed error context for a rejected screen payload
type FrameError struct {
	Operation string
	Details   string
	Err       error
}

func (e *FrameError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("frame %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("frame %s failed: %s", e.Operation, e.Details)
}

func (e *FrameError) Unwrap() error {
	return e.Err
}

// DisplayBuffer is one decoded 64x32 frame, one NRGBA colour per pixel.
type DisplayBuffer struct {
	img *image.NRGBA
}

func NewDisplayBuffer() *DisplayBuffer {
	return &DisplayBuffer{
		img: image.NewNRGBA(image.Rect(0, 0, DISPLAY_WIDTH, DISPLAY_HEIGHT)),
	}
}

// DecodeFrame converts a packed bitmap into a new DisplayBuffer.
func DecodeFrame(bits []byte, on, off color.NRGBA) (*DisplayBuffer, error) {
	db := NewDisplayBuffer()
	if err := db.Decode(bits, on, off); err != nil {
		return nil, err
	}
	return db, nil
}

func checkScreenLength(bits []byte) error {
	if len(bits) != SCREEN_BYTES {
		return &FrameError{
			Operation: "decode",
			Details:   fmt.Sprintf("screen payload is %d bytes, want %d", len(bits), SCREEN_BYTES),
			Err:       ErrMalformedFrame,
		}
	}
	return nil
}

// Decode overwrites every pixel from bits. Pixel p is bit 7-(p%8) of byte
// p/8, row-major. The buffer is left untouched when bits is malformed.
func (db *DisplayBuffer) Decode(bits []byte, on, off color.NRGBA) error {
	if err := checkScreenLength(bits); err != nil {
		return err
	}
	pix := db.img.Pix
	for p := range DISPLAY_PIXELS {
		c := off
		if (bits[p/8]>>(7-uint(p%8)))&1 == 1 {
			c = on
		}
		i := p * 4
		pix[i+0] = c.R
		pix[i+1] = c.G
		pix[i+2] = c.B
		pix[i+3] = c.A
	}
	return nil
}

// Len is always DISPLAY_PIXELS.
func (db *DisplayBuffer) Len() int {
	return len(db.img.Pix) / 4
}

// Pixel returns the colour of flat pixel index p.
func (db *DisplayBuffer) Pixel(p int) color.NRGBA {
	i := p * 4
	return color.NRGBA{R: db.img.Pix[i], G: db.img.Pix[i+1], B: db.img.Pix[i+2], A: db.img.Pix[i+3]}
}

func (db *DisplayBuffer) Image() *image.NRGBA {
	return db.img
}

// String dumps the buffer as text, pixels with non-zero alpha drawn lit.
func (db *DisplayBuffer) String() string {
	var sb strings.Builder
	sb.Grow((DISPLAY_WIDTH*2*3 + 1) * DISPLAY_HEIGHT)
	for y := range DISPLAY_HEIGHT {
		for x := range DISPLAY_WIDTH {
			if db.Pixel(x+y*DISPLAY_WIDTH).A != 0 {
				sb.WriteString("██")
			} else {
				sb.WriteString("░░")
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
