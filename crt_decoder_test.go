// crt_decoder_test.go - Tests for the packed 1-bit screen decoder

package main

import (
	"errors"
	"image/color"
	"math/rand/v2"
	"strings"
	"testing"
)

var (
	testOn  = color.NRGBA{0x33, 0x99, 0x00, 0xFF}
	testOff = color.NRGBA{0x33, 0x99, 0x00, 0x00}
)

func TestDecodeFrame_PixelCount(t *testing.T) {
	db, err := DecodeFrame(make([]byte, SCREEN_BYTES), testOn, testOff)
	if err != nil {
		t.Fatalf("DecodeFrame returned error: %v", err)
	}
	if db.Len() != 2048 {
		t.Fatalf("Len() = %d, want 2048", db.Len())
	}
	for p := range db.Len() {
		if db.Pixel(p) != testOff {
			t.Fatalf("pixel %d = %v, want off", p, db.Pixel(p))
		}
	}
}

func TestDecodeFrame_MSBFirst(t *testing.T) {
	bits := make([]byte, SCREEN_BYTES)
	bits[0] = 0x80 // pixel 0
	bits[1] = 0x01 // pixel 15
	bits[SCREEN_BYTES-1] = 0x01
	db, err := DecodeFrame(bits, testOn, testOff)
	if err != nil {
		t.Fatalf("DecodeFrame returned error: %v", err)
	}
	for p, want := range map[int]color.NRGBA{0: testOn, 1: testOff, 7: testOff, 8: testOff, 15: testOn, 2047: testOn, 2046: testOff} {
		if got := db.Pixel(p); got != want {
			t.Errorf("pixel %d = %v, want %v", p, got, want)
		}
	}
	if got := db.Image().NRGBAAt(63, 31); got != testOn {
		t.Errorf("image (63,31) = %v, want on", got)
	}
}

func TestDecodeFrame_RandomBitmaps(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	bits := make([]byte, SCREEN_BYTES)
	for round := range 20 {
		for i := range bits {
			bits[i] = byte(rng.Uint32())
		}
		db, err := DecodeFrame(bits, testOn, testOff)
		if err != nil {
			t.Fatalf("round %d: DecodeFrame returned error: %v", round, err)
		}
		for p := range DISPLAY_PIXELS {
			lit := bits[p/8]&(1<<(7-uint(p%8))) != 0
			want := testOff
			if lit {
				want = testOn
			}
			if got := db.Pixel(p); got != want {
				t.Fatalf("round %d pixel %d = %v, want %v", round, p, got, want)
			}
		}
	}
}

func TestDecodeFrame_WrongLength(t *testing.T) {
	for _, n := range []int{0, 1, 255, 257, 512} {
		db, err := DecodeFrame(make([]byte, n), testOn, testOff)
		if err == nil {
			t.Fatalf("%d bytes: expected error", n)
		}
		if !errors.Is(err, ErrMalformedFrame) {
			t.Fatalf("%d bytes: error %v does not wrap ErrMalformedFrame", n, err)
		}
		var fe *FrameError
		if !errors.As(err, &fe) {
			t.Fatalf("%d bytes: error %T is not a *FrameError", n, err)
		}
		if db != nil {
			t.Fatalf("%d bytes: expected nil buffer on error", n)
		}
	}
}

func TestDisplayBuffer_DecodeLeavesBufferOnError(t *testing.T) {
	bits := make([]byte, SCREEN_BYTES)
	for i := range bits {
		bits[i] = 0xFF
	}
	db := NewDisplayBuffer()
	if err := db.Decode(bits, testOn, testOff); err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if err := db.Decode(make([]byte, 255), testOn, testOff); err == nil {
		t.Fatal("expected error for 255 byte screen")
	}
	for p := range DISPLAY_PIXELS {
		if db.Pixel(p) != testOn {
			t.Fatalf("pixel %d changed after rejected decode", p)
		}
	}
}

func TestDisplayBuffer_String(t *testing.T) {
	bits := make([]byte, SCREEN_BYTES)
	bits[0] = 0xC0
	db, err := DecodeFrame(bits, testOn, testOff)
	if err != nil {
		t.Fatalf("DecodeFrame returned error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(db.String(), "\n"), "\n")
	if len(lines) != DISPLAY_HEIGHT {
		t.Fatalf("got %d lines, want %d", len(lines), DISPLAY_HEIGHT)
	}
	if !strings.HasPrefix(lines[0], "████░░") {
		t.Fatalf("first line starts %q", lines[0][:18])
	}
	if strings.Contains(lines[1], "█") {
		t.Fatal("second line should be dark")
	}
	if n := strings.Count(lines[0], "██") + strings.Count(lines[0], "░░"); n != DISPLAY_WIDTH {
		t.Fatalf("first line has %d cells, want %d", n, DISPLAY_WIDTH)
	}
}

func BenchmarkDisplayBuffer_Decode(b *testing.B) {
	bits := make([]byte, SCREEN_BYTES)
	for i := range bits {
		bits[i] = byte(i)
	}
	db := NewDisplayBuffer()
	b.ReportAllocs()
	for b.Loop() {
		_ = db.Decode(bits, testOn, testOff)
	}
}
