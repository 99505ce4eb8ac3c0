package main

import (
	"bytes"
	"slices"
	"testing"
)

func TestPatternsProduceFullScreens(t *testing.T) {
	for _, name := range PatternNames() {
		gen, err := LookupPattern(name)
		if err != nil {
			t.Fatalf("LookupPattern(%q) returned error: %v", name, err)
		}
		for n := range 3 {
			if got := len(gen(n)); got != screenBytes {
				t.Errorf("%s frame %d: got %d bytes, want %d", name, n, got, screenBytes)
			}
		}
	}
}

func TestLookupPattern_Unknown(t *testing.T) {
	if _, err := LookupPattern("plasma"); err == nil {
		t.Fatal("expected error for unknown pattern")
	}
}

func TestPatternNamesSorted(t *testing.T) {
	names := PatternNames()
	if !slices.IsSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}
}

func TestSetPixel_MSBFirst(t *testing.T) {
	bits := make([]byte, screenBytes)
	setPixel(bits, 0, 0)
	setPixel(bits, 9, 0)
	setPixel(bits, 63, 31)
	if bits[0] != 0x80 {
		t.Errorf("byte 0 = %#02x, want 0x80", bits[0])
	}
	if bits[1] != 0x40 {
		t.Errorf("byte 1 = %#02x, want 0x40", bits[1])
	}
	if bits[screenBytes-1] != 0x01 {
		t.Errorf("last byte = %#02x, want 0x01", bits[screenBytes-1])
	}
	setPixel(bits, 64, 0)
	setPixel(bits, -1, 5)
	if bits[8] != 0 {
		t.Errorf("out of range pixel wrote byte 8: %#02x", bits[8])
	}
}

func TestCheckerInvertsEachFrame(t *testing.T) {
	a := checkerPattern(0)
	b := checkerPattern(1)
	for i := range a {
		if a[i]^b[i] != 0xFF {
			t.Fatalf("byte %d: %#02x and %#02x are not inverses", i, a[i], b[i])
		}
	}
	if a[0] != 0xAA {
		t.Errorf("checker frame 0 byte 0 = %#02x, want 0xaa", a[0])
	}
}

func TestBorderPattern(t *testing.T) {
	bits := borderPattern(0)
	for _, p := range [][2]int{{0, 0}, {63, 0}, {0, 31}, {63, 31}, {20, 0}, {0, 20}} {
		if !pixelSet(bits, p[0], p[1]) {
			t.Errorf("pixel (%d,%d) not set", p[0], p[1])
		}
	}
	if pixelSet(bits, 10, 10) {
		t.Error("interior pixel (10,10) set")
	}
}

func TestSweepWraps(t *testing.T) {
	bits := sweepPattern(63)
	if !pixelSet(bits, 63, 5) || !pixelSet(bits, 0, 5) {
		t.Fatal("sweep at column 63 should light columns 63 and 0")
	}
}

func TestRandomPatternIsDeterministic(t *testing.T) {
	if !bytes.Equal(randomPattern(7), randomPattern(7)) {
		t.Fatal("same frame number produced different bitmaps")
	}
	if bytes.Equal(randomPattern(7), randomPattern(8)) {
		t.Fatal("consecutive frames produced identical bitmaps")
	}
}
