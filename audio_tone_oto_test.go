//go:build !headless

// audio_tone_oto_test.go - Tests for the square wave sample source

package main

import (
	"encoding/binary"
	"math"
	"testing"
)

func TestSquareWave_Read(t *testing.T) {
	// 4 samples per cycle: two high, two low
	w := &squareWave{step: 0.25}
	buf := make([]byte, 8*4+2)
	n, err := w.Read(buf)
	if err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}
	want := []float32{TONE_AMPLITUDE, TONE_AMPLITUDE, -TONE_AMPLITUDE, -TONE_AMPLITUDE}
	for i := range 8 {
		got := math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
		if got != want[i%4] {
			t.Fatalf("sample %d = %v, want %v", i, got, want[i%4])
		}
	}
	if buf[32] != 0 || buf[33] != 0 {
		t.Fatal("trailing partial sample not cleared")
	}
}
