package main

import (
	"fmt"
	"math/rand/v2"
	"sort"
)

const (
	screenWidth  = 64
	screenHeight = 32
	screenBytes  = screenWidth * screenHeight / 8
)

// PatternFunc returns the bitmap for frame n of an animation.
type PatternFunc func(n int) []byte

var patterns = map[string]PatternFunc{
	"blank":   func(int) []byte { return make([]byte, screenBytes) },
	"fill":    fillPattern,
	"checker": checkerPattern,
	"border":  borderPattern,
	"sweep":   sweepPattern,
	"random":  randomPattern,
}

// PatternNames lists the known patterns in sorted order.
func PatternNames() []string {
	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func LookupPattern(name string) (PatternFunc, error) {
	p, ok := patterns[name]
	if !ok {
		return nil, fmt.Errorf("unknown pattern %q (have %v)", name, PatternNames())
	}
	return p, nil
}

// setPixel lights (x, y); pixel p is bit 7-(p%8) of byte p/8.
func setPixel(bits []byte, x, y int) {
	if x < 0 || x >= screenWidth || y < 0 || y >= screenHeight {
		return
	}
	p := y*screenWidth + x
	bits[p/8] |= 0x80 >> uint(p%8)
}

func pixelSet(bits []byte, x, y int) bool {
	p := y*screenWidth + x
	return bits[p/8]&(0x80>>uint(p%8)) != 0
}

func fillPattern(int) []byte {
	bits := make([]byte, screenBytes)
	for i := range bits {
		bits[i] = 0xFF
	}
	return bits
}

// checkerPattern inverts every frame, which exercises the phosphor fade.
func checkerPattern(n int) []byte {
	bits := make([]byte, screenBytes)
	for y := range screenHeight {
		for x := range screenWidth {
			if (x+y+n)%2 == 0 {
				setPixel(bits, x, y)
			}
		}
	}
	return bits
}

func borderPattern(int) []byte {
	bits := make([]byte, screenBytes)
	for x := range screenWidth {
		setPixel(bits, x, 0)
		setPixel(bits, x, screenHeight-1)
	}
	for y := range screenHeight {
		setPixel(bits, 0, y)
		setPixel(bits, screenWidth-1, y)
	}
	return bits
}

// sweepPattern moves a two pixel wide vertical bar one column per frame.
func sweepPattern(n int) []byte {
	bits := make([]byte, screenBytes)
	x := n % screenWidth
	for y := range screenHeight {
		setPixel(bits, x, y)
		setPixel(bits, (x+1)%screenWidth, y)
	}
	return bits
}

func randomPattern(n int) []byte {
	rng := rand.New(rand.NewPCG(uint64(n), 0x43484950))
	bits := make([]byte, screenBytes)
	for i := range bits {
		bits[i] = byte(rng.Uint32())
	}
	return bits
}
