// peripheral_sink.go - Latest peripheral state shared between network and renderer

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
	"sync"
	"sync/atomic"
)

// PeripheralState is one decoded datagram. A nil Screen means the sender did
// not include a bitmap. Values are never mutated after construction.
type PeripheralState struct {
	Screen []byte
	Keys   uint16
	Sound  bool
}

// InitialPeripheralState is what the renderer sees before any datagram:
// blank bitmap, no keys, sound off.
func InitialPeripheralState() PeripheralState {
	return PeripheralState{Screen: make([]byte, SCREEN_BYTES)}
}

func (s PeripheralState) KeyPressed(key int) bool {
	return (s.Keys>>uint(key&0xF))&1 == 1
}

// ToneGenerator is the audio side of the sound flag. Both calls are
// idempotent.
type ToneGenerator interface {
	StartContinuousTone()
	StopContinuousTone()
}

type SinkStats struct {
	Applied          uint64
	MalformedScreens uint64
	ToneStarts       uint64
	ToneStops        uint64
}

// PeripheralStateSink hands the newest state from the network goroutine to
// the render goroutine. Snapshot is a single atomic load; Apply builds the
// next state off to the side and publishes it with one pointer swap.
type PeripheralStateSink struct {
	applyMutex sync.Mutex // serialises writers and tone transitions
	current    atomic.Pointer[PeripheralState]
	tone       ToneGenerator

	applied    atomic.Uint64
	malformed  atomic.Uint64
	toneStarts atomic.Uint64
	toneStops  atomic.Uint64
}

func NewPeripheralStateSink(tone ToneGenerator) *PeripheralStateSink {
	s := &PeripheralStateSink{tone: tone}
	initial := InitialPeripheralState()
	s.current.Store(&initial)
	return s
}

// Apply publishes state. A missing screen keeps the previous bitmap; a
// malformed one is dropped while keys and sound still apply.
func (s *PeripheralStateSink) Apply(state PeripheralState) {
	s.applyMutex.Lock()
	defer s.applyMutex.Unlock()

	prev := s.current.Load()
	next := &PeripheralState{
		Screen: prev.Screen,
		Keys:   state.Keys,
		Sound:  state.Sound,
	}
	if state.Screen != nil {
		if err := checkScreenLength(state.Screen); err != nil {
			s.malformed.Add(1)
			warnf("peripheral_sink: dropping screen: %v\n", err)
		} else {
			next.Screen = bytes.Clone(state.Screen)
		}
	}
	s.current.Store(next)
	s.applied.Add(1)

	if next.Sound != prev.Sound {
		s.soundChanged(next.Sound)
	}
}

func (s *PeripheralStateSink) soundChanged(on bool) {
	if on {
		s.toneStarts.Add(1)
		if s.tone != nil {
			s.tone.StartContinuousTone()
		}
		return
	}
	s.toneStops.Add(1)
	if s.tone != nil {
		s.tone.StopContinuousTone()
	}
}

// Snapshot returns the most recently applied state. It never blocks.
func (s *PeripheralStateSink) Snapshot() PeripheralState {
	return *s.current.Load()
}

func (s *PeripheralStateSink) Stats() SinkStats {
	return SinkStats{
		Applied:          s.applied.Load(),
		MalformedScreens: s.malformed.Load(),
		ToneStarts:       s.toneStarts.Load(),
		ToneStops:        s.toneStops.Load(),
	}
}
