// runtime_status.go - Live component status for the display status lines

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
	"fmt"
	"strings"
	"sync"
)

type runtimeStatusSnapshot struct {
	ingest    *NetworkIngest
	sink      *PeripheralStateSink
	scheduler *RenderScheduler
	config    *Configuration
}

type runtimeStatusStore struct {
	mu sync.RWMutex
	runtimeStatusSnapshot
}

func (s *runtimeStatusStore) setComponents(ingest *NetworkIngest, sink *PeripheralStateSink, scheduler *RenderScheduler, config *Configuration) {
	s.mu.Lock()
	s.ingest = ingest
	s.sink = sink
	s.scheduler = scheduler
	s.config = config
	s.mu.Unlock()
}

func (s *runtimeStatusStore) snapshot() runtimeStatusSnapshot {
	s.mu.RLock()
	snap := s.runtimeStatusSnapshot
	s.mu.RUnlock()
	return snap
}

var runtimeStatus = &runtimeStatusStore{}

// statusReport is what both display backends print in their status lines.
type statusReport struct {
	Received  uint64
	Dropped   uint64
	Malformed uint64
	Frames    uint64
	Overruns  uint64
	Keys      uint16
	Sound     bool
	Listen    string
}

func (s runtimeStatusSnapshot) report() statusReport {
	var r statusReport
	if s.ingest != nil {
		st := s.ingest.Stats()
		r.Received = st.Received
		r.Dropped = st.Dropped
		if addr := s.ingest.LocalAddr(); addr != nil {
			r.Listen = addr.String()
		}
	}
	if s.sink != nil {
		r.Malformed = s.sink.Stats().MalformedScreens
		state := s.sink.Snapshot()
		r.Keys = state.Keys
		r.Sound = state.Sound
	}
	if s.scheduler != nil {
		r.Frames = s.scheduler.FrameCount()
		r.Overruns = s.scheduler.OverrunCount()
	}
	return r
}

// keypadString renders the held keys in keypad order, '.' for released.
func keypadString(keys uint16) string {
	var sb strings.Builder
	for _, key := range []int{0x1, 0x2, 0x3, 0xC, 0x4, 0x5, 0x6, 0xD, 0x7, 0x8, 0x9, 0xE, 0xA, 0x0, 0xB, 0xF} {
		if (keys>>uint(key))&1 == 1 {
			fmt.Fprintf(&sb, "%X", key)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func (r statusReport) String() string {
	sound := "off"
	if r.Sound {
		sound = "on"
	}
	return fmt.Sprintf("rx %d  drop %d  bad %d  frames %d  keys %s  sound %s",
		r.Received, r.Dropped, r.Malformed, r.Frames, keypadString(r.Keys), sound)
}
