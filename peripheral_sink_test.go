// peripheral_sink_test.go - Tests for the latest-state handoff between network and renderer

package main

import (
	"bytes"
	"sync"
	"sync/atomic"
	"testing"
)

type fakeTone struct {
	starts atomic.Int32
	stops  atomic.Int32
}

func (f *fakeTone) StartContinuousTone() { f.starts.Add(1) }
func (f *fakeTone) StopContinuousTone()  { f.stops.Add(1) }

func TestPeripheralStateSink_InitialSnapshot(t *testing.T) {
	sink := NewPeripheralStateSink(nil)
	s := sink.Snapshot()
	if len(s.Screen) != SCREEN_BYTES {
		t.Fatalf("initial screen is %d bytes, want %d", len(s.Screen), SCREEN_BYTES)
	}
	if !bytes.Equal(s.Screen, make([]byte, SCREEN_BYTES)) {
		t.Fatal("initial screen is not blank")
	}
	if s.Keys != 0 || s.Sound {
		t.Fatalf("initial keys=%#04x sound=%v", s.Keys, s.Sound)
	}
}

func TestPeripheralStateSink_ScreenRetainedWhenAbsent(t *testing.T) {
	sink := NewPeripheralStateSink(nil)
	screen := screenWithPixel(5, 5)
	sink.Apply(PeripheralState{Screen: screen, Keys: 0x0001})
	sink.Apply(PeripheralState{Keys: 0x8000, Sound: true})

	s := sink.Snapshot()
	if !bytes.Equal(s.Screen, screen) {
		t.Fatal("screen not retained when the message had none")
	}
	if s.Keys != 0x8000 || !s.Sound {
		t.Fatalf("keys=%#04x sound=%v, want 0x8000 true", s.Keys, s.Sound)
	}
}

func TestPeripheralStateSink_CopiesScreen(t *testing.T) {
	sink := NewPeripheralStateSink(nil)
	screen := screenWithPixel(0, 0)
	sink.Apply(PeripheralState{Screen: screen})
	screen[0] = 0xFF
	if sink.Snapshot().Screen[0] != 0x80 {
		t.Fatal("sink shares the caller's screen slice")
	}
}

func TestPeripheralStateSink_ToneTransitions(t *testing.T) {
	tone := &fakeTone{}
	sink := NewPeripheralStateSink(tone)

	for _, sound := range []bool{false, true, true, true, false, false, true} {
		sink.Apply(PeripheralState{Sound: sound})
	}
	if got := tone.starts.Load(); got != 2 {
		t.Fatalf("StartContinuousTone called %d times, want 2", got)
	}
	if got := tone.stops.Load(); got != 1 {
		t.Fatalf("StopContinuousTone called %d times, want 1", got)
	}
	st := sink.Stats()
	if st.ToneStarts != 2 || st.ToneStops != 1 || st.Applied != 7 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestPeripheralStateSink_MalformedScreen(t *testing.T) {
	quietWarnings.Store(true)
	defer quietWarnings.Store(false)

	tone := &fakeTone{}
	sink := NewPeripheralStateSink(tone)
	good := screenWithPixel(1, 1)
	sink.Apply(PeripheralState{Screen: good})
	sink.Apply(PeripheralState{Screen: make([]byte, 255), Keys: 0x0010, Sound: true})

	s := sink.Snapshot()
	if !bytes.Equal(s.Screen, good) {
		t.Fatal("malformed screen replaced the previous bitmap")
	}
	if s.Keys != 0x0010 || !s.Sound {
		t.Fatalf("keys/sound from the malformed message not applied: keys=%#04x sound=%v", s.Keys, s.Sound)
	}
	if tone.starts.Load() != 1 {
		t.Fatal("sound transition in a malformed message did not start the tone")
	}
	if sink.Stats().MalformedScreens != 1 {
		t.Fatalf("MalformedScreens = %d, want 1", sink.Stats().MalformedScreens)
	}
}

func TestPeripheralState_KeyPressed(t *testing.T) {
	s := PeripheralState{Keys: 0x8002}
	for key := range KEY_COUNT {
		want := key == 1 || key == 0xF
		if s.KeyPressed(key) != want {
			t.Errorf("KeyPressed(%X) = %v, want %v", key, !want, want)
		}
	}
}

// Every snapshot must come from a single Apply: each writer uses a screen
// filled with one byte value and a matching key mask.
func TestPeripheralStateSink_ConcurrentApplySnapshot(t *testing.T) {
	sink := NewPeripheralStateSink(&fakeTone{})
	var wg sync.WaitGroup
	for w := range 4 {
		wg.Go(func() {
			for i := range 500 {
				v := byte(w*64 + i%64)
				screen := bytes.Repeat([]byte{v}, SCREEN_BYTES)
				sink.Apply(PeripheralState{Screen: screen, Keys: uint16(v), Sound: i%2 == 0})
			}
		})
	}
	var torn atomic.Int32
	wg.Go(func() {
		for range 2000 {
			s := sink.Snapshot()
			if len(s.Screen) != SCREEN_BYTES {
				torn.Add(1)
				continue
			}
			if s.Keys != 0 && uint16(s.Screen[0]) != s.Keys {
				torn.Add(1)
			}
			if s.Screen[0] != s.Screen[SCREEN_BYTES-1] {
				torn.Add(1)
			}
		}
	})
	wg.Wait()
	if n := torn.Load(); n != 0 {
		t.Fatalf("%d inconsistent snapshots", n)
	}
	if got := sink.Stats().Applied; got != 2000 {
		t.Fatalf("Applied = %d, want 2000", got)
	}
}
