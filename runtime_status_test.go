// runtime_status_test.go - Tests for the status line report

package main

import (
	"strings"
	"testing"
)

func TestKeypadString(t *testing.T) {
	if got := keypadString(0); got != "................" {
		t.Fatalf("keypadString(0) = %q", got)
	}
	if got := keypadString(0x8003); got != "1............0.F" {
		t.Fatalf("keypadString(0x8003) = %q", got)
	}
	if got := keypadString(0x8007); got != "12...........0.F" {
		t.Fatalf("keypadString(0x8007) = %q", got)
	}
	if got := keypadString(0x0001); got != ".............0.." {
		t.Fatalf("keypadString(0x0001) = %q", got)
	}
}

func TestRuntimeStatus_Report(t *testing.T) {
	cfg := DefaultConfiguration()
	sink := NewPeripheralStateSink(nil)
	sink.Apply(PeripheralState{Keys: 0x0010, Sound: true})
	scheduler := NewRenderScheduler(NewPhosphorCompositor(cfg, nil), sink, nil, cfg.RefreshRate)
	scheduler.Tick()
	scheduler.Tick()

	store := &runtimeStatusStore{}
	if r := store.snapshot().report(); r != (statusReport{}) {
		t.Fatalf("empty store report = %+v", r)
	}
	store.setComponents(nil, sink, scheduler, cfg)
	r := store.snapshot().report()
	if r.Keys != 0x0010 || !r.Sound || r.Frames != 2 {
		t.Fatalf("report = %+v", r)
	}
	s := r.String()
	for _, want := range []string{"frames 2", "sound on", "keys ....4"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
