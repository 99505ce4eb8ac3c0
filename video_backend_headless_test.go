// video_backend_headless_test.go - Tests for the in-memory video output

package main

import "testing"

func TestHeadlessOutput_DisplayConfig(t *testing.T) {
	out := NewHeadlessVideoOutput()
	cfg := DisplayConfig{Width: FRAME_WIDTH, Height: FRAME_HEIGHT, Title: "CHIP-8", Fullscreen: true}
	if err := out.SetDisplayConfig(cfg); err != nil {
		t.Fatalf("SetDisplayConfig returned error: %v", err)
	}
	if got := out.GetDisplayConfig(); got != cfg {
		t.Fatalf("GetDisplayConfig() = %+v, want %+v", got, cfg)
	}
}

func TestHeadlessOutput_Lifecycle(t *testing.T) {
	out := NewHeadlessVideoOutput()
	if out.IsStarted() {
		t.Fatal("started before Start")
	}
	if err := out.Start(); err != nil {
		t.Fatalf("Start returned error: %v", err)
	}
	if !out.IsStarted() {
		t.Fatal("not started after Start")
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if out.IsStarted() {
		t.Fatal("still started after Close")
	}
	select {
	case <-out.Done():
		t.Fatal("Done closed for a headless output")
	default:
	}
}

func TestHeadlessOutput_LastFrameIsCopy(t *testing.T) {
	out := NewHeadlessVideoOutput()
	frame := []byte{1, 2, 3, 4}
	if err := out.UpdateFrame(frame); err != nil {
		t.Fatalf("UpdateFrame returned error: %v", err)
	}
	frame[0] = 9
	got := out.LastFrame()
	if got[0] != 1 {
		t.Fatal("output aliases the caller's buffer")
	}
	got[1] = 9
	if out.LastFrame()[1] != 2 {
		t.Fatal("LastFrame returned the internal buffer")
	}
	if out.GetFrameCount() != 1 {
		t.Fatalf("GetFrameCount() = %d, want 1", out.GetFrameCount())
	}
}

func TestNewVideoOutput_Backends(t *testing.T) {
	out, err := NewVideoOutput(BACKEND_HEADLESS)
	if err != nil {
		t.Fatalf("NewVideoOutput(headless) returned error: %v", err)
	}
	if _, ok := out.(*HeadlessVideoOutput); !ok {
		t.Fatalf("headless backend is %T", out)
	}
	if _, err := NewVideoOutput("opengl"); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}
