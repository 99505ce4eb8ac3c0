// render_scheduler.go - Fixed-rate render loop for the CRT compositor

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

/*
render_scheduler.go - Drives the compositor independently of the network

Each tick takes the sink's latest snapshot, composites it and hands the frame
to the video output, then waits out the rest of the interval. A tick that
overruns is followed immediately by the next one; ticks are never skipped or
batched. The loop stops when its context is cancelled.
*/

package main

import (
	"context"
	"image"
	"sync"
	"sync/atomic"
	"time"
)

const (
	RENDER_REFRESH_RATE     = 60
	RENDER_REFRESH_INTERVAL = time.Second / RENDER_REFRESH_RATE
)

// FrameOutput is the presentation side of the loop. VideoOutput satisfies it.
type FrameOutput interface {
	IsStarted() bool
	UpdateFrame(buffer []byte) error
}

type RenderScheduler struct {
	compositor *PhosphorCompositor
	sink       *PeripheralStateSink
	output     FrameOutput
	interval   time.Duration

	frameCount   atomic.Uint64
	overrunCount atomic.Uint64

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRenderScheduler(compositor *PhosphorCompositor, sink *PeripheralStateSink, output FrameOutput, refreshRate int) *RenderScheduler {
	interval := RENDER_REFRESH_INTERVAL
	if refreshRate > 0 {
		interval = time.Second / time.Duration(refreshRate)
	}
	return &RenderScheduler{
		compositor: compositor,
		sink:       sink,
		output:     output,
		interval:   interval,
	}
}

// Tick renders and publishes one frame.
func (r *RenderScheduler) Tick() *image.RGBA {
	frame := r.compositor.Render(r.sink.Snapshot())
	if r.output != nil && r.output.IsStarted() {
		if err := r.output.UpdateFrame(frame.Pix); err != nil {
			warnf("render_scheduler: error updating frame: %v\n", err)
		}
	}
	r.frameCount.Add(1)
	return frame
}

// Run ticks until ctx is cancelled.
func (r *RenderScheduler) Run(ctx context.Context) error {
	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}

		start := time.Now()
		r.Tick()
		wait := r.interval - time.Since(start)
		if wait < 0 {
			r.overrunCount.Add(1)
			wait = 0
		}
		timer.Reset(wait)
	}
}

// Start runs the loop in its own goroutine.
func (r *RenderScheduler) Start(ctx context.Context) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.done != nil {
		return
	}
	ctx, r.cancel = context.WithCancel(ctx)
	done := make(chan struct{})
	r.done = done
	go func() {
		defer close(done)
		_ = r.Run(ctx)
	}()
}

// Stop cancels the loop and waits for the in-flight tick to finish.
func (r *RenderScheduler) Stop() {
	r.mutex.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mutex.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (r *RenderScheduler) FrameCount() uint64 {
	return r.frameCount.Load()
}

func (r *RenderScheduler) OverrunCount() uint64 {
	return r.overrunCount.Load()
}

func (r *RenderScheduler) Interval() time.Duration {
	return r.interval
}
