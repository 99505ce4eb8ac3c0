//go:build !headless

// audio_tone_oto.go - OTO v3 continuous tone for the sound LED

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
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	TONE_SAMPLE_RATE = 44100
	TONE_AMPLITUDE   = 0.25
	TONE_BUFFER      = 40 * time.Millisecond
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:oto")
}

// squareWave is the player's sample source. Read runs on oto's goroutine
// only, so phase needs no locking.
type squareWave struct {
	step  float64
	phase float64
}

func (w *squareWave) Read(p []byte) (n int, err error) {
	samples := len(p) / 4
	for i := range samples {
		v := float32(TONE_AMPLITUDE)
		if w.phase >= 0.5 {
			v = -v
		}
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
		w.phase += w.step
		if w.phase >= 1 {
			w.phase -= 1
		}
	}
	clear(p[samples*4:])
	return len(p), nil
}

type OtoTone struct {
	ctx     *oto.Context
	player  *oto.Player
	playing bool
	mutex   sync.Mutex
}

func NewOtoTone(sampleRate int, frequency float64) (*OtoTone, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   TONE_BUFFER,
	}
	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready
	wave := &squareWave{step: frequency / float64(sampleRate)}
	return &OtoTone{
		ctx:    ctx,
		player: ctx.NewPlayer(wave),
	}, nil
}

func (t *OtoTone) StartContinuousTone() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if !t.playing && t.player != nil {
		t.player.Play()
		t.playing = true
	}
}

func (t *OtoTone) StopContinuousTone() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.playing && t.player != nil {
		t.player.Pause()
		t.playing = false
	}
}

func (t *OtoTone) IsPlaying() bool {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	return t.playing
}

func (t *OtoTone) Close() {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	if t.player != nil {
		t.player.Close()
		t.player = nil
	}
	t.playing = false
}
