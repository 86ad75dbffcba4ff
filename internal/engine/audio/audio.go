// Package audio plays the looping rain ambience that follows the weather.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/showroom/internal/anim"
	"github.com/Faultbox/showroom/internal/config"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// FadeDuration is how long the ambience takes to fade in or out.
const FadeDuration = 1500 * time.Millisecond

type level float64

func (l level) Lerp(to level, t float32) level {
	return l + (to-l)*level(t)
}

// Ambience loops one sound and fades it with the rain.
type Ambience struct {
	mu  sync.Mutex
	log *zap.Logger

	initialized bool
	sampleRate  beep.SampleRate

	streamer beep.StreamSeekCloser
	ctrl     *beep.Ctrl
	volume   *effects.Volume

	master  float64
	muted   bool
	raining bool
	level   level
	fade    *anim.Group[level]
}

// New creates an ambience player. clock may be nil to use time.Now.
func New(cfg config.AudioConfig, clock func() time.Time, log *zap.Logger) *Ambience {
	a := &Ambience{
		log:    log,
		master: clamp(cfg.MasterVolume, 0, 1),
		muted:  cfg.Muted,
	}
	a.fade = anim.NewGroup(
		func() level { return a.level },
		a.setLevel,
		anim.Linear,
		clock,
	)
	return a
}

// Init opens the audio device.
func (a *Ambience) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		return nil
	}

	a.sampleRate = DefaultSampleRate
	if err := speaker.Init(a.sampleRate, a.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	a.initialized = true
	return nil
}

// Close stops playback and releases the stream.
func (a *Ambience) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.initialized {
		speaker.Clear()
	}
	if a.streamer != nil {
		a.streamer.Close()
		a.streamer = nil
	}
	a.ctrl = nil
	a.volume = nil
	a.initialized = false
}

// Load decodes a WAV loop and starts it silently. The rain state decides
// when it becomes audible.
func (a *Ambience) Load(data []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.initialized {
		return fmt.Errorf("audio not initialized")
	}

	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode wav: %w", err)
	}

	var resampled beep.Streamer = streamer
	if format.SampleRate != a.sampleRate {
		resampled = beep.Resample(4, format.SampleRate, a.sampleRate, streamer)
	}

	speaker.Clear()
	if a.streamer != nil {
		a.streamer.Close()
	}

	a.streamer = streamer
	a.ctrl = &beep.Ctrl{Streamer: &loopStreamer{streamer: streamer, resampled: resampled}}
	a.volume = &effects.Volume{Streamer: a.ctrl, Base: 2}
	a.applyVolume()

	speaker.Play(a.volume)
	a.log.Info("ambience loaded",
		zap.Int("sample_rate", int(format.SampleRate)),
		zap.Int("channels", format.NumChannels))
	return nil
}

// SetRaining fades the ambience in or out. Repeating the current state is
// a no-op.
func (a *Ambience) SetRaining(raining bool) {
	if raining == a.raining {
		return
	}
	a.raining = raining
	target := level(0)
	if raining {
		target = 1
	}
	a.fade.Begin(target, FadeDuration)
}

// Raining reports the last requested rain state.
func (a *Ambience) Raining() bool {
	return a.raining
}

// Advance steps a running fade.
func (a *Ambience) Advance(now time.Time) bool {
	return a.fade.Advance(now)
}

// Level returns the fade level in [0, 1].
func (a *Ambience) Level() float64 {
	return float64(a.level)
}

// SetMasterVolume sets the master volume in [0, 1].
func (a *Ambience) SetMasterVolume(vol float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.master = clamp(vol, 0, 1)
	a.applyVolume()
}

// MasterVolume returns the master volume.
func (a *Ambience) MasterVolume() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.master
}

// SetMuted silences the ambience without touching the fade.
func (a *Ambience) SetMuted(muted bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.muted = muted
	a.applyVolume()
}

// Muted reports whether the ambience is muted.
func (a *Ambience) Muted() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.muted
}

// Effective returns the linear output volume.
func (a *Ambience) Effective() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.effective()
}

func (a *Ambience) setLevel(l level) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.level = level(clamp(float64(l), 0, 1))
	a.applyVolume()
}

func (a *Ambience) effective() float64 {
	if a.muted {
		return 0
	}
	return a.master * float64(a.level)
}

// applyVolume must be called with mu held.
func (a *Ambience) applyVolume() {
	if a.volume == nil {
		return
	}
	vol := a.effective()
	speaker.Lock()
	a.volume.Silent = vol <= 0
	a.volume.Volume = volumeToExponent(vol)
	speaker.Unlock()
}

// volumeToExponent converts a linear volume to the base-2 exponent
// effects.Volume expects: 1 -> 0, 0.5 -> -1.
func volumeToExponent(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return math.Log2(vol)
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// loopStreamer rewinds the source whenever it runs dry.
type loopStreamer struct {
	streamer  beep.StreamSeekCloser
	resampled beep.Streamer
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	filled := 0
	for filled < len(samples) {
		n, ok := l.resampled.Stream(samples[filled:])
		filled += n
		if !ok {
			if err := l.streamer.Seek(0); err != nil {
				return filled, filled > 0
			}
			if n == 0 && l.streamer.Len() == 0 {
				return filled, filled > 0
			}
		}
	}
	return filled, true
}

func (l *loopStreamer) Err() error {
	return l.streamer.Err()
}
