package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// resampleQuality trades CPU for pitch-shift fidelity
const resampleQuality = 4

// Source is a playable sound with loop, volume and pitch controls
type Source interface {
	Play()
	Stop()
	SetLoop(loop bool)
	SetVolume(volume float64)
	SetPlaybackRate(rate float64)
	IsPlaying() bool
}

// Locker guards streamers shared with the output goroutine
type Locker interface {
	Lock()
	Unlock()
}

// speakerLocker serializes with the speaker's streaming goroutine
type speakerLocker struct{}

func (speakerLocker) Lock()   { speaker.Lock() }
func (speakerLocker) Unlock() { speaker.Unlock() }

// BeepSource plays a decoded buffer through a mixer
// Loop changes apply on the next Play
type BeepSource struct {
	mu     sync.Mutex
	lock   Locker
	mixer  *beep.Mixer
	buffer *beep.Buffer

	loop   bool
	volume float64
	rate   float64

	ctrl      *beep.Ctrl
	resampler *beep.Resampler
	gain      *effects.Volume

	playing    atomic.Bool
	generation atomic.Uint64
}

func newBeepSource(lock Locker, mixer *beep.Mixer, buffer *beep.Buffer) *BeepSource {
	return &BeepSource{
		lock:   lock,
		mixer:  mixer,
		buffer: buffer,
		volume: 1,
		rate:   1,
	}
}

// Play starts the buffer from the beginning; a playing source is left alone
func (s *BeepSource) Play() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.playing.Load() || s.buffer == nil || s.buffer.Len() == 0 {
		return
	}

	var stream beep.Streamer = s.buffer.Streamer(0, s.buffer.Len())
	if s.loop {
		stream = beep.Loop(-1, s.buffer.Streamer(0, s.buffer.Len()))
	}
	s.resampler = beep.ResampleRatio(resampleQuality, s.rate, stream)
	s.gain = &effects.Volume{Streamer: s.resampler, Base: 2}
	applyGain(s.gain, s.volume)

	gen := s.generation.Add(1)
	done := beep.Callback(func() {
		// Runs on the output goroutine
		if s.generation.Load() == gen {
			s.playing.Store(false)
		}
	})
	s.ctrl = &beep.Ctrl{Streamer: beep.Seq(s.gain, done)}

	s.playing.Store(true)
	s.lock.Lock()
	s.mixer.Add(s.ctrl)
	s.lock.Unlock()
}

// Stop halts playback; stopping a stopped source is a no-op
func (s *BeepSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation.Add(1)
	s.playing.Store(false)
	if s.ctrl == nil {
		return
	}
	s.lock.Lock()
	s.ctrl.Paused = true
	s.ctrl.Streamer = nil
	s.lock.Unlock()
	s.ctrl = nil
	s.resampler = nil
	s.gain = nil
}

// SetLoop selects looping for the next Play
func (s *BeepSource) SetLoop(loop bool) {
	s.mu.Lock()
	s.loop = loop
	s.mu.Unlock()
}

// SetVolume sets linear gain; zero or less silences
func (s *BeepSource) SetVolume(volume float64) {
	if math.IsNaN(volume) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.volume = volume
	if s.gain != nil {
		s.lock.Lock()
		applyGain(s.gain, volume)
		s.lock.Unlock()
	}
}

// SetPlaybackRate scales speed and pitch; non-positive rates are ignored
func (s *BeepSource) SetPlaybackRate(rate float64) {
	if !(rate > 0) || math.IsInf(rate, 0) {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rate = rate
	if s.resampler != nil {
		s.lock.Lock()
		s.resampler.SetRatio(rate)
		s.lock.Unlock()
	}
}

// IsPlaying reports whether the source is audible or about to be
func (s *BeepSource) IsPlaying() bool {
	return s.playing.Load()
}

// Volume returns the linear gain
func (s *BeepSource) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// PlaybackRate returns the pitch ratio
func (s *BeepSource) PlaybackRate() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rate
}

// applyGain converts linear gain to the base-2 exponent effects.Volume expects
func applyGain(v *effects.Volume, volume float64) {
	if volume <= 0 {
		v.Silent = true
		v.Volume = 0
		return
	}
	v.Silent = false
	v.Volume = math.Log2(volume)
}
