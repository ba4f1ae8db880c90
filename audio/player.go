// Package audio plays the vehicle's engine and brake loops through beep
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"
)

const (
	sampleRate = beep.SampleRate(48000)
)

// format is the layout every buffer is stored in
var format = beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}

// PlayerOption configures a Player
type PlayerOption func(*Player)

// WithLocker replaces the speaker lock, for driving the mixer without a device
func WithLocker(l Locker) PlayerOption {
	return func(p *Player) {
		if l != nil {
			p.lock = l
		}
	}
}

// WithLogger sets the player's logger
func WithLogger(l zerolog.Logger) PlayerOption {
	return func(p *Player) {
		p.log = l
	}
}

// Player owns the output mixer all sources play into
type Player struct {
	mu          sync.Mutex
	lock        Locker
	mixer       *beep.Mixer
	master      *effects.Volume
	initialized bool
	muted       bool

	log zerolog.Logger
}

// NewPlayer creates a player; sources may be created before Initialize
func NewPlayer(opts ...PlayerOption) *Player {
	mixer := &beep.Mixer{}
	p := &Player{
		lock:   speakerLocker{},
		mixer:  mixer,
		master: &effects.Volume{Streamer: mixer, Base: 2},
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Initialize opens the audio device and starts streaming the mixer
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	// Initialize speaker with sample rate and buffer size
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return err
	}

	speaker.Play(p.master)
	p.initialized = true
	p.log.Info().Int("sample_rate", int(sampleRate)).Msg("audio started")
	return nil
}

// Initialized reports whether a device is attached
func (p *Player) Initialized() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.initialized
}

// NewSource creates a stopped source for buffer
func (p *Player) NewSource(buffer *beep.Buffer) *BeepSource {
	return newBeepSource(p.lock, p.mixer, buffer)
}

// SetMuted silences or restores the whole mix
func (p *Player) SetMuted(muted bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.muted = muted
	p.lock.Lock()
	p.master.Silent = muted
	p.lock.Unlock()
}

// ToggleMute flips the mute state and returns it
func (p *Player) ToggleMute() bool {
	p.mu.Lock()
	muted := !p.muted
	p.mu.Unlock()
	p.SetMuted(muted)
	return muted
}

// Muted reports the mute state
func (p *Player) Muted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.muted
}

// Close stops every source and releases the device
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.lock.Lock()
	p.mixer.Clear()
	p.lock.Unlock()

	if !p.initialized {
		return
	}
	speaker.Close()
	p.initialized = false
}
