package audio

import (
	"context"
	"fmt"
	"os"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"

	"github.com/lixenwraith/arcade-drive/asset"
)

// DecodeWAV reads a whole wav file into a buffer at the player's sample rate
func DecodeWAV(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	stream, fileFormat, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	defer stream.Close()

	var s beep.Streamer = stream
	if fileFormat.SampleRate != sampleRate {
		s = beep.Resample(resampleQuality, fileFormat.SampleRate, sampleRate, stream)
	}

	buf := beep.NewBuffer(format)
	buf.Append(s)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return buf, nil
}

// LoadWAV decodes path on a goroutine
func LoadWAV(ctx context.Context, path string) *asset.Future[*beep.Buffer] {
	return asset.Load(ctx, func(ctx context.Context) (*beep.Buffer, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return DecodeWAV(path)
	})
}

// LoadSound decodes path, or synthesizes the fallback when path is empty
func LoadSound(ctx context.Context, path string, synth func() (*beep.Buffer, error)) *asset.Future[*beep.Buffer] {
	if path == "" {
		return asset.Load(ctx, func(context.Context) (*beep.Buffer, error) {
			return synth()
		})
	}
	return LoadWAV(ctx, path)
}

// Synth adapts an infallible generator for LoadSound
func Synth(gen func() *beep.Buffer) func() (*beep.Buffer, error) {
	return func() (*beep.Buffer, error) {
		return gen(), nil
	}
}

// Lazy is a Source whose buffer arrives asynchronously
// Settings and a pending Play are held until the buffer resolves; a failed load
// leaves the source silent for good
type Lazy struct {
	name   string
	future *asset.Future[*beep.Buffer]
	player *Player
	src    *BeepSource
	failed bool

	wantPlay bool
	loop     bool
	volume   float64
	rate     float64

	log zerolog.Logger
}

// NewLazy creates a source that binds to future once it resolves
func NewLazy(p *Player, name string, future *asset.Future[*beep.Buffer], log zerolog.Logger) *Lazy {
	return &Lazy{
		name:   name,
		future: future,
		player: p,
		volume: 1,
		rate:   1,
		log:    log,
	}
}

// Ready reports whether the buffer has arrived
func (l *Lazy) Ready() bool {
	return l.resolve() != nil
}

func (l *Lazy) resolve() *BeepSource {
	if l.src != nil || l.failed {
		return l.src
	}
	buf, done, err := l.future.Poll()
	if !done {
		return nil
	}
	if err != nil {
		l.failed = true
		l.log.Error().Err(err).Str("sound", l.name).Msg("sound load failed")
		return nil
	}

	l.src = l.player.NewSource(buf)
	l.src.SetLoop(l.loop)
	l.src.SetVolume(l.volume)
	l.src.SetPlaybackRate(l.rate)
	if l.wantPlay {
		l.src.Play()
	}
	return l.src
}

func (l *Lazy) Play() {
	if src := l.resolve(); src != nil {
		src.Play()
		return
	}
	l.wantPlay = true
}

func (l *Lazy) Stop() {
	l.wantPlay = false
	if src := l.resolve(); src != nil {
		src.Stop()
	}
}

func (l *Lazy) SetLoop(loop bool) {
	l.loop = loop
	if src := l.resolve(); src != nil {
		src.SetLoop(loop)
	}
}

func (l *Lazy) SetVolume(volume float64) {
	l.volume = volume
	if src := l.resolve(); src != nil {
		src.SetVolume(volume)
	}
}

func (l *Lazy) SetPlaybackRate(rate float64) {
	if rate > 0 {
		l.rate = rate
	}
	if src := l.resolve(); src != nil {
		src.SetPlaybackRate(rate)
	}
}

func (l *Lazy) IsPlaying() bool {
	if src := l.resolve(); src != nil {
		return src.IsPlaying()
	}
	return false
}
