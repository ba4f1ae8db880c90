package audio

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lixenwraith/arcade-drive/asset"
)

func newTestPlayer() *Player {
	return NewPlayer(WithLocker(&sync.Mutex{}))
}

func shortBuffer(samples int) *beep.Buffer {
	buf := beep.NewBuffer(format)
	buf.Append(make(floatBuffer, samples).streamer())
	return buf
}

// drain pulls audio through the mixer the way the speaker would
func drain(p *Player, chunks int) {
	out := make([][2]float64, 4096)
	for i := 0; i < chunks; i++ {
		p.lock.Lock()
		p.mixer.Stream(out)
		p.lock.Unlock()
	}
}

func TestPlayDoesNotRestart(t *testing.T) {
	p := newTestPlayer()
	src := p.NewSource(shortBuffer(1000))

	src.Play()
	src.Play()
	assert.True(t, src.IsPlaying())
	assert.Equal(t, 1, p.mixer.Len())
}

func TestOneShotFinishes(t *testing.T) {
	p := newTestPlayer()
	src := p.NewSource(shortBuffer(1000))

	src.Play()
	drain(p, 4)
	assert.False(t, src.IsPlaying())
	assert.Equal(t, 0, p.mixer.Len())

	// playable again once finished
	src.Play()
	assert.True(t, src.IsPlaying())
}

func TestLoopKeepsPlaying(t *testing.T) {
	p := newTestPlayer()
	src := p.NewSource(shortBuffer(1000))
	src.SetLoop(true)

	src.Play()
	drain(p, 8)
	assert.True(t, src.IsPlaying())

	src.Stop()
	src.Stop()
	assert.False(t, src.IsPlaying())
	drain(p, 1)
	assert.Equal(t, 0, p.mixer.Len())
}

func TestEmptyBufferNeverPlays(t *testing.T) {
	p := newTestPlayer()
	src := p.NewSource(beep.NewBuffer(format))
	src.Play()
	assert.False(t, src.IsPlaying())

	nilSrc := p.NewSource(nil)
	nilSrc.Play()
	assert.False(t, nilSrc.IsPlaying())
}

func TestVolumeAndRate(t *testing.T) {
	p := newTestPlayer()
	src := p.NewSource(shortBuffer(1000))
	src.SetLoop(true)
	src.SetVolume(0.8)
	src.Play()

	require.NotNil(t, src.gain)
	assert.InDelta(t, math.Log2(0.8), src.gain.Volume, 1e-12)
	assert.False(t, src.gain.Silent)

	src.SetVolume(0)
	assert.True(t, src.gain.Silent)
	assert.Equal(t, 0.0, src.Volume())

	src.SetPlaybackRate(1.6)
	src.SetPlaybackRate(0)
	src.SetPlaybackRate(-1)
	src.SetPlaybackRate(math.Inf(1))
	assert.Equal(t, 1.6, src.PlaybackRate())
	assert.Equal(t, 1.6, src.resampler.Ratio())
}

func TestMute(t *testing.T) {
	p := newTestPlayer()
	assert.False(t, p.Muted())
	assert.True(t, p.ToggleMute())
	assert.True(t, p.master.Silent)
	assert.False(t, p.ToggleMute())
	assert.False(t, p.master.Silent)
	p.Close()
}

func TestSynthesizedLoops(t *testing.T) {
	hum := EngineHum()
	assert.Equal(t, sampleRate.N(time.Second), hum.Len())

	squeal, err := BrakeSqueal()
	require.NoError(t, err)
	assert.Equal(t, sampleRate.N(time.Second), squeal.Len())
}

func TestLazyHoldsPlayUntilReady(t *testing.T) {
	p := newTestPlayer()
	release := make(chan struct{})
	future := asset.Load(context.Background(), func(context.Context) (*beep.Buffer, error) {
		<-release
		return shortBuffer(1000), nil
	})

	l := NewLazy(p, "engine", future, zerolog.Nop())
	l.SetLoop(true)
	l.SetVolume(0.5)
	l.Play()
	l.SetPlaybackRate(1.2)
	assert.False(t, l.IsPlaying())
	assert.False(t, l.Ready())

	close(release)
	_, err := future.Wait(context.Background())
	require.NoError(t, err)

	assert.True(t, l.IsPlaying(), "pending play starts on resolve")
	assert.Equal(t, 0.5, l.src.Volume())
	assert.Equal(t, 1.2, l.src.PlaybackRate())

	l.Stop()
	assert.False(t, l.IsPlaying())
}

func TestLazyFailureLogsOnce(t *testing.T) {
	var logs bytes.Buffer
	l := NewLazy(newTestPlayer(), "brake", asset.Failed[*beep.Buffer](errors.New("404")), zerolog.New(&logs))

	l.Play()
	l.Play()
	l.SetVolume(0.8)
	assert.False(t, l.IsPlaying())
	assert.Equal(t, 1, strings.Count(logs.String(), "sound load failed"))
}

func TestDecodeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	src := make(floatBuffer, 2205)
	require.NoError(t, wav.Encode(f, src.streamer(), beep.Format{SampleRate: 22050, NumChannels: 1, Precision: 2}))
	require.NoError(t, f.Close())

	buf, err := DecodeWAV(path)
	require.NoError(t, err)
	// 0.1 s resampled to 48 kHz
	assert.InDelta(t, 4800, buf.Len(), 50)

	_, err = DecodeWAV(filepath.Join(t.TempDir(), "missing.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadSoundFallsBackToSynth(t *testing.T) {
	future := LoadSound(context.Background(), "", Synth(EngineHum))
	buf, err := future.Wait(context.Background())
	require.NoError(t, err)
	assert.Positive(t, buf.Len())
}
