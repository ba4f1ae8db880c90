package audio

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

// Waveform types
const (
	waveSine = iota
	waveSquare
	waveSaw
	waveNoise
)

// Synthesized loops are one second long so every partial completes whole cycles
const loopLength = time.Second

// floatBuffer is mono float64 samples at unity gain
type floatBuffer []float64

// oscillator generates raw waveform samples
func oscillator(waveType int, freq float64, samples int, rng *rand.Rand) floatBuffer {
	buf := make(floatBuffer, samples)
	phase := 0.0
	phaseInc := freq / float64(sampleRate)

	for i := 0; i < samples; i++ {
		switch waveType {
		case waveSine:
			buf[i] = math.Sin(2 * math.Pi * phase)
		case waveSquare:
			if phase < 0.5 {
				buf[i] = 1.0
			} else {
				buf[i] = -1.0
			}
		case waveSaw:
			buf[i] = 2.0 * (phase - 0.5)
		case waveNoise:
			buf[i] = rng.Float64()*2 - 1
		}

		phase += phaseInc
		if phase >= 1.0 {
			phase -= 1.0
		}
	}
	return buf
}

// mixFloatBuffers adds b into a (in place), extending a if needed
func mixFloatBuffers(a, b floatBuffer, bScale float64) floatBuffer {
	if len(b) > len(a) {
		extended := make(floatBuffer, len(b))
		copy(extended, a)
		a = extended
	}
	for i := range b {
		a[i] += b[i] * bScale
	}
	return a
}

// streamer plays the buffer once on both channels
func (f floatBuffer) streamer() beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= len(f) {
			return 0, false
		}
		n := copy2(samples, f[pos:])
		pos += n
		return n, true
	})
}

func copy2(dst [][2]float64, src floatBuffer) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i][0] = src[i]
		dst[i][1] = src[i]
	}
	return n
}

// EngineHum synthesizes a low idling drone: 55 Hz saw with a square octave and a little noise
func EngineHum() *beep.Buffer {
	n := sampleRate.N(loopLength)
	rng := rand.New(rand.NewSource(1))

	buf := oscillator(waveSaw, 55, n, rng)
	buf = mixFloatBuffers(buf, oscillator(waveSquare, 110, n, rng), 0.3)
	buf = mixFloatBuffers(buf, oscillator(waveNoise, 0, n, rng), 0.05)
	for i := range buf {
		buf[i] *= 0.25
	}

	out := beep.NewBuffer(format)
	out.Append(buf.streamer())
	return out
}

// BrakeSqueal synthesizes a two-tone squeal over a bed of noise
func BrakeSqueal() (*beep.Buffer, error) {
	n := sampleRate.N(loopLength)

	high, err := generators.SineTone(sampleRate, 2200)
	if err != nil {
		return nil, fmt.Errorf("brake tone: %w", err)
	}
	low, err := generators.SineTone(sampleRate, 1650)
	if err != nil {
		return nil, fmt.Errorf("brake tone: %w", err)
	}
	noise := oscillator(waveNoise, 0, n, rand.New(rand.NewSource(2)))

	mix := beep.Take(n, beep.Mix(high, low, noise.streamer()))
	quiet := &effects.Gain{Streamer: mix, Gain: -0.85}

	out := beep.NewBuffer(format)
	out.Append(quiet)
	return out, nil
}
