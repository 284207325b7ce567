package stream

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/kb1rd/jmpx/internal/station"
)

// AudioSource supplies the stereo program audio the MPX composer
// band-limits and mixes into the composite signal. NextAudio returns
// frames samples per channel; once the source is exhausted it returns
// io.EOF, together with the last (possibly shorter) block or with no
// samples at all (a test tone never returns io.EOF).
type AudioSource interface {
	NextAudio(frames int) (left, right []float32, err error)
}

// ToneSource synthesizes a continuous sine test tone, the fallback
// the original prototype's CLI uses when no input file is given
// (`--tone`, see generate_tone in original_source/rds2/audio_io.py).
// It carries its own running sample index the same way modem.Modulate
// is given one, so the tone itself never clicks across blocks even
// though each AudioSource.NextAudio call is otherwise independent.
type ToneSource struct {
	fs     float64
	freqHz float64
	level  float64
	clock  SampleClock
}

// NewToneSource returns a ToneSource at freqHz and level (linear
// amplitude). The original's CLI default is 1000 Hz at -12 dB
// (station.DbToLinear(-12)).
func NewToneSource(fs, freqHz, level float64) *ToneSource {
	return &ToneSource{fs: fs, freqHz: freqHz, level: level}
}

// DefaultToneSource matches the original prototype's generate_tone
// defaults.
func DefaultToneSource(fs float64) *ToneSource {
	return NewToneSource(fs, 1000.0, station.DbToLinear(-12.0))
}

func (t *ToneSource) NextAudio(frames int) ([]float32, []float32, error) {
	start := t.clock.Take(frames)
	left := make([]float32, frames)
	right := make([]float32, frames)
	for i := 0; i < frames; i++ {
		s := t.level * math.Sin(2*math.Pi*t.freqHz*float64(start+int64(i))/t.fs)
		v := float32(s)
		left[i] = v
		right[i] = v
	}
	return left, right, nil
}

// WavSource reads stereo program audio from a PCM WAV file opened at
// the composer's working sample rate; resampling a mismatched file
// rate is out of scope here (the original's read_audio_file resamples
// with scipy, but cmd/jmpxgen instead rejects a mismatched file rate
// at open time — see openSource in cmd/jmpxgen).
type WavSource struct {
	dec  *wav.Decoder
	mono bool
}

// NewWavSource opens a WAV decoder over r. It does not resample: the
// file's sample rate must already match fs, checked by the caller via
// SampleRate().
func NewWavSource(r io.Reader) (*WavSource, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("stream: not a valid WAV file")
	}
	return &WavSource{dec: dec, mono: dec.NumChans == 1}, nil
}

// SampleRate returns the file's native sample rate.
func (w *WavSource) SampleRate() float64 {
	return float64(w.dec.SampleRate)
}

func (w *WavSource) NextAudio(frames int) ([]float32, []float32, error) {
	chans := int(w.dec.NumChans)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: chans, SampleRate: int(w.dec.SampleRate)},
		SourceBitDepth: int(w.dec.BitDepth),
		Data:           make([]int, frames*chans),
	}
	err := w.dec.PCMBuffer(buf)
	if err != nil && err != io.EOF {
		return nil, nil, fmt.Errorf("stream: read wav samples: %w", err)
	}
	n := len(buf.Data) / chans

	left := make([]float32, n)
	right := make([]float32, n)
	scale := float32(1.0 / 32768.0)
	for i := 0; i < n; i++ {
		if w.mono {
			v := float32(buf.Data[i]) * scale
			left[i] = v
			right[i] = v
		} else {
			left[i] = float32(buf.Data[i*chans]) * scale
			right[i] = float32(buf.Data[i*chans+1]) * scale
		}
	}
	if n < frames || err == io.EOF {
		return left, right, io.EOF
	}
	return left, right, nil
}
