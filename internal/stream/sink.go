package stream

import (
	"fmt"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gordonklaus/portaudio"
	"github.com/lestrrat-go/strftime"
)

// AudioSink accepts one produced MPX block at a time, in order. A
// sink that stops accepting blocks returns a *SinkClosed error from
// Write, which the driver treats as terminal for that stream (§7).
type AudioSink interface {
	Write(block []float32) error
	Close() error
}

// PortAudioSink plays MPX blocks out a PortAudio device in real time.
// It owns a single pre-allocated callback buffer so the audio
// driver's context never triggers a Go allocation on the hot path
// (§5) -- Write only copies into that buffer and calls Stream.Write,
// which blocks until the device is ready for more samples.
type PortAudioSink struct {
	stream *portaudio.Stream
	out    []float32
}

// OpenPortAudioSink opens the default output device at fs with a
// mono channel and the given block size. portaudio.Initialize must
// already have been called by the caller (cmd/jmpxgen, once per
// process) and portaudio.Terminate deferred there; Close only stops
// and closes this sink's stream.
func OpenPortAudioSink(fs float64, blockFrames int) (*PortAudioSink, error) {
	s := &PortAudioSink{out: make([]float32, blockFrames)}
	stream, err := portaudio.OpenDefaultStream(0, 1, fs, blockFrames, &s.out)
	if err != nil {
		return nil, fmt.Errorf("stream: open portaudio output: %w", err)
	}
	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("stream: start portaudio output: %w", err)
	}
	s.stream = stream
	return s, nil
}

func (s *PortAudioSink) Write(block []float32) error {
	if len(block) != len(s.out) {
		return fmt.Errorf("stream: portaudio block size mismatch: got %d want %d", len(block), len(s.out))
	}
	copy(s.out, block)
	if err := s.stream.Write(); err != nil {
		return &SinkClosed{Reason: err.Error()}
	}
	return nil
}

func (s *PortAudioSink) Close() error {
	_ = s.stream.Stop()
	return s.stream.Close()
}

// FileSink writes MPX blocks as 16-bit PCM WAV, timestamp-named the
// way the teacher's log/capture files are (src/log.go, src/tq.go),
// but via github.com/lestrrat-go/strftime rather than the teacher's
// plain time.Format -- the teacher's own kissutil.go carries a TODO
// noting time.Format can't express every strftime verb a user's
// pattern might use; this package takes the strftime dependency so a
// profile's file-sink naming pattern isn't limited to Go's reference
// layout.
type FileSink struct {
	f   *os.File
	enc *wav.Encoder
}

const wavFormatPCM = 1
const wavBitDepth = 16

// OpenFileSink renders pattern (an strftime pattern, e.g.
// "capture-%Y%m%d-%H%M%S.wav") against now, creates the file in dir,
// and opens a mono WAV encoder over it at fs.
func OpenFileSink(dir, pattern string, now time.Time, fs float64) (*FileSink, error) {
	name, err := strftime.Format(pattern, now)
	if err != nil {
		return nil, fmt.Errorf("stream: render file-sink name %q: %w", pattern, err)
	}
	path := dir + string(os.PathSeparator) + name
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("stream: create %s: %w", path, err)
	}
	enc := wav.NewEncoder(f, int(fs), wavBitDepth, 1, wavFormatPCM)
	return &FileSink{f: f, enc: enc}, nil
}

func (s *FileSink) Write(block []float32) error {
	data := make([]int, len(block))
	for i, v := range block {
		data[i] = int(v * 32767)
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: s.enc.SampleRate},
		SourceBitDepth: wavBitDepth,
		Data:           data,
	}
	if err := s.enc.Write(buf); err != nil {
		return &SinkClosed{Reason: err.Error()}
	}
	return nil
}

func (s *FileSink) Close() error {
	if err := s.enc.Close(); err != nil {
		_ = s.f.Close()
		return err
	}
	return s.f.Close()
}
