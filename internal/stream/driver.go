// Package stream implements §4.7/§5's streaming driver: a producer
// task that composes fixed-size MPX blocks onto a bounded channel,
// and a consumer that drains it into an AudioSink, substituting
// silence when no block arrives within one block's real-time duration
// rather than blocking. The consumer itself does not pace writes;
// real-time pacing comes from a sink whose Write blocks on its device
// (PortAudioSink), and FileSink writes proceed as fast as blocks are
// produced. Grounded on the teacher's worker-thread-plus-bounded-queue
// shape in cmd/direwolf/main.go's audio input/output pipeline,
// generalized from AFSK demodulation to MPX composition.
package stream

import (
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"github.com/kb1rd/jmpx/internal/jlog"
	"github.com/kb1rd/jmpx/internal/mpx"
	"github.com/kb1rd/jmpx/internal/ptt"
	"github.com/kb1rd/jmpx/internal/rds"
	"github.com/kb1rd/jmpx/internal/station"
)

// queueDepth is the bounded channel capacity (§5: "capacity ~8
// blocks").
const queueDepth = 8

// block is one produced MPX block, carrying its sequence number and
// sample-clock origin for logging; samples is transferred by move
// through the channel, matching §5's single-owner buffer contract.
type block struct {
	seq         int64
	startSample int64
	samples     []float32
}

// Driver wires the bitstream generator, MPX composer, an AudioSource
// and AudioSink, and a PTT controller into one running stream. It is
// not safe for concurrent use by more than the two goroutines Run
// starts internally: the bitstream generator is mutable and
// single-owner by design (§5), accessed only by the producer.
type Driver struct {
	profile *station.Profile
	gen     *rds.BitstreamGenerator
	comp    *mpx.Composer
	src     AudioSource
	sink    AudioSink
	ptt     ptt.Controller
	log     *jlog.Logger

	stopped       atomic.Bool
	underrunCount atomic.Int64
}

// New constructs a Driver. profile must already have passed
// Validate(). p may be ptt.Noop{} when no exciter-enable line is
// configured.
func New(profile *station.Profile, gen *rds.BitstreamGenerator, src AudioSource, sink AudioSink, p ptt.Controller, log *jlog.Logger) *Driver {
	return &Driver{
		profile: profile,
		gen:     gen,
		comp:    mpx.NewComposer(profile.SampleRate, profile.EnableRDS2),
		src:     src,
		sink:    sink,
		ptt:     p,
		log:     log,
	}
}

// Stop requests cancellation (§5): the producer finishes its current
// block and exits; no block in flight is discarded.
func (d *Driver) Stop() {
	d.stopped.Store(true)
}

// Underruns returns the number of ticks the consumer found the queue
// empty and substituted silence (§7's UnderrunWarning counter).
func (d *Driver) Underruns() int64 {
	return d.underrunCount.Load()
}

// Run drives the stream to completion: starts the producer on its own
// goroutine and runs the consumer on the calling goroutine until the
// producer signals completion (source exhausted or Stop called) and
// the queue drains, or the sink reports it is closed.
func (d *Driver) Run() error {
	if err := d.ptt.Assert(); err != nil {
		return fmt.Errorf("stream: assert ptt: %w", err)
	}
	defer func() { _ = d.ptt.Deassert() }()

	blocks := make(chan block, queueDepth)
	producerErr := make(chan error, 1)
	go d.produce(blocks, producerErr)

	err := d.consume(blocks)
	if err != nil {
		d.Stop()
		// The sink no longer accepts blocks: drain the queue so a producer
		// blocked on a full channel can finish its block and exit.
		for range blocks {
		}
	}
	if perr := <-producerErr; perr != nil && err == nil {
		err = perr
	}
	return err
}

// produce is the single writer of the bitstream generator and the
// MPX composer's sample-clock origin (§5's "accessed by exactly one
// task"). It closes blocks and reports its terminal error (nil on
// clean exhaustion or Stop) on done.
func (d *Driver) produce(blocks chan<- block, done chan<- error) {
	defer close(blocks)

	var clock SampleClock
	levels := d.profile.Levels.Linear()
	frames := d.profile.BlockFrames
	bitsNeeded := d.profile.BitsNeeded()
	var seq int64

	for !d.stopped.Load() {
		left, right, srcErr := d.src.NextAudio(frames)
		if len(left) == 0 {
			if srcErr != nil && !errors.Is(srcErr, io.EOF) {
				done <- fmt.Errorf("stream: read audio block %d: %w", seq, srcErr)
				return
			}
			done <- nil
			return
		}

		bits := d.gen.Generate(bitsNeeded)
		startSample := clock.Take(len(left))

		samples, err := d.comp.Compose(left, right, bits, levels, startSample)
		if err != nil {
			done <- fmt.Errorf("stream: compose block %d: %w", seq, err)
			return
		}

		blocks <- block{seq: seq, startSample: startSample, samples: samples} // blocks on full queue: backpressure
		seq++

		if srcErr != nil {
			done <- nil // source exhausted after its last (possibly partial) block
			return
		}
	}
	done <- nil
}

// consume writes each composed block to the sink as soon as it is
// available, and substitutes one block of silence whenever none arrives
// within the profile's block duration (§5, §7's UnderrunWarning) rather
// than blocking indefinitely.
func (d *Driver) consume(blocks <-chan block) error {
	frames := d.profile.BlockFrames
	tick := time.Duration(float64(frames) / d.profile.SampleRate * float64(time.Second))
	silence := make([]float32, frames)

	for {
		select {
		case b, ok := <-blocks:
			if !ok {
				return nil
			}
			if err := d.sink.Write(b.samples); err != nil {
				d.log.SinkClosed(err.Error())
				return err
			}
			d.log.BlockProduced(b.seq, b.startSample, len(b.samples))
		case <-time.After(tick):
			d.underrunCount.Add(1)
			d.log.Underrun(d.underrunCount.Load(), frames)
			if err := d.sink.Write(silence); err != nil {
				d.log.SinkClosed(err.Error())
				return err
			}
		}
	}
}
