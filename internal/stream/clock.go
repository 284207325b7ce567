package stream

import "sync/atomic"

// SampleClock is the single shared sample-clock origin §5/§9 requires:
// a running sample index carried across block boundaries so the
// composer's subcarrier phase never resets. Take is the only
// mutator, called once per produced block by the producer task; the
// audio callback never touches it.
type SampleClock struct {
	next int64
}

// Take returns the current origin and advances the clock by frames,
// atomically, so a future multi-producer extension would not need to
// change this type's contract.
func (c *SampleClock) Take(frames int) int64 {
	return atomic.AddInt64(&c.next, int64(frames)) - int64(frames)
}
