package stream

import "fmt"

// UnderrunWarning reports that the consumer found the block queue
// empty and substituted silence for one tick (§7). It is never fatal;
// the driver logs it via jlog and keeps running.
type UnderrunWarning struct {
	Seq    int64
	Frames int
}

func (e *UnderrunWarning) Error() string {
	return fmt.Sprintf("stream: underrun at seq %d (%d frames silenced)", e.Seq, e.Frames)
}

// SinkClosed reports that the sink stopped accepting blocks (§7). The
// producer finishes its current block and exits; blocks still queued
// when the sink closes are not delivered.
type SinkClosed struct {
	Reason string
}

func (e *SinkClosed) Error() string {
	return "stream: sink closed: " + e.Reason
}
