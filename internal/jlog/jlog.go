// Package jlog provides the stream's structured logger: a thin wrapper
// around charmbracelet/log that maps the handful of event categories a
// generator stream cares about (stream lifecycle, underruns, config
// errors, sink state) onto log levels, the way the teacher's
// textcolor.go maps its DW_COLOR_* categories onto terminal color
// rather than onto structured fields. Verbosity is controlled the same
// way the teacher's -d/-q flags control text_color_init's level.
package jlog

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the stream-wide structured logger. The zero value is not
// usable; construct one with New.
type Logger struct {
	*log.Logger
}

// New returns a Logger writing to w (os.Stderr in normal operation) at
// the level implied by verbosity: 0 is Info, 1 is Debug, 2+ is Debug
// with caller reporting turned on, mirroring the teacher's -d/-dd
// stacking flags.
func New(w io.Writer, verbosity int) *Logger {
	lvl := log.InfoLevel
	reportCaller := false
	if verbosity >= 1 {
		lvl = log.DebugLevel
	}
	if verbosity >= 2 {
		reportCaller = true
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           lvl,
		ReportCaller:    reportCaller,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return &Logger{Logger: l}
}

// Default returns a Logger writing to stderr at the given verbosity,
// the common case for cmd/jmpxgen.
func Default(verbosity int) *Logger {
	return New(os.Stderr, verbosity)
}

// Underrun logs a stream underrun: the producer fell behind and the
// driver emitted silence for seq to keep the sink fed (§7).
func (l *Logger) Underrun(seq int64, missedFrames int) {
	l.Warn("stream underrun, emitting silence", "seq", seq, "missed_frames", missedFrames)
}

// BlockProduced logs one composed block at debug level; cheap enough
// to call unconditionally since charmbracelet/log short-circuits
// below its configured level.
func (l *Logger) BlockProduced(seq int64, startSample int64, frames int) {
	l.Debug("block composed", "seq", seq, "start_sample", startSample, "frames", frames)
}

// ConfigError logs a fatal configuration problem before the process
// exits non-zero.
func (l *Logger) ConfigError(err error) {
	l.Error("configuration rejected", "err", err)
}

// SinkClosed logs the sink-side shutdown reason (§7's SinkClosed).
func (l *Logger) SinkClosed(reason string) {
	l.Info("sink closed", "reason", reason)
}
