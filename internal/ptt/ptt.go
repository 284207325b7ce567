// Package ptt drives a push-to-talk / exciter-enable GPIO line around a
// streaming run. It is the Go-native, Linux gpiod-character-device
// successor to the sysfs/cgo approach the teacher's src/ptt.go uses
// (that file's own comments already point at "PTT GPIOD" as the
// replacement for sysfs export/unexport, which this package
// implements for real via go-gpiocdev rather than cgo's libgpiod
// bindings).
package ptt

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Line controls one GPIO output line used as a PTT/exciter-enable
// signal. The zero value is not usable; construct one with Open.
type Line struct {
	line   *gpiocdev.Line
	invert bool
}

// Config names the chip and offset to request, and whether the
// asserted (transmitting) state is a logic low rather than high —
// mirroring the teacher's PTT config "invert" flag.
type Config struct {
	Chip   string // e.g. "gpiochip0"
	Offset int
	Invert bool
}

// Open requests cfg.Offset on cfg.Chip as an output, initially
// de-asserted (not transmitting).
func Open(cfg Config) (*Line, error) {
	initial := 0
	if cfg.Invert {
		initial = 1
	}
	l, err := gpiocdev.RequestLine(cfg.Chip, cfg.Offset, gpiocdev.AsOutput(initial))
	if err != nil {
		return nil, fmt.Errorf("ptt: request %s:%d: %w", cfg.Chip, cfg.Offset, err)
	}
	return &Line{line: l, invert: cfg.Invert}, nil
}

// Assert keys the transmitter: drives the line to its configured
// active level. Called once before a stream's first block is pushed
// to its audio sink.
func (l *Line) Assert() error {
	return l.set(true)
}

// Deassert releases the transmitter. Called on stream stop, including
// on the error path, so a cancelled or failed stream never leaves the
// exciter keyed.
func (l *Line) Deassert() error {
	return l.set(false)
}

func (l *Line) set(active bool) error {
	if err := l.line.SetValue(lineValue(active, l.invert)); err != nil {
		return fmt.Errorf("ptt: set value: %w", err)
	}
	return nil
}

// lineValue returns the raw GPIO value for the requested logical
// state, honoring invert. Factored out so the invert/active truth
// table is unit-testable without a real GPIO chip.
func lineValue(active, invert bool) int {
	if active != invert {
		return 1
	}
	return 0
}

// Close releases the line, leaving it de-asserted first.
func (l *Line) Close() error {
	_ = l.Deassert()
	return l.line.Close()
}

// Noop is a no-op Line usable where no PTT GPIO is configured — the
// common case for file-sink-only runs.
type Noop struct{}

func (Noop) Assert() error   { return nil }
func (Noop) Deassert() error { return nil }
func (Noop) Close() error    { return nil }

// Controller is satisfied by both *Line and Noop.
type Controller interface {
	Assert() error
	Deassert() error
	Close() error
}
