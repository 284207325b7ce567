package mpx

import (
	"math"

	"github.com/mjibson/go-dsp/window"
)

// designLowpass builds a windowed-sinc linear-phase FIR low-pass with the
// given cutoff, at sample rate fs, with numTaps taps (must be odd). Grounded
// on the windowed-sinc lowpass branch of ausocean-av's pcm.newLoHiFilter:
// the side taps are sin(c*2*pi*fd)/(pi*c) * window[n] (the 2*fd scaling
// factor cancels into this sinc form), and the center tap — the removable
// singularity at c=0 — takes the limit value 2*fd.
func designLowpass(cutoffHz, fs float64, numTaps int) []float64 {
	fd := cutoffHz / fs
	b := 2 * math.Pi * fd
	win := window.FlatTop(numTaps)
	mid := numTaps / 2

	taps := make([]float64, numTaps)
	for n := 0; n < mid; n++ {
		c := float64(n - mid)
		y := math.Sin(c*b) / (math.Pi * c)
		taps[n] = y * win[n]
		taps[numTaps-1-n] = taps[n]
	}
	taps[mid] = 2 * fd * win[mid]
	return taps
}
