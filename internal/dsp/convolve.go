// Package dsp holds small FFT-based signal-processing helpers shared by the
// BPSK modulator and the MPX composer's audio low-pass, grounded on the same
// zero-padded FFT convolution approach used for PCM filtering elsewhere in
// the pack.
package dsp

import (
	"errors"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// Convolve computes the full linear convolution of x and h (length
// len(x)+len(h)-1) via zero-padded FFT multiply.
func Convolve(x, h []float64) ([]float64, error) {
	if len(x) == 0 || len(h) == 0 {
		return nil, errors.New("dsp: convolve requires non-empty inputs")
	}

	convLen := len(x) + len(h) - 1
	padLen := nextPow2(convLen)

	xp := make([]float64, padLen)
	copy(xp, x)
	hp := make([]float64, padLen)
	copy(hp, h)

	xf := fft.FFTReal(xp)
	hf := fft.FFTReal(hp)

	yf := make([]complex128, padLen)
	for i := range xf {
		yf[i] = xf[i] * hf[i]
	}

	iy := fft.IFFT(yf)
	y := make([]float64, convLen)
	for i := range y {
		y[i] = real(iy[i])
	}
	return y, nil
}

// ConvolveSame computes Convolve(x, h) truncated and centered to len(x)
// samples, the way numpy's convolve(..., mode="same") is: the raised-cosine
// shaping step and the audio low-pass both want output aligned with the
// input block rather than the longer full-convolution tail.
func ConvolveSame(x, h []float64) ([]float64, error) {
	full, err := Convolve(x, h)
	if err != nil {
		return nil, err
	}
	start := (len(h) - 1) / 2
	out := make([]float64, len(x))
	copy(out, full[start:start+len(x)])
	return out, nil
}

func nextPow2(n int) int {
	return int(math.Pow(2, math.Ceil(math.Log2(float64(n)))))
}
