package dsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvolveIdentity(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	h := []float64{1}
	got, err := Convolve(x, h)
	require.NoError(t, err)
	assert.InDeltaSlice(t, x, got, 1e-9)
}

func TestConvolveSameLength(t *testing.T) {
	x := make([]float64, 100)
	for i := range x {
		x[i] = float64(i % 5)
	}
	h := []float64{0.25, 0.5, 0.25}
	got, err := ConvolveSame(x, h)
	require.NoError(t, err)
	assert.Len(t, got, len(x))
}

func TestConvolveSameMovingAverage(t *testing.T) {
	// A 3-tap averaging kernel on a constant signal should reproduce the
	// constant away from the edges.
	x := make([]float64, 64)
	for i := range x {
		x[i] = 2.0
	}
	h := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	got, err := ConvolveSame(x, h)
	require.NoError(t, err)
	for i := 2; i < len(x)-2; i++ {
		assert.InDelta(t, 2.0, got[i], 1e-6, "index %d", i)
	}
}
