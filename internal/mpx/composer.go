// Package mpx implements the FM composite baseband composer (§4.6): stereo
// band-limiting, L+R/L-R formation, the 19 kHz pilot, the 38 kHz DSB-SC
// stereo subcarrier, and the RDS/RDS2 BPSK buses, summed and clipped to the
// output range. A Composer holds only its precomputed low-pass taps and
// configuration — never a sample cursor — so every call is a pure function
// of its arguments plus the startSample the caller passes in (§3, §5): the
// sample-clock origin is an explicit input, not hidden state.
package mpx

import (
	"fmt"
	"math"

	"github.com/kb1rd/jmpx/internal/dsp"
	"github.com/kb1rd/jmpx/internal/modem"
)

// Normative constants (§6).
const (
	PilotHz            = 19000.0
	StereoSubcarrierHz = 38000.0
	RDS0Hz             = 57000.0
	Bitrate            = 1187.5

	DefaultPilotLevel = 0.08
	DefaultRDSLevel   = 0.03
	DefaultRDS2Level  = 0.01

	LowpassCutoffHz = 15000.0
	LowpassTaps     = 513

	ClipLimit = 0.999
)

// RDS2SubcarrierHz lists the experimental RDS2 side-subcarriers (§6).
var RDS2SubcarrierHz = []float64{66500.0, 76000.0, 85500.0}

// Levels holds the per-stream injection ratios (§4.6). Gain is the overall
// linear gain applied after clipping; a zero value is treated as 1
// (unity), matching an RdsConfig profile that doesn't set it explicitly.
type Levels struct {
	Pilot float64
	RDS   float64
	RDS2  float64
	Gain  float64
}

// Composer composes MPX blocks at a fixed sample rate. It is safe for
// concurrent use — it holds no mutable state, only the precomputed
// low-pass taps.
type Composer struct {
	fs          float64
	lowpassTaps []float64
	enableRDS2  bool
}

// NewComposer returns a Composer for the given sample rate. enableRDS2
// turns on the three experimental side-subcarriers.
func NewComposer(fs float64, enableRDS2 bool) *Composer {
	return &Composer{
		fs:          fs,
		lowpassTaps: designLowpass(LowpassCutoffHz, fs, LowpassTaps),
		enableRDS2:  enableRDS2,
	}
}

// Compose implements §4.6 steps 1-7. left and right must be equal length;
// bits is the RDS bit block for this MPX block (may be empty, in which
// case no RDS/RDS2 carriers are added); startSample is this stream's
// running sample-clock origin — the caller (the streaming driver) must
// advance it by len(left) after each call, never resetting it to 0 mid-
// stream, or the pilot/DSB-SC/BPSK carriers will click at block
// boundaries (§5, §9).
func (c *Composer) Compose(left, right []float32, bits []byte, levels Levels, startSample int64) ([]float32, error) {
	if len(left) != len(right) {
		return nil, fmt.Errorf("mpx: left/right length mismatch: %d vs %d", len(left), len(right))
	}
	n := len(left)
	if n == 0 {
		return nil, nil
	}

	lf := toFloat64(left)
	rf := toFloat64(right)

	lFiltered, err := dsp.ConvolveSame(lf, c.lowpassTaps)
	if err != nil {
		return nil, fmt.Errorf("mpx: low-pass left: %w", err)
	}
	rFiltered, err := dsp.ConvolveSame(rf, c.lowpassTaps)
	if err != nil {
		return nil, fmt.Errorf("mpx: low-pass right: %w", err)
	}

	mix := make([]float64, n)
	for i := 0; i < n; i++ {
		lpr := (lFiltered[i] + rFiltered[i]) / 2
		lmr := lFiltered[i] - rFiltered[i]
		t := float64(startSample+int64(i)) / c.fs
		pilot := levels.Pilot * math.Sin(2*math.Pi*PilotHz*t)
		dsb := lmr * math.Cos(2*math.Pi*StereoSubcarrierHz*t)
		mix[i] = lpr + pilot + dsb
	}

	if len(bits) > 0 && levels.RDS != 0 {
		wave, err := modem.Modulate(bits, c.fs, Bitrate, RDS0Hz, startSample)
		if err != nil {
			return nil, fmt.Errorf("mpx: rds modulate: %w", err)
		}
		addScaled(mix, wave, levels.RDS)
	}
	if c.enableRDS2 && len(bits) > 0 && levels.RDS2 != 0 {
		for _, sc := range RDS2SubcarrierHz {
			wave, err := modem.Modulate(bits, c.fs, Bitrate, sc, startSample)
			if err != nil {
				return nil, fmt.Errorf("mpx: rds2 modulate %.0fHz: %w", sc, err)
			}
			addScaled(mix, wave, levels.RDS2)
		}
	}

	gain := levels.Gain
	if gain == 0 {
		gain = 1
	}
	out := make([]float32, n)
	for i, v := range mix {
		if v > ClipLimit {
			v = ClipLimit
		} else if v < -ClipLimit {
			v = -ClipLimit
		}
		out[i] = float32(v * gain)
	}
	return out, nil
}

// addScaled accumulates level*wave into mix, truncating or zero-padding
// wave to len(mix) per §4.5's output-length contract.
func addScaled(mix, wave []float64, level float64) {
	n := len(mix)
	limit := n
	if len(wave) < limit {
		limit = len(wave)
	}
	for i := 0; i < limit; i++ {
		mix[i] += level * wave[i]
	}
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}
