// Package station loads and validates a stream's static configuration: the
// RdsConfig fields, sample rate, subcarrier injection levels, and optional
// logo path, the way the teacher's direwolf.conf/RdsConfig split does (see
// src/config.go), but as a single YAML document per §10's ambient-stack
// design.
package station

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kb1rd/jmpx/internal/mpx"
	"github.com/kb1rd/jmpx/internal/rds"
)

// headroomBits is the two-group headroom the streaming driver requests on
// top of the theoretical bit count, to absorb rounding and BPSK edge
// effects (§4.7).
const headroomBits = 208

// minSamplesPerSymbol mirrors modem.Modulate's sps floor (§4.5, §7) so a
// bad sample rate is caught at profile-validation time rather than at the
// first Compose call.
const minSamplesPerSymbol = 4

// Levels holds injection ratios in decibels, the way the source's CLI
// exposes them (--level-pilot, --level-rds, ...), converted to linear
// gains via DbToLinear for use by the composer.
type Levels struct {
	PilotDB float64 `yaml:"pilot_db"`
	RDSDB   float64 `yaml:"rds_db"`
	RDS2DB  float64 `yaml:"rds2_db"`
	GainDB  float64 `yaml:"gain_db"`
}

// Linear converts dB levels to the mpx.Levels a Composer expects.
func (l Levels) Linear() mpx.Levels {
	return mpx.Levels{
		Pilot: DbToLinear(l.PilotDB),
		RDS:   DbToLinear(l.RDSDB),
		RDS2:  DbToLinear(l.RDS2DB),
		Gain:  DbToLinear(l.GainDB),
	}
}

// defaultLevels matches §6's normative default injection ratios, expressed
// in dB. It replaces an all-zero Levels, whose 0 dB fields would otherwise
// convert to a linear injection of 1.0 on every carrier.
func defaultLevels() Levels {
	return Levels{
		PilotDB: linearToDb(mpx.DefaultPilotLevel),
		RDSDB:   linearToDb(mpx.DefaultRDSLevel),
		RDS2DB:  linearToDb(mpx.DefaultRDS2Level),
		GainDB:  0,
	}
}

// DbToLinear converts a decibel value to a linear voltage ratio, grounded
// on the source's config.db_to_linear.
func DbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

func linearToDb(v float64) float64 {
	return 20 * math.Log10(v)
}

// Profile is one stream's complete static configuration.
type Profile struct {
	SampleRate  float64    `yaml:"sample_rate"`
	BlockFrames int        `yaml:"block_frames"`
	EnableRDS2  bool       `yaml:"enable_rds2"`
	Rds         rds.Config `yaml:"rds"`
	Levels      Levels     `yaml:"levels"`
	LogoPath    string     `yaml:"logo_path"`
}

// Load reads a YAML station profile from path and applies defaults: a zero
// sample rate or block size gets its default, and the levels get their
// defaults only when all four level fields are zero (a profile that sets
// some levels keeps 0 dB for the ones it leaves out).
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("station: read profile %s: %w", path, err)
	}
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("station: parse profile %s: %w", path, err)
	}
	p.applyDefaults()
	return &p, nil
}

func (p *Profile) applyDefaults() {
	if p.SampleRate == 0 {
		p.SampleRate = 192000
	}
	if p.BlockFrames == 0 {
		p.BlockFrames = 4096
	}
	if p.Levels == (Levels{}) {
		p.Levels = defaultLevels()
	}
}

// Validate implements §7's ConfigError contract at stream-construction
// time: an RdsConfig the rds package itself rejects, or a sample rate too
// low for the RDS bitrate to reach the BPSK modulator's sps >= 4 floor.
func (p *Profile) Validate() error {
	if err := p.Rds.Validate(); err != nil {
		return &ConfigError{Msg: err.Error()}
	}
	sps := p.SampleRate / mpx.Bitrate
	if sps < minSamplesPerSymbol {
		return &ConfigError{Msg: fmt.Sprintf("sample rate %.0f too low: sps=%.3f < %d", p.SampleRate, sps, minSamplesPerSymbol)}
	}
	if p.BlockFrames <= 0 {
		return &ConfigError{Msg: fmt.Sprintf("block_frames must be positive, got %d", p.BlockFrames)}
	}
	return nil
}

// BitsNeeded implements §4.7's bits_needed formula: the RDS bit count the
// streaming driver must request from the bitstream generator to compose
// one block of p.BlockFrames audio frames.
func (p *Profile) BitsNeeded() int {
	return int(math.Ceil(float64(p.BlockFrames)/p.SampleRate*mpx.Bitrate)) + headroomBits
}

// ConfigError reports a configuration problem found at stream-construction
// time (§7); it is fatal to the stream being constructed.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "station: config error: " + e.Msg }
