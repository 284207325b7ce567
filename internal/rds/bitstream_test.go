package rds

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// schedule step, expressed as which builder produced it and at which
// segment/pair index, for the scheduling test S5.
type schedStep struct {
	group0A bool // true -> BuildGroup0A(cfg, seg); false -> BuildGroup2A(cfg, seg)
	seg     int
}

func TestGeneratorScheduleS5(t *testing.T) {
	// S5: 15 successive NextGroup() calls without a logo produce this exact
	// interleaving of 0A/2A segments. Compared bit-for-bit against the group
	// builders directly: block B packs groupType<<1 and the segment index
	// with a plain OR (§4.2), which for 2A (groupType=2, contributing bit 2)
	// collides with pair indices whose own bit 2 is 0 — recoverable only by
	// the generator that produced them, not by inspecting the raw bits, so
	// this test cannot decode a NextGroup() result back into a segment
	// number and must compare whole groups instead.
	cfg := Config{PICode: 0x1234, ProgramServiceName: "TESTFM", RadioText: "HELLO"}
	gen := NewBitstreamGenerator(cfg)

	want := []schedStep{
		{true, 0}, {true, 1}, {false, 0},
		{true, 2}, {true, 3}, {false, 1},
		{true, 0}, {true, 1}, {false, 2},
		{true, 2}, {true, 3}, {false, 3},
		{true, 0}, {true, 1}, {false, 4},
	}

	for i, w := range want {
		got := gen.NextGroup()
		var wantBits GroupBits
		if w.group0A {
			wantBits = BuildGroup0A(cfg, w.seg)
		} else {
			wantBits = BuildGroup2A(cfg, w.seg)
		}
		assert.Equal(t, []byte(wantBits), []byte(got), "call %d", i)
	}
}

func TestGeneratorLogoPriority(t *testing.T) {
	// §4.3 rule 1: when a logo frame is present and slot%5==0, the logo
	// chunk preempts the 0A/2A schedule for that one slot only, without
	// advancing ps_index/rt_index; the slot counter itself still advances,
	// so the next call resumes the regular 0A/2A rotation rather than
	// emitting another logo slice immediately.
	cfg := Config{PICode: 0x1234, ProgramServiceName: "TESTFM"}
	gen := NewBitstreamGenerator(cfg)
	logo := make([]byte, 200)
	for i := range logo {
		logo[i] = byte(i % 2)
	}
	gen.SetLogoFrame(logo)

	first := gen.NextGroup()
	assert.Equal(t, logo[0:104], []byte(first))
	assert.Equal(t, 0, gen.psIndex, "ps_index must not advance on a logo slice")

	second := gen.NextGroup()
	assert.Equal(t, []byte(BuildGroup0A(cfg, 0)), []byte(second), "next slot must resume the 0A/2A rotation, not emit another logo slice")
	assert.Equal(t, 1, gen.psIndex)
}

func TestGenerateExactLength(t *testing.T) {
	// Invariant 4: Generate(n) always returns exactly n bits.
	cfg := Config{PICode: 0x1234, ProgramServiceName: "TESTFM"}
	for _, n := range []int{0, 1, 50, 104, 208, 300, 1000} {
		gen := NewBitstreamGenerator(cfg)
		got := gen.Generate(n)
		assert.Len(t, got, n)
	}
}

func TestGenerateResumability(t *testing.T) {
	// Invariant 4: Generate(a) then Generate(b) concatenated equals
	// Generate(a+b) for any a+b=n.
	rapid.Check(t, func(rt *rapid.T) {
		pi := rapid.Uint16().Draw(rt, "pi")
		a := rapid.IntRange(0, 500).Draw(rt, "a")
		b := rapid.IntRange(0, 500).Draw(rt, "b")

		cfg := Config{PICode: pi, ProgramServiceName: "TESTFM", RadioText: "HELLO WORLD"}

		whole := NewBitstreamGenerator(cfg).Generate(a + b)

		split := NewBitstreamGenerator(cfg)
		first := split.Generate(a)
		second := split.Generate(b)
		combined := append(append([]byte{}, first...), second...)

		if !bytes.Equal(whole, combined) {
			rt.Fatalf("Generate(%d)+Generate(%d) != Generate(%d)", a, b, a+b)
		}
	})
}
