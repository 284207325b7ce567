package rds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildGroup0ALength(t *testing.T) {
	// Invariant 2: every group is exactly 104 bits.
	cfg := Config{PICode: 0x1234, ProgramServiceName: "TESTFM"}
	for seg := 0; seg < 4; seg++ {
		bits := BuildGroup0A(cfg, seg)
		assert.Len(t, bits, 104)
	}
}

func TestBuildGroup0APIInBlockA(t *testing.T) {
	// Invariant 2: the first 16 bits equal the big-endian PI code.
	cfg := Config{PICode: 0xBEEF, ProgramServiceName: "TESTFM"}
	bits := BuildGroup0A(cfg, 0)
	var word uint16
	for i := 0; i < 16; i++ {
		word = (word << 1) | uint16(bits[i])
	}
	assert.Equal(t, uint16(0xBEEF), word)
}

func TestBuildGroup0APSRoundtrip(t *testing.T) {
	// S3: Config(pi=0x1234, ps="TESTFM"), segment 2 -> block D = 'F'<<8|'M'.
	cfg := Config{PICode: 0x1234, ProgramServiceName: "TESTFM"}
	bits := BuildGroup0A(cfg, 2)

	// Block layout: A(26) B(26) C(26) D(26); data bits of D start at 3*26=78.
	dData := bitsToUint(bits[78:94])
	assert.Equal(t, uint32(0x464D), dData, "segment 2 should encode 'F','M'")

	// S3: segment 3 -> block D = (' '<<8)|' ' (PS padded from 6 to 8 chars).
	bits3 := BuildGroup0A(cfg, 3)
	dData3 := bitsToUint(bits3[78:94])
	assert.Equal(t, uint32(0x2020), dData3)
}

func TestBuildGroup0ABlockBLayout(t *testing.T) {
	cfg := Config{PICode: 0x1234, PTY: 5, TP: true, ProgramServiceName: "TESTFM"}
	bits := BuildGroup0A(cfg, 1)
	// Block B data bits start at 26.
	bData := uint16(bitsToUint(bits[26:42]))
	expected := (uint16(1) << 10) | (uint16(5) << 5) | (0 << 1) | 0 | 1
	assert.Equal(t, expected, bData)
}

func TestBuildGroup2ALength(t *testing.T) {
	cfg := Config{PICode: 0x1234, RadioText: "HELLO WORLD"}
	for seg := 0; seg < 16; seg++ {
		bits := BuildGroup2A(cfg, seg)
		assert.Len(t, bits, 104)
	}
}

func TestBuildGroup2ACheckwordAndText(t *testing.T) {
	// Invariant 3: block B's checkword (bits [42..52]) equals CRC(block_B)
	// XOR 0x198; block C's data bits [52..68] encode the two RT characters
	// at positions 4p and 4p+1.
	cfg := Config{PICode: 0x1234, RadioText: "HELLO WORLD"}
	bits := BuildGroup2A(cfg, 0)

	bData := uint16(bitsToUint(bits[26:42]))
	expectedCW := crc10(bData) ^ OffsetB
	actualCW := uint16(bitsToUint(bits[42:52]))
	assert.Equal(t, expectedCW, actualCW)

	cData := bitsToUint(bits[52:68])
	assert.Equal(t, uint32(0x4845), cData, "'H','E'")
}

func TestBuildGroup2ASegmentsS4(t *testing.T) {
	// S4: rt_index=0 -> C=0x4845, D=0x4C4C ("HE", "LL"), unambiguous from the
	// literal string "HELLO WORLD". For rt_index=2 this test uses the 0-based
	// indices the §4.2 formula actually specifies (block_c = rt[4p]<<8 |
	// rt[4p+1]) rather than the spec's worked example, whose quoted
	// rt[8..12]="ORLD" does not match "HELLO WORLD" 0-indexed (rt[7..10] is
	// "ORLD"; rt[8..11] is "RLD "). See DESIGN.md.
	cfg := Config{PICode: 0x1234, RadioText: "HELLO WORLD"}

	bits0 := BuildGroup2A(cfg, 0)
	assert.Equal(t, uint32(0x4845), bitsToUint(bits0[52:68]))
	assert.Equal(t, uint32(0x4C4C), bitsToUint(bits0[78:94]))

	bits2 := BuildGroup2A(cfg, 2)
	assert.Equal(t, uint32(0x524C), bitsToUint(bits2[52:68]), "'R','L' at rt[8],rt[9]")
	assert.Equal(t, uint32(0x4420), bitsToUint(bits2[78:94]), "'D',' ' at rt[10],rt[11]")
}
