package rds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuildLogoFrameS7(t *testing.T) {
	// S7: a 16x8 binary image produces a frame of exactly 24+128+16=168 bits;
	// the first 8 bits equal 0xA7 MSB-first, bits [8..15] encode width=16 as
	// 0010000 in 7 bits.
	pixels := make([]byte, 16*8)
	for i := range pixels {
		if i%2 == 0 {
			pixels[i] = 255
		}
	}
	frame, err := BuildLogoFrame(pixels, 16, 8)
	require.NoError(t, err)
	assert.Len(t, frame, 168)
	assert.Equal(t, uint32(0xA7), bitsToUint(frame[0:8]))
	assert.Equal(t, []byte{0, 0, 1, 0, 0, 0, 0}, []byte(frame[8:15]))
}

func TestBuildLogoFrameRejectsOutOfRange(t *testing.T) {
	_, err := BuildLogoFrame(make([]byte, 65*8), 65, 8)
	assert.Error(t, err)
	_, err = BuildLogoFrame(make([]byte, 8*33), 8, 33)
	assert.Error(t, err)
	_, err = BuildLogoFrame(make([]byte, 10), 4, 4)
	assert.Error(t, err)
}

func TestLogoFrameRoundtrip(t *testing.T) {
	// Invariant 8: parsing a built frame reconstructs the thresholded bitmap
	// exactly and the checksum verifies.
	rapid.Check(t, func(rt *rapid.T) {
		width := rapid.IntRange(1, LogoMaxWidth).Draw(rt, "width")
		height := rapid.IntRange(1, LogoMaxHeight).Draw(rt, "height")
		pixels := rapid.SliceOfN(rapid.Byte(), width*height, width*height).Draw(rt, "pixels")

		frame, err := BuildLogoFrame(pixels, width, height)
		if err != nil {
			rt.Fatalf("BuildLogoFrame: %v", err)
		}

		parsed, err := ParseLogoFrame(frame)
		if err != nil {
			rt.Fatalf("ParseLogoFrame: %v", err)
		}

		if parsed.Width != width || parsed.Height != height {
			rt.Fatalf("dimensions mismatch: got %dx%d want %dx%d", parsed.Width, parsed.Height, width, height)
		}
		if !parsed.ChecksumOK {
			rt.Fatalf("checksum did not verify")
		}

		mean := meanOf(pixels)
		for i, p := range pixels {
			want := byte(0)
			if p >= mean {
				want = 1
			}
			if parsed.Bits[i] != want {
				rt.Fatalf("bit %d: got %d want %d", i, parsed.Bits[i], want)
			}
		}
	})
}
