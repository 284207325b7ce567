package rds

// BitstreamGenerator is a stateful, resumable producer of the continuous
// RDS bit sequence: it cycles 0A (PS) and 2A (RT) groups and, when a logo
// frame is attached, opportunistically interleaves raw logo-frame bits
// (§4.3). It is not safe for concurrent use — exactly one goroutine (the
// streaming driver's producer) may call into it.
type BitstreamGenerator struct {
	cfg Config

	slot    int // schedule slot counter, advanced on every NextGroup call (logo slices included); slot%3 drives the 0A,0A,2A round-robin and slot%5 the logo preemption check.
	psIndex int // 0..3, advances only on 0A calls.
	rtIndex int // 0..15, advances only on 2A calls.

	logoFrame  []byte // nil if no logo attached.
	logoCursor int

	pending []byte // bits produced by NextGroup but not yet handed out by Generate.
}

// NewBitstreamGenerator returns a generator for cfg, with cursors at their
// initial positions.
func NewBitstreamGenerator(cfg Config) *BitstreamGenerator {
	return &BitstreamGenerator{cfg: cfg}
}

// SetLogoFrame attaches (or, with nil, detaches) a pre-built logo frame
// (§4.4) to be interleaved into the stream. The logo cursor resets to 0.
func (g *BitstreamGenerator) SetLogoFrame(frame []byte) {
	g.logoFrame = frame
	g.logoCursor = 0
}

// nextLogoChunk returns up to maxBits of the logo frame, wrapping the
// cursor to the start when the frame is exhausted, or nil if no frame is
// attached.
func (g *BitstreamGenerator) nextLogoChunk(maxBits int) []byte {
	if len(g.logoFrame) == 0 {
		return nil
	}
	if g.logoCursor >= len(g.logoFrame) {
		g.logoCursor = 0
	}
	n := maxBits
	if remaining := len(g.logoFrame) - g.logoCursor; n > remaining {
		n = remaining
	}
	chunk := g.logoFrame[g.logoCursor : g.logoCursor+n]
	g.logoCursor += n
	return chunk
}

// logoChunkBits is the approximate group size used for logo slices — it
// matches the 104-bit size of a real group so logo presence doesn't alter
// the overall bit rate required of a block.
const logoChunkBits = 104

// NextGroup returns the next unit of the schedule: a logo chunk, a 0A
// group, or a 2A group, per the scheduling rule in §4.3: two PS groups for
// every RT group, i.e. slot 2 (mod 3) is always 2A and slots 0 and 1 are
// 0A. A logo frame, when attached, preempts every fifth slot instead —
// the slot counter still advances on that preemption, so the logo fires
// once every five slots rather than on every call, and ps_index/rt_index
// are left untouched so the regular rotation resumes exactly where it
// left off.
func (g *BitstreamGenerator) NextGroup() GroupBits {
	if g.slot%5 == 0 && g.logoFrame != nil {
		if chunk := g.nextLogoChunk(logoChunkBits); chunk != nil {
			g.slot++
			return chunk
		}
	}

	if g.slot%3 != 2 {
		bits := BuildGroup0A(g.cfg, g.psIndex&0x3)
		g.psIndex = (g.psIndex + 1) % 4
		g.slot++
		return bits
	}

	bits := BuildGroup2A(g.cfg, g.rtIndex&0xF)
	g.rtIndex = (g.rtIndex + 1) % 16
	g.slot++
	return bits
}

// Generate returns exactly n bits, continuing from wherever the last call
// left off (§4.3, §8 invariant 4): Generate(a) followed by Generate(b)
// yields the same bits as one Generate(a+b) call, for any a, b >= 0. Unlike
// the reference implementation this pends, rather than discards, any bits
// of a group that a short request didn't consume — the next call drains
// the pending remainder before asking the schedule for a new group. This
// is the bit-cursor-inside-the-generator design §9 calls for: no shared
// mutable bit buffer outside the generator, and no lost bits at a request
// boundary.
func (g *BitstreamGenerator) Generate(n int) []byte {
	out := make([]byte, 0, n)
	for len(out) < n {
		if len(g.pending) == 0 {
			g.pending = g.NextGroup()
		}
		need := n - len(out)
		take := len(g.pending)
		if take > need {
			take = need
		}
		out = append(out, g.pending[:take]...)
		g.pending = g.pending[take:]
	}
	return out
}
