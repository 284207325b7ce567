package rds

// GroupBits is the flat 104-bit (4x26) payload of one RDS group, in block
// order A, B, C, D.
type GroupBits []byte

func packGroup(a, b, c, d Block) GroupBits {
	bits := make([]byte, 0, 104)
	bits = a.AppendBits(bits)
	bits = b.AppendBits(bits)
	bits = c.AppendBits(bits)
	bits = d.AppendBits(bits)
	return bits
}

// BuildGroup0A assembles an RDS group type 0A (Program Service name) for
// segment ps_pair_index in 0..3 (§4.2). Block B places TP/PTY/group-type in
// the core's normative (non-canonical, see spec.md §9 open question 1)
// layout: (tp<<10) | (pty<<5) | (groupType<<1) | versionA | segment.
func BuildGroup0A(cfg Config, psPairIndex int) GroupBits {
	segment := uint16(psPairIndex) & 0x3
	ps := cfg.ps()
	c1, c2 := ps[segment*2], ps[segment*2+1]

	const groupType, versionA = 0, 0
	var tp uint16
	if cfg.TP {
		tp = 1
	}

	blockA := cfg.PICode
	blockB := (tp << 10) | (uint16(cfg.PTY&0x1F) << 5) | (groupType << 1) | versionA | segment
	blockC := uint16(0x0000)
	blockD := (uint16(c1) << 8) | uint16(c2)

	return packGroup(
		NewBlock(blockA, OffsetA),
		NewBlock(blockB, OffsetB),
		NewBlock(blockC, OffsetC),
		NewBlock(blockD, OffsetD),
	)
}

// BuildGroup2A assembles an RDS group type 2A (RadioText) for segment
// rtPairIndex in 0..15 (§4.2). The A/B flag is implicitly 0 via the
// group-type/version encoding used here.
func BuildGroup2A(cfg Config, rtPairIndex int) GroupBits {
	pairIdx := uint16(rtPairIndex) & 0xF
	rt := cfg.rt()
	c1, c2 := rt[pairIdx*4], rt[pairIdx*4+1]
	c3, c4 := rt[pairIdx*4+2], rt[pairIdx*4+3]

	const groupType, versionA = 2, 0
	var tp uint16
	if cfg.TP {
		tp = 1
	}

	blockA := cfg.PICode
	blockB := (tp << 10) | (uint16(cfg.PTY&0x1F) << 5) | (groupType << 1) | versionA | pairIdx
	blockC := (uint16(c1) << 8) | uint16(c2)
	blockD := (uint16(c3) << 8) | uint16(c4)

	return packGroup(
		NewBlock(blockA, OffsetA),
		NewBlock(blockB, OffsetB),
		NewBlock(blockC, OffsetC),
		NewBlock(blockD, OffsetD),
	)
}
