package bitio

// SignExtend treats the low `bits` bits of v as a two's-complement signed
// integer and sign-extends it to a full int32, the same trick
// src/common.go's GetBits uses (test the top bit, then OR in the high
// bits) generalized to an arbitrary width instead of GetBits' fixed
// 32-bit buffer width.
func SignExtend(v uint32, bits uint) int32 {
	if bits == 0 || bits >= 32 {
		return int32(v)
	}
	shift := 32 - bits
	return int32(v<<shift) >> shift
}

func SignExtend2(v uint32) int32  { return SignExtend(v, 2) }
func SignExtend4(v uint32) int32  { return SignExtend(v, 4) }
func SignExtend6(v uint32) int32  { return SignExtend(v, 6) }
func SignExtend8(v uint32) int32  { return SignExtend(v, 8) }
func SignExtend14(v uint32) int32 { return SignExtend(v, 14) }
func SignExtend16(v uint32) int32 { return SignExtend(v, 16) }
func SignExtend24(v uint32) int32 { return SignExtend(v, 24) }

// ZigZagDecode reverses the zigzag mapping used by signed varints:
// (u>>1) XOR -(u&1).
func ZigZagDecode(u uint32) int32 {
	return int32(u>>1) ^ -int32(u&1)
}
