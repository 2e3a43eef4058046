// Package bitio implements the byte-stream primitives the Blackbox frame
// decoder is built on: a cursor over an immutable byte slice plus the
// varint, zigzag and packed-tag codecs spec.md section 4.1 describes.
//
// The approach mirrors src/common.go's GetBitU/GetBits bit-at-a-time
// extraction and src/rtcm.go's InputRtcm3 framing (accumulate bytes,
// check bounds, decode) but works from an in-memory slice rather than a
// live stream, since the whole log is already resident by the time the
// decoder runs.
package bitio

import (
	"github.com/pkg/errors"
)

// ErrEOF is returned (wrapped) whenever a read runs past the end of the
// underlying slice.
var ErrEOF = errors.New("bitio: unexpected end of stream")

// Reader is a forward-only cursor over a byte slice.
type Reader struct {
	buf []byte
	pos int
}

// NewReader wraps buf for reading starting at offset 0.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Pos returns the current byte offset into the underlying slice.
func (r *Reader) Pos() int { return r.pos }

// Len returns the number of unread bytes remaining.
func (r *Reader) Len() int { return len(r.buf) - r.pos }

// Eof reports whether the cursor has consumed the whole buffer.
func (r *Reader) Eof() bool { return r.pos >= len(r.buf) }

// ReadByte reads and returns the next raw byte.
func (r *Reader) ReadByte() (byte, error) {
	if r.pos >= len(r.buf) {
		return 0, errors.Wrapf(ErrEOF, "read byte at offset %d", r.pos)
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadUnsignedVB reads a base-128 varint: each byte contributes its low
// 7 bits, the high bit signals "more bytes follow". Per spec.md §4.1, at
// most 5 bytes are consumed; if the 5th byte still carries the
// continuation bit, that's treated as overflow and the call returns 0
// without reading a 6th byte. A mid-sequence EOF also yields 0, since the
// reference decoder treats a truncated varint as "no value" rather than
// a hard failure — the frame-level resync logic is what notices the
// stream went bad.
func (r *Reader) ReadUnsignedVB() uint32 {
	var result uint32
	var shift uint
	for i := 0; i < 5; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0
		}
		result |= uint32(b&0x7f) << shift
		if b&0x80 == 0 {
			return result
		}
		shift += 7
	}
	return 0
}

// ReadSignedVB reads an unsigned varint and zigzag-decodes it.
func (r *Reader) ReadSignedVB() int32 {
	return ZigZagDecode(r.ReadUnsignedVB())
}

// ReadNeg14Bit reads a varint, truncates it to 16 bits, interprets bits
// 0-12 as a magnitude and bit 13 as a sign flag, then negates the whole
// result — matching the reference decoder's NEG_14BIT encoding exactly
// (including the double negation when the sign bit is set).
func (r *Reader) ReadNeg14Bit() int32 {
	u := uint16(r.ReadUnsignedVB())
	mag := int32(u & 0x1FFF)
	if u&0x2000 != 0 {
		mag = -mag
	}
	return -mag
}

// ReadTag8_8SVB decodes n fields (1..8) sharing a single TAG8_8SVB group.
// With n==1 a lone signed-VB is read directly; otherwise one selector
// byte precedes the fields and bit i of the selector says whether field
// i is present (a signed-VB) or implicitly zero.
func (r *Reader) ReadTag8_8SVB(out []int32) error {
	n := len(out)
	if n == 0 {
		return nil
	}
	if n == 1 {
		out[0] = r.ReadSignedVB()
		return nil
	}
	selector, err := r.ReadByte()
	if err != nil {
		return errors.Wrap(err, "tag8_8svb selector")
	}
	if n > 8 {
		n = 8
	}
	for i := 0; i < n; i++ {
		if selector&(1<<uint(i)) != 0 {
			out[i] = r.ReadSignedVB()
		} else {
			out[i] = 0
		}
	}
	return nil
}

// ReadTag8_4S16 decodes a selector byte followed by 4 fields, each
// independently 0, 4, 8 or 16 bits wide per the two selector bits at
// position 2*i. 4-bit fields share nibble pairs with one another; an
// 8- or 16-bit field starting on an odd nibble boundary reads one extra
// byte and shifts the pending nibble across the boundary.
func (r *Reader) ReadTag8_4S16(out *[4]int32) error {
	selector, err := r.ReadByte()
	if err != nil {
		return errors.Wrap(err, "tag8_4s16 selector")
	}

	var pendingNibble byte
	havePending := false

	for i := 0; i < 4; i++ {
		width := (selector >> uint(2*i)) & 0x3
		switch width {
		case 0:
			out[i] = 0

		case 1: // 4 bits
			if !havePending {
				b, err := r.ReadByte()
				if err != nil {
					return errors.Wrap(err, "tag8_4s16 4-bit field")
				}
				out[i] = SignExtend4(uint32(b >> 4))
				pendingNibble = b & 0xF
				havePending = true
			} else {
				out[i] = SignExtend4(uint32(pendingNibble))
				havePending = false
			}

		case 2: // 8 bits
			if !havePending {
				b, err := r.ReadByte()
				if err != nil {
					return errors.Wrap(err, "tag8_4s16 8-bit field")
				}
				out[i] = SignExtend8(uint32(b))
			} else {
				b, err := r.ReadByte()
				if err != nil {
					return errors.Wrap(err, "tag8_4s16 8-bit field (split)")
				}
				combined := (uint32(pendingNibble) << 4) | uint32(b>>4)
				out[i] = SignExtend8(combined)
				pendingNibble = b & 0xF
			}

		case 3: // 16 bits
			if !havePending {
				hi, err := r.ReadByte()
				if err != nil {
					return errors.Wrap(err, "tag8_4s16 16-bit field")
				}
				lo, err := r.ReadByte()
				if err != nil {
					return errors.Wrap(err, "tag8_4s16 16-bit field")
				}
				combined := uint32(hi)<<8 | uint32(lo)
				out[i] = SignExtend16(combined)
			} else {
				b1, err := r.ReadByte()
				if err != nil {
					return errors.Wrap(err, "tag8_4s16 16-bit field (split)")
				}
				b2, err := r.ReadByte()
				if err != nil {
					return errors.Wrap(err, "tag8_4s16 16-bit field (split)")
				}
				combined := (uint32(pendingNibble) << 12) | (uint32(b1) << 4) | uint32(b2>>4)
				out[i] = SignExtend16(combined)
				pendingNibble = b2 & 0xF
			}
		}
	}
	return nil
}

// ReadTag2_3S32 decodes a lead byte whose top two bits select one of
// four packing modes for 3 signed fields, per spec.md §4.1.
func (r *Reader) ReadTag2_3S32(out *[3]int32) error {
	lead, err := r.ReadByte()
	if err != nil {
		return errors.Wrap(err, "tag2_3s32 lead byte")
	}
	mode := lead >> 6

	switch mode {
	case 0: // three 2-bit signed fields packed into the lead byte
		out[0] = SignExtend2(uint32((lead >> 4) & 0x3))
		out[1] = SignExtend2(uint32((lead >> 2) & 0x3))
		out[2] = SignExtend2(uint32(lead & 0x3))

	case 1: // three 4-bit signed fields: lead low nibble + next byte's two nibbles
		next, err := r.ReadByte()
		if err != nil {
			return errors.Wrap(err, "tag2_3s32 mode1")
		}
		out[0] = SignExtend4(uint32(lead & 0xF))
		out[1] = SignExtend4(uint32(next >> 4))
		out[2] = SignExtend4(uint32(next & 0xF))

	case 2: // three 6-bit signed fields: lead low 6 bits + two following bytes' low 6 bits each
		b1, err := r.ReadByte()
		if err != nil {
			return errors.Wrap(err, "tag2_3s32 mode2")
		}
		b2, err := r.ReadByte()
		if err != nil {
			return errors.Wrap(err, "tag2_3s32 mode2")
		}
		out[0] = SignExtend6(uint32(lead & 0x3F))
		out[1] = SignExtend6(uint32(b1 & 0x3F))
		out[2] = SignExtend6(uint32(b2 & 0x3F))

	case 3: // per-field width code selecting 8/16/24/32-bit little-endian signed reads
		widths := [3]byte{lead & 0x3, (lead >> 2) & 0x3, (lead >> 4) & 0x3}
		for i, w := range widths {
			v, err := r.readLESigned(w)
			if err != nil {
				return errors.Wrap(err, "tag2_3s32 mode3")
			}
			out[i] = v
		}
	}
	return nil
}

// readLESigned reads a little-endian signed integer whose width is
// selected by code: 0=>8 bits, 1=>16 bits, 2=>24 bits, 3=>32 bits.
func (r *Reader) readLESigned(code byte) (int32, error) {
	nbytes := [4]int{1, 2, 3, 4}[code&0x3]
	var v uint32
	for i := 0; i < nbytes; i++ {
		b, err := r.ReadByte()
		if err != nil {
			return 0, err
		}
		v |= uint32(b) << uint(8*i)
	}
	return SignExtend(v, uint(nbytes*8)), nil
}
