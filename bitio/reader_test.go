package bitio

import "testing"

func TestReadUnsignedVB(t *testing.T) {
	cases := []struct {
		in   []byte
		want uint32
	}{
		{[]byte{0xE5, 0x8E, 0x26}, 624485},
		{[]byte{0x00}, 0},
		{[]byte{0x7F}, 127},
		{[]byte{0x80, 0x01}, 128},
	}
	for _, c := range cases {
		r := NewReader(c.in)
		got := r.ReadUnsignedVB()
		if got != c.want {
			t.Errorf("ReadUnsignedVB(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestReadUnsignedVBOverflow(t *testing.T) {
	// 5 bytes each with the continuation bit set: overflow, returns 0.
	r := NewReader([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	if got := r.ReadUnsignedVB(); got != 0 {
		t.Errorf("overflow varint = %d, want 0", got)
	}
}

func TestReadUnsignedVBMidEOF(t *testing.T) {
	r := NewReader([]byte{0x80})
	if got := r.ReadUnsignedVB(); got != 0 {
		t.Errorf("truncated varint = %d, want 0", got)
	}
}

func TestZigZagDecode(t *testing.T) {
	cases := []struct {
		in   uint32
		want int32
	}{
		{0, 0},
		{1, -1},
		{2, 1},
		{3, -2},
		{4294967294, 2147483647},
	}
	for _, c := range cases {
		if got := ZigZagDecode(c.in); got != c.want {
			t.Errorf("ZigZagDecode(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSignExtendRoundTrip(t *testing.T) {
	widths := []uint{2, 4, 6, 8, 14, 16, 24}
	for _, w := range widths {
		max := int32(1) << (w - 1)
		for v := -max; v < max; v++ {
			masked := uint32(v) & ((1 << w) - 1)
			got := SignExtend(masked, w)
			if got != v {
				t.Fatalf("SignExtend width=%d v=%d: got %d", w, v, got)
			}
		}
	}
}

func TestReadTag8_4S16AllZero(t *testing.T) {
	r := NewReader([]byte{0x00})
	var out [4]int32
	if err := r.ReadTag8_4S16(&out); err != nil {
		t.Fatal(err)
	}
	if out != [4]int32{0, 0, 0, 0} {
		t.Errorf("got %v, want all zero", out)
	}
	if r.Len() != 0 {
		t.Errorf("expected zero payload bytes consumed beyond selector, Len()=%d", r.Len())
	}
}

func TestReadTag8_4S16Quartet(t *testing.T) {
	// selector 0x1B = 0b00_01_10_11: slot0=16bit, slot1=8bit, slot2=4bit, slot3=0bit.
	r := NewReader([]byte{0x1B, 0x12, 0x34, 0x56})
	var out [4]int32
	if err := r.ReadTag8_4S16(&out); err != nil {
		t.Fatal(err)
	}
	if out[3] != 0 {
		t.Errorf("slot3 = %d, want 0 (0-bit field)", out[3])
	}
}

func TestReadTag2_3S32Mode0(t *testing.T) {
	r := NewReader([]byte{0b00_10_11_01})
	var out [3]int32
	if err := r.ReadTag2_3S32(&out); err != nil {
		t.Fatal(err)
	}
	want := [3]int32{-2, -1, 1}
	if out != want {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestReadTag2_3S32Mode2(t *testing.T) {
	// lead = 0b10_000001: mode 2, field0 low6 = 0b000001 = 1.
	// b1 = 0x3F (low6 = 0b111111 = -1 six-bit two's complement).
	// b2 = 0x02 (low6 = 0b000010 = 2). Each of b1/b2 contributes only
	// its own low 6 bits, independently of the other byte.
	r := NewReader([]byte{0b10_000001, 0x3F, 0x02})
	var out [3]int32
	if err := r.ReadTag2_3S32(&out); err != nil {
		t.Fatal(err)
	}
	want := [3]int32{1, -1, 2}
	if out != want {
		t.Errorf("got %v, want %v", out, want)
	}
}

func TestReadTag8_8SVBSingle(t *testing.T) {
	r := NewReader([]byte{0x05}) // signed-VB: zigzag(5) = -3... wait just decode directly
	out := make([]int32, 1)
	if err := r.ReadTag8_8SVB(out); err != nil {
		t.Fatal(err)
	}
	want := ZigZagDecode(5)
	if out[0] != want {
		t.Errorf("got %d, want %d", out[0], want)
	}
}

func TestReadTag8_8SVBMulti(t *testing.T) {
	// selector bit0 and bit2 set: fields 0 and 2 present, rest zero.
	r := NewReader([]byte{0b0000_0101, 0x02, 0x04})
	out := make([]int32, 4)
	if err := r.ReadTag8_8SVB(out); err != nil {
		t.Fatal(err)
	}
	if out[1] != 0 || out[3] != 0 {
		t.Errorf("expected fields 1,3 to be zero, got %v", out)
	}
	if out[0] != ZigZagDecode(2) || out[2] != ZigZagDecode(4) {
		t.Errorf("got %v", out)
	}
}

func TestReadByteEOF(t *testing.T) {
	r := NewReader(nil)
	if _, err := r.ReadByte(); err == nil {
		t.Fatal("expected EOF error")
	}
}
