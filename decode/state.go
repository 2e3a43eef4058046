package decode

import (
	"blackbox/bitio"
	"blackbox/schema"

	"github.com/pkg/errors"
)

// Limits bound the decoder's resync loop, per spec.md §4.4.
const (
	MaxCorruptFrames = 10000
	MaxTotalFrames   = 1000000
	MaxSampleSkip    = 500
)

// ErrUnknownEncoding is returned when a field's encoding id isn't one
// spec.md §3 defines.
var ErrUnknownEncoding = errors.New("decode: unknown field encoding")

// ErrUnsupportedHFrameEncoding is returned when an H-frame field uses a
// composite encoding; spec.md §7 treats this as log-fatal since an
// H-frame desync would silently corrupt every subsequent G-frame's
// absolute coordinates.
var ErrUnsupportedHFrameEncoding = errors.New("decode: unsupported encoding in H-frame")

// frameHistory holds the three parallel vectors spec.md §3 describes:
// current, prev and prev2, sized to the I-schema length, plus the
// valid flag that gates P-frame decoding before the first I-frame.
type frameHistory struct {
	current []int32
	prev    []int32
	prev2   []int32
	valid   bool
}

func newFrameHistory(n int) *frameHistory {
	return &frameHistory{
		current: make([]int32, n),
		prev:    make([]int32, n),
		prev2:   make([]int32, n),
	}
}

func (h *frameHistory) resetCurrent() {
	for i := range h.current {
		h.current[i] = 0
	}
}

func (h *frameHistory) rotate() {
	copy(h.prev2, h.prev)
	copy(h.prev, h.current)
	h.valid = true
}

// Decoder is the frame-decoder state machine of spec.md §4.4: a single
// pass over one log's byte stream, maintaining frame history, the slow
// field cache, GPS history and home coordinates as it goes.
type Decoder struct {
	r      *bitio.Reader
	header *schema.Header

	main frameHistory
	gps  frameHistory // sized to G-schema; prev2 unused (GPS history has no prev2)

	lastSlow map[string]int32
	home     HomePoint
	homeSet  bool

	lastIPTimestamp uint64
	haveIPTimestamp bool

	sampleTick int64 // last tick index handed out by advanceTick

	corruptFrames int
	totalFrames   int

	session LogSession
}

// NewDecoder constructs a Decoder for one log slice against the given
// parsed header.
func NewDecoder(r *bitio.Reader, header *schema.Header) *Decoder {
	d := &Decoder{
		r:          r,
		header:     header,
		main:       *newFrameHistory(header.I.Len()),
		gps:        *newFrameHistory(header.G.Len()),
		lastSlow:   make(map[string]int32),
		sampleTick: -1,
	}
	d.session.Header = header
	return d
}

// shouldHaveFrame implements the sampling rule of spec.md §4.4: whether
// sample tick n is expected to carry a frame at all, given the
// I-frame interval and the P-frame sampling ratio num/denom.
func shouldHaveFrame(n, interval, num, denom int64) bool {
	if interval <= 0 {
		interval = 1
	}
	if denom <= 0 {
		denom = 1
	}
	return ((n%interval)+num-1)%denom < num
}

// advanceTick steps the decoder's tick counter forward to the next
// sample tick the sampling rule says should carry a frame, returning
// that tick and how many intervening ticks were intentionally skipped
// (used by the INC predictor to reconstruct loopIteration/time without
// their own raw bytes). Bounded by MaxSampleSkip per spec.md §4.4.
func (d *Decoder) advanceTick() (tick int64, skipped int32) {
	interval := int64(d.header.Sys.FrameIntervalI())
	num := int64(d.header.Sys.FrameIntervalPNum())
	denom := int64(d.header.Sys.FrameIntervalPDenom())
	for {
		d.sampleTick++
		if shouldHaveFrame(d.sampleTick, interval, num, denom) {
			return d.sampleTick, skipped
		}
		skipped++
		if skipped >= MaxSampleSkip {
			return d.sampleTick, skipped
		}
	}
}
