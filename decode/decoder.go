package decode

import "github.com/pkg/errors"

// Decode runs the frame-dispatch state machine of spec.md §4.4 over the
// whole byte stream, one tag byte at a time, until EOF or one of the
// corruption bounds trips. It never returns an error for corrupt bytes
// inside the stream — those are counted in Stats.FailedFrames instead —
// matching src/rtcm.go's InputRtcm3, which reports desync through a
// counter rather than aborting the caller's read loop. Per spec.md §7,
// an unknown field encoding or an unsupported H-frame encoding is
// log-fatal rather than locally recoverable: both risk a silent stream
// desync propagating through every subsequent frame, so decoding stops
// and Stats.Rejected is set instead of attempting a resync.
func (d *Decoder) Decode() *LogSession {
	for !d.r.Eof() {
		if d.totalFrames >= MaxTotalFrames {
			break
		}
		tag, err := d.r.ReadByte()
		if err != nil {
			break
		}
		d.totalFrames++

		var ferr error
		switch tag {
		case 'I':
			ferr = d.decodeIFrame()
		case 'P':
			ferr = d.decodePFrame()
		case 'S':
			ferr = d.decodeSFrame()
		case 'H':
			ferr = d.decodeHFrame()
		case 'G':
			ferr = d.decodeGFrame()
		case 'E':
			ferr = d.decodeEFrame()
		default:
			ferr = errUnknownTag
		}

		if ferr != nil {
			d.corruptFrames++
			d.session.Stats.FailedFrames++
			if errors.Is(ferr, ErrUnknownEncoding) || errors.Is(ferr, ErrUnsupportedHFrameEncoding) {
				d.session.Stats.Rejected = true
				break
			}
			if d.corruptFrames > MaxCorruptFrames {
				break
			}
		}
	}

	d.session.Stats.TotalBytes = d.r.Pos() + d.r.Len()
	return &d.session
}

var errUnknownTag = errors.New("decode: unrecognized frame tag byte")
