// Package decode implements the frame decoder state machine, the log
// splitter and the per-log assembler of spec.md §4.4-§4.6.
//
// Grounded on src/rtcm.go's InputRtcm3/DecodeRtcm3 (sync on a preamble
// byte, accumulate until the frame length is known, CRC-check, dispatch
// to a per-message decoder) and src/ublox.go's input_ubx/decode_ubx
// (checksum then a switch over a message-id constant to per-type decode
// functions): both are the direct model for this decoder's tag-byte
// dispatch and byte-drop resync.
package decode

import (
	"blackbox/schema"
)

// Record is one decoded I or P sample with the slow-frame cache merged
// in, per spec.md §3. S-frames produce no Record of their own.
type Record struct {
	FrameType     byte
	TimestampUs   uint64
	LoopIteration uint32
	Data          map[string]int32
}

// Event is a decoded E-frame.
type Event struct {
	TimestampUs uint64
	Type        int
	Description string
	Payload     map[string]int32
}

// GPSPoint is a decoded G-frame, with home offset already applied.
type GPSPoint struct {
	TimestampUs uint64
	Lat         int32
	Lon         int32
	Altitude    int32
}

// HomePoint is a decoded H-frame.
type HomePoint struct {
	TimestampUs uint64
	Lat         int32
	Lon         int32
}

// Stats accumulates per-log counters, grounded on src/rtcm.go's Rtcm
// struct, which accumulates per-message-type counters (Nmsg2/Nmsg3) the
// same way.
type Stats struct {
	CountI       int
	CountP       int
	CountS       int
	CountG       int
	CountH       int
	CountE       int
	FailedFrames int
	TotalBytes   int
	HaveTime     bool
	StartTimeUs  uint64
	EndTimeUs    uint64
	SampleRateHz float64
	Checksum     uint64
	Rejected     bool
}

// LogSession is the assembled result of decoding one log slice, per
// spec.md §3. Its lifetime is: built by the assembler, consumed by an
// exporter, then dropped — nothing in this package retains a LogSession
// past the call that produced it.
type LogSession struct {
	Header     *schema.Header
	Stats      Stats
	Records    []Record
	Events     []Event
	GPSPoints  []GPSPoint
	HomePoints []HomePoint
}
