package decode

import (
	"testing"

	"blackbox/bitio"
	"blackbox/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zigzagVarint LEB128-encodes the zigzag form of v, matching what
// bitio.Reader.ReadSignedVB expects on the wire.
func zigzagVarint(v int32) []byte {
	u := uint32((v << 1) ^ (v >> 31))
	var out []byte
	for {
		b := byte(u & 0x7f)
		u >>= 7
		if u != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

// unsignedVarint LEB128-encodes v with no zigzag, matching what
// bitio.Reader.ReadUnsignedVB expects on the wire.
func unsignedVarint(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
		} else {
			out = append(out, b)
			break
		}
	}
	return out
}

func iSchema() schema.FrameSchema {
	return schema.FrameSchema{
		Fields: []schema.FieldSchema{
			{Name: "loopIteration", Signed: false, Predictor: schema.PredictNone, Encoding: schema.EncUnsignedVB},
			{Name: "time", Signed: false, Predictor: schema.PredictNone, Encoding: schema.EncUnsignedVB},
		},
		FieldNames: []string{"loopIteration", "time"},
	}
}

func newTestHeader() *schema.Header {
	sys := schema.NewSysConfig()
	i := iSchema()
	return &schema.Header{
		I:   i,
		P:   i,
		S:   schema.FrameSchema{},
		// Field order mirrors a real Betaflight/iNav G-schema: time and
		// GPS_numSat precede the coordinate pair, so GPS_coord[0]/[1]
		// sit at indices 2/3, not 0/1 — exercising home-offset
		// resolution by field name rather than schema position.
		G: schema.FrameSchema{
			Fields: []schema.FieldSchema{
				{Name: "time", Signed: false, Predictor: schema.PredictNone, Encoding: schema.EncUnsignedVB},
				{Name: "GPS_numSat", Signed: false, Predictor: schema.PredictNone, Encoding: schema.EncUnsignedVB},
				{Name: "GPS_coord[0]", Signed: true, Predictor: schema.PredictHomeCoord, Encoding: schema.EncSignedVB},
				{Name: "GPS_coord[1]", Signed: true, Predictor: schema.PredictHomeCoord, Encoding: schema.EncSignedVB},
				{Name: "GPS_altitude", Signed: true, Predictor: schema.PredictNone, Encoding: schema.EncSignedVB},
			},
			FieldNames: []string{"time", "GPS_numSat", "GPS_coord[0]", "GPS_coord[1]", "GPS_altitude"},
		},
		H: schema.FrameSchema{
			Fields: []schema.FieldSchema{
				{Name: "GPS_home[0]", Signed: true, Predictor: schema.PredictNone, Encoding: schema.EncSignedVB},
				{Name: "GPS_home[1]", Signed: true, Predictor: schema.PredictNone, Encoding: schema.EncSignedVB},
			},
			FieldNames: []string{"GPS_home[0]", "GPS_home[1]"},
		},
		Sys: sys,
	}
}

// TestSlowFrameMerge exercises spec.md's Scenario F: an S-frame updates
// a cached value that rides along on every subsequent I/P record until
// the next S-frame changes it.
func TestSlowFrameMerge(t *testing.T) {
	header := newTestHeader()
	header.S = schema.FrameSchema{
		Fields:     []schema.FieldSchema{{Name: "flightModeFlags", Encoding: schema.EncUnsignedVB}},
		FieldNames: []string{"flightModeFlags"},
	}

	var buf []byte
	buf = append(buf, 'I')
	buf = append(buf, 0x00, 0x00) // loopIteration=0, time=0
	buf = append(buf, 'S')
	buf = append(buf, 0x07) // flightModeFlags=7
	buf = append(buf, 'I')
	buf = append(buf, 0x01, 0x01) // loopIteration=1, time=1

	r := bitio.NewReader(buf)
	d := NewDecoder(r, header)
	session := d.Decode()

	require.Len(t, session.Records, 2)
	assert.NotContains(t, session.Records[0].Data, "flightModeFlags") // decoded before the S-frame
	assert.EqualValues(t, 7, session.Records[1].Data["flightModeFlags"])
	assert.Equal(t, 1, session.Stats.CountS)
}

// TestGPSHomeOffset exercises spec.md's Scenario G: a G-frame's
// coordinates are reconstructed relative to the most recent H-frame,
// using a schema where GPS_coord[0]/[1] are not the first two fields
// (time and GPS_numSat precede them, as in a real log) so the offset
// must be resolved by field name rather than position.
func TestGPSHomeOffset(t *testing.T) {
	header := newTestHeader()

	var buf []byte
	buf = append(buf, 'H')
	buf = append(buf, zigzagVarint(407128000)...)
	buf = append(buf, zigzagVarint(-740060000)...)
	buf = append(buf, 'G')
	buf = append(buf, unsignedVarint(0)...) // time
	buf = append(buf, unsignedVarint(6)...) // GPS_numSat
	buf = append(buf, zigzagVarint(100)...)
	buf = append(buf, zigzagVarint(-200)...)
	buf = append(buf, zigzagVarint(1500)...)

	r := bitio.NewReader(buf)
	d := NewDecoder(r, header)
	session := d.Decode()

	require.Len(t, session.GPSPoints, 1)
	assert.EqualValues(t, 407128100, session.GPSPoints[0].Lat)
	assert.EqualValues(t, -740060200, session.GPSPoints[0].Lon)
	assert.EqualValues(t, 1500, session.GPSPoints[0].Altitude)
}

// TestSplitIndependentLogs exercises spec.md's Scenario H: two logs
// concatenated in one file decode as if they were entirely separate
// files, sharing no state.
func TestSplitIndependentLogs(t *testing.T) {
	one := []byte(logSentinel + "\nH Field I name:time\nH Field I signed:0\nH Field I predictor:0\nH Field I encoding:1\n" + "I" + string([]byte{0x05}))
	two := []byte(logSentinel + "\nH Field I name:time\nH Field I signed:0\nH Field I predictor:0\nH Field I encoding:1\n" + "I" + string([]byte{0x09}))

	combined := append(append([]byte{}, one...), two...)
	logs := Split(combined)
	require.Len(t, logs, 2)

	sessions, errs := AssembleFile(combined)
	require.Empty(t, errs)
	require.Len(t, sessions, 2)
	assert.EqualValues(t, 5, sessions[0].Records[0].Data["time"])
	assert.EqualValues(t, 9, sessions[1].Records[0].Data["time"])
}

func TestUnknownTagByteResyncs(t *testing.T) {
	header := newTestHeader()
	var buf []byte
	buf = append(buf, 'X') // garbage tag byte
	buf = append(buf, 'I')
	buf = append(buf, 0x00, 0x00)

	r := bitio.NewReader(buf)
	d := NewDecoder(r, header)
	session := d.Decode()

	require.Len(t, session.Records, 1)
	assert.Equal(t, 1, session.Stats.FailedFrames)
}

func TestPFrameBeforeIFrameIsSkipped(t *testing.T) {
	header := newTestHeader()
	var buf []byte
	buf = append(buf, 'P')
	buf = append(buf, 0x02, 0x02)
	buf = append(buf, 'I')
	buf = append(buf, 0x00, 0x00)

	r := bitio.NewReader(buf)
	d := NewDecoder(r, header)
	session := d.Decode()

	require.Len(t, session.Records, 1)
	assert.Equal(t, byte('I'), session.Records[0].FrameType)
}
