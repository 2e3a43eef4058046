package export

import (
	"bytes"
	"strings"
	"testing"

	"blackbox/decode"
	"blackbox/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *decode.LogSession {
	header := &schema.Header{
		I: schema.FrameSchema{
			Fields:     []schema.FieldSchema{{Name: "time"}, {Name: "axisP[0]"}},
			FieldNames: []string{"time", "axisP[0]"},
		},
	}
	return &decode.LogSession{
		Header: header,
		Records: []decode.Record{
			{FrameType: 'I', TimestampUs: 1000, LoopIteration: 0, Data: map[string]int32{"time": 1000, "axisP[0]": 5}},
			{FrameType: 'P', TimestampUs: 2000, LoopIteration: 1, Data: map[string]int32{"time": 2000, "axisP[0]": 7}},
		},
	}
}

func TestStreamCSVHeaderAndRows(t *testing.T) {
	session := testSession()
	var buf bytes.Buffer
	require.NoError(t, StreamCSV(&buf, session))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "frameType,time,loopIteration,time,axisP[0]", lines[0])
	assert.Equal(t, "I,1000,0,1000,5", lines[1])
	assert.Equal(t, "P,2000,1,2000,7", lines[2])
}

func TestWriteGPXEmptyTrackIsWellFormed(t *testing.T) {
	session := testSession()
	var buf bytes.Buffer
	require.NoError(t, WriteGPX(&buf, session))
	assert.Contains(t, buf.String(), "<gpx")
	assert.Contains(t, buf.String(), "</gpx>")
}

func TestWriteJSONLinesOneObjectPerRecord(t *testing.T) {
	session := testSession()
	var buf bytes.Buffer
	require.NoError(t, WriteJSONLines(&buf, session))
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"frameType":"I"`)
}

func TestShouldSkipShortLog(t *testing.T) {
	session := testSession()
	session.Stats.HaveTime = true
	session.Stats.StartTimeUs = 0
	session.Stats.EndTimeUs = 2_000_000 // 2s, under alwaysSkipSeconds
	assert.True(t, ShouldSkip(session))
}

func TestShouldSkipLongStationaryLog(t *testing.T) {
	session := testSession()
	session.Stats.HaveTime = true
	session.Stats.StartTimeUs = 0
	session.Stats.EndTimeUs = 20_000_000 // 20s
	for i := 0; i < 10; i++ {
		session.Records = append(session.Records, decode.Record{
			Data: map[string]int32{"gyroADC[0]": 1, "gyroADC[1]": 1, "gyroADC[2]": 1},
		})
	}
	assert.True(t, ShouldSkip(session))
}
