package export

import (
	"bufio"
	"encoding/json"
	"io"

	"blackbox/decode"

	"github.com/pkg/errors"
)

// jsonRecord is one line of a JSON-lines export. Kept separate from
// decode.Record so field naming in the export format can evolve
// without disturbing the decoder's own types.
type jsonRecord struct {
	FrameType     string           `json:"frameType"`
	TimestampUs   uint64           `json:"timestampUs"`
	LoopIteration uint32           `json:"loopIteration"`
	Data          map[string]int32 `json:"data"`
}

// WriteJSONLines streams one JSON object per record to w, newline
// delimited. encoding/json is stdlib here deliberately: no pack example
// reaches for a JSON library anywhere, and the format itself needs
// nothing a streaming encoder doesn't already give for free.
func WriteJSONLines(w io.Writer, session *decode.LogSession) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for _, rec := range session.Records {
		jr := jsonRecord{
			FrameType:     string(rec.FrameType),
			TimestampUs:   rec.TimestampUs,
			LoopIteration: rec.LoopIteration,
			Data:          rec.Data,
		}
		if err := enc.Encode(jr); err != nil {
			return errors.Wrap(err, "encode json record")
		}
	}
	return bw.Flush()
}

// WriteJSONLinesFile writes the JSON-lines artifact for session to
// "<base>.jsonl" under opts.
func WriteJSONLinesFile(base string, session *decode.LogSession, opts ExportOptions) error {
	if err := writeArtifact(base+".jsonl", opts, func(w io.Writer) error {
		return WriteJSONLines(w, session)
	}); err != nil {
		return errors.Wrap(err, "write jsonl")
	}
	return nil
}
