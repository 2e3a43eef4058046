package export

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"blackbox/decode"

	"github.com/pkg/errors"
)

// WriteEvents writes one line per decoded event to w: timestamp, type,
// description, then its payload fields in stable (sorted) key order so
// output is reproducible across runs.
func WriteEvents(w io.Writer, session *decode.LogSession) error {
	bw := bufio.NewWriter(w)
	for _, ev := range session.Events {
		fmt.Fprintf(bw, "%d,%d,%s", ev.TimestampUs, ev.Type, ev.Description)
		keys := make([]string, 0, len(ev.Payload))
		for k := range ev.Payload {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(bw, ",%s=%d", k, ev.Payload[k])
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// WriteEventsFile writes the event log for session to "<base>.event"
// under opts.
func WriteEventsFile(base string, session *decode.LogSession, opts ExportOptions) error {
	if len(session.Events) == 0 {
		return nil
	}
	if err := writeArtifact(base+".event", opts, func(w io.Writer) error {
		return WriteEvents(w, session)
	}); err != nil {
		return errors.Wrap(err, "write events")
	}
	return nil
}
