package decode

import "bytes"

// logSentinel is the header line every Blackbox log's first header
// block carries, per spec.md §4.5 — a single flight-data-recorder file
// can contain several of these back to back (one per power cycle), and
// each occurrence starts a fully independent log.
const logSentinel = "H Product:Blackbox flight data recorder by Nicholas Sherlock"

// Split slices a whole flight-data-recorder file into independent log
// segments by scanning for repeated occurrences of logSentinel.
// Grounded on src/rtcm.go's InputRtcm3, which scans a byte stream for a
// repeating preamble to resynchronize on message boundaries — here the
// "preamble" is an ASCII line instead of a binary sync byte, but the
// scan-for-repeated-marker shape is the same.
func Split(data []byte) [][]byte {
	marker := []byte(logSentinel)
	var starts []int
	for i := 0; ; {
		idx := bytes.Index(data[i:], marker)
		if idx < 0 {
			break
		}
		starts = append(starts, i+idx)
		i += idx + len(marker)
	}
	if len(starts) == 0 {
		return nil
	}

	logs := make([][]byte, 0, len(starts))
	for i, start := range starts {
		end := len(data)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		logs = append(logs, data[start:end])
	}
	return logs
}
