package export

import (
	"bufio"
	"fmt"
	"io"

	"blackbox/decode"

	"github.com/pkg/errors"
)

const gpxHeadXML = "<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n"
const gpxHeadGPX = "<gpx version=\"1.1\" creator=\"bblconv\" xmlns=\"http://www.topografix.com/GPX/1/1\">\n"
const gpxTail = "</gpx>\n"

// WriteGPX writes session's GPS track as a GPX 1.1 document, grounded
// on src/convgpx.go's OutTrack: a <trk>/<trkseg> wrapper around one
// <trkpt> per point, each carrying lat/lon and, when available, an
// elevation and timestamp. GPX has no "raw units" dialect, so
// lat/lon/altitude always go through the firmware-aware conversions in
// convert.go regardless of ExportOptions.Convert.
func WriteGPX(w io.Writer, session *decode.LogSession) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(gpxHeadXML)
	bw.WriteString(gpxHeadGPX)
	bw.WriteString("<trk>\n <trkseg>\n")

	firmware := session.Header.FirmwareRevision
	for _, p := range session.GPSPoints {
		lat, lon := ConvertGPSCoordinate(p.Lat), ConvertGPSCoordinate(p.Lon)
		fmt.Fprintf(bw, "  <trkpt lat=\"%.9f\" lon=\"%.9f\">\n", lat, lon)
		fmt.Fprintf(bw, "   <ele>%.2f</ele>\n", ConvertGPSAltitude(p.Altitude, firmware))
		fmt.Fprintf(bw, "   <time>%s</time>\n", formatMicros(p.TimestampUs))
		bw.WriteString("  </trkpt>\n")
	}

	bw.WriteString(" </trkseg>\n</trk>\n")
	bw.WriteString(gpxTail)
	return bw.Flush()
}

// formatMicros renders a microsecond-since-log-start timestamp as an
// ISO-8601 duration-like stamp; flight logs carry no wall-clock epoch,
// so this is relative time dressed in GPX's expected <time> shape
// rather than a true UTC instant.
func formatMicros(us uint64) string {
	seconds := us / 1000000
	frac := us % 1000000
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("1970-01-01T%02d:%02d:%02d.%06dZ", h, m, s, frac)
}

// WriteGPXFile writes the GPX artifact for session to
// "<base>.gps.gpx" (optionally gzip-compressed) under opts, per
// spec.md §6's output-file naming convention.
func WriteGPXFile(base string, session *decode.LogSession, opts ExportOptions) error {
	if len(session.GPSPoints) == 0 {
		return nil
	}
	if err := writeArtifact(base+".gps.gpx", opts, func(w io.Writer) error {
		return WriteGPX(w, session)
	}); err != nil {
		return errors.Wrap(err, "write gpx")
	}
	return nil
}
