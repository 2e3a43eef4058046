package decode

import (
	"blackbox/bitio"
	"blackbox/schema"

	"github.com/cespare/xxhash/v2"
	"github.com/pkg/errors"
)

// AssembleLog parses one log segment's header and decodes its frame
// stream into a LogSession, computing the stats the header alone can't
// supply (checksum, sample rate). Grounded on src/rtkpos.go's top-level
// rtkpos wrapper, which threads a single raw-observation buffer through
// header/config parsing and then a solution loop the same way this
// threads a log segment through header parsing and the frame decoder.
func AssembleLog(segment []byte) (*LogSession, error) {
	header, dataStart, err := schema.ParseHeader(segment)
	if err != nil {
		return nil, errors.Wrap(err, "assemble log")
	}

	r := bitio.NewReader(segment[dataStart:])
	d := NewDecoder(r, header)
	session := d.Decode()

	session.Stats.Checksum = xxhash.Sum64(segment)
	if header.Looptime > 0 {
		session.Stats.SampleRateHz = 1e6 / float64(header.Looptime)
	}

	return session, nil
}

// AssembleFile splits a whole flight-data-recorder file into
// independent logs and assembles each in turn. Per spec.md §4.5, each
// log is decoded independently and sequentially — a corrupt or
// malformed segment doesn't abort the ones after it.
func AssembleFile(data []byte) ([]*LogSession, []error) {
	segments := Split(data)
	if segments == nil {
		segments = [][]byte{data}
	}

	sessions := make([]*LogSession, 0, len(segments))
	var errs []error
	for i, seg := range segments {
		session, err := AssembleLog(seg)
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "log segment %d", i))
			continue
		}
		sessions = append(sessions, session)
	}
	return sessions, errs
}
