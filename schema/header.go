package schema

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedHeader is wrapped whenever a predictor/encoding list can't
// be parsed as decimal integers.
var ErrMalformedHeader = errors.New("schema: malformed header line")

// ParseHeader consumes the ASCII "H key:value" preamble at the start of
// buf and returns the populated Header together with the byte offset at
// which the binary frame stream begins.
//
// Grounded on src/options.go's bufio.Scanner-based "key=value" config
// line parser (loadopts/str2opt), adapted from an '='-delimited options
// file to spec.md's "H key:value" line convention, and on the fact that
// the binary region starts immediately after the header with no
// separator — so, unlike a line-oriented text scanner, parsing must stop
// the instant a line fails to start with "H " rather than scanning ahead
// for a terminator that may not exist in binary data.
func ParseHeader(buf []byte) (*Header, int, error) {
	h := &Header{Sys: NewSysConfig()}
	pos := 0

	for {
		if pos+2 > len(buf) || buf[pos] != 'H' || buf[pos+1] != ' ' {
			break
		}
		lineStart := pos + 2
		nl := indexByte(buf, lineStart, '\n')
		var line string
		if nl < 0 {
			line = string(trimCR(buf[lineStart:]))
			pos = len(buf)
		} else {
			line = string(trimCR(buf[lineStart:nl]))
			pos = nl + 1
		}
		if err := applyHeaderLine(h, line); err != nil {
			return nil, 0, err
		}
		if nl < 0 {
			break
		}
	}

	return h, pos, nil
}

func indexByte(buf []byte, from int, b byte) int {
	for i := from; i < len(buf); i++ {
		if buf[i] == b {
			return i
		}
	}
	return -1
}

func trimCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}

func applyHeaderLine(h *Header, line string) error {
	idx := strings.IndexByte(line, ':')
	if idx < 0 {
		return nil
	}
	key := line[:idx]
	value := line[idx+1:]

	switch strings.ToLower(key) {
	case "firmware revision":
		h.FirmwareRevision = value
		return nil
	case "board information":
		h.BoardInformation = value
		return nil
	case "craft name":
		h.CraftName = value
		return nil
	case "data version":
		h.DataVersion = value
		return nil
	case "looptime":
		if v, err := strconv.Atoi(value); err == nil {
			h.Looptime = int32(v)
		}
		return nil
	}

	if strings.HasPrefix(key, "Field ") {
		rest := strings.TrimPrefix(key, "Field ")
		parts := strings.SplitN(rest, " ", 2)
		if len(parts) != 2 || len(parts[0]) != 1 {
			h.Sys.Set(key, 0)
			return nil
		}
		letter := parts[0][0]
		attr := parts[1]
		return applyFieldLine(h, letter, attr, value)
	}

	if strings.Contains(value, ",") {
		parts := strings.Split(value, ",")
		for i, p := range parts {
			if v, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				h.Sys.Set(key+"["+strconv.Itoa(i)+"]", int32(v))
			}
		}
		return nil
	}
	if v, err := strconv.Atoi(value); err == nil {
		h.Sys.Set(key, int32(v))
	}
	return nil
}

func schemaFor(h *Header, letter byte) *FrameSchema {
	switch letter {
	case 'I':
		return &h.I
	case 'P':
		return &h.P
	case 'S':
		return &h.S
	case 'G':
		return &h.G
	case 'H':
		return &h.H
	}
	return nil
}

func applyFieldLine(h *Header, letter byte, attr, value string) error {
	switch attr {
	case "name":
		names := strings.Split(value, ",")
		for i, n := range names {
			names[i] = strings.TrimSpace(n)
		}

		if letter == 'P' {
			// Legacy explicit P-schema: the P list keeps its own order
			// and length, and each field whose name also appears in the
			// I-schema starts from that I field's schema. Positions are
			// not rearranged into I-schema order, so P indices match the
			// I-schema's only when both lists name the same fields in the
			// same order.
			h.P.FieldNames = names
			h.P.Fields = make([]FieldSchema, len(names))
			for i, n := range names {
				if j := h.I.IndexOf(n); j >= 0 {
					h.P.Fields[i] = h.I.Fields[j]
				} else {
					h.P.Fields[i] = FieldSchema{Name: n}
				}
			}
			return nil
		}

		s := schemaFor(h, letter)
		s.FieldNames = names
		s.Fields = make([]FieldSchema, len(names))
		for i, n := range names {
			s.Fields[i] = FieldSchema{Name: n}
		}

		if letter == 'I' {
			// P-schema is cloned from I by default; an explicit
			// "Field P name:" line (handled above) overrides this.
			h.P.FieldNames = append([]string(nil), names...)
			h.P.Fields = make([]FieldSchema, len(names))
			for i, n := range names {
				h.P.Fields[i] = FieldSchema{Name: n}
			}
		}
		return nil

	case "signed", "predictor", "encoding":
		s := schemaFor(h, letter)
		if s == nil || len(s.Fields) == 0 {
			return nil
		}
		parts := strings.Split(value, ",")
		for i, p := range parts {
			if i >= len(s.Fields) {
				break
			}
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return errors.Wrapf(ErrMalformedHeader, "Field %c %s entry %d: %q", letter, attr, i, p)
			}
			switch attr {
			case "signed":
				s.Fields[i].Signed = n != 0
			case "predictor":
				s.Fields[i].Predictor = Predictor(n)
			case "encoding":
				s.Fields[i].Encoding = Encoding(n)
			}
		}
		return nil
	}

	return nil
}
