package decode

import "fmt"

// Event type ids, per spec.md §4.4's E-frame payload table.
const (
	eventSyncBeep            = 0
	eventAutotuneCycleResult = 2
	eventAutotuneTargets     = 3
	eventInflightAdjustment  = 4
	eventLoggingResume       = 5
	eventLogEnd              = 255
)

var eventNames = map[int]string{
	0:   "Sync beep",
	1:   "Autotune marker",
	2:   "Autotune cycle result",
	3:   "Autotune targets",
	4:   "In-flight adjustment",
	5:   "Logging resume",
	10:  "Autotune marker",
	11:  "Disarm",
	12:  "Disarm",
	13:  "In-flight adjustment (string)",
	14:  "Logging resume (extended)",
	15:  "Disarm",
	30:  "CMS menu event",
	255: "Log end",
}

func eventDescription(t int) string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown event %d", t)
}

// decodeEFrame implements spec.md §4.4's E-frame handling: a type byte
// followed by a type-specific payload. Unknown types consume a bounded
// best-effort byte run rather than aborting the log.
func (d *Decoder) decodeEFrame() error {
	typeByte, err := d.r.ReadByte()
	if err != nil {
		return err
	}
	etype := int(typeByte)
	payload := make(map[string]int32)

	switch etype {
	case eventSyncBeep, 1, 10, 11, 12, eventLogEnd, 15:
		// No payload.

	case eventAutotuneCycleResult:
		axis, err := d.r.ReadByte()
		if err != nil {
			return err
		}
		payload["axis"] = int32(axis)
		for i := 0; i < 3; i++ {
			payload[fmt.Sprintf("value%d", i)] = d.r.ReadSignedVB()
		}

	case eventAutotuneTargets:
		for i := 0; i < 5; i++ {
			payload[fmt.Sprintf("value%d", i)] = d.r.ReadSignedVB()
		}

	case eventInflightAdjustment, 13:
		fn, err := d.r.ReadByte()
		if err != nil {
			return err
		}
		payload["function"] = int32(fn)
		if fn > 127 {
			payload["value"] = int32(d.r.ReadUnsignedVB())
		} else {
			payload["value"] = d.r.ReadSignedVB()
		}

	case eventLoggingResume, 14:
		payload["iteration"] = int32(d.r.ReadUnsignedVB())
		payload["time"] = int32(d.r.ReadUnsignedVB())

	case 6, 30:
		for i := 0; i < 4; i++ {
			b, err := d.r.ReadByte()
			if err != nil {
				return err
			}
			payload[fmt.Sprintf("byte%d", i)] = int32(b)
		}

	default:
		for i := 0; i < 8 && !d.r.Eof(); i++ {
			b, err := d.r.ReadByte()
			if err != nil {
				break
			}
			payload[fmt.Sprintf("byte%d", i)] = int32(b)
		}
	}

	d.session.Events = append(d.session.Events, Event{
		TimestampUs: d.lastIPTimestamp,
		Type:        etype,
		Description: eventDescription(etype),
		Payload:     payload,
	})
	d.session.Stats.CountE++
	return nil
}
