package decode

// decodeIFrame implements spec.md §4.4's I-frame handling: reset
// current to zero, decode every field through the full predictor
// engine (I-frames never consult prev/prev2 since the predictor
// context's HistoryValid gate only matters for P here — I always
// passes HistoryValid=false for its own reconstruction, but still
// merges lastSlow and rotates history for subsequent P-frames).
func (d *Decoder) decodeIFrame() error {
	d.main.resetCurrent()
	gc := groupContext{
		hist:  &frameHistory{current: d.main.current, prev: d.main.prev, prev2: d.main.prev2, valid: false},
		names: d.header.I.FieldNames,
		sys:   d.header.Sys,
	}
	if err := decodeFieldGroup(d.r, d.header.I.Fields, gc); err != nil {
		return err
	}
	d.advanceTick()

	rec := d.buildRecord('I', d.header.I.FieldNames, d.main.current, true)
	d.session.Records = append(d.session.Records, rec)
	d.main.rotate()
	d.session.Stats.CountI++
	return nil
}

// decodePFrame implements §4.4's P-frame handling, including the
// pre-valid best-effort skip and the skipped-frame count feeding
// PREDICT_INC.
func (d *Decoder) decodePFrame() error {
	if !d.main.valid {
		d.skipPFrameBestEffort()
		return nil
	}

	_, skipped := d.advanceTick()
	gc := groupContext{
		hist:    &d.main,
		names:   d.header.P.FieldNames,
		sys:     d.header.Sys,
		skipped: skipped,
	}
	if err := decodeFieldGroup(d.r, d.header.P.Fields, gc); err != nil {
		return err
	}

	rec := d.buildRecord('P', d.header.P.FieldNames, d.main.current, true)
	d.session.Records = append(d.session.Records, rec)
	d.main.rotate()
	d.session.Stats.CountP++
	return nil
}

// skipPFrameBestEffort decodes a P-frame's fields into a throwaway
// buffer so the bitstream stays aligned, without touching real history
// or emitting a record — spec.md §4.4 requires P-frames seen before the
// first successful I-frame to be skipped.
func (d *Decoder) skipPFrameBestEffort() {
	scratch := newFrameHistory(d.header.P.Len())
	gc := groupContext{hist: scratch, names: d.header.P.FieldNames, sys: d.header.Sys}
	_ = decodeFieldGroup(d.r, d.header.P.Fields, gc)
}

// decodeSFrame implements §4.4's S-frame handling: simple encodings
// only, no history rotation, updates lastSlow for the next I/P merge.
func (d *Decoder) decodeSFrame() error {
	values, err := decodeSimpleFrame(d.r, d.header.S.Fields, true)
	if err != nil {
		return err
	}
	for k, v := range values {
		d.lastSlow[k] = v
	}
	d.session.Stats.CountS++
	return nil
}

// decodeHFrame implements §4.4's H-frame handling. Composite encodings
// here are treated as log-fatal (spec.md §7): an H-frame desync would
// silently corrupt every later G-frame's absolute coordinates.
func (d *Decoder) decodeHFrame() error {
	values, err := decodeSimpleFrame(d.r, d.header.H.Fields, false)
	if err != nil {
		return err
	}
	lat, latOk := values["GPS_home[0]"]
	lon, lonOk := values["GPS_home[1]"]
	if latOk && lonOk {
		d.home = HomePoint{TimestampUs: d.lastIPTimestamp, Lat: lat, Lon: lon}
		d.homeSet = true
		d.session.HomePoints = append(d.session.HomePoints, d.home)
	}
	d.session.Stats.CountH++
	return nil
}

// decodeGFrame implements §4.4's G-frame handling: full predictor logic
// against GPS history (no prev2). HOME_COORD decodes as an identity
// predictor (the raw delta rides in d.gps's history unchanged); the
// home offset from the most recent H-frame is added here, by field
// name, only when a GPS point is extracted for export — GPS_coord[0]
// and GPS_coord[1] are the only fields spec.md's HOME_COORD predictor
// ever names, independent of where they sit in the G-schema.
func (d *Decoder) decodeGFrame() error {
	gc := groupContext{
		hist:  &d.gps,
		names: d.header.G.FieldNames,
		sys:   d.header.Sys,
	}
	if err := decodeFieldGroup(d.r, d.header.G.Fields, gc); err != nil {
		return err
	}

	data := make(map[string]int32, len(d.header.G.FieldNames))
	for i, n := range d.header.G.FieldNames {
		data[n] = d.gps.current[i]
	}
	d.gps.rotate()
	d.session.Stats.CountG++

	lat, latOk := data["GPS_coord[0]"]
	lon, lonOk := data["GPS_coord[1]"]
	alt, altOk := data["GPS_altitude"]
	if latOk && lonOk && d.homeSet {
		lat += d.home.Lat
		lon += d.home.Lon
	}
	if latOk && lonOk && altOk {
		d.session.GPSPoints = append(d.session.GPSPoints, GPSPoint{
			TimestampUs: d.lastIPTimestamp,
			Lat:         lat,
			Lon:         lon,
			Altitude:    alt,
		})
	}
	return nil
}

// buildRecord merges lastSlow into a freshly decoded I/P frame and
// extracts the timestamp/loopIteration fields spec.md §3 names.
func (d *Decoder) buildRecord(frameType byte, names []string, current []int32, mergeSlow bool) Record {
	data := make(map[string]int32, len(names)+len(d.lastSlow))
	for i, n := range names {
		data[n] = current[i]
	}
	if mergeSlow {
		for k, v := range d.lastSlow {
			data[k] = v
		}
	}

	ts := d.lastIPTimestamp
	if v, ok := data["time"]; ok {
		ts = uint64(uint32(v))
		d.lastIPTimestamp = ts
		d.haveIPTimestamp = true
		if !d.session.Stats.HaveTime {
			d.session.Stats.StartTimeUs = ts
			d.session.Stats.HaveTime = true
		}
		d.session.Stats.EndTimeUs = ts
	}

	var li uint32
	if v, ok := data["loopIteration"]; ok {
		li = uint32(v)
	}

	return Record{FrameType: frameType, TimestampUs: ts, LoopIteration: li, Data: data}
}
