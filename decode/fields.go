package decode

import (
	"blackbox/bitio"
	"blackbox/predict"
	"blackbox/schema"
)

// groupContext carries everything decodeFieldGroup needs to turn a raw
// delta into an absolute value via the predictor engine, beyond the
// field schema itself.
type groupContext struct {
	hist    *frameHistory
	names   []string
	sys     *schema.SysConfig
	skipped int32
}

// decodeFieldGroup decodes one frame's worth of fields into hist.current,
// honoring the composite-encoding grouping rule of spec.md §9: fields
// that share TAG8_4S16, TAG2_3S32 or TAG8_8SVB encoding are decoded
// together by a single reader call rather than one at a time.
func decodeFieldGroup(r *bitio.Reader, fields []schema.FieldSchema, gc groupContext) error {
	i := 0
	for i < len(fields) {
		enc := fields[i].Encoding
		switch enc {
		case schema.EncTag8_4S16:
			var raws [4]int32
			if err := r.ReadTag8_4S16(&raws); err != nil {
				return err
			}
			n := 4
			if i+n > len(fields) {
				n = len(fields) - i
			}
			for k := 0; k < n; k++ {
				applyPredictor(fields, i+k, raws[k], gc)
			}
			i += n

		case schema.EncTag2_3S32:
			var raws [3]int32
			if err := r.ReadTag2_3S32(&raws); err != nil {
				return err
			}
			n := 3
			if i+n > len(fields) {
				n = len(fields) - i
			}
			for k := 0; k < n; k++ {
				applyPredictor(fields, i+k, raws[k], gc)
			}
			i += n

		case schema.EncTag8_8SVB:
			run := 1
			for run < 8 && i+run < len(fields) && fields[i+run].Encoding == schema.EncTag8_8SVB {
				run++
			}
			raws := make([]int32, run)
			if err := r.ReadTag8_8SVB(raws); err != nil {
				return err
			}
			for k := 0; k < run; k++ {
				applyPredictor(fields, i+k, raws[k], gc)
			}
			i += run

		default:
			if fields[i].Predictor == schema.PredictInc {
				// Decoding is skipped entirely; the predictor
				// synthesizes the value from history alone.
				applyPredictor(fields, i, 0, gc)
			} else {
				raw, err := decodeSimpleRaw(r, enc)
				if err != nil {
					return err
				}
				applyPredictor(fields, i, raw, gc)
			}
			i++
		}
	}
	return nil
}

func applyPredictor(fields []schema.FieldSchema, idx int, raw int32, gc groupContext) {
	f := fields[idx]
	ctx := predict.Context{
		FieldIndex:   idx,
		FieldName:    f.Name,
		CurrentNames: gc.names,
		Current:      gc.hist.current,
		Prev:         gc.hist.prev,
		Prev2:        gc.hist.prev2,
		HistoryValid: gc.hist.valid,
		Skipped:      gc.skipped,
		Sys:          gc.sys,
	}
	gc.hist.current[idx] = predict.Apply(f.Predictor, raw, ctx)
}

// decodeSimpleRaw decodes one field's raw value using a non-composite
// encoding.
func decodeSimpleRaw(r *bitio.Reader, enc schema.Encoding) (int32, error) {
	switch enc {
	case schema.EncSignedVB:
		return r.ReadSignedVB(), nil
	case schema.EncUnsignedVB:
		return int32(r.ReadUnsignedVB()), nil
	case schema.EncNeg14Bit:
		return r.ReadNeg14Bit(), nil
	case schema.EncNull:
		return 0, nil
	default:
		return 0, ErrUnknownEncoding
	}
}

// decodeSimpleFrame decodes S- and H-frame fields: simple encodings
// only, no predictor reconstruction (spec.md §4.4 never has these two
// frame kinds "apply" a predictor the way I/P/G do — the raw decoded
// value is the field's value).
func decodeSimpleFrame(r *bitio.Reader, fields []schema.FieldSchema, allowComposite bool) (map[string]int32, error) {
	out := make(map[string]int32, len(fields))
	for _, f := range fields {
		switch f.Encoding {
		case schema.EncTag8_4S16, schema.EncTag2_3S32, schema.EncTag8_8SVB:
			if !allowComposite {
				return nil, ErrUnsupportedHFrameEncoding
			}
			// Not expected in practice for S-frames either; if
			// present, each such field reads one whole packed group
			// and keeps its first value. Consecutive fields that
			// share one packed group are not combined.
			v, err := decodeCompositeAsSingle(r, f.Encoding)
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
		default:
			v, err := decodeSimpleRaw(r, f.Encoding)
			if err != nil {
				return nil, err
			}
			out[f.Name] = v
		}
	}
	return out, nil
}

func decodeCompositeAsSingle(r *bitio.Reader, enc schema.Encoding) (int32, error) {
	switch enc {
	case schema.EncTag8_4S16:
		var raws [4]int32
		if err := r.ReadTag8_4S16(&raws); err != nil {
			return 0, err
		}
		return raws[0], nil
	case schema.EncTag2_3S32:
		var raws [3]int32
		if err := r.ReadTag2_3S32(&raws); err != nil {
			return 0, err
		}
		return raws[0], nil
	case schema.EncTag8_8SVB:
		raws := make([]int32, 1)
		if err := r.ReadTag8_8SVB(raws); err != nil {
			return 0, err
		}
		return raws[0], nil
	}
	return 0, ErrUnknownEncoding
}
