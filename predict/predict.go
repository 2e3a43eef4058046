// Package predict implements the predictor engine of spec.md §4.3: a
// pure function that reconstructs a field's absolute value from its
// decoded raw delta plus whatever history or configuration the
// predictor id calls for.
//
// Grounded on src/ublox.go's per-field reconstruction in decode_rxmrawx
// and decode_trkmeas, where each field's absolute value is rebuilt from
// a raw delta plus receiver state (last reference time, last carrier
// phase, ...): the same shape of "small switch over a reconstruction
// rule, a couple of cases needing a named lookup into sibling state" is
// reused here over Blackbox's predictor ids instead of GNSS message
// fields. This stays on the standard library: it's pure arithmetic over
// already-decoded integers, nothing a pack dependency improves on.
package predict

import "blackbox/schema"

// Context carries everything a predictor might need beyond the raw
// delta: the current frame's own previously-decoded fields (for
// MOTOR_0), rolling history (for PREVIOUS/STRAIGHT_LINE/AVERAGE/INC)
// and sysconfig (for MINTHROTTLE/VBATREF/MINMOTOR). HOME_COORD is
// identity here; the home offset is added by the caller when a
// GPS_coord field is extracted, since "which axis" depends on field
// name, not position.
type Context struct {
	FieldIndex   int
	FieldName    string
	CurrentNames []string
	Current      []int32
	Prev         []int32
	Prev2        []int32
	HistoryValid bool
	Skipped      int32
	Sys          *schema.SysConfig
}

// fallbackMotorFieldIndex is the last-resort field index §4.3 names for
// MOTOR_0 when a field literally called "motor[0]" isn't present.
const fallbackMotorFieldIndex = 39

const vbatCorruptionThreshold = 1000

// Apply reconstructs the absolute value of a field given its predictor
// id and decoded raw delta.
func Apply(p schema.Predictor, raw int32, ctx Context) int32 {
	switch p {
	case schema.PredictNone:
		return raw

	case schema.PredictPrevious:
		if !ctx.HistoryValid {
			return raw
		}
		prevVal := ctx.Prev[ctx.FieldIndex]
		if ctx.FieldName == "vbatLatest" && prevVal > vbatCorruptionThreshold {
			return ctx.Sys.VbatRef() + raw
		}
		return prevVal + raw

	case schema.PredictStraight:
		if !ctx.HistoryValid {
			return raw
		}
		return 2*ctx.Prev[ctx.FieldIndex] - ctx.Prev2[ctx.FieldIndex] + raw

	case schema.PredictAverage:
		if !ctx.HistoryValid {
			return raw
		}
		return (ctx.Prev[ctx.FieldIndex]+ctx.Prev2[ctx.FieldIndex])/2 + raw

	case schema.PredictMinThrottle:
		return ctx.Sys.MinThrottle() + raw

	case schema.PredictMotor0:
		return lookupMotor0(ctx) + raw

	case schema.PredictInc:
		if !ctx.HistoryValid {
			return raw
		}
		return ctx.Prev[ctx.FieldIndex] + ctx.Skipped + 1

	case schema.PredictHomeCoord:
		// Identity: the home offset is resolved by field name at
		// GPS-point extraction, not here.
		return raw

	case schema.Predict1500:
		return 1500 + raw

	case schema.PredictVbatRef:
		vbatref := ctx.Sys.VbatRef()
		if ctx.FieldName == "vbatLatest" && (raw < -1000 || raw > 4000) {
			return vbatref
		}
		return vbatref + raw

	case schema.PredictMinMotor:
		return ctx.Sys.MotorOutput0() + raw

	default:
		return raw
	}
}

func lookupMotor0(ctx Context) int32 {
	for i, name := range ctx.CurrentNames {
		if name == "motor[0]" {
			return ctx.Current[i]
		}
	}
	if fallbackMotorFieldIndex < len(ctx.Current) {
		return ctx.Current[fallbackMotorFieldIndex]
	}
	return 0
}
