// Package schema holds the types a Blackbox log header parses into: the
// encoding/predictor enums of spec.md §3, per-field schemas for each of
// the five frame kinds, and the system-configuration map frames are
// decoded against.
//
// The shape follows src/rtcm.go's per-message constant tables and the
// way src/ublox.go dispatches a message-id constant to a decode
// function: here an enum id selects a field-level codec instead of a
// whole-message decoder.
package schema

// Encoding identifies the byte-level representation of a field's raw
// delta, per spec.md §3.
type Encoding int

const (
	EncSignedVB   Encoding = 0
	EncUnsignedVB Encoding = 1
	EncNeg14Bit   Encoding = 3
	EncTag8_8SVB  Encoding = 6
	EncTag2_3S32  Encoding = 7
	EncTag8_4S16  Encoding = 8
	EncNull       Encoding = 9
)

// Predictor identifies the reconstruction rule applied to a field's
// decoded raw delta, per spec.md §3.
type Predictor int

const (
	PredictNone        Predictor = 0 // identity
	PredictPrevious    Predictor = 1
	PredictStraight    Predictor = 2 // 2*prev - prev2
	PredictAverage     Predictor = 3 // (prev+prev2)/2
	PredictMinThrottle Predictor = 4
	PredictMotor0      Predictor = 5
	PredictInc         Predictor = 6
	PredictHomeCoord   Predictor = 7
	Predict1500        Predictor = 8
	PredictVbatRef     Predictor = 9
	PredictMinMotor    Predictor = 11
)

// FieldSchema describes one field of a frame: its name, whether its raw
// value should be treated as signed, and the predictor/encoding pair
// that reconstruct its absolute value from the frame stream.
type FieldSchema struct {
	Name      string
	Signed    bool
	Predictor Predictor
	Encoding  Encoding
}

// FrameSchema is an ordered list of field schemas for one frame kind
// (I, P, S, G or H), plus a denormalized name list so callers don't have
// to re-walk Fields to get just the names.
type FrameSchema struct {
	Fields     []FieldSchema
	FieldNames []string
}

// Len returns the number of fields in the schema.
func (s *FrameSchema) Len() int { return len(s.Fields) }

// IndexOf returns the position of name in the schema, or -1.
func (s *FrameSchema) IndexOf(name string) int {
	for i, n := range s.FieldNames {
		if n == name {
			return i
		}
	}
	return -1
}

// SysConfig is the flat key/value map the header's non-field lines
// populate (minthrottle, vbatref, motorOutput[0], frame interval ratios,
// ...), grounded on src/options.go's SysOpts string-keyed table — here
// simplified to a plain map since field names aren't known ahead of
// time the way RINEX's fixed option set is.
type SysConfig struct {
	values map[string]int32
}

func NewSysConfig() *SysConfig {
	return &SysConfig{values: make(map[string]int32)}
}

func (c *SysConfig) Set(key string, v int32) { c.values[key] = v }

func (c *SysConfig) Get(key string) (int32, bool) {
	v, ok := c.values[key]
	return v, ok
}

// GetDefault returns the stored value for key, or def if absent.
func (c *SysConfig) GetDefault(key string, def int32) int32 {
	if v, ok := c.values[key]; ok {
		return v
	}
	return def
}

// Defaults for the sampling-ratio keys spec.md §3 requires to exist.
const (
	DefaultFrameIntervalI     = 32
	DefaultFrameIntervalPNum  = 1
	DefaultFrameIntervalPDenom = 1
)

// FrameIntervalI, FrameIntervalPNum and FrameIntervalPDenom read the
// sampling-ratio keys with the spec-mandated defaults applied.
func (c *SysConfig) FrameIntervalI() int32 {
	return c.GetDefault("frameIntervalI", DefaultFrameIntervalI)
}

func (c *SysConfig) FrameIntervalPNum() int32 {
	return c.GetDefault("frameIntervalPNum", DefaultFrameIntervalPNum)
}

func (c *SysConfig) FrameIntervalPDenom() int32 {
	return c.GetDefault("frameIntervalPDenom", DefaultFrameIntervalPDenom)
}

// MinThrottle, VbatRef and MotorOutput0 read the predictor-engine's
// named sysconfig lookups (§4.3), each with the fallback the spec
// prescribes when the key is absent.
func (c *SysConfig) MinThrottle() int32 { return c.GetDefault("minthrottle", 0) }
func (c *SysConfig) VbatRef() int32     { return c.GetDefault("vbatref", 0) }

// MotorOutput0 implements §4.3's MINMOTOR lookup order: motorOutput[0],
// else the first value of a CSV-valued "motorOutput" key, else 48.
func (c *SysConfig) MotorOutput0() int32 {
	if v, ok := c.values["motorOutput[0]"]; ok {
		return v
	}
	if v, ok := c.values["motorOutput"]; ok {
		return v
	}
	return 48
}

// Header is the parsed ASCII preamble of one log session.
type Header struct {
	FirmwareRevision string
	BoardInformation string
	CraftName        string
	DataVersion      string
	Looptime         int32

	I, P, S, G, H FrameSchema
	Sys           *SysConfig
}
