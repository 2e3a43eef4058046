package predict

import (
	"testing"

	"blackbox/schema"
)

func TestPreviousPredictorChain(t *testing.T) {
	sys := schema.NewSysConfig()
	names := []string{"axisP[0]"}

	// I-frame establishes axisP[0] = 100.
	current := []int32{100}

	// First P-frame: predictor PREVIOUS, raw delta +3 => 103.
	ctx := Context{
		FieldIndex:   0,
		FieldName:    "axisP[0]",
		CurrentNames: names,
		Prev:         current,
		Prev2:        []int32{0},
		HistoryValid: true,
		Sys:          sys,
	}
	got := Apply(schema.PredictPrevious, 3, ctx)
	if got != 103 {
		t.Fatalf("first P-frame = %d, want 103", got)
	}

	// Second P-frame: prev2=100, prev=103, raw=-5 => 98.
	ctx.Prev = []int32{103}
	ctx.Prev2 = []int32{100}
	got = Apply(schema.PredictPrevious, -5, ctx)
	if got != 98 {
		t.Fatalf("second P-frame = %d, want 98", got)
	}
}

func TestPredictIncIgnoresRaw(t *testing.T) {
	ctx := Context{
		FieldIndex:   0,
		Prev:         []int32{10},
		HistoryValid: true,
		Skipped:      2,
	}
	got := Apply(schema.PredictInc, 9999, ctx)
	if got != 13 { // prev(10) + skipped(2) + 1
		t.Fatalf("PredictInc = %d, want 13", got)
	}
}

func TestPredictorsIdentityWithoutHistory(t *testing.T) {
	ctx := Context{HistoryValid: false}
	if got := Apply(schema.PredictPrevious, 42, ctx); got != 42 {
		t.Errorf("PredictPrevious without history = %d, want 42", got)
	}
	if got := Apply(schema.PredictStraight, 42, ctx); got != 42 {
		t.Errorf("PredictStraight without history = %d, want 42", got)
	}
}

func TestVbatLatestCorruption(t *testing.T) {
	sys := schema.NewSysConfig()
	sys.Set("vbatref", 420)
	ctx := Context{
		FieldName:    "vbatLatest",
		Prev:         []int32{5000}, // corrupt: exceeds 1000 threshold
		HistoryValid: true,
		Sys:          sys,
	}
	got := Apply(schema.PredictPrevious, 7, ctx)
	if got != 427 { // vbatref + raw
		t.Errorf("vbatLatest corruption substitution = %d, want 427", got)
	}
}

func TestVbatRefOutOfRange(t *testing.T) {
	sys := schema.NewSysConfig()
	sys.Set("vbatref", 410)
	ctx := Context{FieldName: "vbatLatest", Sys: sys}
	if got := Apply(schema.PredictVbatRef, 9000, ctx); got != 410 {
		t.Errorf("out-of-range vbatLatest = %d, want 410", got)
	}
	if got := Apply(schema.PredictVbatRef, 10, ctx); got != 420 {
		t.Errorf("in-range vbatLatest = %d, want 420", got)
	}
}

func TestMotor0Fallback(t *testing.T) {
	current := make([]int32, 40)
	current[39] = 1234
	ctx := Context{
		CurrentNames: []string{"time"},
		Current:      current,
	}
	if got := Apply(schema.PredictMotor0, 0, ctx); got != 1234 {
		t.Errorf("fallback motor0 = %d, want 1234", got)
	}
}

func TestHomeCoordPredictorIsIdentity(t *testing.T) {
	ctx := Context{}
	if got := Apply(schema.PredictHomeCoord, 100, ctx); got != 100 {
		t.Errorf("home coord predictor = %d, want 100 (identity; offset applied at extraction)", got)
	}
}
