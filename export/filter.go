package export

import (
	"blackbox/decode"

	"gonum.org/v1/gonum/stat"
)

// Duration/variance thresholds for the export heuristic filter, per
// SPEC_FULL.md's supplemented filters.rs behavior: very short logs are
// always skipped, mid-length logs require a minimum frame rate, and
// long logs are instead judged on whether the craft actually moved
// (gyro variance); the frame rate is not checked for them.
const (
	alwaysSkipSeconds   = 5.0
	minFpsSeconds       = 15.0
	minFramesPerSecond  = 1500.0
	longLogSeconds      = 15.0
	gyroVarianceMinimum = 0.3
)

// ShouldSkip reports whether session is uninteresting enough to skip
// exporting, grounded on ausocean-av's turbidity probe, which scores a
// frame buffer with a statistical measure before deciding whether it's
// worth acting on. Here the measure is gyro variance across a flight's
// records instead of image sharpness.
func ShouldSkip(session *decode.LogSession) bool {
	if !session.Stats.HaveTime {
		return false
	}
	durationSeconds := float64(session.Stats.EndTimeUs-session.Stats.StartTimeUs) / 1e6
	if durationSeconds < alwaysSkipSeconds {
		return true
	}

	if durationSeconds < minFpsSeconds {
		return session.Stats.SampleRateHz < minFramesPerSecond
	}

	if durationSeconds <= longLogSeconds {
		return false
	}

	for _, axis := range []string{"gyroADC[0]", "gyroADC[1]", "gyroADC[2]"} {
		values := gyroValues(session, axis)
		if len(values) < 2 {
			continue
		}
		if stat.Variance(values, nil) > gyroVarianceMinimum {
			return false
		}
	}
	return true
}

func gyroValues(session *decode.LogSession, field string) []float64 {
	out := make([]float64, 0, len(session.Records))
	for _, rec := range session.Records {
		if v, ok := rec.Data[field]; ok {
			out = append(out, float64(v))
		}
	}
	return out
}
