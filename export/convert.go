package export

import (
	"strconv"
	"strings"
)

// Firmware-aware unit conversions, per spec.md §1's explicit
// out-of-core-scope note ("firmware-specific unit conversions") and
// SPEC_FULL.md's supplemented-feature list: the decoder stays unit-naive,
// but ExportOptions.Convert lets a caller opt into human units here,
// grounded on _examples/original_source/src/conversion.rs.

// vbatScale returns the raw-to-volts scale factor for vbatLatest, which
// varies by firmware and, for Betaflight, by version.
func vbatScale(firmwareRevision string) float64 {
	switch {
	case strings.Contains(firmwareRevision, "EmuFlight"):
		return 0.1
	case strings.Contains(firmwareRevision, "iNav"):
		return 0.01
	case strings.Contains(firmwareRevision, "Betaflight"):
		if majorMinorAtLeast(firmwareRevision, 4, 3) {
			return 0.01
		}
		return 0.1
	default:
		return 0.01
	}
}

// majorMinorAtLeast reports whether a "Betaflight X.Y.Z ..." revision
// string's version is >= major.minor.
func majorMinorAtLeast(firmwareRevision string, major, minor int) bool {
	words := strings.Fields(firmwareRevision)
	for i, w := range words {
		if !strings.EqualFold(w, "Betaflight") || i+1 >= len(words) {
			continue
		}
		parts := strings.SplitN(words[i+1], ".", 3)
		if len(parts) < 2 {
			continue
		}
		gotMajor, err1 := strconv.Atoi(parts[0])
		gotMinor, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			continue
		}
		if gotMajor != major {
			return gotMajor > major
		}
		return gotMinor >= minor
	}
	return true // unparseable version: default to the modern scaling
}

// firmwareMajorVersion extracts the major version number from a
// "Betaflight X.Y.Z ..." style revision string, defaulting to 4 (modern
// firmware) when it can't be parsed.
func firmwareMajorVersion(firmwareRevision string) int {
	fields := strings.Fields(firmwareRevision)
	if len(fields) < 2 {
		return 4
	}
	parts := strings.SplitN(fields[1], ".", 2)
	if major, err := strconv.Atoi(parts[0]); err == nil {
		return major
	}
	return 4
}

// ConvertVbatToVolts converts a raw vbatLatest sample to volts.
func ConvertVbatToVolts(raw int32, firmwareRevision string) float64 {
	return float64(raw) * vbatScale(firmwareRevision)
}

// ConvertAmperageToAmps converts a raw amperageLatest sample (0.01A
// units) to amps.
func ConvertAmperageToAmps(raw int32) float64 {
	return float64(raw) / 100.0
}

// ConvertGPSCoordinate converts a raw GPS_coord/GPS_home value (degrees
// times 1e7) to decimal degrees.
func ConvertGPSCoordinate(raw int32) float64 {
	return float64(raw) / 1e7
}

// ConvertGPSAltitude converts a raw GPS_altitude sample to meters; units
// changed from centimeters to decimeters starting with Betaflight 4.
func ConvertGPSAltitude(raw int32, firmwareRevision string) float64 {
	if firmwareMajorVersion(firmwareRevision) >= 4 {
		return float64(raw) / 10.0
	}
	return float64(raw) / 100.0
}

// ConvertGPSSpeed converts a raw GPS_speed sample (cm/s) to m/s.
func ConvertGPSSpeed(raw int32) float64 {
	return float64(raw) / 100.0
}

// ConvertGPSCourse converts a raw GPS_ground_course sample (degrees*10)
// to degrees.
func ConvertGPSCourse(raw int32) float64 {
	return float64(raw) / 10.0
}

// flightModeNames mirrors blackbox-tools' FLIGHT_LOG_FLIGHT_MODE_NAME
// table, indexed by bit position.
var flightModeNames = []string{
	"ANGLE_MODE", "HORIZON_MODE", "MAG", "BARO", "GPS_HOME", "GPS_HOLD",
	"HEADFREE", "UNUSED", "PASSTHRU", "RANGEFINDER_MODE", "FAILSAFE_MODE",
	"GPS_RESCUE_MODE",
}

// stateFlagNames mirrors blackbox-tools' FLIGHT_LOG_FLIGHT_STATE_NAME
// table.
var stateFlagNames = []string{
	"GPS_FIX_HOME", "GPS_FIX", "CALIBRATE_MAG", "SMALL_ANGLE", "FIXED_WING",
}

var failsafePhaseNames = map[int32]string{
	0: "IDLE", 1: "RX_LOSS_DETECTED", 2: "LANDING", 3: "LANDED",
	4: "RX_LOSS_MONITORING", 5: "RX_LOSS_RECOVERED", 6: "GPS_RESCUE",
}

// FormatFlightModeFlags renders a flightModeFlags bitmask as a
// pipe-separated list of mode names, matching blackbox-tools' CSV
// output so the converted column stays diffable against reference logs.
func FormatFlightModeFlags(flags int32) string { return formatBits(flags, flightModeNames) }

// FormatStateFlags renders a stateFlags bitmask the same way.
func FormatStateFlags(flags int32) string { return formatBits(flags, stateFlagNames) }

func formatBits(flags int32, names []string) string {
	var set []string
	for i, name := range names {
		if flags&(1<<uint(i)) != 0 {
			set = append(set, name)
		}
	}
	if len(set) == 0 {
		return "0"
	}
	return strings.Join(set, "|")
}

// FormatFailsafePhase renders a failsafePhase value as its named phase,
// falling back to the raw number for values blackbox-tools doesn't name.
func FormatFailsafePhase(phase int32) string {
	if name, ok := failsafePhaseNames[phase]; ok {
		return name
	}
	return strconv.FormatInt(int64(phase), 10)
}

// convertedColumn renders one field's value in human units when the
// column name is one conversion.rs knows how to convert; columns it
// doesn't recognize pass through as a plain decimal integer, matching
// the raw CSV formatting StreamCSV already produces for all columns.
func convertedColumn(name string, v int32, firmwareRevision string) string {
	switch name {
	case "vbatLatest":
		return strconv.FormatFloat(ConvertVbatToVolts(v, firmwareRevision), 'f', 2, 64)
	case "amperageLatest":
		return strconv.FormatFloat(ConvertAmperageToAmps(v), 'f', 2, 64)
	case "GPS_coord[0]", "GPS_coord[1]", "GPS_home[0]", "GPS_home[1]":
		return strconv.FormatFloat(ConvertGPSCoordinate(v), 'f', 7, 64)
	case "GPS_altitude":
		return strconv.FormatFloat(ConvertGPSAltitude(v, firmwareRevision), 'f', 2, 64)
	case "GPS_speed":
		return strconv.FormatFloat(ConvertGPSSpeed(v), 'f', 2, 64)
	case "GPS_ground_course":
		return strconv.FormatFloat(ConvertGPSCourse(v), 'f', 1, 64)
	case "flightModeFlags":
		return FormatFlightModeFlags(v)
	case "stateFlags":
		return FormatStateFlags(v)
	case "failsafePhase":
		return FormatFailsafePhase(v)
	default:
		return strconv.FormatInt(int64(v), 10)
	}
}
