package export

import "testing"

func TestVbatScaleByFirmware(t *testing.T) {
	cases := []struct {
		firmware string
		raw      int32
		want     float64
	}{
		{"Betaflight 4.3.0 (abc) STM32F7", 420, 4.2},
		{"Betaflight 4.2.0 (abc) STM32F7", 420, 42.0},
		{"EmuFlight 0.3.0", 420, 42.0},
		{"iNav 6.0.0", 420, 4.2},
	}
	for _, c := range cases {
		if got := ConvertVbatToVolts(c.raw, c.firmware); got != c.want {
			t.Errorf("ConvertVbatToVolts(%d, %q) = %v, want %v", c.raw, c.firmware, got, c.want)
		}
	}
}

func TestConvertGPSCoordinate(t *testing.T) {
	if got := ConvertGPSCoordinate(407128100); got != 40.71281 {
		t.Errorf("ConvertGPSCoordinate = %v, want 40.71281", got)
	}
}

func TestConvertGPSAltitudeByMajorVersion(t *testing.T) {
	if got := ConvertGPSAltitude(1500, "Betaflight 4.3.0"); got != 150 {
		t.Errorf("BF4 altitude = %v, want 150", got)
	}
	if got := ConvertGPSAltitude(1500, "Betaflight 3.5.0"); got != 15 {
		t.Errorf("BF3 altitude = %v, want 15", got)
	}
}

func TestFormatFlightModeFlags(t *testing.T) {
	if got := FormatFlightModeFlags(0); got != "0" {
		t.Errorf("zero flags = %q, want %q", got, "0")
	}
	if got := FormatFlightModeFlags(1 | 4); got != "ANGLE_MODE|MAG" {
		t.Errorf("flags = %q, want ANGLE_MODE|MAG", got)
	}
}

func TestFormatFailsafePhase(t *testing.T) {
	if got := FormatFailsafePhase(2); got != "LANDING" {
		t.Errorf("failsafe phase 2 = %q, want LANDING", got)
	}
	if got := FormatFailsafePhase(99); got != "99" {
		t.Errorf("unknown failsafe phase = %q, want \"99\"", got)
	}
}
