package sensors

import (
	"errors"
	"math"
	"testing"
)

type fakeReader struct {
	temps    []TemperatureRecord
	fans     []FanRecord
	voltages []VoltageRecord
	err      error
}

func (r *fakeReader) TemperatureRecords() ([]TemperatureRecord, error) {
	return r.temps, r.err
}

func (r *fakeReader) FanRecords() ([]FanRecord, error) {
	return r.fans, r.err
}

func (r *fakeReader) VoltageRecords() ([]VoltageRecord, error) {
	return r.voltages, r.err
}

func TestDecodeThermalReading(t *testing.T) {
	cases := []struct {
		raw  uint32
		want float64
	}{
		{3000, 26.85},  // deciKelvin
		{2800, 6.85},   // deciKelvin, just above the threshold
		{300, 27},      // whole Kelvin
		{275, 2},       // whole Kelvin, just above the threshold
		{274, 0},       // unpopulated
		{100, 0},       // unpopulated
		{0, 0},         // unpopulated
		{2732, 2459},   // 2732 itself takes the Kelvin branch
		{3731, 99.95},  // ~100°C in deciKelvin
	}

	for _, tc := range cases {
		if got := decodeThermalReading(tc.raw); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("decodeThermalReading(%d) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestDecodeProcessorVoltage(t *testing.T) {
	cases := []struct {
		code uint16
		caps uint32
		want float64
	}{
		{0x85, 0, 0.5},    // bit 7 set: decivolts in bits 0-6
		{0x8C, 0xFF, 1.2}, // bit 7 set wins over caps
		{0x01, 0x1, 5.0},  // caps bit 0
		{0x01, 0x2, 3.3},  // caps bit 1
		{0x01, 0x4, 2.9},  // caps bit 2
		{0x01, 0x3, 5.0},  // lowest set bit wins
		{0x01, 0x0, 0},    // no capability advertised
		{0x00, 0x1, 0},    // zero code means unknown
	}

	for _, tc := range cases {
		if got := decodeProcessorVoltage(tc.code, tc.caps); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("decodeProcessorVoltage(%#x, %#x) = %v, want %v", tc.code, tc.caps, got, tc.want)
		}
	}
}

func TestNativeTemperatureUsesFirstRecord(t *testing.T) {
	n := newNativeSource(&fakeReader{temps: []TemperatureRecord{
		{CurrentTemperature: 3000},
		{CurrentTemperature: 9999},
	}})

	if got := n.CPUTemperature(); math.Abs(got-26.85) > 1e-9 {
		t.Errorf("CPUTemperature = %v, want 26.85", got)
	}
}

func TestNativeTemperatureNoRecords(t *testing.T) {
	n := newNativeSource(&fakeReader{})
	if got := n.CPUTemperature(); got != 0 {
		t.Errorf("CPUTemperature = %v, want 0", got)
	}
}

func TestNativeFanRejectsPlaceholderSingleRecord(t *testing.T) {
	single := newNativeSource(&fakeReader{fans: []FanRecord{{DesiredSpeed: 4000}}})
	if got := single.FanSpeeds(); len(got) != 0 {
		t.Errorf("FanSpeeds with one record = %v, want empty", got)
	}

	none := newNativeSource(&fakeReader{})
	if got := none.FanSpeeds(); len(got) != 0 {
		t.Errorf("FanSpeeds with no records = %v, want empty", got)
	}

	two := newNativeSource(&fakeReader{fans: []FanRecord{{DesiredSpeed: 1200}, {DesiredSpeed: 800}}})
	got := two.FanSpeeds()
	if len(got) != 2 || got[0] != 1200 || got[1] != 800 {
		t.Errorf("FanSpeeds with two records = %v, want [1200 800]", got)
	}
}

func TestNativeVoltageRejectsPlaceholderSingleRecord(t *testing.T) {
	single := newNativeSource(&fakeReader{voltages: []VoltageRecord{{CurrentVoltage: 0x85}}})
	if got := single.CPUVoltage(); got != 0 {
		t.Errorf("CPUVoltage with one record = %v, want 0", got)
	}

	two := newNativeSource(&fakeReader{voltages: []VoltageRecord{
		{CurrentVoltage: 0x8C},
		{CurrentVoltage: 0x8C},
	}})
	if got := two.CPUVoltage(); math.Abs(got-1.2) > 1e-9 {
		t.Errorf("CPUVoltage with two records = %v, want 1.2", got)
	}
}

func TestNativeAbsorbsReaderErrors(t *testing.T) {
	n := newNativeSource(&fakeReader{err: errors.New("wmi query failed")})

	if got := n.CPUTemperature(); got != 0 {
		t.Errorf("CPUTemperature = %v, want 0", got)
	}
	if got := n.FanSpeeds(); len(got) != 0 {
		t.Errorf("FanSpeeds = %v, want empty", got)
	}
	if got := n.CPUVoltage(); got != 0 {
		t.Errorf("CPUVoltage = %v, want 0", got)
	}
}
