package sensors

import (
	"errors"
	"math"
	"testing"
)

// fakeProvider returns scripted sensors per (hardwareType, sensorType).
type fakeProvider struct {
	sensors map[string][]BridgeSensor
	err     error
	queries []string
}

func (p *fakeProvider) QuerySensors(hardwareType, sensorType string) ([]BridgeSensor, error) {
	p.queries = append(p.queries, hardwareType+"/"+sensorType)
	if p.err != nil {
		return nil, p.err
	}
	return p.sensors[hardwareType+"/"+sensorType], nil
}

func available(p BridgeProvider) BridgeLocator {
	return func() (BridgeProvider, bool) { return p, true }
}

func unavailable() (BridgeProvider, bool) { return nil, false }

func TestBridgeTemperatureFiltersAggregates(t *testing.T) {
	p := &fakeProvider{sensors: map[string][]BridgeSensor{
		"CPU/Temperature": {
			{Name: "CPU Core #1", Value: 50},
			{Name: "CPU Core #2", Value: 60},
			{Name: "Core Max", Value: 70},
			{Name: "Core Average", Value: 55},
			{Name: "CPU Core #3", Value: 0},
		},
	}}
	b := newBridgeSource(available(p))

	// Max, Average and non-positive sensors are excluded before averaging.
	if got := b.CPUTemperature(); got != 55 {
		t.Errorf("CPUTemperature = %v, want 55", got)
	}
	if len(p.queries) != 1 || p.queries[0] != "CPU/Temperature" {
		t.Errorf("queries = %v, want [CPU/Temperature]", p.queries)
	}
}

func TestBridgeVoltageRequiresVcore(t *testing.T) {
	p := &fakeProvider{sensors: map[string][]BridgeSensor{
		"SuperIO/Voltage": {
			{Name: "+3.3V", Value: 3.31},
			{Name: "CPU VCore", Value: 1.2},
			{Name: "Vcore SoC", Value: 1.0},
			{Name: "vcore stale", Value: 0},
		},
	}}
	b := newBridgeSource(available(p))

	// Case-insensitive vcore match, positive values only, averaged.
	if got := b.CPUVoltage(); math.Abs(got-1.1) > 1e-9 {
		t.Errorf("CPUVoltage = %v, want 1.1", got)
	}
}

func TestBridgeVoltageNoVcoreIsNoData(t *testing.T) {
	p := &fakeProvider{sensors: map[string][]BridgeSensor{
		"SuperIO/Voltage": {{Name: "+12V", Value: 12.1}},
	}}
	b := newBridgeSource(available(p))

	if got := b.CPUVoltage(); got != 0 {
		t.Errorf("CPUVoltage = %v, want 0", got)
	}
}

func TestBridgeFanSpeedsKeepPositiveOnly(t *testing.T) {
	p := &fakeProvider{sensors: map[string][]BridgeSensor{
		"SuperIO/Fan": {
			{Name: "Fan #1", Value: 1444.7},
			{Name: "Fan #2", Value: 0},
			{Name: "Fan #3", Value: 651.2},
		},
	}}
	b := newBridgeSource(available(p))

	got := b.FanSpeeds()
	if len(got) != 2 || got[0] != 1444 || got[1] != 651 {
		t.Errorf("FanSpeeds = %v, want [1444 651]", got)
	}
}

func TestBridgeUnavailableIsNoData(t *testing.T) {
	b := newBridgeSource(unavailable)

	if got := b.CPUTemperature(); got != 0 {
		t.Errorf("CPUTemperature = %v, want 0", got)
	}
	if got := b.FanSpeeds(); len(got) != 0 {
		t.Errorf("FanSpeeds = %v, want empty", got)
	}
	if got := b.CPUVoltage(); got != 0 {
		t.Errorf("CPUVoltage = %v, want 0", got)
	}
}

func TestBridgeQueryErrorIsNoData(t *testing.T) {
	p := &fakeProvider{err: errors.New("helper exited")}
	b := newBridgeSource(available(p))

	if got := b.CPUTemperature(); got != 0 {
		t.Errorf("CPUTemperature = %v, want 0", got)
	}
}
