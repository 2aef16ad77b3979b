package sensors

import (
	"sensoragent/internal/logger"
)

// TemperatureRecord is a raw thermal zone reading. CurrentTemperature is
// in tenths of Kelvin on most firmware, but whole Kelvin occurs in the
// wild; decodeThermalReading disambiguates by magnitude.
type TemperatureRecord struct {
	CurrentTemperature uint32
}

// FanRecord is a raw fan reading with the desired speed in RPM.
type FanRecord struct {
	DesiredSpeed uint64
}

// VoltageRecord is a raw processor voltage reading. CurrentVoltage is a
// bit-packed code; VoltageCaps is a capability bitmask consulted when the
// code does not carry the voltage directly.
type VoltageRecord struct {
	CurrentVoltage uint16
	VoltageCaps    uint32
}

// NativeReader enumerates the built-in OS instrumentation classes. These
// are always queryable but often unpopulated, which is why this source is
// probed last.
type NativeReader interface {
	TemperatureRecords() ([]TemperatureRecord, error)
	FanRecords() ([]FanRecord, error)
	VoltageRecords() ([]VoltageRecord, error)
}

// nativeSource decodes built-in OS instrumentation with fixed rules.
type nativeSource struct {
	reader NativeReader
}

func newNativeSource(reader NativeReader) *nativeSource {
	return &nativeSource{reader: reader}
}

func (n *nativeSource) CPUTemperature() float64 {
	log := logger.WithComponent("sensors-native")
	records, err := n.reader.TemperatureRecords()
	if err != nil {
		log.Warn().Err(err).Msg("thermal zone query failed")
		return 0
	}
	if len(records) == 0 {
		return 0
	}
	log.Debug().Int("count", len(records)).Msg("found temperature data in OS instrumentation")
	return decodeThermalReading(records[0].CurrentTemperature)
}

func (n *nativeSource) FanSpeeds() []int {
	log := logger.WithComponent("sensors-native")
	records, err := n.reader.FanRecords()
	if err != nil {
		log.Warn().Err(err).Msg("fan query failed")
		return nil
	}
	// A single record is a firmware placeholder, not real data.
	if len(records) <= 1 {
		return nil
	}
	log.Debug().Int("count", len(records)).Msg("found fan data in OS instrumentation")
	speeds := make([]int, 0, len(records))
	for _, r := range records {
		speeds = append(speeds, int(r.DesiredSpeed))
	}
	return speeds
}

func (n *nativeSource) CPUVoltage() float64 {
	log := logger.WithComponent("sensors-native")
	records, err := n.reader.VoltageRecords()
	if err != nil {
		log.Warn().Err(err).Msg("voltage query failed")
		return 0
	}
	// Same placeholder rule as fans.
	if len(records) <= 1 {
		return 0
	}
	log.Debug().Int("count", len(records)).Msg("found voltage data in OS instrumentation")
	return decodeProcessorVoltage(records[0].CurrentVoltage, records[0].VoltageCaps)
}

// decodeThermalReading converts a raw thermal zone value to °C. Firmware
// disagrees on units, so the magnitude decides: values above 2732 are
// tenths of Kelvin, values above 274 are whole Kelvin, anything lower is
// an unpopulated sensor. Results below zero are clamped to 0.
func decodeThermalReading(raw uint32) float64 {
	var celsius float64
	switch {
	case raw > 2732:
		celsius = float64(raw)/10 - 273.15
	case raw > 274:
		celsius = float64(raw) - 273
	}
	if celsius < 0 {
		return 0
	}
	return celsius
}

// decodeProcessorVoltage converts the packed CurrentVoltage code to volts.
// If bit 7 is set, bits 0-6 carry the voltage in tenths of a volt. If bit 7
// is clear and the code is nonzero, the capability bitmask names one of the
// supported nominal voltages instead. A zero code means unknown.
func decodeProcessorVoltage(code uint16, caps uint32) float64 {
	if code == 0 {
		return 0
	}
	if code&0x80 != 0 {
		return float64(code&0x7F) / 10
	}
	switch {
	case caps&0x1 != 0:
		return 5.0
	case caps&0x2 != 0:
		return 3.3
	case caps&0x4 != 0:
		return 2.9
	}
	return 0
}
