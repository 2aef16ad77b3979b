package sensors

import (
	"strings"

	"sensoragent/internal/logger"
)

// BridgeSensor is one sensor reported by the monitoring helper library.
type BridgeSensor struct {
	Name  string
	Value float64
}

// BridgeProvider is the capability exposed by the optional monitoring
// helper once it has been resolved.
type BridgeProvider interface {
	// QuerySensors returns the sensors of the given hardware and sensor
	// type, in the order the helper reports them (not stable across calls).
	QuerySensors(hardwareType, sensorType string) ([]BridgeSensor, error)
}

// BridgeLocator resolves the monitoring helper. The helper is an optional
// component that is frequently absent; ok=false is the normal way that
// absence manifests and is not an error.
type BridgeLocator func() (provider BridgeProvider, ok bool)

// bridgeSource queries the optional monitoring helper. It needs no daemon
// but the helper may not be installed at all, so every call resolves the
// provider first and treats "unavailable" as an ordinary empty result.
type bridgeSource struct {
	locate BridgeLocator
}

func newBridgeSource(locate BridgeLocator) *bridgeSource {
	return &bridgeSource{locate: locate}
}

func (b *bridgeSource) CPUTemperature() float64 {
	return b.average("CPU", "Temperature", func(name string, value float64) bool {
		// Max and Average are aggregates over the per-core sensors and
		// would skew the mean.
		return !strings.Contains(name, "Max") && !strings.Contains(name, "Average") && value > 0
	})
}

func (b *bridgeSource) CPUVoltage() float64 {
	return b.average("SuperIO", "Voltage", func(name string, value float64) bool {
		return strings.Contains(strings.ToLower(name), "vcore") && value > 0
	})
}

func (b *bridgeSource) FanSpeeds() []int {
	readings := b.query("SuperIO", "Fan")
	speeds := make([]int, 0, len(readings))
	for _, r := range readings {
		if r.Value > 0 {
			speeds = append(speeds, int(r.Value))
		}
	}
	return speeds
}

// average returns the mean of the sensor values accepted by valid,
// or 0 when none qualify.
func (b *bridgeSource) average(hardwareType, sensorType string, valid func(string, float64) bool) float64 {
	readings := b.query(hardwareType, sensorType)
	sum := 0.0
	count := 0
	for _, r := range readings {
		if valid(r.Name, r.Value) {
			sum += r.Value
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func (b *bridgeSource) query(hardwareType, sensorType string) []BridgeSensor {
	provider, ok := b.locate()
	if !ok {
		// Helper not installed; expected on most machines.
		return nil
	}

	log := logger.WithComponent("sensors-bridge")
	readings, err := provider.QuerySensors(hardwareType, sensorType)
	if err != nil {
		log.Warn().Err(err).
			Str("hardware_type", hardwareType).
			Str("sensor_type", sensorType).
			Msg("monitoring helper query failed")
		return nil
	}
	if len(readings) > 0 {
		log.Debug().
			Str("sensor_type", sensorType).
			Int("count", len(readings)).
			Msg("found data in monitoring helper")
	}
	return readings
}
