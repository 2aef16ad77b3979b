//go:build linux || darwin

package sensors

import (
	"context"
	"strings"

	"github.com/shirou/gopsutil/v3/host"

	"sensoragent/internal/logger"
)

// defaultSources on Unix: gopsutil's sensor enumeration first, then the
// hwmon sysfs tree. The LhmBridge helper is Windows-only, so the bridge
// resolves to unavailable; keeping it in the cascade preserves the probing
// order across platforms.
func defaultSources() []Source {
	return []Source{
		newGopsutilSource(),
		newBridgeSource(func() (BridgeProvider, bool) { return nil, false }),
		newHwmonSource("/sys/class/hwmon", "/sys/class/thermal"),
	}
}

// gopsutilSource reads the kernel's sensor view via gopsutil. It is the
// richest Unix source but only covers temperature.
type gopsutilSource struct{}

func newGopsutilSource() *gopsutilSource {
	return &gopsutilSource{}
}

func (g *gopsutilSource) CPUTemperature() float64 {
	temps, err := host.SensorsTemperaturesWithContext(context.Background())
	if err != nil {
		// Sensors may simply not exist on this system.
		return 0
	}

	sum, count := sumCPUTemps(temps, true)
	if count == 0 {
		// No CPU-labeled sensor; fall back to anything plausible.
		sum, count = sumCPUTemps(temps, false)
	}
	if count == 0 {
		return 0
	}
	log := logger.WithComponent("sensors-monitor")
	log.Debug().Int("count", count).Msg("found temperature data in kernel sensors")
	return sum / float64(count)
}

func (g *gopsutilSource) FanSpeeds() []int { return nil }

func (g *gopsutilSource) CPUVoltage() float64 { return 0 }

// sumCPUTemps totals readings in the plausible range, optionally limited
// to sensors whose key names a CPU.
func sumCPUTemps(temps []host.TemperatureStat, cpuOnly bool) (sum float64, count int) {
	for _, t := range temps {
		if t.Temperature <= 0 || t.Temperature > 200 {
			continue
		}
		if cpuOnly && !isCPUSensorKey(t.SensorKey) {
			continue
		}
		sum += t.Temperature
		count++
	}
	return sum, count
}

func isCPUSensorKey(key string) bool {
	key = strings.ToLower(key)
	for _, marker := range []string{"coretemp", "k10temp", "cpu", "package"} {
		if strings.Contains(key, marker) {
			return true
		}
	}
	return false
}
