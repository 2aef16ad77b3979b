package collector

import (
	"context"
	"time"
)

// FanCollector reads fan speeds from the sensor cascade.
type FanCollector struct {
	BaseCollector
	sensors SensorReader
}

// NewFanCollector creates a new fan speed collector.
func NewFanCollector(sensors SensorReader) *FanCollector {
	return &FanCollector{
		BaseCollector: NewBaseCollector("fan", 30*time.Second),
		sensors:       sensors,
	}
}

// Collect gathers the current fan speeds.
func (c *FanCollector) Collect(ctx context.Context) (*MetricData, error) {
	rpm := c.sensors.FanSpeeds()
	if rpm == nil {
		rpm = []int{}
	}

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data: FanData{
			RPM:       rpm,
			Available: len(rpm) > 0,
		},
	}, nil
}
