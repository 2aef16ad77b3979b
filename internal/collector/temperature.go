package collector

import (
	"context"
	"time"
)

// TemperatureCollector reads the CPU temperature from the sensor cascade.
type TemperatureCollector struct {
	BaseCollector
	sensors SensorReader
}

// NewTemperatureCollector creates a new temperature collector.
func NewTemperatureCollector(sensors SensorReader) *TemperatureCollector {
	return &TemperatureCollector{
		BaseCollector: NewBaseCollector("temperature", 10*time.Second),
		sensors:       sensors,
	}
}

// Collect gathers the current CPU temperature.
func (c *TemperatureCollector) Collect(ctx context.Context) (*MetricData, error) {
	celsius := c.sensors.CPUTemperature()

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data: TemperatureData{
			Celsius:   celsius,
			Available: celsius > 0,
		},
	}, nil
}
