package collector

import (
	"context"
	"time"
)

// VoltageCollector reads the CPU core voltage from the sensor cascade.
type VoltageCollector struct {
	BaseCollector
	sensors SensorReader
}

// NewVoltageCollector creates a new voltage collector.
func NewVoltageCollector(sensors SensorReader) *VoltageCollector {
	return &VoltageCollector{
		BaseCollector: NewBaseCollector("voltage", 30*time.Second),
		sensors:       sensors,
	}
}

// Collect gathers the current CPU voltage.
func (c *VoltageCollector) Collect(ctx context.Context) (*MetricData, error) {
	volts := c.sensors.CPUVoltage()

	return &MetricData{
		Type:      c.Name(),
		Timestamp: time.Now(),
		Data: VoltageData{
			Volts:     volts,
			Available: volts > 0,
		},
	}, nil
}
