// Package collector provides interfaces and implementations for hardware sensor collection.
package collector

import (
	"context"
	"time"

	"sensoragent/internal/config"
)

// Collector defines the interface for all metric collectors.
type Collector interface {
	// Name returns the unique identifier for this collector.
	Name() string

	// Collect gathers metrics and returns the collected data.
	Collect(ctx context.Context) (*MetricData, error)

	// Configure applies the given configuration to the collector.
	Configure(cfg config.CollectorConfig) error

	// Interval returns the collection interval for this collector.
	Interval() time.Duration

	// Enabled returns whether the collector is enabled.
	Enabled() bool
}

// SensorReader exposes the hardware sensor readings the collectors draw from.
// It never fails; a reading of 0 (or an empty slice) means no source could
// produce usable data.
type SensorReader interface {
	CPUTemperature() float64
	FanSpeeds() []int
	CPUVoltage() float64
}

// BaseCollector provides common functionality for all collectors.
type BaseCollector struct {
	name     string
	interval time.Duration
	enabled  bool
}

// NewBaseCollector creates a new BaseCollector with the given name and interval.
func NewBaseCollector(name string, interval time.Duration) BaseCollector {
	return BaseCollector{
		name:     name,
		interval: interval,
		enabled:  true,
	}
}

// Name returns the collector name.
func (b *BaseCollector) Name() string {
	return b.name
}

// Interval returns the collection interval.
func (b *BaseCollector) Interval() time.Duration {
	return b.interval
}

// Enabled returns whether the collector is enabled.
func (b *BaseCollector) Enabled() bool {
	return b.enabled
}

// SetInterval sets the collection interval.
func (b *BaseCollector) SetInterval(d time.Duration) {
	b.interval = d
}

// SetEnabled sets whether the collector is enabled.
func (b *BaseCollector) SetEnabled(enabled bool) {
	b.enabled = enabled
}

// Configure applies the shared configuration fields.
func (b *BaseCollector) Configure(cfg config.CollectorConfig) error {
	b.SetEnabled(cfg.Enabled)
	if cfg.Interval > 0 {
		b.SetInterval(cfg.Interval)
	}
	return nil
}
