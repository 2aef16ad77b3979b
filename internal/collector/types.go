package collector

import "time"

// MetricData is the common wrapper for all collected metrics.
type MetricData struct {
	Type      string            `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	AgentID   string            `json:"agent_id"`
	Hostname  string            `json:"hostname"`
	Tags      map[string]string `json:"tags,omitempty"`
	Data      interface{}       `json:"data"`
}

// TemperatureData contains the CPU temperature reading.
type TemperatureData struct {
	// Celsius is 0 when no source could produce a usable reading.
	Celsius   float64 `json:"celsius"`
	Available bool    `json:"available"`
}

// FanData contains fan speed readings.
type FanData struct {
	// RPM is empty when no source could produce a usable reading.
	RPM       []int `json:"rpm"`
	Available bool  `json:"available"`
}

// VoltageData contains the CPU voltage reading.
type VoltageData struct {
	// Volts is 0 when no source could produce a usable reading.
	Volts     float64 `json:"volts"`
	Available bool    `json:"available"`
}
