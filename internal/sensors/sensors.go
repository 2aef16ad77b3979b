// Package sensors provides best-effort retrieval of CPU temperature, fan
// speeds and CPU voltage from whichever hardware data source is available.
//
// Each metric cascades over three sources in order of expected accuracy:
// a running hardware-monitoring daemon, an optional in-process monitoring
// helper, and built-in OS instrumentation. The first source that yields a
// usable value wins. When no source has data the zero value (0.0 or an
// empty slice) is returned; absence of hardware support is a normal outcome,
// not an error, so there is no error channel on the public surface.
package sensors

// Source is a single hardware data source able to answer all three metric
// queries. Implementations must absorb their own failures and report
// "no data" (0 or empty) instead; they must also be safe for concurrent
// use, holding no mutable state beyond call-scoped sessions.
type Source interface {
	// CPUTemperature returns the CPU temperature in degrees Celsius,
	// or 0.0 when the source has no data.
	CPUTemperature() float64

	// FanSpeeds returns fan speeds in RPM, or an empty slice when the
	// source has no data.
	FanSpeeds() []int

	// CPUVoltage returns the CPU voltage in volts, or 0.0 when the
	// source has no data.
	CPUVoltage() float64
}

// Sensors answers sensor queries by falling through an ordered list of
// sources. The zero value is not usable; construct with New.
type Sensors struct {
	sources []Source
}

// New returns a Sensors backed by the platform default sources: the
// hardware-monitor daemon first, then the optional monitoring helper,
// then native OS instrumentation.
func New() *Sensors {
	return &Sensors{sources: defaultSources()}
}

// NewWithSources returns a Sensors that cascades over the given sources
// in order. Used by callers that need to restrict or reorder probing.
func NewWithSources(sources ...Source) *Sensors {
	return &Sensors{sources: sources}
}

// CPUTemperature returns the CPU temperature in °C from the first source
// reporting a positive value, or 0.0 when no source has data.
func (s *Sensors) CPUTemperature() float64 {
	for _, src := range s.sources {
		if t := src.CPUTemperature(); t > 0 {
			return t
		}
	}
	return 0
}

// FanSpeeds returns fan speeds in RPM from the first source reporting a
// non-empty result, or an empty slice when no source has data.
func (s *Sensors) FanSpeeds() []int {
	for _, src := range s.sources {
		if speeds := src.FanSpeeds(); len(speeds) > 0 {
			return speeds
		}
	}
	return []int{}
}

// CPUVoltage returns the CPU voltage in volts from the first source
// reporting a positive value, or 0.0 when no source has data.
func (s *Sensors) CPUVoltage() float64 {
	for _, src := range s.sources {
		if v := src.CPUVoltage(); v > 0 {
			return v
		}
	}
	return 0
}
