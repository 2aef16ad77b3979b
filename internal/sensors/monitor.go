package sensors

import (
	"strings"

	"sensoragent/internal/logger"
)

// BusClient creates sessions against the platform instrumentation bus used
// by the hardware-monitoring daemon (Open Hardware Monitor or Libre
// Hardware Monitor running in OHM-compatibility mode).
type BusClient interface {
	CreateSession() (BusSession, error)
}

// BusSession is a call-scoped connection to the instrumentation bus.
// Init is idempotent: it reports whether this call performed the
// initialization, so Teardown can be paired exactly once.
type BusSession interface {
	// Init prepares the session. The returned bool is true only when this
	// call did the initialization; the caller must call Teardown iff it
	// is true, on every exit path.
	Init() (bool, error)

	// QueryIdentifiers returns the identifier strings of instances of the
	// given category ("Hardware" or "Sensor") matching the given type.
	// An empty result means the daemon has no such hardware, not an error.
	QueryIdentifiers(category, typeName string) ([]string, error)

	// QuerySensorValues returns the numeric values of all sensors of the
	// given kind attached to the identified component.
	QuerySensorValues(identifier, kind string) ([]float64, error)

	// Teardown releases the session. Safe to call once after a
	// successful Init that performed initialization.
	Teardown()
}

// monitorSource queries the hardware-monitoring daemon. It is the most
// accurate source when the daemon is running, and probing it when it is
// not costs almost nothing.
type monitorSource struct {
	bus BusClient
}

func newMonitorSource(bus BusClient) *monitorSource {
	return &monitorSource{bus: bus}
}

func (m *monitorSource) CPUTemperature() float64 {
	vals := m.querySensors("Hardware", "CPU", "Temperature", pickFirst)
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func (m *monitorSource) FanSpeeds() []int {
	vals := m.querySensors("Hardware", "CPU", "Fan", pickFirst)
	speeds := make([]int, 0, len(vals))
	for _, v := range vals {
		speeds = append(speeds, int(v))
	}
	return speeds
}

func (m *monitorSource) CPUVoltage() float64 {
	vals := m.querySensors("Sensor", "Voltage", "Voltage", pickCPU)
	if len(vals) == 0 {
		return 0
	}
	return vals[0]
}

// pickFirst selects the first identifier with a non-empty id string.
func pickFirst(ids []string) string {
	for _, id := range ids {
		if id != "" {
			return id
		}
	}
	return ""
}

// pickCPU prefers an identifier containing "cpu" (any case), falling back
// to the first identifier. Voltage sensors are not tied to a hardware
// category so the CPU one has to be found by name.
func pickCPU(ids []string) string {
	for _, id := range ids {
		if strings.Contains(strings.ToLower(id), "cpu") {
			return id
		}
	}
	if len(ids) > 0 {
		return ids[0]
	}
	return ""
}

// querySensors runs one session-scoped query: acquire, find identifiers,
// fetch values for the picked identifier, release. The session is torn
// down on every exit path, paired with the Init that created it. Any bus
// failure is logged and reported as "no data".
func (m *monitorSource) querySensors(category, typeName, kind string, pick func([]string) string) []float64 {
	log := logger.WithComponent("sensors-monitor")

	sess, err := m.bus.CreateSession()
	if err != nil {
		log.Warn().Err(err).Msg("instrumentation bus unavailable")
		return nil
	}

	didInit := false
	defer func() {
		if didInit {
			sess.Teardown()
		}
	}()

	didInit, err = sess.Init()
	if err != nil {
		log.Warn().Err(err).Msg("instrumentation bus init failed")
		return nil
	}

	ids, err := sess.QueryIdentifiers(category, typeName)
	if err != nil {
		log.Warn().Err(err).Str("category", category).Msg("identifier query failed")
		return nil
	}
	if len(ids) == 0 {
		return nil
	}

	id := pick(ids)
	if id == "" {
		return nil
	}

	vals, err := sess.QuerySensorValues(id, kind)
	if err != nil {
		log.Warn().Err(err).Str("kind", kind).Msg("sensor value query failed")
		return nil
	}
	if len(vals) > 0 {
		log.Debug().Str("kind", kind).Int("count", len(vals)).Msg("found data in hardware monitor")
	}
	return vals
}
