//go:build windows

package sensors

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

// Namespace published by Open Hardware Monitor and by Libre Hardware
// Monitor's OHM-compatible WMI provider.
const ohmNamespace = `root\OpenHardwareMonitor`

// ohmIdentifier matches the Identifier column of the Hardware and Sensor
// classes in the OHM namespace.
type ohmIdentifier struct {
	Identifier string
}

// ohmValue matches the Value column of the Sensor class.
type ohmValue struct {
	Value float32
}

// wmiBusClient creates WMI-backed bus sessions.
type wmiBusClient struct{}

func (wmiBusClient) CreateSession() (BusSession, error) {
	return &wmiBusSession{}, nil
}

// wmiBusSession wraps an SWbemServices connection. The connection is
// created by Init and must be closed by Teardown exactly once; both are
// scoped to a single sensor query.
type wmiBusSession struct {
	services *wmi.SWbemServices
}

func (s *wmiBusSession) Init() (bool, error) {
	if s.services != nil {
		return false, nil
	}
	services, err := wmi.InitializeSWbemServices(wmi.DefaultClient)
	if err != nil {
		return false, fmt.Errorf("initialize WMI services: %w", err)
	}
	s.services = services
	return true, nil
}

func (s *wmiBusSession) QueryIdentifiers(category, typeName string) ([]string, error) {
	// Both classes name their type column after the class: Hardware has
	// HardwareType, Sensor has SensorType.
	query := fmt.Sprintf("SELECT Identifier FROM %s WHERE %sType = '%s'", category, category, typeName)

	var dst []ohmIdentifier
	if err := s.services.Query(query, &dst, nil, ohmNamespace); err != nil {
		return nil, fmt.Errorf("query %s identifiers: %w", category, err)
	}

	ids := make([]string, 0, len(dst))
	for _, row := range dst {
		ids = append(ids, row.Identifier)
	}
	return ids, nil
}

func (s *wmiBusSession) QuerySensorValues(identifier, kind string) ([]float64, error) {
	query := fmt.Sprintf("SELECT Value FROM Sensor WHERE Parent = '%s' AND SensorType = '%s'", identifier, kind)

	var dst []ohmValue
	if err := s.services.Query(query, &dst, nil, ohmNamespace); err != nil {
		return nil, fmt.Errorf("query %s values: %w", kind, err)
	}

	vals := make([]float64, 0, len(dst))
	for _, row := range dst {
		vals = append(vals, float64(row.Value))
	}
	return vals, nil
}

func (s *wmiBusSession) Teardown() {
	if s.services != nil {
		s.services.Close()
		s.services = nil
	}
}
