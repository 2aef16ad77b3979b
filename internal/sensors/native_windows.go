//go:build windows

package sensors

import (
	"fmt"

	"github.com/yusufpapurcu/wmi"
)

// wmiNativeReader reads the stock WMI instrumentation classes. These exist
// on every Windows installation but firmware populates them sparsely:
// Win32_TemperatureProbe is officially "reserved for future use", so the
// thermal zone class is used instead.
type wmiNativeReader struct{}

func (wmiNativeReader) TemperatureRecords() ([]TemperatureRecord, error) {
	var dst []struct {
		CurrentTemperature uint32
	}
	err := wmi.QueryNamespace("SELECT CurrentTemperature FROM MSAcpi_ThermalZoneTemperature", &dst, `root\wmi`)
	if err != nil {
		return nil, fmt.Errorf("query thermal zones: %w", err)
	}

	records := make([]TemperatureRecord, 0, len(dst))
	for _, row := range dst {
		records = append(records, TemperatureRecord{CurrentTemperature: row.CurrentTemperature})
	}
	return records, nil
}

func (wmiNativeReader) FanRecords() ([]FanRecord, error) {
	var dst []struct {
		DesiredSpeed uint64
	}
	if err := wmi.Query("SELECT DesiredSpeed FROM Win32_Fan", &dst); err != nil {
		return nil, fmt.Errorf("query fans: %w", err)
	}

	records := make([]FanRecord, 0, len(dst))
	for _, row := range dst {
		records = append(records, FanRecord{DesiredSpeed: row.DesiredSpeed})
	}
	return records, nil
}

func (wmiNativeReader) VoltageRecords() ([]VoltageRecord, error) {
	var dst []struct {
		CurrentVoltage uint16
		VoltageCaps    uint32
	}
	if err := wmi.Query("SELECT CurrentVoltage, VoltageCaps FROM Win32_Processor", &dst); err != nil {
		return nil, fmt.Errorf("query processor voltage: %w", err)
	}

	records := make([]VoltageRecord, 0, len(dst))
	for _, row := range dst {
		records = append(records, VoltageRecord{CurrentVoltage: row.CurrentVoltage, VoltageCaps: row.VoltageCaps})
	}
	return records, nil
}
