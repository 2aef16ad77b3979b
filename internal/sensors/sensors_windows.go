//go:build windows

package sensors

// defaultSources probes the OHM/LHM daemon over WMI first, then the
// LhmBridge helper, then the stock WMI instrumentation classes.
func defaultSources() []Source {
	return []Source{
		newMonitorSource(wmiBusClient{}),
		newBridgeSource(locateBridge),
		newNativeSource(wmiNativeReader{}),
	}
}
