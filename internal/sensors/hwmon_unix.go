//go:build linux || darwin

package sensors

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
)

// hwmonSource is the Unix last-resort source, reading fan tachometers from
// the hwmon sysfs tree and temperature from thermal zones. Darwin has no
// sysfs, so everything reports no data there.
type hwmonSource struct {
	hwmonPath   string
	thermalPath string
}

func newHwmonSource(hwmonPath, thermalPath string) *hwmonSource {
	return &hwmonSource{hwmonPath: hwmonPath, thermalPath: thermalPath}
}

func (h *hwmonSource) CPUTemperature() float64 {
	if runtime.GOOS == "darwin" {
		return 0
	}

	zones, err := filepath.Glob(filepath.Join(h.thermalPath, "thermal_zone*", "temp"))
	if err != nil || len(zones) == 0 {
		return 0
	}

	// Thermal zone values are millidegrees Celsius.
	for _, zone := range zones {
		raw, err := readSysfsInt(zone)
		if err != nil {
			continue
		}
		celsius := float64(raw) / 1000
		if celsius > 0 && celsius <= 200 {
			return celsius
		}
	}
	return 0
}

func (h *hwmonSource) FanSpeeds() []int {
	if runtime.GOOS == "darwin" {
		return nil
	}

	entries, err := os.ReadDir(h.hwmonPath)
	if err != nil {
		return nil
	}

	var speeds []int
	for _, entry := range entries {
		if !entry.IsDir() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		fanFiles, err := filepath.Glob(filepath.Join(h.hwmonPath, entry.Name(), "fan*_input"))
		if err != nil {
			continue
		}
		for _, fanFile := range fanFiles {
			rpm, err := readSysfsInt(fanFile)
			if err != nil || rpm < 0 {
				continue
			}
			speeds = append(speeds, int(rpm))
		}
	}
	return speeds
}

func (h *hwmonSource) CPUVoltage() float64 {
	// Voltage rails in hwmon are board-specific and unlabeled too often
	// to decode reliably.
	return 0
}

func readSysfsInt(path string) (int64, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
}
