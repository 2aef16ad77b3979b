//go:build windows

package sensors

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"sensoragent/internal/logger"
)

// helperBridge drives LhmBridge.exe, a small .NET shim around
// LibreHardwareMonitorLib. The library cannot be linked from Go, so the
// shim is located and spawned at runtime; requests and responses are
// single JSON lines over stdin/stdout. A missing shim is the normal way
// the optional library's absence shows up.
//
// The process handle is process-wide: started lazily under the mutex so
// concurrent first callers share a single instance.
type helperBridge struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
	exited chan struct{}
}

var (
	bridgeInstance *helperBridge
	bridgeOnce     sync.Once
)

func sharedBridge() *helperBridge {
	bridgeOnce.Do(func() {
		bridgeInstance = &helperBridge{}
	})
	return bridgeInstance
}

// locateBridge resolves the helper for one query. ok=false means the shim
// is not installed or could not be started, both ordinary outcomes.
func locateBridge() (BridgeProvider, bool) {
	b := sharedBridge()
	if !b.ensureRunning() {
		return nil, false
	}
	return b, true
}

// bridgeRequest asks the shim for sensors of one (hardware, sensor) type
// pair. The shim enables the CPU and motherboard categories on startup.
type bridgeRequest struct {
	HardwareType string `json:"HardwareType"`
	SensorType   string `json:"SensorType"`
}

type bridgeResponse struct {
	Sensors []struct {
		Name  string  `json:"Name"`
		Value float64 `json:"Value"`
	} `json:"Sensors"`
	Error string `json:"error,omitempty"`
}

// QuerySensors implements BridgeProvider over the shim's line protocol.
func (b *helperBridge) QuerySensors(hardwareType, sensorType string) ([]BridgeSensor, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.alive() {
		return nil, fmt.Errorf("bridge helper not running")
	}

	req, err := json.Marshal(bridgeRequest{HardwareType: hardwareType, SensorType: sensorType})
	if err != nil {
		return nil, err
	}
	if _, err := b.stdin.Write(append(req, '\n')); err != nil {
		b.stopLocked()
		return nil, fmt.Errorf("write to bridge helper: %w", err)
	}

	line, err := b.stdout.ReadBytes('\n')
	if err != nil {
		b.stopLocked()
		return nil, fmt.Errorf("read from bridge helper: %w", err)
	}

	var resp bridgeResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("parse bridge helper response: %w", err)
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("bridge helper: %s", resp.Error)
	}

	sensors := make([]BridgeSensor, 0, len(resp.Sensors))
	for _, s := range resp.Sensors {
		sensors = append(sensors, BridgeSensor{Name: s.Name, Value: s.Value})
	}
	return sensors, nil
}

// ensureRunning starts the shim on first use. It does not retry a dead
// process within a call; the next call resolves again from scratch.
func (b *helperBridge) ensureRunning() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.alive() {
		return true
	}
	b.stopLocked()

	log := logger.WithComponent("sensors-bridge")
	path, err := findBridgeHelper()
	if err != nil {
		log.Warn().Err(err).Msg("bridge helper not installed")
		return false
	}
	if err := b.startLocked(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to start bridge helper")
		return false
	}
	return true
}

func (b *helperBridge) alive() bool {
	if b.cmd == nil {
		return false
	}
	select {
	case <-b.exited:
		return false
	default:
		return true
	}
}

func (b *helperBridge) startLocked(path string) error {
	cmd := exec.Command(path, "--daemon")

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		return fmt.Errorf("create stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		return fmt.Errorf("start bridge helper: %w", err)
	}

	b.cmd = cmd
	b.stdin = stdin
	b.stdout = bufio.NewReader(stdout)
	b.exited = make(chan struct{})

	exited := b.exited
	go func() {
		cmd.Wait()
		close(exited)
	}()

	log := logger.WithComponent("sensors-bridge")
	log.Debug().
		Int("pid", cmd.Process.Pid).
		Str("path", path).
		Msg("bridge helper started")
	return nil
}

// stopLocked closes stdin to let the shim exit on its own; it is not
// waited for beyond the exit monitor goroutine.
func (b *helperBridge) stopLocked() {
	if b.stdin != nil {
		b.stdin.Close()
		b.stdin = nil
	}
	b.cmd = nil
	b.stdout = nil
}

// findBridgeHelper searches the usual install locations for the shim.
var findBridgeHelper = func() (string, error) {
	candidates := []string{
		"LhmBridge.exe",
		filepath.Join(".", "utils", "LhmBridge.exe"),
	}

	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append(candidates,
			filepath.Join(exeDir, "LhmBridge.exe"),
			filepath.Join(exeDir, "utils", "LhmBridge.exe"),
		)
	}

	candidates = append(candidates,
		`C:\Program Files\SensorAgent\LhmBridge.exe`,
		`C:\Program Files\SensorAgent\utils\LhmBridge.exe`,
	)

	for _, path := range candidates {
		if fullPath, err := exec.LookPath(path); err == nil {
			return fullPath, nil
		}
	}
	return "", fmt.Errorf("LhmBridge.exe not found")
}
