package sender

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sensoragent/internal/collector"
	"sensoragent/internal/config"
)

var fileTestTimestamp = time.Date(2026, 2, 24, 10, 30, 45, 123000000, time.UTC)

func tempFileConfig(t *testing.T) config.FileConfig {
	t.Helper()
	dir := t.TempDir()
	return config.FileConfig{
		FilePath:   filepath.Join(dir, "metrics.jsonl"),
		MaxSizeMB:  10,
		MaxBackups: 1,
		Console:    false,
		Pretty:     false,
	}
}

func tempMetric(typ string, data interface{}) *collector.MetricData {
	return &collector.MetricData{
		Type:      typ,
		Timestamp: fileTestTimestamp,
		AgentID:   "agent-1",
		Hostname:  "host-1",
		Data:      data,
	}
}

func TestFileSender_Send_WritesJSONLine(t *testing.T) {
	cfg := tempFileConfig(t)
	s, err := NewFileSender(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	md := tempMetric("temperature", collector.TemperatureData{Celsius: 48.5, Available: true})
	if err := s.Send(context.Background(), md); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	raw, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	line := strings.TrimSpace(string(raw))
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if decoded["type"] != "temperature" {
		t.Errorf("expected type 'temperature', got %v", decoded["type"])
	}
	if decoded["agent_id"] != "agent-1" {
		t.Errorf("expected agent_id 'agent-1', got %v", decoded["agent_id"])
	}
	data := decoded["data"].(map[string]interface{})
	if data["celsius"] != 48.5 {
		t.Errorf("expected celsius=48.5, got %v", data["celsius"])
	}
}

func TestFileSender_SendBatch_OneLinePerMetric(t *testing.T) {
	cfg := tempFileConfig(t)
	s, err := NewFileSender(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	batch := []*collector.MetricData{
		tempMetric("temperature", collector.TemperatureData{Celsius: 50, Available: true}),
		tempMetric("fan", collector.FanData{RPM: []int{1200}, Available: true}),
		tempMetric("voltage", collector.VoltageData{Volts: 1.25, Available: true}),
	}

	if err := s.SendBatch(context.Background(), batch); err != nil {
		t.Fatalf("SendBatch failed: %v", err)
	}

	raw, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	for i, line := range lines {
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(line), &decoded); err != nil {
			t.Errorf("line %d is not valid JSON: %v", i, err)
		}
	}
}

func TestFileSender_Pretty_StillValidJSON(t *testing.T) {
	cfg := tempFileConfig(t)
	cfg.Pretty = true

	s, err := NewFileSender(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	md := tempMetric("voltage", collector.VoltageData{Volts: 1.1, Available: true})
	if err := s.Send(context.Background(), md); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	raw, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var decoded collector.MetricData
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("pretty output is not valid JSON: %v", err)
	}
	if decoded.Type != "voltage" {
		t.Errorf("expected type 'voltage', got %q", decoded.Type)
	}
}

func TestFileSender_SendAfterClose(t *testing.T) {
	cfg := tempFileConfig(t)
	s, err := NewFileSender(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}

	md := tempMetric("fan", collector.FanData{RPM: []int{}, Available: false})
	if err := s.Send(context.Background(), md); err == nil {
		t.Error("expected error sending after close, got nil")
	}
}

func TestFileSender_CreatesDirectory(t *testing.T) {
	dir := t.TempDir()
	cfg := config.FileConfig{
		FilePath:  filepath.Join(dir, "nested", "deeper", "metrics.jsonl"),
		MaxSizeMB: 10,
	}

	s, err := NewFileSender(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	md := tempMetric("temperature", collector.TemperatureData{})
	if err := s.Send(context.Background(), md); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, err := os.Stat(cfg.FilePath); err != nil {
		t.Errorf("expected output file to exist: %v", err)
	}
}
