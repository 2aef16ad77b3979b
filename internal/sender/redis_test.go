package sender

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"sensoragent/internal/collector"
	"sensoragent/internal/config"
)

func newTestRedisSender(t *testing.T) (*miniredis.Miniredis, *RedisSender) {
	t.Helper()

	mr := miniredis.RunT(t)
	s, err := NewRedisSender(config.RedisConfig{
		Addr:      mr.Addr(),
		KeyPrefix: "sensoragent",
		Channel:   "sensoragent:readings",
	})
	if err != nil {
		t.Fatalf("NewRedisSender failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	return mr, s
}

func TestRedisSender_Send_StoresLatestValue(t *testing.T) {
	mr, s := newTestRedisSender(t)

	md := tempMetric("temperature", collector.TemperatureData{Celsius: 61.5, Available: true})
	if err := s.Send(context.Background(), md); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	stored, err := mr.Get("sensoragent:temperature")
	if err != nil {
		t.Fatalf("expected key in redis: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(stored), &decoded); err != nil {
		t.Fatalf("stored value is not valid JSON: %v", err)
	}
	if decoded["type"] != "temperature" {
		t.Errorf("expected type 'temperature', got %v", decoded["type"])
	}
	data := decoded["data"].(map[string]interface{})
	if data["celsius"] != 61.5 {
		t.Errorf("expected celsius=61.5, got %v", data["celsius"])
	}
}

func TestRedisSender_Send_OverwritesPreviousReading(t *testing.T) {
	mr, s := newTestRedisSender(t)

	first := tempMetric("voltage", collector.VoltageData{Volts: 1.2, Available: true})
	second := tempMetric("voltage", collector.VoltageData{Volts: 1.3, Available: true})

	if err := s.Send(context.Background(), first); err != nil {
		t.Fatalf("first Send failed: %v", err)
	}
	if err := s.Send(context.Background(), second); err != nil {
		t.Fatalf("second Send failed: %v", err)
	}

	stored, err := mr.Get("sensoragent:voltage")
	if err != nil {
		t.Fatalf("expected key in redis: %v", err)
	}

	var decoded collector.MetricData
	if err := json.Unmarshal([]byte(stored), &decoded); err != nil {
		t.Fatalf("stored value is not valid JSON: %v", err)
	}
	data := decoded.Data.(map[string]interface{})
	if data["volts"] != 1.3 {
		t.Errorf("expected latest reading 1.3, got %v", data["volts"])
	}
}

func TestRedisSender_SendBatch(t *testing.T) {
	mr, s := newTestRedisSender(t)

	batch := []*collector.MetricData{
		tempMetric("temperature", collector.TemperatureData{Celsius: 50, Available: true}),
		tempMetric("fan", collector.FanData{RPM: []int{900, 1100}, Available: true}),
	}

	if err := s.SendBatch(context.Background(), batch); err != nil {
		t.Fatalf("SendBatch failed: %v", err)
	}

	if _, err := mr.Get("sensoragent:temperature"); err != nil {
		t.Errorf("expected temperature key: %v", err)
	}
	if _, err := mr.Get("sensoragent:fan"); err != nil {
		t.Errorf("expected fan key: %v", err)
	}
}

func TestRedisSender_SendAfterClose(t *testing.T) {
	_, s := newTestRedisSender(t)

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

func TestRedisSender_NoChannelSkipsPublish(t *testing.T) {
	mr := miniredis.RunT(t)
	s, err := NewRedisSender(config.RedisConfig{
		Addr:      mr.Addr(),
		KeyPrefix: "sensoragent",
	})
	if err != nil {
		t.Fatalf("NewRedisSender failed: %v", err)
	}
	defer s.Close()

	md := tempMetric("temperature", collector.TemperatureData{Celsius: 42, Available: true})
	if err := s.Send(context.Background(), md); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	if _, err := mr.Get("sensoragent:temperature"); err != nil {
		t.Errorf("expected key in redis: %v", err)
	}
}
