package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"sensoragent/internal/logger"
)

// rawConfig is used for JSON unmarshaling with duration strings.
type rawConfig struct {
	Agent      AgentConfig                   `json:"Agent"`
	SenderType string                        `json:"SenderType"`
	Kafka      rawKafkaConfig                `json:"Kafka"`
	Redis      RedisConfig                   `json:"Redis"`
	File       FileConfig                    `json:"File"`
	SOCKSProxy SOCKSConfig                   `json:"SocksProxy"`
	Collectors map[string]rawCollectorConfig `json:"Collectors"`
	Logging    logger.Config                 `json:"Logging"`
}

type rawKafkaConfig struct {
	Brokers        []string `json:"Brokers"`
	Topic          string   `json:"Topic"`
	Compression    string   `json:"Compression"`
	RequiredAcks   int      `json:"RequiredAcks"`
	MaxRetries     int      `json:"MaxRetries"`
	RetryBackoff   string   `json:"RetryBackoff"`
	FlushFrequency string   `json:"FlushFrequency"`
	FlushMessages  int      `json:"FlushMessages"`
	BatchSize      int      `json:"BatchSize"`
	Timeout        string   `json:"Timeout"`
	EnableTLS      bool     `json:"EnableTLS"`
	TLSCertFile    string   `json:"TLSCertFile"`
	TLSKeyFile     string   `json:"TLSKeyFile"`
	TLSCAFile      string   `json:"TLSCAFile"`
	SASLEnabled    bool     `json:"SASLEnabled"`
	SASLMechanism  string   `json:"SASLMechanism"`
	SASLUser       string   `json:"SASLUser"`
	SASLPassword   string   `json:"SASLPassword"`
}

type rawCollectorConfig struct {
	Enabled  bool   `json:"Enabled"`
	Interval string `json:"Interval"`
}

// Load reads configuration from the specified file path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses configuration from JSON bytes and merges it over defaults.
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	parsed, err := convertRawConfig(&raw)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	cfg.Merge(parsed)
	return cfg, nil
}

func convertRawConfig(raw *rawConfig) (*Config, error) {
	cfg := &Config{
		Agent:      raw.Agent,
		SenderType: raw.SenderType,
		Redis:      raw.Redis,
		File:       raw.File,
		SOCKSProxy: raw.SOCKSProxy,
		Collectors: make(map[string]CollectorConfig, len(raw.Collectors)),
		Logging:    raw.Logging,
	}

	kafka, err := convertRawKafka(&raw.Kafka)
	if err != nil {
		return nil, err
	}
	cfg.Kafka = *kafka

	for name, rawColl := range raw.Collectors {
		coll, err := convertRawCollector(name, &rawColl)
		if err != nil {
			return nil, err
		}
		cfg.Collectors[name] = *coll
	}

	return cfg, nil
}

func convertRawKafka(raw *rawKafkaConfig) (*KafkaConfig, error) {
	kafka := &KafkaConfig{
		Brokers:       raw.Brokers,
		Topic:         raw.Topic,
		Compression:   raw.Compression,
		RequiredAcks:  raw.RequiredAcks,
		MaxRetries:    raw.MaxRetries,
		FlushMessages: raw.FlushMessages,
		BatchSize:     raw.BatchSize,
		EnableTLS:     raw.EnableTLS,
		TLSCertFile:   raw.TLSCertFile,
		TLSKeyFile:    raw.TLSKeyFile,
		TLSCAFile:     raw.TLSCAFile,
		SASLEnabled:   raw.SASLEnabled,
		SASLMechanism: raw.SASLMechanism,
		SASLUser:      raw.SASLUser,
		SASLPassword:  raw.SASLPassword,
	}

	if raw.RetryBackoff != "" {
		d, err := time.ParseDuration(raw.RetryBackoff)
		if err != nil {
			return nil, fmt.Errorf("invalid RetryBackoff duration: %w", err)
		}
		kafka.RetryBackoff = d
	}

	if raw.FlushFrequency != "" {
		d, err := time.ParseDuration(raw.FlushFrequency)
		if err != nil {
			return nil, fmt.Errorf("invalid FlushFrequency duration: %w", err)
		}
		kafka.FlushFrequency = d
	}

	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid Timeout duration: %w", err)
		}
		kafka.Timeout = d
	}

	return kafka, nil
}

func convertRawCollector(name string, raw *rawCollectorConfig) (*CollectorConfig, error) {
	coll := &CollectorConfig{Enabled: raw.Enabled}

	if raw.Interval != "" {
		d, err := time.ParseDuration(raw.Interval)
		if err != nil {
			return nil, fmt.Errorf("invalid interval for collector %s: %w", name, err)
		}
		coll.Interval = d
	}

	return coll, nil
}
