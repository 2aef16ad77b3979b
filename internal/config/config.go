// Package config provides configuration management for the SensorAgent.
package config

import (
	"time"

	"sensoragent/internal/logger"
)

// Config is the root configuration structure.
type Config struct {
	Agent      AgentConfig                `json:"Agent"`
	SenderType string                     `json:"SenderType"` // "kafka", "redis", or "file"
	Kafka      KafkaConfig                `json:"Kafka"`
	Redis      RedisConfig                `json:"Redis"`
	File       FileConfig                 `json:"File"`
	SOCKSProxy SOCKSConfig                `json:"SocksProxy"`
	Collectors map[string]CollectorConfig `json:"Collectors"`
	Logging    logger.Config              `json:"Logging"`
}

// AgentConfig identifies this agent in emitted metrics.
type AgentConfig struct {
	ID   string            `json:"ID"`
	Tags map[string]string `json:"Tags,omitempty"`
}

// FileConfig contains settings for the file sender.
type FileConfig struct {
	FilePath   string `json:"FilePath"`
	MaxSizeMB  int    `json:"MaxSizeMB"`
	MaxBackups int    `json:"MaxBackups"`
	Console    bool   `json:"Console"`
	Pretty     bool   `json:"Pretty"`
}

// KafkaConfig contains Kafka connection settings.
type KafkaConfig struct {
	Brokers        []string      `json:"Brokers"`
	Topic          string        `json:"Topic"`
	Compression    string        `json:"Compression"`
	RequiredAcks   int           `json:"RequiredAcks"`
	MaxRetries     int           `json:"MaxRetries"`
	RetryBackoff   time.Duration `json:"RetryBackoff"`
	FlushFrequency time.Duration `json:"FlushFrequency"`
	FlushMessages  int           `json:"FlushMessages"`
	BatchSize      int           `json:"BatchSize"`
	Timeout        time.Duration `json:"Timeout"`
	EnableTLS      bool          `json:"EnableTLS"`
	TLSCertFile    string        `json:"TLSCertFile"`
	TLSKeyFile     string        `json:"TLSKeyFile"`
	TLSCAFile      string        `json:"TLSCAFile"`
	SASLEnabled    bool          `json:"SASLEnabled"`
	SASLMechanism  string        `json:"SASLMechanism"`
	SASLUser       string        `json:"SASLUser"`
	SASLPassword   string        `json:"SASLPassword"`
}

// RedisConfig contains settings for the Redis sender.
type RedisConfig struct {
	Addr      string `json:"Addr"`
	Password  string `json:"Password"`
	DB        int    `json:"DB"`
	KeyPrefix string `json:"KeyPrefix"`
	Channel   string `json:"Channel"`
}

// SOCKSConfig contains SOCKS5 proxy settings.
type SOCKSConfig struct {
	Host string `json:"Host"`
	Port int    `json:"Port"`
}

// CollectorConfig contains settings for individual collectors.
type CollectorConfig struct {
	Enabled  bool          `json:"Enabled"`
	Interval time.Duration `json:"Interval"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		SenderType: "file",
		File: FileConfig{
			FilePath:   "log/sensoragent/metrics.jsonl",
			MaxSizeMB:  50,
			MaxBackups: 3,
			Console:    true,
		},
		Kafka: KafkaConfig{
			Brokers:        []string{"localhost:9092"},
			Topic:          "hardware-sensors",
			Compression:    "snappy",
			RequiredAcks:   1,
			MaxRetries:     3,
			RetryBackoff:   100 * time.Millisecond,
			FlushFrequency: 500 * time.Millisecond,
			FlushMessages:  100,
			BatchSize:      16384,
			Timeout:        10 * time.Second,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "sensoragent",
			Channel:   "sensoragent:readings",
		},
		Collectors: map[string]CollectorConfig{
			"temperature": {Enabled: true, Interval: 10 * time.Second},
			"fan":         {Enabled: true, Interval: 30 * time.Second},
			"voltage":     {Enabled: true, Interval: 30 * time.Second},
		},
		Logging: logger.DefaultConfig(),
	}
}

// Merge applies non-zero values from other to this config.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Agent.ID != "" {
		c.Agent.ID = other.Agent.ID
	}
	if len(other.Agent.Tags) > 0 {
		c.Agent.Tags = other.Agent.Tags
	}
	if other.SenderType != "" {
		c.SenderType = other.SenderType
	}

	if other.File.FilePath != "" {
		c.File.FilePath = other.File.FilePath
	}
	if other.File.MaxSizeMB != 0 {
		c.File.MaxSizeMB = other.File.MaxSizeMB
	}
	if other.File.MaxBackups != 0 {
		c.File.MaxBackups = other.File.MaxBackups
	}
	c.File.Console = other.File.Console
	c.File.Pretty = other.File.Pretty

	if len(other.Kafka.Brokers) > 0 {
		c.Kafka.Brokers = other.Kafka.Brokers
	}
	if other.Kafka.Topic != "" {
		c.Kafka.Topic = other.Kafka.Topic
	}
	if other.Kafka.Compression != "" {
		c.Kafka.Compression = other.Kafka.Compression
	}
	if other.Kafka.RequiredAcks != 0 {
		c.Kafka.RequiredAcks = other.Kafka.RequiredAcks
	}
	if other.Kafka.MaxRetries != 0 {
		c.Kafka.MaxRetries = other.Kafka.MaxRetries
	}
	if other.Kafka.RetryBackoff != 0 {
		c.Kafka.RetryBackoff = other.Kafka.RetryBackoff
	}
	if other.Kafka.FlushFrequency != 0 {
		c.Kafka.FlushFrequency = other.Kafka.FlushFrequency
	}
	if other.Kafka.FlushMessages != 0 {
		c.Kafka.FlushMessages = other.Kafka.FlushMessages
	}
	if other.Kafka.BatchSize != 0 {
		c.Kafka.BatchSize = other.Kafka.BatchSize
	}
	if other.Kafka.Timeout != 0 {
		c.Kafka.Timeout = other.Kafka.Timeout
	}
	c.Kafka.EnableTLS = other.Kafka.EnableTLS
	if other.Kafka.TLSCertFile != "" {
		c.Kafka.TLSCertFile = other.Kafka.TLSCertFile
	}
	if other.Kafka.TLSKeyFile != "" {
		c.Kafka.TLSKeyFile = other.Kafka.TLSKeyFile
	}
	if other.Kafka.TLSCAFile != "" {
		c.Kafka.TLSCAFile = other.Kafka.TLSCAFile
	}
	c.Kafka.SASLEnabled = other.Kafka.SASLEnabled
	if other.Kafka.SASLMechanism != "" {
		c.Kafka.SASLMechanism = other.Kafka.SASLMechanism
	}
	if other.Kafka.SASLUser != "" {
		c.Kafka.SASLUser = other.Kafka.SASLUser
	}
	if other.Kafka.SASLPassword != "" {
		c.Kafka.SASLPassword = other.Kafka.SASLPassword
	}

	if other.Redis.Addr != "" {
		c.Redis.Addr = other.Redis.Addr
	}
	if other.Redis.Password != "" {
		c.Redis.Password = other.Redis.Password
	}
	if other.Redis.DB != 0 {
		c.Redis.DB = other.Redis.DB
	}
	if other.Redis.KeyPrefix != "" {
		c.Redis.KeyPrefix = other.Redis.KeyPrefix
	}
	if other.Redis.Channel != "" {
		c.Redis.Channel = other.Redis.Channel
	}

	if other.SOCKSProxy.Host != "" {
		c.SOCKSProxy = other.SOCKSProxy
	}

	if len(other.Collectors) > 0 && c.Collectors == nil {
		c.Collectors = make(map[string]CollectorConfig, len(other.Collectors))
	}
	for name, cc := range other.Collectors {
		c.Collectors[name] = cc
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.FilePath != "" {
		c.Logging.FilePath = other.Logging.FilePath
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxBackups != 0 {
		c.Logging.MaxBackups = other.Logging.MaxBackups
	}
	if other.Logging.MaxAgeDays != 0 {
		c.Logging.MaxAgeDays = other.Logging.MaxAgeDays
	}
	c.Logging.Compress = other.Logging.Compress
	c.Logging.Console = other.Logging.Console
}
