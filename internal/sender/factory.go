package sender

import (
	"fmt"
	"strings"

	"sensoragent/internal/config"
	"sensoragent/internal/logger"
)

// NewSender creates a Sender based on the configuration.
func NewSender(cfg *config.Config) (Sender, error) {
	log := logger.WithComponent("sender-factory")

	senderType := strings.ToLower(cfg.SenderType)
	if senderType == "" {
		senderType = "file"
	}

	log.Info().
		Str("sender_type", senderType).
		Msg("Creating sender")

	switch senderType {
	case "kafka":
		return NewKafkaSender(cfg.Kafka, cfg.SOCKSProxy)
	case "redis":
		return NewRedisSender(cfg.Redis)
	case "file":
		return NewFileSender(cfg.File)
	default:
		return nil, fmt.Errorf("unknown sender type: %s (supported: kafka, redis, file)", senderType)
	}
}
