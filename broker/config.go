package broker

import (
	"code.bbsnetwork.io/lm/config/encoding"
	"code.bbsnetwork.io/lm/logging"
)

const namedLogger = "broker"

// Config represents the configuration of the broker.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// LogEvents writes every event sent at debug level.
	LogEvents encoding.Bool `long:"log-events" description:"log every event sent through the broker"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:     encoding.LogLevel{Level: logging.InfoLevel},
		LogEvents: false,
	}
}
