package mining

import (
	"code.bbsnetwork.io/lm/config/encoding"
	"code.bbsnetwork.io/lm/logging"
)

const namedLogger = "mining"

// Config represents the configuration of the liquidity mining engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
