package protection

import (
	"code.bbsnetwork.io/lm/config/encoding"
	"code.bbsnetwork.io/lm/logging"
)

const namedLogger = "protection"

// Config represents the configuration of the liquidity protection engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
