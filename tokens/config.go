package tokens

import (
	"code.bbsnetwork.io/lm/config/encoding"
	"code.bbsnetwork.io/lm/logging"
)

const namedLogger = "tokens"

// Config represents the configuration of the token ledger.
type Config struct {
	Level  encoding.LogLevel `long:"log-level"`
	Symbol string            `long:"symbol" description:"symbol of the reward token"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:  encoding.LogLevel{Level: logging.InfoLevel},
		Symbol: "BBS",
	}
}
