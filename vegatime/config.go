package vegatime

import (
	"time"

	"code.bbsnetwork.io/lm/config/encoding"
	"code.bbsnetwork.io/lm/logging"
)

const namedLogger = "vegatime"

// Config represents the configuration of the time service.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
	// Genesis is the time the simulated clock starts at, RFC3339.
	Genesis string `long:"genesis" description:"time the simulated clock starts at (RFC3339)"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		Genesis: "2021-01-01T00:00:00Z",
	}
}

// GenesisTime parses the configured genesis time.
func (c Config) GenesisTime() (time.Time, error) {
	return time.Parse(time.RFC3339, c.Genesis)
}
