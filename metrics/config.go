package metrics

import (
	"time"

	"code.bbsnetwork.io/lm/config/encoding"
)

// Config represents the configuration of the metrics server.
type Config struct {
	Port    int           `long:"port" description:"port the metrics are served on"`
	Path    string        `long:"path" description:"http path of the metrics endpoint"`
	Enabled encoding.Bool `long:"enabled" description:"serve prometheus metrics"`

	ShutdownTimeout encoding.Duration `long:"shutdown-timeout" description:"time given to in-flight scrapes on exit"`
}

// NewDefaultConfig creates an instance of config with default values.
func NewDefaultConfig() Config {
	return Config{
		Port:    2112,
		Path:    "/metrics",
		Enabled: false,

		ShutdownTimeout: encoding.Duration{Duration: time.Second},
	}
}
