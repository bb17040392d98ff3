package logging

// Config contains the configurable items for the root logger.
type Config struct {
	Environment string     `long:"env" choice:"dev" choice:"prod" description:"selects the encoder: console for dev, json otherwise"`
	File        FileConfig `group:"File" namespace:"file"`
}

// FileConfig enables a rotated copy of the logs on disk. An empty path
// keeps logging on stdout only.
type FileConfig struct {
	Path       string `long:"path" description:"log file path, empty disables file logging"`
	MaxSizeMB  int    `long:"max-size-mb"`
	MaxBackups int    `long:"max-backups"`
	MaxAgeDays int    `long:"max-age-days"`
	Compress   bool   `long:"compress"`
}

// NewDefaultConfig creates an instance of the package-specific configuration.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		File: FileConfig{
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}
