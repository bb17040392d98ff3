//lint:file-ignore SA5008 duplicated struct tags are ok for config

package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"

	"code.bbsnetwork.io/lm/broker"
	"code.bbsnetwork.io/lm/logging"
	"code.bbsnetwork.io/lm/metrics"
	"code.bbsnetwork.io/lm/mining"
	"code.bbsnetwork.io/lm/protection"
	"code.bbsnetwork.io/lm/tokens"
	"code.bbsnetwork.io/lm/vegatime"

	"github.com/BurntSushi/toml"
	perrors "github.com/pkg/errors"
)

const configFileName = "config.toml"

var ErrConfigExists = errors.New("configuration file already exists")

// Config ties together all other application configuration types.
type Config struct {
	Logging    logging.Config    `group:"Logging" namespace:"logging"`
	Broker     broker.Config     `group:"Broker" namespace:"broker"`
	Time       vegatime.Config   `group:"Time" namespace:"time"`
	Tokens     tokens.Config     `group:"Tokens" namespace:"tokens"`
	Protection protection.Config `group:"Protection" namespace:"protection"`
	Mining     mining.Config     `group:"Mining" namespace:"mining"`
	Metrics    metrics.Config    `group:"Metrics" namespace:"metrics"`
}

// NewDefaultConfig returns the default configuration of every package.
func NewDefaultConfig() Config {
	return Config{
		Logging:    logging.NewDefaultConfig(),
		Broker:     broker.NewDefaultConfig(),
		Time:       vegatime.NewDefaultConfig(),
		Tokens:     tokens.NewDefaultConfig(),
		Protection: protection.NewDefaultConfig(),
		Mining:     mining.NewDefaultConfig(),
		Metrics:    metrics.NewDefaultConfig(),
	}
}

// Path is the location of the config file under home.
func Path(home string) string {
	return filepath.Join(home, configFileName)
}

// Read loads the config file from home on top of the defaults.
func Read(home string) (*Config, error) {
	buf, err := os.ReadFile(Path(home))
	if err != nil {
		return nil, perrors.Wrap(err, "unable to read configuration")
	}
	cfg := NewDefaultConfig()
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, perrors.Wrapf(err, "unable to decode %s", Path(home))
	}
	return &cfg, nil
}

// Write saves cfg in home, creating the directory if needed. An existing
// file is only replaced when overwrite is set.
func Write(home string, cfg Config, overwrite bool) error {
	if err := os.MkdirAll(home, 0o700); err != nil {
		return perrors.Wrap(err, "unable to create home directory")
	}
	path := Path(home)
	if _, err := os.Stat(path); err == nil && !overwrite {
		return ErrConfigExists
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return perrors.Wrap(err, "unable to encode configuration")
	}
	return os.WriteFile(path, buf.Bytes(), 0o600)
}
