// Package cli loads relgraph settings and opens engines for the command line.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix environment variables are RELGRAPH_DSN, RELGRAPH_LOG_LEVEL, ...
const EnvPrefix = "RELGRAPH"

// ErrMissingSetting a required setting is empty
var ErrMissingSetting = errors.New("missing setting")

// Settings connection and logging settings shared by every command
type Settings struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	Schema      string `mapstructure:"schema"`
	TablePrefix string `mapstructure:"table-prefix"`
	Logger      string `mapstructure:"logger"`
	LogLevel    string `mapstructure:"log-level"`
}

// Validate reports the first required setting that is empty
func (s *Settings) Validate() error {
	switch {
	case s.Driver == "":
		return fmt.Errorf("%w: driver", ErrMissingSetting)
	case s.Schema == "":
		return fmt.Errorf("%w: schema", ErrMissingSetting)
	}
	return nil
}

// Flags register the settings as flags, their names are the viper keys
func Flags(flags *pflag.FlagSet) {
	flags.String("driver", "sqlite", "database driver: sqlite or mysql")
	flags.String("dsn", "", "data source name (sqlite: file path, default in memory)")
	flags.String("schema", "", "YAML entity metadata file")
	flags.String("table-prefix", "", "prefix of derived table names")
	flags.String("logger", "std", "logger: std, zap, zerolog, logrus or slog")
	flags.String("log-level", "warn", "log level: silent, error, warn or info")
}

// LoadSettings resolve settings with precedence flags > env > config file > defaults.
// configFile may be empty.
func LoadSettings(flags *pflag.FlagSet, configFile string) (*Settings, error) {
	v := viper.New()

	v.SetDefault("driver", "sqlite")
	v.SetDefault("dsn", "")
	v.SetDefault("schema", "")
	v.SetDefault("table-prefix", "")
	v.SetDefault("logger", "std")
	v.SetDefault("log-level", "warn")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &settings, nil
}
