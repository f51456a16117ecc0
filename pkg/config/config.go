// Package config loads gaugepanel settings from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "GAUGEPANEL"

// keyDelimiter replaces viper's "." so dotted stream paths stay single keys
// under units.
const keyDelimiter = "::"

type Config struct {
	Log       LogConfig
	Dashboard DashboardConfig
	Bundle    BundleConfig
	Grid      GridConfig
	Persist   PersistConfig
	// Units maps a stream path to its base unit.
	Units map[string]string
}

type LogConfig struct {
	Level string
}

type DashboardConfig struct {
	Path string
}

type BundleConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type GridConfig struct {
	Columns int
	Padding float32
}

type PersistConfig struct {
	Attempts uint
	Delay    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log::level", "info")
	v.SetDefault("dashboard::path", "dashboard.yaml")
	v.SetDefault("bundle::cache_ttl", time.Minute)
	v.SetDefault("grid::columns", 4)
	v.SetDefault("grid::padding", 4)
	v.SetDefault("persist::attempts", 3)
	v.SetDefault("persist::delay", 100*time.Millisecond)
	v.SetDefault("units", map[string]string{})
}

// Load reads configuration. An explicit path must exist; without one config.yaml
// is searched in the working directory and $HOME/.gaugepanel and may be absent.
// Env var overrides use prefix GAUGEPANEL_.
func Load(path string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".gaugepanel"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(keyDelimiter, "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || path != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Units == nil {
		c.Units = map[string]string{}
	}
	return c, nil
}
