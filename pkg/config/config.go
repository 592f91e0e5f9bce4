// Package config holds the server settings, read by viper from (in order of
// precedence) flags, VOG_* environment variables, an optional config file
// and the defaults below.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "VOG"

type Config struct {
	// directory holding vog.*.tsv, vog.species.list, the bulk fasta files,
	// faa/ and raw_algs/
	DataDir string `mapstructure:"data"`

	// address the HTTP server listens on
	Listen string `mapstructure:"listen"`

	// zap level name: debug, info, warn, error
	LogLevel string `mapstructure:"log-level"`

	// build every index before serving instead of on first request
	Preload bool `mapstructure:"preload"`

	// how long in-flight requests get on SIGINT/SIGTERM
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

// NewViper returns a viper instance with defaults and env binding set up.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("data", "./data")
	v.SetDefault("listen", "0.0.0.0:8080")
	v.SetDefault("log-level", "info")
	v.SetDefault("preload", true)
	v.SetDefault("shutdown-timeout", 10*time.Second)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadDotEnv reads .env into the process environment. A missing file is
// reported but not fatal.
func LoadDotEnv(files ...string) error {
	return godotenv.Load(files...)
}

// Load reads the optional config file and decodes everything into Config.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configFile, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.DataDir == "" {
		errs = append(errs, errors.New("data directory is empty"))
	}
	if c.Listen == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("shutdown timeout is negative"))
	}
	return errors.Join(errs...)
}
