package configs

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	privateKeyEnv      = "PRIVATE_KEY"
	etherscanAPIKeyEnv = "ETHERSCAN_API_KEY"
)

var (
	//go:embed config.example.yaml
	defaultConfigYAML string

	defaultConfigOnce sync.Once
	defaultConfig     Config
	defaultConfigErr  error
)

// DefaultConfig returns the parsed configuration from the embedded config.example.yaml.
func DefaultConfig() (Config, error) {
	defaultConfigOnce.Do(func() {
		v := viper.New()
		v.SetConfigType("yaml")
		if err := v.ReadConfig(strings.NewReader(defaultConfigYAML)); err != nil {
			defaultConfigErr = fmt.Errorf("failed to read embedded config.example.yaml: %w", err)
			return
		}

		if err := v.Unmarshal(&defaultConfig); err != nil {
			defaultConfigErr = fmt.Errorf("failed to decode embedded config.example.yaml: %w", err)
			return
		}
	})

	if defaultConfigErr != nil {
		return Config{}, defaultConfigErr
	}

	return defaultConfig, nil
}

// MustDefaultConfig returns embedded defaults or panics if they cannot be loaded.
func MustDefaultConfig() Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load layers the embedded defaults, an optional config.yaml found in searchPaths and
// the PRIVATE_KEY environment variable onto v, then decodes the result.
// A missing config file is not an error; a missing PRIVATE_KEY leaves the key empty.
func Load(v *viper.Viper, searchPaths ...string) (Config, error) {
	v.SetConfigType("yaml")
	if err := v.ReadConfig(strings.NewReader(defaultConfigYAML)); err != nil {
		return Config{}, fmt.Errorf("failed to read embedded defaults: %w", err)
	}

	if err := v.BindEnv("private-key", privateKeyEnv); err != nil {
		return Config{}, fmt.Errorf("failed to bind %s: %w", privateKeyEnv, err)
	}
	if err := v.BindEnv("etherscan-api-key", etherscanAPIKeyEnv); err != nil {
		return Config{}, fmt.Errorf("failed to bind %s: %w", etherscanAPIKeyEnv, err)
	}

	v.SetConfigName("config")
	for _, path := range searchPaths {
		v.AddConfigPath(path)
	}

	if len(searchPaths) > 0 {
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
			slog.Debug("no config file found, relying on flags and defaults")
		} else {
			slog.With("config_file", v.ConfigFileUsed()).Debug("config file loaded")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unable to decode application config: %w", err)
	}

	if cfg.Network != "" {
		if name, ok := CanonicalName(string(cfg.Network)); ok {
			cfg.Network = name
		}
	}

	return cfg, nil
}

// LoadDotEnv exports the variables of a dotenv file into the process environment.
// Variables already set in the environment win. A missing file is ignored.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	for _, key := range v.AllKeys() {
		name := strings.ToUpper(key)
		if _, set := os.LookupEnv(name); set {
			continue
		}
		if err := os.Setenv(name, v.GetString(key)); err != nil {
			return fmt.Errorf("failed to export %s: %w", name, err)
		}
	}

	return nil
}
