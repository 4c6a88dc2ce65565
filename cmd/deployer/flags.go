package main

import (
	"github.com/spf13/viper"
)

// flagDef defines a persistent flag bound to a configuration key.
type (
	flagType interface {
		string | int | bool
	}

	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

var (
	stringFlags = []flagDef[string]{
		{"network", "network", "", "Target network (mainnet, avalanche, base, arbitrumOne, polygon, optimism)"},
		{"log-level", "log-level", "info", "Log level (debug, info, warn, error)"},
		{"artifacts-dir", "artifacts-dir", "artifacts", "Directory holding contracts.json and build-info"},
		{"records-dir", "records-dir", ".deployments", "Directory of the per-network deployment records"},
		{"tx-timeout", "tx-timeout", "5m", "Maximum time to wait for a transaction to be mined"},
	}

	// Explorer verification tuning
	intFlags = []flagDef[int]{
		{"verify-attempts", "verify.max-attempts", 24, "Verification status checks before giving up"},
		{"http-retries", "verify.http-retries", 3, "Retries of failed explorer HTTP requests"},
	}
)

func init() {
	if err := declareFlags(stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(intFlags); err != nil {
		panic(err)
	}
}

// declareFlags declares multiple flags and binds them to viper configuration keys.
func declareFlags[T flagType](flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

// declareFlag declares a single persistent flag and binds it to a viper configuration key.
func declareFlag[T flagType](flagName, viperKey string, defaultValue T, description string) error {
	var zero T
	switch any(zero).(type) {
	case string:
		rootCmd.PersistentFlags().String(flagName, any(defaultValue).(string), description)
	case int:
		rootCmd.PersistentFlags().Int(flagName, any(defaultValue).(int), description)
	case bool:
		rootCmd.PersistentFlags().Bool(flagName, any(defaultValue).(bool), description)
	}
	return viper.BindPFlag(viperKey, rootCmd.PersistentFlags().Lookup(flagName))
}
