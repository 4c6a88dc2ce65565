package configs

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var Values Config

type (
	NetworkName string

	Config struct {
		PrivateKey      string                  `mapstructure:"private-key"`
		Network         NetworkName             `mapstructure:"network"`
		LogLevel        string                  `mapstructure:"log-level"`
		ArtifactsDir    string                  `mapstructure:"artifacts-dir"`
		RecordsDir      string                  `mapstructure:"records-dir"`
		TxTimeout       time.Duration           `mapstructure:"tx-timeout"`
		EtherscanAPIKey string                  `mapstructure:"etherscan-api-key"`
		Networks        map[NetworkName]Network `mapstructure:"networks"`
		Verify          Verify                  `mapstructure:"verify"`
		Compiler        Compiler                `mapstructure:"compiler"`
	}

	Network struct {
		ChainID  uint64   `mapstructure:"chain-id"`
		RPCURL   string   `mapstructure:"rpc-url"`
		Explorer Explorer `mapstructure:"explorer"`
	}

	Explorer struct {
		APIURL     string `mapstructure:"api-url"`
		APIKey     string `mapstructure:"api-key"`
		BrowserURL string `mapstructure:"browser-url"`
	}

	Verify struct {
		Delay        time.Duration `mapstructure:"delay"`
		PollInterval time.Duration `mapstructure:"poll-interval"`
		MaxAttempts  int           `mapstructure:"max-attempts"`
		HTTPRetries  int           `mapstructure:"http-retries"`
	}

	Compiler struct {
		Image         string `mapstructure:"image"`
		ContractsDir  string `mapstructure:"contracts-dir"`
		SolcVersion   string `mapstructure:"solc-version"`
		OptimizerRuns int    `mapstructure:"optimizer-runs"`
		ViaIR         bool   `mapstructure:"via-ir"`
	}
)

const (
	NetworkMainnet     NetworkName = "mainnet"
	NetworkAvalanche   NetworkName = "avalanche"
	NetworkBase        NetworkName = "base"
	NetworkArbitrumOne NetworkName = "arbitrumOne"
	NetworkPolygon     NetworkName = "polygon"
	NetworkOptimism    NetworkName = "optimism"
)

// NetworkNames lists the supported networks in display order.
var NetworkNames = []NetworkName{
	NetworkMainnet,
	NetworkAvalanche,
	NetworkBase,
	NetworkArbitrumOne,
	NetworkPolygon,
	NetworkOptimism,
}

// CanonicalName maps a case-insensitive network name onto its declared spelling.
// Viper lower-cases map keys, so "arbitrumone" from a config file must still resolve.
func CanonicalName(name string) (NetworkName, bool) {
	for _, n := range NetworkNames {
		if strings.EqualFold(string(n), name) {
			return n, true
		}
	}
	return "", false
}

// LookupNetwork returns the configuration of the named network.
func (c Config) LookupNetwork(name NetworkName) (Network, bool) {
	for key, network := range c.Networks {
		if strings.EqualFold(string(key), string(name)) {
			return network, true
		}
	}
	return Network{}, false
}

func (c Config) Validate() error {
	var errs []error

	if c.ArtifactsDir == "" {
		errs = append(errs, errors.New("artifacts-dir is required"))
	}
	if c.RecordsDir == "" {
		errs = append(errs, errors.New("records-dir is required"))
	}
	if c.TxTimeout <= 0 {
		errs = append(errs, errors.New("tx-timeout must be positive"))
	}

	for key := range c.Networks {
		if _, ok := CanonicalName(string(key)); !ok {
			errs = append(errs, fmt.Errorf("networks.%s is not a supported network", key))
		}
	}

	for _, name := range NetworkNames {
		network, ok := c.LookupNetwork(name)
		if !ok {
			errs = append(errs, fmt.Errorf("networks.%s is required", name))
			continue
		}
		if err := network.validate(name); err != nil {
			errs = append(errs, err)
		}
	}

	if err := c.Verify.Validate(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (n Network) validate(name NetworkName) error {
	var errs []error

	if n.ChainID == 0 {
		errs = append(errs, fmt.Errorf("networks.%s.chain-id is required", name))
	}
	if n.RPCURL == "" {
		errs = append(errs, fmt.Errorf("networks.%s.rpc-url is required", name))
	}
	if n.Explorer.APIURL == "" {
		errs = append(errs, fmt.Errorf("networks.%s.explorer.api-url is required", name))
	}

	return errors.Join(errs...)
}

func (v Verify) Validate() error {
	var errs []error

	if v.Delay < 0 {
		errs = append(errs, errors.New("verify.delay must not be negative"))
	}
	if v.PollInterval <= 0 {
		errs = append(errs, errors.New("verify.poll-interval must be positive"))
	}
	if v.MaxAttempts <= 0 {
		errs = append(errs, errors.New("verify.max-attempts must be positive"))
	}
	if v.HTTPRetries < 0 {
		errs = append(errs, errors.New("verify.http-retries must not be negative"))
	}

	return errors.Join(errs...)
}

func (c Compiler) Validate() error {
	var errs []error

	if c.Image == "" {
		errs = append(errs, errors.New("compiler.image is required"))
	}
	if c.ContractsDir == "" {
		errs = append(errs, errors.New("compiler.contracts-dir is required"))
	}
	if c.SolcVersion == "" {
		errs = append(errs, errors.New("compiler.solc-version is required"))
	}
	if c.OptimizerRuns < 0 {
		errs = append(errs, errors.New("compiler.optimizer-runs must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("compiler configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}
