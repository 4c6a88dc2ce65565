package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unsetEnv(t *testing.T, name string) {
	t.Helper()
	previous, had := os.LookupEnv(name)
	require.NoError(t, os.Unsetenv(name))
	t.Cleanup(func() {
		if had {
			_ = os.Setenv(name, previous)
		} else {
			_ = os.Unsetenv(name)
		}
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg, err := DefaultConfig()
	require.NoError(t, err)

	require.NoError(t, cfg.Validate())
	assert.Equal(t, "artifacts", cfg.ArtifactsDir)
	assert.Equal(t, 3*time.Second, cfg.Verify.Delay)
	assert.Equal(t, 100, cfg.Compiler.OptimizerRuns)
	assert.True(t, cfg.Compiler.ViaIR)

	for _, name := range NetworkNames {
		network, ok := cfg.LookupNetwork(name)
		require.True(t, ok, "network %s missing from defaults", name)
		assert.NotZero(t, network.ChainID)
		assert.NotEmpty(t, network.RPCURL)
	}

	avalanche, ok := cfg.LookupNetwork(NetworkAvalanche)
	require.True(t, ok)
	assert.Equal(t, uint64(43114), avalanche.ChainID)
	assert.Equal(t, "snowtrace", avalanche.Explorer.APIKey)
}

func TestLoad_PrivateKeyDefaultsToEmpty(t *testing.T) {
	unsetEnv(t, privateKeyEnv)

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "", cfg.PrivateKey)
}

func TestLoad_PrivateKeyFromEnvironment(t *testing.T) {
	t.Setenv(privateKeyEnv, "0xabc")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "0xabc", cfg.PrivateKey)
}

func TestLoad_EtherscanAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv(etherscanAPIKeyEnv, "KEY123")

	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "KEY123", cfg.EtherscanAPIKey)
}

func TestLoad_ConfigFileOverridesDefaults(t *testing.T) {
	unsetEnv(t, privateKeyEnv)

	dir := t.TempDir()
	content := []byte("network: ARBITRUMONE\nnetworks:\n  base:\n    rpc-url: http://localhost:8545\nverify:\n  delay: 10s\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o644))

	cfg, err := Load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, NetworkArbitrumOne, cfg.Network)
	assert.Equal(t, 10*time.Second, cfg.Verify.Delay)

	base, ok := cfg.LookupNetwork(NetworkBase)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:8545", base.RPCURL)
	assert.Equal(t, uint64(8453), base.ChainID)
}

func TestLoad_MissingConfigFileIsIgnored(t *testing.T) {
	cfg, err := Load(viper.New(), t.TempDir())
	require.NoError(t, err)
	assert.Len(t, cfg.Networks, len(NetworkNames))
}

func TestLoadDotEnv(t *testing.T) {
	unsetEnv(t, privateKeyEnv)
	t.Setenv("EXPLORER_HINT", "kept")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PRIVATE_KEY=0xfeed\nEXPLORER_HINT=overwritten\n"), 0o600))

	require.NoError(t, LoadDotEnv(path))
	t.Cleanup(func() { _ = os.Unsetenv(privateKeyEnv) })

	assert.Equal(t, "0xfeed", os.Getenv(privateKeyEnv))
	assert.Equal(t, "kept", os.Getenv("EXPLORER_HINT"))
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestValidate(t *testing.T) {
	t.Run("missing network", func(t *testing.T) {
		cfg := MustDefaultConfig()
		networks := make(map[NetworkName]Network)
		for k, v := range cfg.Networks {
			networks[k] = v
		}
		for k := range networks {
			if string(k) == "polygon" {
				delete(networks, k)
			}
		}
		cfg.Networks = networks

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "networks.polygon is required")
	})

	t.Run("unknown network", func(t *testing.T) {
		cfg := MustDefaultConfig()
		networks := map[NetworkName]Network{"sepolia": {ChainID: 11155111}}
		for k, v := range cfg.Networks {
			networks[k] = v
		}
		cfg.Networks = networks

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "networks.sepolia is not a supported network")
	})

	t.Run("collects every failure", func(t *testing.T) {
		cfg := Config{}

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "artifacts-dir is required")
		assert.Contains(t, err.Error(), "tx-timeout must be positive")
		assert.Contains(t, err.Error(), "networks.mainnet is required")
		assert.Contains(t, err.Error(), "verify.poll-interval must be positive")
	})
}

func TestCompilerValidate(t *testing.T) {
	require.NoError(t, MustDefaultConfig().Compiler.Validate())

	err := Compiler{OptimizerRuns: -1}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compiler.image is required")
	assert.Contains(t, err.Error(), "compiler.optimizer-runs must not be negative")
}

func TestCanonicalName(t *testing.T) {
	name, ok := CanonicalName("arbitrumone")
	require.True(t, ok)
	assert.Equal(t, NetworkArbitrumOne, name)

	_, ok = CanonicalName("sepolia")
	assert.False(t, ok)
}
