package networks

import (
	"bytes"
	"testing"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	cfg := configs.MustDefaultConfig()

	t.Run("case insensitive", func(t *testing.T) {
		network, err := Resolve(cfg, "ArbitrumOne")
		require.NoError(t, err)
		assert.Equal(t, configs.NetworkArbitrumOne, network.Name)
		assert.Equal(t, uint64(42161), network.ChainID)
		assert.Equal(t, uint64(4949039107694359620), network.Selector)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Resolve(cfg, "sepolia")
		assert.ErrorIs(t, err, ErrUnknownNetwork)
	})

	t.Run("not configured", func(t *testing.T) {
		_, err := Resolve(configs.Config{}, configs.NetworkBase)
		assert.ErrorIs(t, err, ErrUnknownNetwork)
	})

	t.Run("chain without selector", func(t *testing.T) {
		custom := configs.Config{Networks: map[configs.NetworkName]configs.Network{
			configs.NetworkBase: {ChainID: 987654321987},
		}}
		_, err := Resolve(custom, configs.NetworkBase)
		assert.Error(t, err)
	})
}

func TestAll(t *testing.T) {
	all, err := All(configs.MustDefaultConfig())
	require.NoError(t, err)
	require.Len(t, all, len(configs.NetworkNames))

	for i, name := range configs.NetworkNames {
		assert.Equal(t, name, all[i].Name)
	}
}

func TestSelectorsFor(t *testing.T) {
	selectors, err := SelectorsFor(1, 10, 42161, 137, 43114, 8453)
	require.NoError(t, err)

	assert.Equal(t, []uint64{
		5009297550715157269,
		3734403246176062136,
		4949039107694359620,
		4051577828743386545,
		6433500567565415381,
		15971525489660198786,
	}, selectors)
}

func TestNetworkURLs(t *testing.T) {
	n := Network{
		RPCURL:   "https://eth-mainnet.example.com/v2/secret",
		Explorer: configs.Explorer{BrowserURL: "https://etherscan.io"},
	}

	assert.Equal(t, "eth-mainnet.example.com", n.RPCHost())
	assert.Equal(t, "https://etherscan.io/address/0xabc", n.AddressURL("0xabc"))
	assert.Equal(t, "", Network{}.AddressURL("0xabc"))
}

func TestRender(t *testing.T) {
	all, err := All(configs.MustDefaultConfig())
	require.NoError(t, err)

	var buf bytes.Buffer
	Render(&buf, all)

	out := buf.String()
	assert.Contains(t, out, "CCIP SELECTOR")
	assert.Contains(t, out, "arbitrumOne")
	assert.Contains(t, out, "15971525489660198786")
	assert.NotContains(t, out, "/rpc")
}
