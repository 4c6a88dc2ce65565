package networks

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/cswap-network/xswap-deployer/configs"
	chainsel "github.com/smartcontractkit/chain-selectors"
)

var ErrUnknownNetwork = errors.New("unknown network")

// Network is a configured chain together with its CCIP chain selector.
type Network struct {
	Name     configs.NetworkName
	ChainID  uint64
	RPCURL   string
	Explorer configs.Explorer
	Selector uint64
}

// Resolve looks up the named network in cfg and derives its CCIP selector from the chain ID.
func Resolve(cfg configs.Config, name configs.NetworkName) (Network, error) {
	canonical, ok := configs.CanonicalName(string(name))
	if !ok {
		return Network{}, fmt.Errorf("%w: %q", ErrUnknownNetwork, name)
	}

	network, ok := cfg.LookupNetwork(canonical)
	if !ok {
		return Network{}, fmt.Errorf("%w: %q is not configured", ErrUnknownNetwork, canonical)
	}

	selector, err := chainsel.SelectorFromChainId(network.ChainID)
	if err != nil {
		return Network{}, fmt.Errorf("no CCIP selector for %s (chain id %d): %w", canonical, network.ChainID, err)
	}

	return Network{
		Name:     canonical,
		ChainID:  network.ChainID,
		RPCURL:   network.RPCURL,
		Explorer: network.Explorer,
		Selector: selector,
	}, nil
}

// All resolves every supported network in display order.
func All(cfg configs.Config) ([]Network, error) {
	all := make([]Network, 0, len(configs.NetworkNames))
	for _, name := range configs.NetworkNames {
		network, err := Resolve(cfg, name)
		if err != nil {
			return nil, err
		}
		all = append(all, network)
	}
	return all, nil
}

// SelectorsFor returns the CCIP selectors of the given chain IDs, in order.
func SelectorsFor(chainIDs ...uint64) ([]uint64, error) {
	selectors := make([]uint64, 0, len(chainIDs))
	for _, id := range chainIDs {
		selector, err := chainsel.SelectorFromChainId(id)
		if err != nil {
			return nil, fmt.Errorf("no CCIP selector for chain id %d: %w", id, err)
		}
		selectors = append(selectors, selector)
	}
	return selectors, nil
}

// RPCHost returns the host of the RPC URL so listings do not leak API keys in paths.
func (n Network) RPCHost() string {
	u, err := url.Parse(n.RPCURL)
	if err != nil || u.Host == "" {
		return n.RPCURL
	}
	return u.Host
}

// AddressURL links an address on the network's block explorer, or returns "" when
// no browser URL is configured.
func (n Network) AddressURL(address string) string {
	if n.Explorer.BrowserURL == "" {
		return ""
	}
	return n.Explorer.BrowserURL + "/address/" + address
}
