// Package env assembles what the network-bound commands share: the resolved network,
// the signer session, compiled artifacts and deployment records.
package env

import (
	"context"
	"errors"
	"fmt"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/explorer"
	fsjson "github.com/cswap-network/xswap-deployer/internal/filesystem/json"
	"github.com/cswap-network/xswap-deployer/internal/networks"
	"github.com/cswap-network/xswap-deployer/internal/records"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var ErrNetworkRequired = errors.New("network is required (use --network)")

// Network resolves the network selected in cfg.
func Network(cfg configs.Config) (networks.Network, error) {
	if cfg.Network == "" {
		return networks.Network{}, ErrNetworkRequired
	}
	return networks.Resolve(cfg, cfg.Network)
}

// Session dials the network's RPC with the configured signer.
func Session(ctx context.Context, cfg configs.Config, network networks.Network) (*chain.Session, error) {
	key, err := chain.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, err
	}

	return chain.Dial(ctx, network.RPCURL, key, network.ChainID, chain.WithTxTimeout(cfg.TxTimeout))
}

// SignerAddress derives the configured signer's address without connecting anywhere.
func SignerAddress(cfg configs.Config) (common.Address, error) {
	key, err := chain.ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return common.Address{}, err
	}
	return crypto.PubkeyToAddress(key.PublicKey), nil
}

func Artifacts(cfg configs.Config) (*contracts.Artifacts, error) {
	return contracts.LoadArtifacts(cfg.ArtifactsDir, fsjson.NewReader())
}

func Records(cfg configs.Config) *records.Store {
	return records.NewStore(cfg.RecordsDir, fsjson.NewReader(), fsjson.NewWriter())
}

// Explorer creates the verification client of network. The network's own API key wins
// over the shared Etherscan key.
func Explorer(cfg configs.Config, network networks.Network) (*explorer.Client, error) {
	settings := network.Explorer
	if settings.APIKey == "" {
		settings.APIKey = cfg.EtherscanAPIKey
	}

	client, err := explorer.NewClient(settings, network.ChainID, cfg.Verify)
	if err != nil {
		return nil, fmt.Errorf("explorer for %s: %w", network.Name, err)
	}
	return client, nil
}
