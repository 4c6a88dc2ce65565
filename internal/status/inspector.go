package status

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/cswap-network/xswap-deployer/internal/records"
	"github.com/ethereum/go-ethereum/common"
	"github.com/lmittmann/w3"
	"github.com/lmittmann/w3/module/eth"
	"github.com/lmittmann/w3/w3types"
)

var ErrNoCode = errors.New("no contract code at address")

const (
	SourceRecord = "record"
	SourceKnown  = "known"
)

type (
	Target struct {
		Contract contracts.Name
		Address  common.Address
		Source   string
	}

	Entry struct {
		Target
		CodeSize int
	}

	Report struct {
		Network configs.NetworkName
		Account common.Address
		// Balance is nil when no account was inspected.
		Balance *big.Int
		Entries []Entry
	}

	// Inspector reads deployment state with batched JSON-RPC calls.
	Inspector struct {
		client *w3.Client
		logger *slog.Logger
	}
)

// Dial connects an inspector to rpcURL.
func Dial(rpcURL string) (*Inspector, error) {
	client, err := w3.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}
	return NewInspector(client), nil
}

func NewInspector(client *w3.Client) *Inspector {
	return &Inspector{
		client: client,
		logger: logger.Named("status"),
	}
}

func (i *Inspector) Close() error {
	return i.client.Close()
}

// Inspect fetches the code size of every target and the balance of account in a single
// round-trip. A zero account skips the balance.
func (i *Inspector) Inspect(ctx context.Context, network configs.NetworkName, account common.Address, targets []Target) (Report, error) {
	codes := make([][]byte, len(targets))
	calls := make([]w3types.RPCCaller, 0, len(targets)+1)
	for idx, target := range targets {
		calls = append(calls, eth.Code(target.Address, nil).Returns(&codes[idx]))
	}

	var balance *big.Int
	if account != (common.Address{}) {
		calls = append(calls, eth.Balance(account, nil).Returns(&balance))
	}

	report := Report{Network: network, Account: account}
	if len(calls) == 0 {
		return report, nil
	}

	if err := i.client.CallCtx(ctx, calls...); err != nil {
		return Report{}, fmt.Errorf("failed to inspect %s: %w", network, err)
	}

	report.Balance = balance
	for idx, target := range targets {
		report.Entries = append(report.Entries, Entry{Target: target, CodeSize: len(codes[idx])})
	}

	i.logger.
		With("network", network).
		With("targets", len(targets)).
		Debug("deployment state fetched")

	return report, nil
}

// RequireCode fails with ErrNoCode unless a contract is deployed at address.
func (i *Inspector) RequireCode(ctx context.Context, address common.Address) error {
	var code []byte
	if err := i.client.CallCtx(ctx, eth.Code(address, nil).Returns(&code)); err != nil {
		return fmt.Errorf("failed to read code at %s: %w", address.Hex(), err)
	}
	if len(code) == 0 {
		return fmt.Errorf("%w: %s", ErrNoCode, address.Hex())
	}
	return nil
}

// Targets lists every address known for network: recorded deployments first, then the
// known deployments not already recorded.
func Targets(store *records.Store, network configs.NetworkName) ([]Target, error) {
	file, err := store.Load(network)
	if err != nil {
		return nil, err
	}

	seen := make(map[common.Address]bool)
	var targets []Target

	for _, record := range file.Deployments {
		address := common.HexToAddress(record.Address)
		if seen[address] {
			continue
		}
		seen[address] = true
		targets = append(targets, Target{Contract: record.Contract, Address: address, Source: SourceRecord})
	}

	for _, name := range []contracts.Name{contracts.NameParaCCIP, contracts.NameCCTPSwap} {
		address, ok := plan.KnownAddress(name, network)
		if !ok || seen[address] {
			continue
		}
		seen[address] = true
		targets = append(targets, Target{Contract: name, Address: address, Source: SourceKnown})
	}

	return targets, nil
}
