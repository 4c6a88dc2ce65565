package verify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/explorer"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/cswap-network/xswap-deployer/internal/networks"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/cswap-network/xswap-deployer/internal/records"
	"github.com/ethereum/go-ethereum/common"
)

type (
	// Verifier submits a verification request and waits for its outcome.
	Verifier interface {
		Verify(ctx context.Context, req explorer.Request) (explorer.Result, error)
	}

	Service struct {
		network   networks.Network
		artifacts *contracts.Artifacts
		records   *records.Store
		verifier  Verifier
		printer   *console.Printer
		logger    *slog.Logger
	}
)

func NewService(network networks.Network, artifacts *contracts.Artifacts, store *records.Store, verifier Verifier, printer *console.Printer) *Service {
	return &Service{
		network:   network,
		artifacts: artifacts,
		records:   store,
		verifier:  verifier,
		printer:   printer,
		logger:    logger.Named("verify"),
	}
}

// Verify publishes the source of the contract deployed at address, built with args.
func (s *Service) Verify(ctx context.Context, name contracts.Name, address common.Address, args []string) error {
	contract, err := s.artifacts.Get(name)
	if err != nil {
		return err
	}

	input, version, err := s.artifacts.StandardJSONInput(contract)
	if err != nil {
		return err
	}

	encoded, err := plan.Encode(contract.ABI.Constructor.Inputs, args)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	s.logger.
		With("network", s.network.Name).
		With("contract", contract.FullyQualifiedName()).
		With("address", address.Hex()).
		With("compiler", version).
		Info("verifying contract")

	result, err := s.verifier.Verify(ctx, explorer.Request{
		Address:           address,
		StandardJSONInput: input,
		ContractName:      contract.FullyQualifiedName(),
		CompilerVersion:   version,
		ConstructorArgs:   encoded,
	})
	if err != nil {
		return fmt.Errorf("verification of %s at %s failed: %w", name, address.Hex(), err)
	}

	if result.AlreadyVerified {
		s.printer.Line("%s at %s is already verified", name, address.Hex())
	} else {
		s.printer.Line("%s at %s verified", name, address.Hex())
	}
	if link := s.network.AddressURL(address.Hex()); link != "" {
		s.printer.Result("explorer", link+"#code")
	}

	if err := s.records.MarkVerified(s.network.Name, address.Hex()); err != nil {
		s.logger.With("err", err.Error()).Warn("failed to update deployment record")
	}

	return nil
}

// Arguments returns the constructor arguments address was deployed with: the recorded
// ones when the deployment was made here, otherwise the table row bound to signer.
func (s *Service) Arguments(name contracts.Name, address common.Address, signer func() (common.Address, error)) ([]string, error) {
	record, err := s.records.Find(s.network.Name, address.Hex())
	if err == nil && record.Contract == name {
		return record.Arguments, nil
	}
	if err != nil && !errors.Is(err, records.ErrRecordNotFound) {
		return nil, err
	}

	deployer, err := signer()
	if err != nil {
		return nil, fmt.Errorf("no deployment record for %s, the signer is needed to rebuild its arguments: %w", address.Hex(), err)
	}

	return plan.Args(name, s.network.Name, deployer)
}

// Target picks the address to verify: explicit, then the latest recorded deployment,
// then the known deployment of the contract.
func (s *Service) Target(name contracts.Name, explicit string) (common.Address, error) {
	if explicit != "" {
		if !common.IsHexAddress(explicit) {
			return common.Address{}, fmt.Errorf("invalid address %q", explicit)
		}
		return common.HexToAddress(explicit), nil
	}

	record, err := s.records.Latest(s.network.Name, name)
	switch {
	case err == nil:
		return common.HexToAddress(record.Address), nil
	case !errors.Is(err, records.ErrRecordNotFound):
		return common.Address{}, err
	}

	if address, ok := plan.KnownAddress(name, s.network.Name); ok {
		return address, nil
	}

	return common.Address{}, fmt.Errorf("no address to verify for %s on %s (use --address)", name, s.network.Name)
}
