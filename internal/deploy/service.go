package deploy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/cswap-network/xswap-deployer/internal/networks"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/cswap-network/xswap-deployer/internal/records"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

var ErrVerifierRequired = errors.New("verification requested but no explorer client is configured")

type (
	// Verifier publishes the source of a deployed contract.
	Verifier interface {
		Verify(ctx context.Context, name contracts.Name, address common.Address, args []string) error
	}

	Options struct {
		Verify      bool
		VerifyDelay time.Duration
	}

	Service struct {
		session   *chain.Session
		network   networks.Network
		artifacts *contracts.Artifacts
		records   *records.Store
		deployer  *contracts.Deployer
		verifier  Verifier
		printer   *console.Printer
		logger    *slog.Logger
		now       func() time.Time
	}
)

// NewService creates a deployment service. verifier may be nil when no deployment
// will be verified.
func NewService(session *chain.Session, network networks.Network, artifacts *contracts.Artifacts, store *records.Store, verifier Verifier, printer *console.Printer) *Service {
	return &Service{
		session:   session,
		network:   network,
		artifacts: artifacts,
		records:   store,
		deployer:  contracts.NewDeployer(session),
		verifier:  verifier,
		printer:   printer,
		logger:    logger.Named("deploy"),
		now:       time.Now,
	}
}

// Deploy creates the target contract with its row of constructor arguments, records
// the deployment and optionally verifies it.
func (s *Service) Deploy(ctx context.Context, target plan.Target, opts Options) (records.Record, error) {
	if opts.Verify && s.verifier == nil {
		return records.Record{}, ErrVerifierRequired
	}

	from := s.session.From()
	s.printer.Result("deployer", from.Hex())

	balance, err := s.session.Balance(ctx)
	if err != nil {
		return records.Record{}, err
	}
	s.logger.
		With("address", from.Hex()).
		With("balance_eth", formatEther(balance)).
		Info("deployer account")
	if balance.Sign() == 0 {
		s.printer.Warn("deployer %s has no funds on %s", from.Hex(), s.network.Name)
	}

	contract, err := s.artifacts.Get(target.Contract)
	if err != nil {
		return records.Record{}, err
	}

	args, err := plan.Args(target.Contract, s.network.Name, from)
	if err != nil {
		return records.Record{}, err
	}

	packed, err := plan.Pack(contract.ABI.Constructor.Inputs, args)
	if err != nil {
		return records.Record{}, fmt.Errorf("%s: %w", target.Contract, err)
	}

	s.printer.Line("deploying %s contracts.......................", target.Script)
	s.printer.Line("deploying on %s", s.network.Name)

	deployment, err := s.deployer.Deploy(ctx, contract, packed...)
	if err != nil {
		return records.Record{}, err
	}

	s.printer.Result(fmt.Sprintf("%s on %s", target.Contract, s.network.Name), deployment.Address.Hex())

	record := records.Record{
		Contract:   target.Contract,
		Address:    deployment.Address.Hex(),
		TxHash:     deployment.TxHash.Hex(),
		Block:      deployment.BlockNumber,
		Deployer:   from.Hex(),
		Arguments:  args,
		DeployedAt: s.now().UTC(),
	}
	if err := s.records.Append(s.network.Name, s.network.ChainID, record); err != nil {
		return record, err
	}

	if !opts.Verify {
		return record, nil
	}

	s.printer.Line("verify waiting")
	if err := wait(ctx, opts.VerifyDelay); err != nil {
		return record, err
	}
	s.printer.Line("verify started")

	if err := s.verifier.Verify(ctx, target.Contract, deployment.Address, args); err != nil {
		return record, err
	}
	record.Verified = true

	return record, nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func formatEther(wei *big.Int) string {
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return ether.Text('f', 6)
}
