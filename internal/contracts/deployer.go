package contracts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
)

type (
	// Deployer deploys compiled contracts through a chain session
	Deployer struct {
		session *chain.Session
		logger  *slog.Logger
	}

	Deployment struct {
		Address     common.Address
		TxHash      common.Hash
		BlockNumber uint64
	}
)

// NewDeployer creates a new contract deployer
func NewDeployer(session *chain.Session) *Deployer {
	return &Deployer{
		session: session,
		logger:  logger.Named("contracts_deployer"),
	}
}

// Deploy sends the creation transaction for contract and blocks until it is mined.
// constructorArgs must already be converted to the Go types of the constructor inputs.
func (d *Deployer) Deploy(ctx context.Context, contract CompiledContract, constructorArgs ...any) (Deployment, error) {
	ctx, cancel := d.session.WithTxContext(ctx)
	defer cancel()

	auth, err := d.session.TransactOpts(ctx)
	if err != nil {
		return Deployment{}, err
	}

	address, tx, _, err := bind.DeployContract(auth, contract.ABI, contract.Bytecode, d.session.Backend(), constructorArgs...)
	if err != nil {
		return Deployment{}, fmt.Errorf("failed to deploy %s: %w", contract.Name, err)
	}

	d.logger.
		With("contract", contract.Name).
		With("address", address.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		Info("contract deployment transaction sent")

	receipt, err := d.session.Wait(ctx, tx)
	if err != nil {
		return Deployment{}, fmt.Errorf("deployment of %s failed: %w", contract.Name, err)
	}

	d.logger.
		With("contract", contract.Name).
		With("block", receipt.BlockNumber).
		With("gas_used", receipt.GasUsed).
		Info("contract deployment mined")

	return Deployment{
		Address:     address,
		TxHash:      tx.Hash(),
		BlockNumber: receipt.BlockNumber.Uint64(),
	}, nil
}
