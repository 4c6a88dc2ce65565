package cctp

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/contracts/bindings"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Service administers a deployed CCTPSwap.
type Service struct {
	session *chain.Session
	printer *console.Printer
	logger  *slog.Logger
}

func NewService(session *chain.Session, printer *console.Printer) *Service {
	return &Service{
		session: session,
		printer: printer,
		logger:  logger.Named("cctp"),
	}
}

// SetExecutor points contract at a new executor and returns the mined receipt.
func (s *Service) SetExecutor(ctx context.Context, contract, executor common.Address) (*types.Receipt, error) {
	s.printer.Result("deployer", s.session.From().Hex())

	parsed, err := bindings.CCTPSwapAdmin()
	if err != nil {
		return nil, err
	}

	receipt, err := s.session.Transact(ctx, contract, parsed, bindings.MethodSetExecutor, executor)
	if err != nil {
		return nil, fmt.Errorf("set executor on %s: %w", contract.Hex(), err)
	}

	s.logger.
		With("contract", contract.Hex()).
		With("executor", executor.Hex()).
		With("block", receipt.BlockNumber).
		Info("executor updated")
	s.printer.Result("txHash", receipt.TxHash.Hex())

	return receipt, nil
}
