package ccip

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/contracts/bindings"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

type (
	// CodeChecker confirms a contract exists before transactions are sent to it.
	CodeChecker interface {
		RequireCode(ctx context.Context, address common.Address) error
	}

	// Service administers the allow-lists of a deployed ParaCCIP.
	Service struct {
		session *chain.Session
		checker CodeChecker
		printer *console.Printer
		logger  *slog.Logger
	}
)

func NewService(session *chain.Session, checker CodeChecker, printer *console.Printer) *Service {
	return &Service{
		session: session,
		checker: checker,
		printer: printer,
		logger:  logger.Named("ccip"),
	}
}

// Allowlist enables each selector as destination then as source, one mined
// transaction at a time and in order.
func (s *Service) Allowlist(ctx context.Context, contract common.Address, selectors []uint64) error {
	parsed, err := s.prepare(ctx, contract)
	if err != nil {
		return err
	}

	for _, selector := range selectors {
		if _, err := s.session.Transact(ctx, contract, parsed, bindings.MethodAllowlistDestinationChain, selector, true); err != nil {
			return fmt.Errorf("allowlist destination %d: %w", selector, err)
		}
		s.printer.Line("dest %d", selector)

		if _, err := s.session.Transact(ctx, contract, parsed, bindings.MethodAllowlistSourceChain, selector, true); err != nil {
			return fmt.Errorf("allowlist source %d: %w", selector, err)
		}
		s.printer.Line("source %d", selector)
	}

	s.logger.
		With("contract", contract.Hex()).
		With("selectors", len(selectors)).
		Info("chains allow-listed")

	return nil
}

// AllowlistSenders allows messages from each sender contract.
func (s *Service) AllowlistSenders(ctx context.Context, contract common.Address, senders []common.Address) error {
	parsed, err := s.prepare(ctx, contract)
	if err != nil {
		return err
	}

	for _, sender := range senders {
		s.printer.Line("-- Allowing sender %s", sender.Hex())
		if _, err := s.session.Transact(ctx, contract, parsed, bindings.MethodAllowlistSender, sender, true); err != nil {
			return fmt.Errorf("allowlist sender %s: %w", sender.Hex(), err)
		}
	}

	s.logger.
		With("contract", contract.Hex()).
		With("senders", len(senders)).
		Info("senders allow-listed")

	return nil
}

func (s *Service) prepare(ctx context.Context, contract common.Address) (abi.ABI, error) {
	s.printer.Result("deployer", s.session.From().Hex())

	if err := s.checker.RequireCode(ctx, contract); err != nil {
		return abi.ABI{}, err
	}

	return bindings.ParaCCIPAdmin()
}
