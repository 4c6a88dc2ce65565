package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

var (
	ErrMissingPrivateKey   = errors.New("private key is not configured (set PRIVATE_KEY)")
	ErrChainIDMismatch     = errors.New("rpc chain id does not match configured chain id")
	ErrTransactionReverted = errors.New("transaction reverted")
)

const defaultTxTimeout = 5 * time.Minute

type (
	// Backend is the part of an Ethereum client a session needs: deploying, calling,
	// waiting for receipts and reading the signer's balance.
	Backend interface {
		bind.ContractBackend
		bind.DeployBackend
		ChainID(ctx context.Context) (*big.Int, error)
		BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	}

	// Session binds a signer to one chain.
	Session struct {
		backend   Backend
		key       *ecdsa.PrivateKey
		from      common.Address
		chainID   *big.Int
		txTimeout time.Duration
		closer    func()
		logger    *slog.Logger
	}

	Option func(*Session)
)

// WithTxTimeout bounds how long a single transaction may take from submission to receipt.
func WithTxTimeout(timeout time.Duration) Option {
	return func(s *Session) {
		if timeout > 0 {
			s.txTimeout = timeout
		}
	}
}

// ParsePrivateKey decodes a hex private key with or without the 0x prefix.
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	hexKey = strings.TrimSpace(hexKey)
	if hexKey == "" {
		return nil, ErrMissingPrivateKey
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	return key, nil
}

// Dial connects to rpcURL and opens a session for key.
// A non-zero expectedChainID must match the chain ID reported by the RPC.
func Dial(ctx context.Context, rpcURL string, key *ecdsa.PrivateKey, expectedChainID uint64, opts ...Option) (*Session, error) {
	log := logger.Named("chain_session")
	log.With("url", rpcURL).Debug("dialing RPC")

	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", rpcURL, err)
	}

	session, err := NewSession(ctx, client, key, expectedChainID, opts...)
	if err != nil {
		client.Close()
		return nil, err
	}
	session.closer = client.Close

	return session, nil
}

// NewSession opens a session on an existing backend.
func NewSession(ctx context.Context, backend Backend, key *ecdsa.PrivateKey, expectedChainID uint64, opts ...Option) (*Session, error) {
	if key == nil {
		return nil, ErrMissingPrivateKey
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	if expectedChainID != 0 && chainID.Uint64() != expectedChainID {
		return nil, fmt.Errorf("%w: rpc reports %s, configured %d", ErrChainIDMismatch, chainID, expectedChainID)
	}

	s := &Session{
		backend:   backend,
		key:       key,
		from:      crypto.PubkeyToAddress(key.PublicKey),
		chainID:   chainID,
		txTimeout: defaultTxTimeout,
		logger:    logger.Named("chain_session"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.With("chain_id", chainID).With("from", s.from.Hex()).Debug("session opened")

	return s, nil
}

// Close releases the RPC connection if the session owns one.
func (s *Session) Close() {
	if s.closer != nil {
		s.closer()
	}
}

func (s *Session) From() common.Address {
	return s.from
}

func (s *Session) ChainID() *big.Int {
	return new(big.Int).Set(s.chainID)
}

func (s *Session) Backend() Backend {
	return s.backend
}

// Balance returns the signer's balance at the latest block.
func (s *Session) Balance(ctx context.Context) (*big.Int, error) {
	balance, err := s.backend.BalanceAt(ctx, s.from, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// TransactOpts returns signing options bound to ctx. Gas pricing and limits are left to
// the backend's estimation.
func (s *Session) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	auth, err := bind.NewKeyedTransactorWithChainID(s.key, s.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	auth.Context = ctx

	return auth, nil
}

// WithTxContext derives the per-transaction context.
func (s *Session) WithTxContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.txTimeout)
}

// Wait blocks until tx is mined and fails if it reverted.
func (s *Session) Wait(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	receipt, err := bind.WaitMined(ctx, s.backend, tx)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", tx.Hash().Hex(), err)
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return receipt, fmt.Errorf("%w: %s (status %d)", ErrTransactionReverted, tx.Hash().Hex(), receipt.Status)
	}

	return receipt, nil
}

// Transact sends a contract method call and waits for it to be mined.
func (s *Session) Transact(ctx context.Context, to common.Address, contractABI abi.ABI, method string, args ...any) (*types.Receipt, error) {
	ctx, cancel := s.WithTxContext(ctx)
	defer cancel()

	auth, err := s.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	contract := bind.NewBoundContract(to, contractABI, s.backend, s.backend, s.backend)
	tx, err := contract.Transact(auth, method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send %s: %w", method, err)
	}

	s.logger.
		With("method", method).
		With("to", to.Hex()).
		With("tx_hash", tx.Hash().Hex()).
		Info("transaction sent")

	return s.Wait(ctx, tx)
}
