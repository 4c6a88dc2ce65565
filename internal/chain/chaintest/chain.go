// Package chaintest runs an in-memory chain for tests that send real transactions.
package chaintest

import (
	"crypto/ecdsa"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
)

const (
	// ChainID of the simulated backend.
	ChainID = 1337

	// StopBytecode deploys a contract whose runtime code is a single STOP, so every
	// call to it succeeds. Constructor arguments appended to it are ignored.
	StopBytecode = "0x6001600c60003960016000f300"

	// RevertBytecode deploys a contract whose runtime code always reverts.
	RevertBytecode = "0x6005600c60003960056000f360006000fd"
)

type Chain struct {
	Backend *simulated.Backend
	Key     *ecdsa.PrivateKey
	Address common.Address
}

// New starts a simulated chain funding a fresh key with 1000 ETH. Blocks are sealed in
// the background so callers waiting for receipts make progress.
func New(t testing.TB) *Chain {
	t.Helper()

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	address := crypto.PubkeyToAddress(key.PublicKey)

	balance := new(big.Int).Mul(big.NewInt(1000), big.NewInt(1e18))
	backend := simulated.NewBackend(types.GenesisAlloc{
		address: {Balance: balance},
	})

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(20 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				backend.Commit()
			}
		}
	}()

	t.Cleanup(func() {
		close(done)
		<-stopped
		_ = backend.Close()
	})

	return &Chain{
		Backend: backend,
		Key:     key,
		Address: address,
	}
}

func (c *Chain) Client() simulated.Client {
	return c.Backend.Client()
}
