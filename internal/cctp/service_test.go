package cctp

import (
	"bytes"
	"context"
	"testing"

	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/chain/chaintest"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deployStub(t *testing.T, session *chain.Session, bytecode string) common.Address {
	t.Helper()
	ctx := context.Background()

	auth, err := session.TransactOpts(ctx)
	require.NoError(t, err)
	address, tx, _, err := bind.DeployContract(auth, abi.ABI{}, common.FromHex(bytecode), session.Backend())
	require.NoError(t, err)
	_, err = session.Wait(ctx, tx)
	require.NoError(t, err)

	return address
}

func TestSetExecutor(t *testing.T) {
	color.NoColor = true
	sim := chaintest.New(t)
	ctx := context.Background()

	session, err := chain.NewSession(ctx, sim.Client(), sim.Key, chaintest.ChainID)
	require.NoError(t, err)
	contract := deployStub(t, session, chaintest.StopBytecode)

	out := &bytes.Buffer{}
	receipt, err := NewService(session, console.NewPrinter(out)).SetExecutor(ctx, contract, common.HexToAddress(plan.DefaultExecutor))
	require.NoError(t, err)
	assert.Equal(t, types.ReceiptStatusSuccessful, receipt.Status)

	assert.Contains(t, out.String(), "deployer: "+sim.Address.Hex())
	assert.Contains(t, out.String(), "txHash: "+receipt.TxHash.Hex())

	tx, _, err := sim.Client().TransactionByHash(ctx, receipt.TxHash)
	require.NoError(t, err)
	assert.Equal(t, contract, *tx.To())
	require.Len(t, tx.Data(), 4+32)
	assert.Equal(t, common.HexToAddress(plan.DefaultExecutor).Bytes(), tx.Data()[16:36])
}

func TestSetExecutor_Reverted(t *testing.T) {
	color.NoColor = true
	sim := chaintest.New(t)
	ctx := context.Background()

	session, err := chain.NewSession(ctx, sim.Client(), sim.Key, chaintest.ChainID)
	require.NoError(t, err)
	contract := deployStub(t, session, chaintest.RevertBytecode)

	_, err = NewService(session, console.NewPrinter(&bytes.Buffer{})).SetExecutor(ctx, contract, common.HexToAddress(plan.DefaultExecutor))
	assert.Error(t, err)
}
