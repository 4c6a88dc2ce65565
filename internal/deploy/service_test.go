package deploy

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/chain/chaintest"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/contracts/contractstest"
	fsjson "github.com/cswap-network/xswap-deployer/internal/filesystem/json"
	"github.com/cswap-network/xswap-deployer/internal/networks"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/cswap-network/xswap-deployer/internal/records"
	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerifier struct {
	calls []common.Address
	args  [][]string
	err   error
}

func (f *fakeVerifier) Verify(_ context.Context, _ contracts.Name, address common.Address, args []string) error {
	f.calls = append(f.calls, address)
	f.args = append(f.args, args)
	return f.err
}

type fixture struct {
	sim     *chaintest.Chain
	store   *records.Store
	out     *bytes.Buffer
	service *Service
}

func newFixture(t *testing.T, networkName configs.NetworkName, bytecode string, verifier Verifier) *fixture {
	t.Helper()
	color.NoColor = true

	sim := chaintest.New(t)
	ctx := context.Background()

	session, err := chain.NewSession(ctx, sim.Client(), sim.Key, chaintest.ChainID)
	require.NoError(t, err)

	network, err := networks.Resolve(configs.MustDefaultConfig(), networkName)
	require.NoError(t, err)

	artifacts, err := contracts.LoadArtifacts(contractstest.WriteArtifacts(t, bytecode), fsjson.NewReader())
	require.NoError(t, err)

	store := records.NewStore(t.TempDir(), fsjson.NewReader(), fsjson.NewWriter())
	out := &bytes.Buffer{}

	return &fixture{
		sim:     sim,
		store:   store,
		out:     out,
		service: NewService(session, network, artifacts, store, verifier, console.NewPrinter(out)),
	}
}

func TestDeploy_Router(t *testing.T) {
	verifier := &fakeVerifier{}
	f := newFixture(t, configs.NetworkArbitrumOne, chaintest.StopBytecode, verifier)
	ctx := context.Background()

	target, err := plan.Select(plan.ScriptRouter, configs.NetworkArbitrumOne)
	require.NoError(t, err)

	record, err := f.service.Deploy(ctx, target, Options{Verify: true})
	require.NoError(t, err)

	assert.Equal(t, contracts.NameCSWAPSmartRouter, record.Contract)
	assert.True(t, record.Verified)
	assert.Equal(t, f.sim.Address.Hex(), record.Deployer)
	assert.Equal(t, []string{"0x82aF49447D8a07e3bd95BD0d56f35241523fBab1", f.sim.Address.Hex(), "500"}, record.Arguments)

	code, err := f.sim.Client().CodeAt(ctx, common.HexToAddress(record.Address), nil)
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	require.Len(t, verifier.calls, 1)
	assert.Equal(t, common.HexToAddress(record.Address), verifier.calls[0])
	assert.Equal(t, record.Arguments, verifier.args[0])

	latest, err := f.store.Latest(configs.NetworkArbitrumOne, contracts.NameCSWAPSmartRouter)
	require.NoError(t, err)
	assert.Equal(t, record.Address, latest.Address)
	assert.Equal(t, record.TxHash, latest.TxHash)

	output := f.out.String()
	assert.Contains(t, output, "deployer: "+f.sim.Address.Hex())
	assert.Contains(t, output, "deploying on arbitrumOne")
	assert.Contains(t, output, "CSWAPSmartRouter on arbitrumOne: "+record.Address)
	assert.Contains(t, output, "verify waiting")
	assert.Contains(t, output, "verify started")
}

func TestDeploy_CCTPWithoutVerification(t *testing.T) {
	f := newFixture(t, configs.NetworkArbitrumOne, chaintest.StopBytecode, nil)

	target, err := plan.Select(plan.ScriptCCTP, configs.NetworkArbitrumOne)
	require.NoError(t, err)
	require.False(t, target.Verify)

	record, err := f.service.Deploy(context.Background(), target, Options{Verify: target.Verify})
	require.NoError(t, err)
	assert.Equal(t, contracts.NameCCTPSwap, record.Contract)
	assert.False(t, record.Verified)
	assert.Len(t, record.Arguments, 7)
	assert.NotContains(t, f.out.String(), "verify waiting")
}

func TestDeploy_VerifyWithoutVerifier(t *testing.T) {
	f := newFixture(t, configs.NetworkBase, chaintest.StopBytecode, nil)

	target, err := plan.Select(plan.ScriptPara, configs.NetworkBase)
	require.NoError(t, err)

	_, err = f.service.Deploy(context.Background(), target, Options{Verify: true})
	assert.ErrorIs(t, err, ErrVerifierRequired)
}

func TestDeploy_Reverted(t *testing.T) {
	f := newFixture(t, configs.NetworkBase, "0x60006000fd", nil)

	target, err := plan.Select(plan.ScriptPara, configs.NetworkBase)
	require.NoError(t, err)

	_, err = f.service.Deploy(context.Background(), target, Options{})
	require.Error(t, err)

	_, err = f.store.Latest(configs.NetworkBase, contracts.NameParaCCIP)
	assert.ErrorIs(t, err, records.ErrRecordNotFound)
}

func TestDeploy_VerificationFailureKeepsRecord(t *testing.T) {
	verifier := &fakeVerifier{err: errors.New("explorer down")}
	f := newFixture(t, configs.NetworkAvalanche, chaintest.StopBytecode, verifier)

	target, err := plan.Select(plan.ScriptCCTP, configs.NetworkAvalanche)
	require.NoError(t, err)
	require.Equal(t, contracts.NameAvaxInstantSwap, target.Contract)

	_, err = f.service.Deploy(context.Background(), target, Options{Verify: true})
	require.Error(t, err)

	latest, err := f.store.Latest(configs.NetworkAvalanche, contracts.NameAvaxInstantSwap)
	require.NoError(t, err)
	assert.False(t, latest.Verified)
}
