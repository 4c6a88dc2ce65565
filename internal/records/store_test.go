package records

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	fsjson "github.com/cswap-network/xswap-deployer/internal/filesystem/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(contract contracts.Name, address string) Record {
	return Record{
		Contract:   contract,
		Address:    address,
		TxHash:     "0xabc",
		Block:      7,
		Deployer:   "0x00000000000000000000000000000000000000aa",
		Arguments:  []string{"0x4200000000000000000000000000000000000006", "100"},
		DeployedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(t.TempDir(), fsjson.NewReader(), fsjson.NewWriter())

	file, err := store.Load(configs.NetworkBase)
	require.NoError(t, err)
	assert.Equal(t, configs.NetworkBase, file.Network)
	assert.Empty(t, file.Deployments)

	_, err = store.Latest(configs.NetworkBase, contracts.NameParaCCIP)
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestStore_AppendAndLatest(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, fsjson.NewReader(), fsjson.NewWriter())

	require.NoError(t, store.Append(configs.NetworkBase, 8453, record(contracts.NameCSWAPSmartRouter, "0x01")))
	require.NoError(t, store.Append(configs.NetworkBase, 8453, record(contracts.NameParaCCIP, "0x02")))
	require.NoError(t, store.Append(configs.NetworkBase, 8453, record(contracts.NameCSWAPSmartRouter, "0x03")))

	latest, err := store.Latest(configs.NetworkBase, contracts.NameCSWAPSmartRouter)
	require.NoError(t, err)
	assert.Equal(t, "0x03", latest.Address)
	assert.Equal(t, []string{"0x4200000000000000000000000000000000000006", "100"}, latest.Arguments)
	assert.True(t, latest.DeployedAt.Equal(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)))

	file, err := store.Load(configs.NetworkBase)
	require.NoError(t, err)
	assert.Equal(t, uint64(8453), file.ChainID)
	assert.Len(t, file.Deployments, 3)

	data, err := os.ReadFile(filepath.Join(dir, "base.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "contract: CSWAPSmartRouter")
	assert.Contains(t, string(data), "tx-hash: 0xabc")
}

func TestStore_MarkVerified(t *testing.T) {
	store := NewStore(t.TempDir(), fsjson.NewReader(), fsjson.NewWriter())
	require.NoError(t, store.Append(configs.NetworkOptimism, 10, record(contracts.NameCCTPSwap, "0xAbC")))

	require.NoError(t, store.MarkVerified(configs.NetworkOptimism, "0xabc"))
	require.NoError(t, store.MarkVerified(configs.NetworkOptimism, "0xdef"))

	found, err := store.Find(configs.NetworkOptimism, "0xABC")
	require.NoError(t, err)
	assert.True(t, found.Verified)

	_, err = store.Find(configs.NetworkOptimism, "0xdef")
	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.yaml"), []byte("deployments: [unterminated"), 0o644))

	_, err := NewStore(dir, fsjson.NewReader(), fsjson.NewWriter()).Load(configs.NetworkBase)
	assert.Error(t, err)
}

type mapReader map[string][]byte

func (r mapReader) ReadJSON(path string, target any) error {
	return errors.New("not used")
}

func (r mapReader) ReadBytes(path string) ([]byte, error) {
	data, ok := r[path]
	if !ok {
		return nil, fmt.Errorf("failed to read file: %w", fs.ErrNotExist)
	}
	return data, nil
}

func TestStore_LoadThroughReader(t *testing.T) {
	reader := mapReader{
		filepath.Join("records", "base.yaml"): []byte("chain-id: 8453\ndeployments:\n  - contract: ParaCCIP\n    address: \"0x00000000000000000000000000000000000000dd\"\n"),
	}
	store := NewStore("records", reader, fsjson.NewWriter())

	file, err := store.Load(configs.NetworkBase)
	require.NoError(t, err)
	assert.Equal(t, configs.NetworkBase, file.Network)
	assert.Equal(t, uint64(8453), file.ChainID)
	require.Len(t, file.Deployments, 1)
	assert.Equal(t, contracts.NameParaCCIP, file.Deployments[0].Contract)

	empty, err := store.Load(configs.NetworkOptimism)
	require.NoError(t, err)
	assert.Empty(t, empty.Deployments)
}
