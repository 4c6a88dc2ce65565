package contracts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/docker"
	fsjson "github.com/cswap-network/xswap-deployer/internal/filesystem/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	pulled  []string
	opts    docker.RunOptions
	runErr  error
	outTree map[string]string
}

func (f *fakeRunner) EnsureImage(_ context.Context, imageName string) error {
	f.pulled = append(f.pulled, imageName)
	return nil
}

func (f *fakeRunner) Run(_ context.Context, opts docker.RunOptions) (string, error) {
	f.opts = opts
	if f.runErr != nil {
		return "", f.runErr
	}
	for rel, content := range f.outTree {
		path := filepath.Join(opts.CopyOut.HostPath, forgeOutDir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return "", err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", err
		}
	}
	return "Compiler run successful!", nil
}

const forgeRouterArtifact = `{
	"abi": [{"type":"constructor","inputs":[{"name":"weth","type":"address"},{"name":"owner","type":"address"},{"name":"fee","type":"uint256"}],"stateMutability":"nonpayable"}],
	"bytecode": {"object": "0x6001600c60003960016000f300"},
	"metadata": {
		"compiler": {"version": "0.8.20+commit.a1b79de6"},
		"settings": {"compilationTarget": {"src/CSWAPSmartRouter.sol": "CSWAPSmartRouter"}}
	}
}`

const forgeBuildInfo = `{"id":"f00d","solcLongVersion":"0.8.20+commit.a1b79de6","input":{"language":"Solidity","sources":{"src/CSWAPSmartRouter.sol":{"content":"..."}}}}`

func newTestCompiler(t *testing.T, runner ContainerRunner) (*Compiler, configs.Compiler) {
	t.Helper()

	settings := configs.MustDefaultConfig().Compiler
	settings.ContractsDir = t.TempDir()

	return NewCompiler(runner, settings, fsjson.NewReader(), fsjson.NewWriter()), settings
}

func TestCompile(t *testing.T) {
	runner := &fakeRunner{outTree: map[string]string{
		"CSWAPSmartRouter.sol/CSWAPSmartRouter.json": forgeRouterArtifact,
		"build-info/f00d.json":                       forgeBuildInfo,
	}}
	compiler, settings := newTestCompiler(t, runner)
	artifactsDir := t.TempDir()

	require.NoError(t, compiler.Compile(context.Background(), artifactsDir, []Name{NameCSWAPSmartRouter}))

	assert.Equal(t, []string{settings.Image}, runner.pulled)
	assert.Equal(t, []string{"forge"}, runner.opts.Entrypoint)
	assert.Equal(t, []string{
		"build", "--build-info", "--out", "out", "--use", "0.8.20",
		"--optimize", "--optimizer-runs", "100", "--via-ir",
	}, runner.opts.Cmd)
	assert.Equal(t, settings.ContractsDir, runner.opts.CopyIn.HostPath)
	assert.Equal(t, containerWorkDir, runner.opts.CopyIn.ContainerPath)

	artifacts, err := LoadArtifacts(artifactsDir, fsjson.NewReader())
	require.NoError(t, err)

	router, err := artifacts.Get(NameCSWAPSmartRouter)
	require.NoError(t, err)
	assert.Equal(t, "src/CSWAPSmartRouter.sol", router.SourceName)
	assert.Equal(t, "build-info/f00d.json", router.BuildInfo)

	input, version, err := artifacts.StandardJSONInput(router)
	require.NoError(t, err)
	assert.Equal(t, "0.8.20+commit.a1b79de6", version)
	assert.Contains(t, string(input), "src/CSWAPSmartRouter.sol")
}

func TestCompile_MissingArtifact(t *testing.T) {
	runner := &fakeRunner{outTree: map[string]string{
		"CSWAPSmartRouter.sol/CSWAPSmartRouter.json": forgeRouterArtifact,
	}}
	compiler, _ := newTestCompiler(t, runner)

	err := compiler.Compile(context.Background(), t.TempDir(), []Name{NameParaCCIP})
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestCompile_RunnerFailure(t *testing.T) {
	runner := &fakeRunner{runErr: errors.New("container exited with code 1")}
	compiler, _ := newTestCompiler(t, runner)

	err := compiler.Compile(context.Background(), t.TempDir(), []Name{NameParaCCIP})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "forge build failed")
}

func TestCompile_MissingContractsDir(t *testing.T) {
	runner := &fakeRunner{}
	compiler, _ := newTestCompiler(t, runner)
	compiler.settings.ContractsDir = filepath.Join(t.TempDir(), "missing")

	err := compiler.Compile(context.Background(), t.TempDir(), []Name{NameParaCCIP})
	require.Error(t, err)
	assert.Empty(t, runner.pulled)
}

func TestFindArtifact_Ambiguous(t *testing.T) {
	outDir := t.TempDir()
	for _, dir := range []string{"A.sol", "B.sol"} {
		require.NoError(t, os.MkdirAll(filepath.Join(outDir, dir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(outDir, dir, "ParaCCIP.json"), []byte("{}"), 0o644))
	}

	_, err := findArtifact(outDir, NameParaCCIP)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}
