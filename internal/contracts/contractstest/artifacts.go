// Package contractstest writes artifact directories for tests that deploy or verify
// contracts without compiling them.
package contractstest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/plan"
)

const (
	CompilerVersion = "0.8.20+commit.a1b79de6"
	BuildInfoFile   = "build-info/test.json"
)

// StandardJSONInput is the compiler input recorded in the test build info.
const StandardJSONInput = `{"language":"Solidity","sources":{"src/Test.sol":{"content":"// test"}}}`

// WriteArtifacts writes contracts.json for every deployable contract into a temporary
// directory and returns it. Each constructor follows the contract's declared
// parameters and every contract uses bytecode.
func WriteArtifacts(t testing.TB, bytecode string) string {
	t.Helper()

	dir := t.TempDir()

	entries := make(map[string]any)
	for name := range contracts.Contracts {
		declared, ok := plan.Lookup(name)
		if !ok {
			t.Fatalf("contract %s has no declaration", name)
		}

		entries[string(name)] = map[string]any{
			"abi":             constructorABI(declared.Params),
			"bytecode":        bytecode,
			"sourceName":      "src/" + string(name) + ".sol",
			"compilerVersion": CompilerVersion,
			"buildInfo":       BuildInfoFile,
		}
	}

	writeJSON(t, filepath.Join(dir, "contracts.json"), entries)
	writeJSON(t, filepath.Join(dir, filepath.FromSlash(BuildInfoFile)), map[string]any{
		"id":              "test",
		"solcLongVersion": CompilerVersion,
		"input":           json.RawMessage(StandardJSONInput),
	})

	return dir
}

func constructorABI(params []plan.Param) []any {
	inputs := make([]map[string]string, 0, len(params))
	for _, param := range params {
		typ := "address"
		if param.Kind == plan.KindUint {
			typ = "uint256"
		}
		inputs = append(inputs, map[string]string{"name": param.Name, "type": typ})
	}

	return []any{map[string]any{
		"type":            "constructor",
		"inputs":          inputs,
		"stateMutability": "nonpayable",
	}}
}

func writeJSON(t testing.TB, path string, v any) {
	t.Helper()

	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("failed to marshal %s: %v", path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
