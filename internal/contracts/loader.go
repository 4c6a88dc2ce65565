package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cswap-network/xswap-deployer/internal/filesystem"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const contractsFileName = "contracts.json"

var (
	ErrArtifactNotFound = errors.New("contract artifact not found")
	ErrNoBuildInfo      = errors.New("contract artifact has no build info")
)

type (
	artifactJSON struct {
		ABI             json.RawMessage `json:"abi"`
		Bytecode        string          `json:"bytecode"`
		SourceName      string          `json:"sourceName,omitempty"`
		CompilerVersion string          `json:"compilerVersion,omitempty"`
		BuildInfo       string          `json:"buildInfo,omitempty"`
	}

	buildInfoJSON struct {
		ID              string          `json:"id"`
		SolcLongVersion string          `json:"solcLongVersion"`
		Input           json.RawMessage `json:"input"`
	}

	// Artifacts is the set of compiled contracts of one artifacts directory.
	Artifacts struct {
		dir       string
		contracts map[Name]CompiledContract
		reader    filesystem.Reader
	}
)

// LoadArtifacts loads the compiled contracts written by the compile command into dir.
func LoadArtifacts(dir string, reader filesystem.Reader) (*Artifacts, error) {
	data, err := reader.ReadBytes(filepath.Join(dir, contractsFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read compiled contracts (run the compile command first): %w", err)
	}

	loaded, err := parseContracts(data)
	if err != nil {
		return nil, err
	}

	return &Artifacts{
		dir:       dir,
		contracts: loaded,
		reader:    reader,
	}, nil
}

// parseContracts parses contract JSON data into CompiledContract map
func parseContracts(data []byte) (map[Name]CompiledContract, error) {
	var result map[string]artifactJSON

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse compiled contracts: %w", err)
	}

	loadedContracts := make(map[Name]CompiledContract)

	for name, contract := range result {
		if _, ok := Contracts[Name(name)]; !ok {
			continue
		}

		parsedABI, err := abi.JSON(strings.NewReader(string(contract.ABI)))
		if err != nil {
			return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		bytecodeHex := strings.TrimPrefix(contract.Bytecode, "0x")
		if bytecodeHex == "" {
			return nil, fmt.Errorf("empty bytecode for %s", name)
		}

		loadedContracts[Name(name)] = CompiledContract{
			Name:            Name(name),
			ABI:             parsedABI,
			RawABI:          string(contract.ABI),
			Bytecode:        common.Hex2Bytes(bytecodeHex),
			SourceName:      contract.SourceName,
			CompilerVersion: contract.CompilerVersion,
			BuildInfo:       contract.BuildInfo,
		}
	}

	return loadedContracts, nil
}

func (a *Artifacts) Dir() string {
	return a.dir
}

// Get returns the compiled contract called name.
func (a *Artifacts) Get(name Name) (CompiledContract, error) {
	contract, ok := a.contracts[name]
	if !ok {
		return CompiledContract{}, fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, name, a.dir)
	}
	return contract, nil
}

// StandardJSONInput returns the solc standard-JSON input the contract was compiled from,
// and the long compiler version recorded next to it.
func (a *Artifacts) StandardJSONInput(contract CompiledContract) ([]byte, string, error) {
	if contract.BuildInfo == "" {
		return nil, "", fmt.Errorf("%w: %s", ErrNoBuildInfo, contract.Name)
	}

	var info buildInfoJSON
	if err := a.reader.ReadJSON(filepath.Join(a.dir, contract.BuildInfo), &info); err != nil {
		return nil, "", fmt.Errorf("failed to read build info of %s: %w", contract.Name, err)
	}

	if len(info.Input) == 0 {
		return nil, "", fmt.Errorf("%w: %s has an empty compiler input", ErrNoBuildInfo, contract.Name)
	}

	version := contract.CompilerVersion
	if version == "" {
		version = info.SolcLongVersion
	}

	return info.Input, version, nil
}
