package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/docker"
	"github.com/cswap-network/xswap-deployer/internal/filesystem"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	containerWorkDir = "/tmp/work"
	forgeOutDir      = "out"
	buildInfoDirName = "build-info"
)

type (
	// ContainerRunner runs a one-shot container.
	ContainerRunner interface {
		EnsureImage(ctx context.Context, imageName string) error
		Run(ctx context.Context, opts docker.RunOptions) (string, error)
	}

	// Compiler compiles the Solidity sources with Foundry inside a container
	Compiler struct {
		runner   ContainerRunner
		settings configs.Compiler
		reader   filesystem.Reader
		writer   filesystem.Writer
		logger   *slog.Logger
	}

	forgeArtifact struct {
		ABI      json.RawMessage `json:"abi"`
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
		Metadata struct {
			Compiler struct {
				Version string `json:"version"`
			} `json:"compiler"`
			Settings struct {
				CompilationTarget map[string]string `json:"compilationTarget"`
			} `json:"settings"`
		} `json:"metadata"`
	}

	buildInfoSources struct {
		Input struct {
			Sources map[string]json.RawMessage `json:"sources"`
		} `json:"input"`
	}
)

// NewCompiler creates a new contract compiler
func NewCompiler(runner ContainerRunner, settings configs.Compiler, reader filesystem.Reader, writer filesystem.Writer) *Compiler {
	return &Compiler{
		runner:   runner,
		settings: settings,
		reader:   reader,
		writer:   writer,
		logger:   logger.Named("contracts_compiler"),
	}
}

// Compile builds the contracts project and writes contracts.json plus the matching
// build-info files into artifactsDir.
func (c *Compiler) Compile(ctx context.Context, artifactsDir string, contractNames []Name) error {
	c.logger.
		With("contracts_dir", c.settings.ContractsDir).
		With("image", c.settings.Image).
		Info("starting contract compilation")

	if _, err := os.Stat(c.settings.ContractsDir); err != nil {
		return fmt.Errorf("contracts directory not found. Directory: '%s': %w", c.settings.ContractsDir, err)
	}

	if err := c.runner.EnsureImage(ctx, c.settings.Image); err != nil {
		return fmt.Errorf("failed to prepare compiler image: %w", err)
	}

	staging, err := os.MkdirTemp("", "xswap-compile-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}
	defer os.RemoveAll(staging)

	output, err := c.runner.Run(ctx, docker.RunOptions{
		Image:      c.settings.Image,
		Entrypoint: []string{"forge"},
		Cmd:        c.forgeArgs(),
		WorkDir:    containerWorkDir,
		User:       "root",
		CopyIn: &docker.Copy{
			HostPath:      c.settings.ContractsDir,
			ContainerPath: containerWorkDir,
			Exclude:       []string{forgeOutDir, "cache"},
		},
		CopyOut: &docker.Copy{
			HostPath:      staging,
			ContainerPath: containerWorkDir + "/" + forgeOutDir,
		},
	})
	if err != nil {
		return fmt.Errorf("forge build failed: %w", err)
	}
	c.logger.Debug(strings.TrimSpace(output))

	if err := c.collect(filepath.Join(staging, forgeOutDir), artifactsDir, contractNames); err != nil {
		return err
	}

	c.logger.With("artifacts_dir", artifactsDir).Info("contracts compiled successfully")

	return nil
}

func (c *Compiler) forgeArgs() []string {
	args := []string{
		"build",
		"--build-info",
		"--out", forgeOutDir,
		"--use", c.settings.SolcVersion,
		"--optimize",
		"--optimizer-runs", strconv.Itoa(c.settings.OptimizerRuns),
	}
	if c.settings.ViaIR {
		args = append(args, "--via-ir")
	}
	return args
}

// collect converts forge output in outDir into contracts.json and copies the build-info
// files the requested contracts were compiled from.
func (c *Compiler) collect(outDir, artifactsDir string, contractNames []Name) error {
	buildInfos, err := c.indexBuildInfos(filepath.Join(outDir, buildInfoDirName))
	if err != nil {
		return err
	}

	jsonContracts := make(map[string]artifactJSON, len(contractNames))
	neededBuildInfos := make(map[string]string)

	for _, name := range contractNames {
		c.logger.With("name", name).Info("collecting contract artifact")

		artifactPath, err := findArtifact(outDir, name)
		if err != nil {
			return err
		}

		var artifact forgeArtifact
		if err := c.reader.ReadJSON(artifactPath, &artifact); err != nil {
			return fmt.Errorf("failed to read artifact of %s: %w", name, err)
		}

		if _, err := abi.JSON(strings.NewReader(string(artifact.ABI))); err != nil {
			return fmt.Errorf("failed to parse ABI for %s: %w", name, err)
		}

		sourceName := sourceNameOf(artifact, name)
		entry := artifactJSON{
			ABI:             artifact.ABI,
			Bytecode:        artifact.Bytecode.Object,
			SourceName:      sourceName,
			CompilerVersion: artifact.Metadata.Compiler.Version,
		}

		if buildInfoPath, ok := buildInfos[sourceName]; ok {
			rel := filepath.ToSlash(filepath.Join(buildInfoDirName, filepath.Base(buildInfoPath)))
			entry.BuildInfo = rel
			neededBuildInfos[rel] = buildInfoPath
		} else {
			c.logger.With("name", name).With("source", sourceName).Warn("no build info found; explorer verification will not be possible")
		}

		jsonContracts[string(name)] = entry
	}

	for rel, src := range neededBuildInfos {
		data, err := c.reader.ReadBytes(src)
		if err != nil {
			return fmt.Errorf("failed to read build info: %w", err)
		}
		if err := c.writer.WriteBytes(filepath.Join(artifactsDir, filepath.FromSlash(rel)), data); err != nil {
			return fmt.Errorf("failed to write build info %s: %w", rel, err)
		}
	}

	if err := c.writer.WriteJSON(filepath.Join(artifactsDir, contractsFileName), jsonContracts); err != nil {
		return fmt.Errorf("failed to write %s: %w", contractsFileName, err)
	}

	return nil
}

// indexBuildInfos maps each source file to the build-info file that compiled it.
func (c *Compiler) indexBuildInfos(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to list build info: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	index := make(map[string]string)
	for _, name := range names {
		path := filepath.Join(dir, name)

		var info buildInfoSources
		if err := c.reader.ReadJSON(path, &info); err != nil {
			return nil, fmt.Errorf("failed to read build info %s: %w", name, err)
		}

		for source := range info.Input.Sources {
			if _, seen := index[source]; !seen {
				index[source] = path
			}
		}
	}

	return index, nil
}

// findArtifact locates <name>.json under outDir, outside build-info.
func findArtifact(outDir string, name Name) (string, error) {
	var matches []string

	err := filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == buildInfoDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == string(name)+".json" {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", outDir, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s in %s", ErrArtifactNotFound, name, outDir)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("contract name %s is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}

func sourceNameOf(artifact forgeArtifact, name Name) string {
	for source, contract := range artifact.Metadata.Settings.CompilationTarget {
		if contract == string(name) {
			return source
		}
	}
	return ""
}
