package compile

import (
	"fmt"
	"log/slog"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/docker"
	fsjson "github.com/cswap-network/xswap-deployer/internal/filesystem/json"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "compile",
	Short: "Compile the Solidity contracts with Foundry in Docker",
	Long:  "Compiles the contracts project inside a Foundry container and writes contracts.json plus the build-info files used for explorer verification",
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("running contract compilation command")
		cfg := configs.Values

		if err := cfg.Compiler.Validate(); err != nil {
			return err
		}

		names, err := selectContracts(flagOnly)
		if err != nil {
			return err
		}

		dockerClient, err := docker.New()
		if err != nil {
			return err
		}
		defer dockerClient.Close()

		compiler := contracts.NewCompiler(dockerClient, cfg.Compiler, fsjson.NewReader(), fsjson.NewWriter())
		if err := compiler.Compile(cmd.Context(), cfg.ArtifactsDir, names); err != nil {
			return fmt.Errorf("failed to compile contracts: %w", err)
		}

		return nil
	},
}

var flagOnly []string

// allContracts is the compilation order when no subset is requested.
var allContracts = []contracts.Name{
	contracts.NameParaCCIP,
	contracts.NameParaSameSwap,
	contracts.NameCCTPSwap,
	contracts.NameAvaxInstantSwap,
	contracts.NameCSWAPSmartRouter,
}

func selectContracts(only []string) ([]contracts.Name, error) {
	if len(only) == 0 {
		return allContracts, nil
	}

	names := make([]contracts.Name, 0, len(only))
	for _, name := range only {
		if _, ok := contracts.Contracts[contracts.Name(name)]; !ok {
			return nil, fmt.Errorf("unknown contract %q (available: %v)", name, allContracts)
		}
		names = append(names, contracts.Name(name))
	}

	return names, nil
}
