package compile

import (
	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/spf13/viper"
)

func init() {
	defaults := configs.MustDefaultConfig().Compiler

	declareStringFlag("image", "compiler.image", defaults.Image, "Foundry image used to compile")
	declareStringFlag("contracts-dir", "compiler.contracts-dir", defaults.ContractsDir, "Foundry project holding the Solidity sources")
	declareStringFlag("solc", "compiler.solc-version", defaults.SolcVersion, "solc version")
	declareIntFlag("optimizer-runs", "compiler.optimizer-runs", defaults.OptimizerRuns, "Optimizer runs")
	declareBoolFlag("via-ir", "compiler.via-ir", defaults.ViaIR, "Compile through the IR pipeline")

	CMD.Flags().StringSliceVar(&flagOnly, "only", nil, "Compile only these contracts")
}

func declareStringFlag(name, key, defaultValue, description string) {
	CMD.Flags().String(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.Flags().Lookup(name)); err != nil {
		panic(err)
	}
}

func declareBoolFlag(name, key string, defaultValue bool, description string) {
	CMD.Flags().Bool(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.Flags().Lookup(name)); err != nil {
		panic(err)
	}
}

func declareIntFlag(name, key string, defaultValue int, description string) {
	CMD.Flags().Int(name, defaultValue, description)
	if err := viper.BindPFlag(key, CMD.Flags().Lookup(name)); err != nil {
		panic(err)
	}
}
