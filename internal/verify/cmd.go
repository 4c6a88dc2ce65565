package verify

import (
	"fmt"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/env"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:       "verify <para|cctp|router|same>",
	Short:     "Verify a deployed contract on the network's block explorer",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(plan.ScriptPara), string(plan.ScriptCCTP), string(plan.ScriptRouter), string(plan.ScriptSame)},
	RunE:      runVerify,
}

var flagAddress string

func init() {
	CMD.Flags().StringVar(&flagAddress, "address", "", "Contract address (defaults to the latest recorded or known deployment)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg := configs.Values

	network, err := env.Network(cfg)
	if err != nil {
		return err
	}

	target, err := plan.Select(plan.Script(args[0]), network.Name)
	if err != nil {
		return err
	}

	artifacts, err := env.Artifacts(cfg)
	if err != nil {
		return err
	}

	client, err := env.Explorer(cfg, network)
	if err != nil {
		return err
	}

	service := NewService(network, artifacts, env.Records(cfg), client, console.NewPrinter(cmd.OutOrStdout()))

	address, err := service.Target(target.Contract, flagAddress)
	if err != nil {
		return err
	}

	constructorArgs, err := service.Arguments(target.Contract, address, func() (common.Address, error) {
		return env.SignerAddress(cfg)
	})
	if err != nil {
		return err
	}

	if err := service.Verify(cmd.Context(), target.Contract, address, constructorArgs); err != nil {
		return fmt.Errorf("verify %s on %s: %w", target.Script, network.Name, err)
	}

	return nil
}
