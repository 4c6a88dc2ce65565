package cctp

import (
	"fmt"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/env"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "cctp",
	Short: "CCTPSwap administration commands",
}

var setExecutorCmd = &cobra.Command{
	Use:   "set-executor",
	Short: "Set the executor of a CCTPSwap deployment",
	RunE:  runSetExecutor,
}

var (
	flagContract string
	flagExecutor string
)

func init() {
	setExecutorCmd.Flags().StringVar(&flagContract, "contract", "", "CCTPSwap address (defaults to the known deployment of the network)")
	setExecutorCmd.Flags().StringVar(&flagExecutor, "executor", plan.DefaultExecutor, "Executor address")

	CMD.AddCommand(setExecutorCmd)
}

func runSetExecutor(cmd *cobra.Command, args []string) error {
	cfg := configs.Values
	ctx := cmd.Context()

	network, err := env.Network(cfg)
	if err != nil {
		return err
	}

	contract, ok := plan.KnownAddress(contracts.NameCCTPSwap, network.Name)
	if flagContract != "" {
		if !common.IsHexAddress(flagContract) {
			return fmt.Errorf("invalid contract address %q", flagContract)
		}
		contract, ok = common.HexToAddress(flagContract), true
	}
	if !ok {
		return fmt.Errorf("%w: no known CCTPSwap on %s (use --contract)", plan.ErrUnsupportedNetwork, network.Name)
	}

	if !common.IsHexAddress(flagExecutor) {
		return fmt.Errorf("invalid executor address %q", flagExecutor)
	}

	session, err := env.Session(ctx, cfg, network)
	if err != nil {
		return err
	}
	defer session.Close()

	if _, err := NewService(session, console.NewPrinter(cmd.OutOrStdout())).SetExecutor(ctx, contract, common.HexToAddress(flagExecutor)); err != nil {
		return fmt.Errorf("set-executor on %s: %w", network.Name, err)
	}

	return nil
}
