package ccip

import (
	"fmt"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
	"github.com/cswap-network/xswap-deployer/internal/env"
	"github.com/cswap-network/xswap-deployer/internal/networks"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/cswap-network/xswap-deployer/internal/status"
	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "ccip",
	Short: "ParaCCIP administration commands",
}

var allowlistCmd = &cobra.Command{
	Use:   "allowlist",
	Short: "Allow-list every supported chain selector as destination and source",
	RunE:  runAllowlist,
}

var allowlistSendersCmd = &cobra.Command{
	Use:   "allowlist-senders",
	Short: "Allow-list the ParaCCIP deployments of other chains as senders",
	RunE:  runAllowlistSenders,
}

var (
	flagContract string
	flagSenders  []string
)

func init() {
	CMD.PersistentFlags().StringVar(&flagContract, "contract", "", "ParaCCIP address (defaults to the known deployment of the network)")
	allowlistSendersCmd.Flags().StringSliceVar(&flagSenders, "sender", nil, "Sender address to allow (defaults to every known ParaCCIP deployment)")

	CMD.AddCommand(allowlistCmd)
	CMD.AddCommand(allowlistSendersCmd)
}

func runAllowlist(cmd *cobra.Command, args []string) error {
	selectors, err := plan.AllowlistSelectors()
	if err != nil {
		return err
	}

	return withService(cmd, func(service *Service, contract common.Address) error {
		return service.Allowlist(cmd.Context(), contract, selectors)
	})
}

func runAllowlistSenders(cmd *cobra.Command, args []string) error {
	senders := plan.KnownAddresses(contracts.NameParaCCIP)
	if len(flagSenders) > 0 {
		senders = make([]common.Address, 0, len(flagSenders))
		for _, sender := range flagSenders {
			if !common.IsHexAddress(sender) {
				return fmt.Errorf("invalid sender address %q", sender)
			}
			senders = append(senders, common.HexToAddress(sender))
		}
	}

	return withService(cmd, func(service *Service, contract common.Address) error {
		return service.AllowlistSenders(cmd.Context(), contract, senders)
	})
}

func withService(cmd *cobra.Command, run func(*Service, common.Address) error) error {
	cfg := configs.Values
	ctx := cmd.Context()

	network, err := env.Network(cfg)
	if err != nil {
		return err
	}

	contract, err := resolveContract(network, flagContract)
	if err != nil {
		return err
	}

	inspector, err := status.Dial(network.RPCURL)
	if err != nil {
		return err
	}
	defer inspector.Close()

	session, err := env.Session(ctx, cfg, network)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := run(NewService(session, inspector, console.NewPrinter(cmd.OutOrStdout())), contract); err != nil {
		return fmt.Errorf("%s on %s: %w", cmd.Name(), network.Name, err)
	}

	return nil
}

func resolveContract(network networks.Network, explicit string) (common.Address, error) {
	if explicit != "" {
		if !common.IsHexAddress(explicit) {
			return common.Address{}, fmt.Errorf("invalid contract address %q", explicit)
		}
		return common.HexToAddress(explicit), nil
	}

	address, ok := plan.KnownAddress(contracts.NameParaCCIP, network.Name)
	if !ok {
		return common.Address{}, fmt.Errorf("%w: no known ParaCCIP on %s (use --contract)", plan.ErrUnsupportedNetwork, network.Name)
	}

	return address, nil
}
