package status

import (
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/chain"
	"github.com/cswap-network/xswap-deployer/internal/env"
	"github.com/ethereum/go-ethereum/params"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "status",
	Short: "Show the deployed contracts of a network and the deployer balance",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg := configs.Values

	network, err := env.Network(cfg)
	if err != nil {
		return err
	}

	account, err := env.SignerAddress(cfg)
	if err != nil && !errors.Is(err, chain.ErrMissingPrivateKey) {
		return err
	}

	targets, err := Targets(env.Records(cfg), network.Name)
	if err != nil {
		return err
	}

	inspector, err := Dial(network.RPCURL)
	if err != nil {
		return err
	}
	defer inspector.Close()

	report, err := inspector.Inspect(cmd.Context(), network.Name, account, targets)
	if err != nil {
		return err
	}

	Render(cmd.OutOrStdout(), report)

	return nil
}

// Render writes the report as a deployer line followed by a table of contracts.
func Render(w io.Writer, report Report) {
	if report.Balance != nil {
		fmt.Fprintf(w, "deployer: %s (%s ETH)\n", report.Account.Hex(), formatEther(report.Balance))
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Contract", "Address", "Source", "Code Size", "Deployed"})
	table.SetAutoWrapText(false)

	for _, entry := range report.Entries {
		deployed := "no"
		if entry.CodeSize > 0 {
			deployed = "yes"
		}
		table.Append([]string{
			string(entry.Contract),
			entry.Address.Hex(),
			entry.Source,
			strconv.Itoa(entry.CodeSize),
			deployed,
		})
	}

	table.Render()
}

func formatEther(wei *big.Int) string {
	ether := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(params.Ether))
	return ether.Text('f', 6)
}
