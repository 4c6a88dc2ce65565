package networks

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:   "networks",
	Short: "List configured networks with chain IDs and CCIP selectors",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, err := All(configs.Values)
		if err != nil {
			return fmt.Errorf("failed to resolve networks: %w", err)
		}

		slog.With("count", len(all)).Debug("networks resolved")
		Render(cmd.OutOrStdout(), all)

		return nil
	},
}

// Render writes the networks as a table.
func Render(w io.Writer, all []Network) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Network", "Chain ID", "CCIP Selector", "RPC", "Explorer"})
	table.SetAutoWrapText(false)

	for _, n := range all {
		table.Append([]string{
			string(n.Name),
			strconv.FormatUint(n.ChainID, 10),
			strconv.FormatUint(n.Selector, 10),
			n.RPCHost(),
			n.Explorer.BrowserURL,
		})
	}

	table.Render()
}
