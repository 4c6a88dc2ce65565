// Package bindings holds the administrative ABI fragments the deployer calls on
// already deployed contracts, so those calls work without compiled artifacts.
package bindings

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const (
	MethodAllowlistDestinationChain = "allowlistDestinationChain"
	MethodAllowlistSourceChain      = "allowlistSourceChain"
	MethodAllowlistSender           = "allowlistSender"
	MethodSetExecutor               = "setExecutor"
)

// ParaCCIPAdminABI is the allow-list surface of ParaCCIP.
const ParaCCIPAdminABI = `[
	{"type":"function","name":"allowlistDestinationChain","inputs":[{"name":"_destinationChainSelector","type":"uint64"},{"name":"allowed","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"allowlistSourceChain","inputs":[{"name":"_sourceChainSelector","type":"uint64"},{"name":"allowed","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"},
	{"type":"function","name":"allowlistSender","inputs":[{"name":"_sender","type":"address"},{"name":"allowed","type":"bool"}],"outputs":[],"stateMutability":"nonpayable"}
]`

// CCTPSwapAdminABI is the executor management surface of CCTPSwap.
const CCTPSwapAdminABI = `[
	{"type":"function","name":"setExecutor","inputs":[{"name":"_executor","type":"address"}],"outputs":[],"stateMutability":"nonpayable"}
]`

var (
	ParaCCIPAdmin = sync.OnceValues(func() (abi.ABI, error) {
		return abi.JSON(strings.NewReader(ParaCCIPAdminABI))
	})

	CCTPSwapAdmin = sync.OnceValues(func() (abi.ABI, error) {
		return abi.JSON(strings.NewReader(CCTPSwapAdminABI))
	})
)
