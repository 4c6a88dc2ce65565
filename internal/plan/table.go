// Package plan is the single typed table of constructor arguments, deploy scripts and
// known deployments the deployer works from.
package plan

import (
	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
)

// DeployerValue stands for the signer's address in a row and is bound at resolution time.
const DeployerValue = "deployer"

type (
	Kind int

	Param struct {
		Name string
		Kind Kind
	}

	// Contract is a constructor signature plus one argument row per network it deploys on.
	Contract struct {
		Name   contracts.Name
		Params []Param
		Rows   map[configs.NetworkName][]string
	}
)

const (
	KindAddress Kind = iota
	KindUint
)

func (k Kind) String() string {
	switch k {
	case KindAddress:
		return "address"
	case KindUint:
		return "uint"
	default:
		return "unknown"
	}
}

const (
	paraswapAugustus = "0x6A000F20005980200259B80c5102003040001068"
	feeCollector     = "0xe1Ff5a4C489B11E094BFBB5d23c6d4597a3a79AD"
	uniswapV2Router  = "0x4752ba5DBc23f44D87826276BF6Fd6b1C372aD24"
	swapRouter02Arb  = "0x68b3465833fb72A70ecDF485E0e4C7bD8665Fc45"
	swapRouter02Base = "0x2626664c2603336E57B271c5C0b26F421741e481"
	usdcArbitrum     = "0xaf88d065e77c8cC2239327C5EDb3A432268e5831"
	usdcBase         = "0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"
	wethMainnet      = "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"
	wethArbitrum     = "0x82aF49447D8a07e3bd95BD0d56f35241523fBab1"
	wethOPStack      = "0x4200000000000000000000000000000000000006"
)

var table = map[contracts.Name]Contract{
	contracts.NameParaCCIP: {
		Name: contracts.NameParaCCIP,
		Params: []Param{
			{"router", KindAddress},
			{"usdc", KindAddress},
			{"swapRouter", KindAddress},
			{"v2Router", KindAddress},
			{"poolFee", KindUint},
			{"feeCollector", KindAddress},
			{"owner", KindAddress},
			{"augustus", KindAddress},
		},
		Rows: map[configs.NetworkName][]string{
			configs.NetworkBase: {
				"0x881e3A65B4d4a04dD529061dd0071cf975F58bCD",
				usdcBase,
				swapRouter02Base,
				uniswapV2Router,
				"500",
				feeCollector,
				DeployerValue,
				paraswapAugustus,
			},
			configs.NetworkArbitrumOne: {
				"0x141fa059441E0ca23ce184B6A78bafD2A517DdE8",
				usdcArbitrum,
				swapRouter02Arb,
				uniswapV2Router,
				"500",
				feeCollector,
				DeployerValue,
				paraswapAugustus,
			},
		},
	},
	contracts.NameParaSameSwap: {
		Name: contracts.NameParaSameSwap,
		Params: []Param{
			{"augustus", KindAddress},
			{"v2Router", KindAddress},
			{"swapRouter", KindAddress},
			{"weth", KindAddress},
			{"poolFee", KindUint},
			{"feeCollector", KindAddress},
		},
		Rows: map[configs.NetworkName][]string{
			configs.NetworkMainnet: {
				paraswapAugustus,
				"0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D",
				swapRouter02Arb,
				wethMainnet,
				"500",
				feeCollector,
			},
			configs.NetworkBase: {
				paraswapAugustus,
				uniswapV2Router,
				swapRouter02Base,
				wethOPStack,
				"500",
				feeCollector,
			},
			configs.NetworkArbitrumOne: {
				paraswapAugustus,
				uniswapV2Router,
				swapRouter02Arb,
				wethArbitrum,
				"500",
				feeCollector,
			},
		},
	},
	contracts.NameCCTPSwap: {
		Name: contracts.NameCCTPSwap,
		Params: []Param{
			{"swapRouter", KindAddress},
			{"v2Router", KindAddress},
			{"owner", KindAddress},
			{"usdc", KindAddress},
			{"weth", KindAddress},
			{"tokenMessenger", KindAddress},
			{"messageTransmitter", KindAddress},
		},
		Rows: map[configs.NetworkName][]string{
			configs.NetworkArbitrumOne: {
				swapRouter02Arb,
				uniswapV2Router,
				DeployerValue,
				usdcArbitrum,
				wethArbitrum,
				"0xC30362313FBBA5cf9163F0bb16a0e01f01A896ca",
				"0x19330d10D9Cc8751218eaf51E8885D058642E08A",
			},
		},
	},
	contracts.NameAvaxInstantSwap: {
		Name: contracts.NameAvaxInstantSwap,
		Params: []Param{
			{"lbRouter", KindAddress},
			{"joeRouter", KindAddress},
			{"usdc", KindAddress},
			{"owner", KindAddress},
		},
		Rows: map[configs.NetworkName][]string{
			configs.NetworkAvalanche: {
				"0xb4315e873dBcf96Ffd0acd8EA43f689D8c20fB30",
				"0xd76019A16606FDa4651f636D9751f500Ed776250",
				"0xB97EF9Ef8734C71904D8002F8b6Bc66Dd9c48a6E",
				DeployerValue,
			},
		},
	},
	contracts.NameCSWAPSmartRouter: {
		Name: contracts.NameCSWAPSmartRouter,
		Params: []Param{
			{"weth", KindAddress},
			{"owner", KindAddress},
			{"fee", KindUint},
		},
		Rows: map[configs.NetworkName][]string{
			configs.NetworkMainnet:     {wethMainnet, DeployerValue, "100"},
			configs.NetworkAvalanche:   {"0xB31f66AA3C1e785363F0875A1B74E27b85FD66c7", DeployerValue, "100"},
			configs.NetworkBase:        {wethOPStack, DeployerValue, "100"},
			configs.NetworkArbitrumOne: {wethArbitrum, DeployerValue, "500"},
			configs.NetworkPolygon:     {"0x0d500B1d8E8eF31E21C99d1Db9A6444d3ADf1270", DeployerValue, "100"},
			configs.NetworkOptimism:    {wethOPStack, DeployerValue, "100"},
		},
	},
}

// knownAddresses are deployments that exist on-chain already. They are administered by
// the ccip and cctp commands and are the default verify targets.
var knownAddresses = map[contracts.Name]map[configs.NetworkName]string{
	contracts.NameParaCCIP: {
		configs.NetworkBase:        "0x9399a6e310b39E19950Da67e3cCb8F227875F3CD",
		configs.NetworkArbitrumOne: "0xbdD423431aad35477eDe9e052fe60c1B5B0BebD5",
	},
	contracts.NameCCTPSwap: {
		configs.NetworkOptimism: "0x0b4756E69d8099287b3C3bd34C884f5f677E1878",
	},
	contracts.NameParaSameSwap: {
		configs.NetworkMainnet:     paraSameSwapAddress,
		configs.NetworkBase:        paraSameSwapAddress,
		configs.NetworkArbitrumOne: paraSameSwapAddress,
	},
}

// paraSameSwapAddress is the ParaSameSwap deployment shared by every network it has a row on.
const paraSameSwapAddress = "0x3E44c0a477238fc1DD21d4a60d7fe7c6018518e3"

// DefaultExecutor is the executor set on CCTPSwap when none is given.
const DefaultExecutor = "0xd3B130ad6Fed9276E1fd486bCa4B9a428E670d6c"

// allowlistChainIDs are the chains ParaCCIP exchanges messages with, in allow-list order.
var allowlistChainIDs = []uint64{1, 10, 42161, 137, 43114, 8453}
