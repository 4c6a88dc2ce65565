package plan

import (
	"fmt"
	"slices"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/contracts"
)

type (
	Script string

	// Target is what a script does on one network: which contract it handles and
	// whether the deployment is verified unless told otherwise.
	Target struct {
		Script   Script
		Contract contracts.Name
		Verify   bool
	}
)

const (
	ScriptPara   Script = "para"
	ScriptCCTP   Script = "cctp"
	ScriptRouter Script = "router"
	ScriptSame   Script = "same"
)

var (
	// DeployScripts can deploy new contracts.
	DeployScripts = []Script{ScriptPara, ScriptCCTP, ScriptRouter}

	// VerifyScripts can verify existing deployments.
	VerifyScripts = []Script{ScriptPara, ScriptCCTP, ScriptRouter, ScriptSame}
)

// Select resolves script on network into its target contract.
func Select(script Script, network configs.NetworkName) (Target, error) {
	var target Target

	switch script {
	case ScriptPara:
		target = Target{Script: script, Contract: contracts.NameParaCCIP, Verify: true}
	case ScriptCCTP:
		if network == configs.NetworkAvalanche {
			target = Target{Script: script, Contract: contracts.NameAvaxInstantSwap, Verify: true}
		} else {
			target = Target{Script: script, Contract: contracts.NameCCTPSwap}
		}
	case ScriptRouter:
		target = Target{Script: script, Contract: contracts.NameCSWAPSmartRouter, Verify: true}
	case ScriptSame:
		target = Target{Script: script, Contract: contracts.NameParaSameSwap, Verify: true}
	default:
		return Target{}, fmt.Errorf("unknown script %q (available: %v)", script, VerifyScripts)
	}

	if _, ok := table[target.Contract].Rows[network]; !ok {
		return Target{}, fmt.Errorf("%w: script %s deploys %s, supported networks: %v",
			ErrUnsupportedNetwork, script, target.Contract, table[target.Contract].Networks())
	}

	return target, nil
}

// CanDeploy reports whether script creates contracts rather than only verifying them.
func (s Script) CanDeploy() bool {
	return slices.Contains(DeployScripts, s)
}
