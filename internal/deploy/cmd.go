package deploy

import (
	"fmt"
	"time"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/console"
	"github.com/cswap-network/xswap-deployer/internal/env"
	"github.com/cswap-network/xswap-deployer/internal/plan"
	"github.com/cswap-network/xswap-deployer/internal/verify"
	"github.com/spf13/cobra"
)

var CMD = &cobra.Command{
	Use:       "deploy <para|cctp|router>",
	Short:     "Deploy a contract with the network's constructor arguments",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(plan.ScriptPara), string(plan.ScriptCCTP), string(plan.ScriptRouter)},
	RunE:      runDeploy,
}

var (
	flagVerify      bool
	flagVerifyDelay time.Duration
)

func init() {
	CMD.Flags().BoolVar(&flagVerify, "verify", false, "Verify on the block explorer (default depends on the script and network)")
	CMD.Flags().DurationVar(&flagVerifyDelay, "verify-delay", 0, "Wait before verifying (default verify.delay)")
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg := configs.Values
	ctx := cmd.Context()

	script := plan.Script(args[0])
	if !script.CanDeploy() {
		return fmt.Errorf("script %q cannot deploy (available: %v)", script, plan.DeployScripts)
	}

	network, err := env.Network(cfg)
	if err != nil {
		return err
	}

	target, err := plan.Select(script, network.Name)
	if err != nil {
		return err
	}

	opts := Options{
		Verify:      target.Verify,
		VerifyDelay: cfg.Verify.Delay,
	}
	if cmd.Flags().Changed("verify") {
		opts.Verify = flagVerify
	}
	if cmd.Flags().Changed("verify-delay") {
		opts.VerifyDelay = flagVerifyDelay
	}

	artifacts, err := env.Artifacts(cfg)
	if err != nil {
		return err
	}
	store := env.Records(cfg)
	printer := console.NewPrinter(cmd.OutOrStdout())

	var verifier Verifier
	if opts.Verify {
		client, err := env.Explorer(cfg, network)
		if err != nil {
			return err
		}
		verifier = verify.NewService(network, artifacts, store, client, printer)
	}

	session, err := env.Session(ctx, cfg, network)
	if err != nil {
		return err
	}
	defer session.Close()

	if _, err := NewService(session, network, artifacts, store, verifier, printer).Deploy(ctx, target, opts); err != nil {
		return fmt.Errorf("deploy %s on %s: %w", script, network.Name, err)
	}

	return nil
}
