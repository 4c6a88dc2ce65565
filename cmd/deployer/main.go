package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cswap-network/xswap-deployer/configs"
	"github.com/cswap-network/xswap-deployer/internal/ccip"
	"github.com/cswap-network/xswap-deployer/internal/cctp"
	"github.com/cswap-network/xswap-deployer/internal/compile"
	"github.com/cswap-network/xswap-deployer/internal/deploy"
	"github.com/cswap-network/xswap-deployer/internal/logger"
	"github.com/cswap-network/xswap-deployer/internal/networks"
	"github.com/cswap-network/xswap-deployer/internal/status"
	"github.com/cswap-network/xswap-deployer/internal/verify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	appName    = "deployer"
	dotEnvFile = ".env"
)

var rootCmd = &cobra.Command{
	Use:           appName,
	Short:         "Deploy, verify and administer the xswap contracts",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger.Initialize(slog.LevelInfo)

		if err := configs.LoadDotEnv(dotEnvFile); err != nil {
			return err
		}

		var searchPaths []string
		if execPath, err := os.Executable(); err == nil {
			searchPaths = append(searchPaths, filepath.Dir(execPath))
		}
		searchPaths = append(searchPaths, ".", "./configs")

		cfg, err := configs.Load(viper.GetViper(), searchPaths...)
		if err != nil {
			const errMsg = "unable to load application config"
			return errors.Join(err, errors.New(errMsg))
		}

		level, err := logger.ParseLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		logger.Initialize(level)

		if err := cfg.Validate(); err != nil {
			return err
		}
		configs.Values = cfg

		slog.
			With("network", cfg.Network).
			With("artifacts_dir", cfg.ArtifactsDir).
			With("records_dir", cfg.RecordsDir).
			With("signer_configured", cfg.PrivateKey != "").
			Debug("configuration loaded")

		return nil
	},
}

func main() {
	rootCmd.AddCommand(networks.CMD)
	rootCmd.AddCommand(compile.CMD)
	rootCmd.AddCommand(deploy.CMD)
	rootCmd.AddCommand(verify.CMD)
	rootCmd.AddCommand(ccip.CMD)
	rootCmd.AddCommand(cctp.CMD)
	rootCmd.AddCommand(status.CMD)

	if err := rootCmd.Execute(); err != nil {
		slog.With("err", err.Error()).Error("failed to execute root command")
		os.Exit(1)
	}
}
