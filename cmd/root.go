// Package cmd is the vogapi command line: serve, export and check.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yumyai/vogapi/logger"
	"github.com/yumyai/vogapi/pkg/config"
	vogdb "github.com/yumyai/vogapi/pkg/db"
)

const version = "0.1.0"

var (
	v          = config.NewViper()
	cfg        *config.Config
	configFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "vogapi",
	Short: "Query API over the Virus Orthologous Groups (VOG) dataset",
	Long: `vogapi indexes the VOG species, group and sequence files of one data
directory and serves them over HTTP. Settings come from flags, VOG_*
environment variables (a .env file is read if present) or --config.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		dotenvErr := config.LoadDotEnv()

		var err error
		cfg, err = config.Load(v, configFile)
		if err != nil {
			return err
		}
		if err := logger.InitLogger(logger.ParseLevel(cfg.LogLevel)); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		if dotenvErr != nil {
			logger.Warn("No .env found, using local environment")
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDB validates the configured data directory.
func openDB() (*vogdb.VogDB, error) {
	vdb, err := vogdb.NewVogDB(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Info("Opened data directory", zap.String("dir", cfg.DataDir))
	return vdb, nil
}

func bindFlag(key string, cmd *cobra.Command, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func bindPersistentFlag(key, flag string) {
	if err := v.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

// set flags
func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, toml or json)")
	rootCmd.PersistentFlags().StringP("data", "d", "./data", "VOG data directory")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")

	bindPersistentFlag("data", "data")
	bindPersistentFlag("log-level", "log-level")
}
