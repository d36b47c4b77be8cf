// Package main provides the pantry CLI: unit conversion, recipe matching and
// restock recommendations over YAML pantry files, and the pantryrpc server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pantry"
)

const version = "pantry v0.1.0"

// app holds the state shared by subcommands once the root command has run
// its pre-run hook.
type app struct {
	configFile string
	strict     bool
	verbose    bool

	v      *viper.Viper
	logger *zap.Logger
	conv   *pantry.Converter
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "pantry",
		Short: "Unit-aware pantry and recipe matching",
		Long: `pantry converts quantities between units, checks whether a pantry
covers a recipe's ingredients, and recommends what to restock.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (default: ./pantry.yaml or ~/.pantry/pantry.yaml)")
	root.PersistentFlags().BoolVar(&a.strict, "strict", false, "fail on incompatible units instead of warning")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(a.newConvertCmd())
	root.AddCommand(a.newUnitsCmd())
	root.AddCommand(a.newMatchCmd())
	root.AddCommand(a.newRecommendCmd())
	root.AddCommand(a.newRestockCmd())
	root.AddCommand(a.newServeCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	}
}

// setup builds the logger, loads the config and the converter.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	config := zap.NewProductionConfig()
	if a.verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	zap.ReplaceGlobals(logger)

	v, err := loadConfig(a.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.v = v

	conv, err := newConverter(v, a.strict, logger)
	if err != nil {
		return err
	}
	a.conv = conv
	logger.Debug("converter ready",
		zap.Stringer("policy", conv.Policy()),
		zap.String("config", v.ConfigFileUsed()))
	return nil
}
