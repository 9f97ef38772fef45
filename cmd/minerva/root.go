package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"peticia-hq/minerva/pkg/config"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "minerva",
	Short: "Minerva - hybrid deterministic/LLM module activation engine",
	Long: `Minerva decides which content modules belong in a generated document.

Deterministic activation rules are evaluated locally against the variable
snapshot using three-valued logic; modules no rule can settle are batched
into one external reasoner call, with verdict caching and single-flight
deduplication. Reasoner failures fail closed: a module is never activated
by guesswork.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// resolveConfig loads the configured file. When the default config file is
// absent and the flag was not set explicitly, built-in defaults are used so
// plan/lint work without a config.yaml.
func resolveConfig() (*config.Config, error) {
	if !rootCmd.PersistentFlags().Changed("config") {
		if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
			cfg := config.DefaultConfig()
			config.SetConfig(cfg)
			return cfg, nil
		}
	}
	if err := config.Initialize(cfgFile); err != nil {
		return nil, err
	}
	return config.GetConfig(), nil
}
