// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Command pysplit inspects the dependencies of top-level Python symbols and
// moves symbols into new modules.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petar-djukic/pysplit/pkg/refactor"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pysplit",
		Short: "Split Python modules by symbol",
		Long:  "pysplit reports what the top-level symbols of a Python module depend on and moves symbols into new, self-importing modules.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(viper.GetBool("verbose"))
		},
		SilenceUsage: true,
	}

	// Global flags.
	rootCmd.PersistentFlags().String("workdir", ".", "Base directory for relative paths")
	rootCmd.PersistentFlags().String("module", "", "Dotted name of the origin module (default: derived from its path)")
	rootCmd.PersistentFlags().Int("cache-size", 64, "Parsed module cache capacity")
	rootCmd.PersistentFlags().StringSlice("exclude", nil, "Glob patterns to skip when scanning directories")
	rootCmd.PersistentFlags().Int("concurrency", runtime.NumCPU(), "Parse workers for directory scans")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	// Bind flags to viper.
	for _, name := range []string{"workdir", "module", "cache-size", "exclude", "concurrency", "verbose"} {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	// Env vars: PYSPLIT_WORKDIR, PYSPLIT_CACHE_SIZE, etc.
	viper.SetEnvPrefix("PYSPLIT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// Config file.
	viper.SetConfigName(".pysplit")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.ReadInConfig() // Ignore error; config file is optional.

	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newDepsCmd())
	rootCmd.AddCommand(newUndoCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// setupLogging installs a text logger on stderr as the default.
func setupLogging(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
}

// newRefactorer builds a Refactorer from the bound configuration.
func newRefactorer() (refactor.Refactorer, error) {
	r, err := refactor.New(refactor.Config{
		WorkDir:     viper.GetString("workdir"),
		Module:      viper.GetString("module"),
		CacheSize:   viper.GetInt("cache-size"),
		Exclude:     viper.GetStringSlice("exclude"),
		Concurrency: viper.GetInt("concurrency"),
		Logger:      slog.Default(),
	})
	if err != nil {
		return nil, fmt.Errorf("initialization failed: %w", err)
	}
	return r, nil
}

// newVersionCmd creates the "version" command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print pysplit version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pysplit %s\n", version)
		},
	}
}
