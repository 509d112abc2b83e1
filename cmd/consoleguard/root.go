package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

var (
	noColorFlag bool
	verbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "consoleguard",
	Short: "Validate and scaffold consoleguard policy files",
	Long: `consoleguard keeps test output clean by turning unexpected diagnostic
calls into warnings or test failures.

This command works with the policy files consumed by guard.LoadFile:
  consoleguard init                 Write a starter policy file
  consoleguard validate <file>      Check a policy file and print the effective policy`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		versionCmd,
		initCmd,
		validateCmd,
	)
}
