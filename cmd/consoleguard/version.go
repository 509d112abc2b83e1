package main

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
	GoVersion string `json:"goVersion" yaml:"goVersion"`
	Platform  string `json:"platform" yaml:"platform"`
}

func currentBuild() buildInfo {
	return buildInfo{
		Version:   version,
		Commit:    commit,
		BuildDate: buildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().StringVarP(&versionFormat, "output", "o", outputText, "Output format (text, json, yaml)")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	info := currentBuild()
	return writeOutput(cmd.OutOrStdout(), versionFormat, info, func(w io.Writer) {
		fmt.Fprintf(w, "consoleguard %s (%s, built %s)\n", info.Version, info.Commit, info.BuildDate)
		fmt.Fprintf(w, "  %s %s\n", info.GoVersion, info.Platform)
	})
}
