package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/terassyi/consoleguard/console"
	"github.com/terassyi/consoleguard/internal/config"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a policy file",
	Long: `Validate a CUE, YAML or TOML policy file against the schema, compile
its rules and print the effective policy with defaults applied.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFormat, "output", "o", outputText, "Output format (text, json, yaml)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	w := cmd.OutOrStdout()

	p, err := config.LoadFile(args[0])
	if err != nil {
		if validateFormat == outputJSON {
			return writeJSONError(w, err)
		}
		return err
	}
	slog.Debug("policy loaded", "file", p.File)

	return writeOutput(w, validateFormat, p.Document, func(w io.Writer) {
		printPolicy(w, p)
	})
}

func printPolicy(w io.Writer, p *config.Policy) {
	g := p.Document.Guard

	var channels []string
	for _, m := range console.Methods() {
		if p.Channel(m) {
			channels = append(channels, string(m))
		}
	}
	header := "default"
	if g.Header != "" {
		header = fmt.Sprintf("%q", g.Header)
	}

	fmt.Fprintf(w, "%s is valid\n", p.File)
	fmt.Fprintf(w, "  action:    %s\n", g.Action)
	fmt.Fprintf(w, "  channels:  %s\n", strings.Join(channels, ", "))
	fmt.Fprintf(w, "  print:     %t\n", g.PrintUnexpectedMessages)
	fmt.Fprintf(w, "  stack:     %t\n", g.IncludeStackTrace)
	fmt.Fprintf(w, "  header:    %s\n", header)
	fmt.Fprintf(w, "  silence:   %d rule(s)\n", len(g.Silence))
	fmt.Fprintf(w, "  allow:     %d rule(s)\n", len(g.Allow))
	fmt.Fprintf(w, "  skip:      %d rule(s)\n", len(g.Skip))
}
