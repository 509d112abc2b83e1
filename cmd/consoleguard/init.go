package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/terassyi/consoleguard/internal/config"
	guarderrors "github.com/terassyi/consoleguard/internal/errors"
)

var (
	initFormat string
	initForce  bool
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a starter policy file",
	Long: `Write a starter consoleguard policy file.

The file guards console.error, console.log and console.warn, warns about
unexpected calls and silences deprecation warnings. Load it from a suite with
guard.LoadFile.

Usage:
  consoleguard init                      Write consoleguard.cue in the current directory
  consoleguard init --format yaml ./test Write consoleguard.yaml in ./test`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVar(&initFormat, "format", string(config.FormatCUE), "Policy file format (cue, yaml, toml)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing file")
}

func runInit(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	f, err := config.ParseFormat(initFormat)
	if err != nil {
		return err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	content, err := config.Encode(config.Starter(), f)
	if err != nil {
		return err
	}

	path := filepath.Join(absDir, config.FileName(f))
	if err := writeFileIfAllowed(path, content, initForce); err != nil {
		return err
	}
	cmd.Printf("Created %s\n", relativePath(absDir, path))
	return nil
}

func writeFileIfAllowed(path string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return guarderrors.New(guarderrors.CategoryConfig, guarderrors.CodeFileExists, path+" already exists").
				WithHint("use --force to overwrite")
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return guarderrors.Wrap(guarderrors.CategoryConfig, guarderrors.CodeFileWrite, "failed to create directory for "+path, err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		return guarderrors.Wrap(guarderrors.CategoryConfig, guarderrors.CodeFileWrite, "failed to write "+path, err)
	}

	return nil
}

// relativePath returns the relative path from base to target, or target on error.
func relativePath(base, target string) string {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return target
	}
	return rel
}
