package main

import (
	"errors"
	"os"

	"github.com/mattn/go-isatty"

	guarderrors "github.com/terassyi/consoleguard/internal/errors"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		var reported *reportedError
		if errors.As(err, &reported) {
			os.Exit(1)
		}
		noColor := noColorFlag || !isatty.IsTerminal(os.Stderr.Fd())
		guarderrors.NewFormatter(os.Stderr, noColor).Fprint(err)
		os.Exit(1)
	}
}
