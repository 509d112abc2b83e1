package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/goccy/go-yaml"

	guarderrors "github.com/terassyi/consoleguard/internal/errors"
)

// reportedError is an error already written to stdout; main only sets the
// exit code for it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// writeOutput encodes v as JSON or YAML, or calls text for the text format.
func writeOutput(w io.Writer, format string, v any, text func(io.Writer)) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		b, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case outputText:
		text(w)
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

// writeJSONError writes err as a JSON document and marks it reported.
func writeJSONError(w io.Writer, err error) error {
	b, ferr := guarderrors.NewFormatter(nil, true).FormatJSON(err)
	if ferr != nil {
		return fmt.Errorf("failed to encode error: %w", ferr)
	}
	if _, werr := fmt.Fprintln(w, string(b)); werr != nil {
		return werr
	}
	return &reportedError{err: err}
}
