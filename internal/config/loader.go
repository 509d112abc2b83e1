package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"

	"github.com/terassyi/consoleguard/cuemodule"
	guarderrors "github.com/terassyi/consoleguard/internal/errors"
)

const schemaFileName = "schema.cue"

// Loader decodes and validates policy files.
type Loader struct {
	ctx    *cue.Context
	schema cue.Value
}

// NewLoader creates a Loader with the embedded schema compiled.
func NewLoader() *Loader {
	ctx := cuecontext.New()
	return &Loader{
		ctx:    ctx,
		schema: ctx.CompileString(cuemodule.SchemaCUE, cue.Filename(schemaFileName)),
	}
}

// LoadFile reads, validates and compiles the policy file at path.
func LoadFile(path string) (*Policy, error) {
	return NewLoader().LoadFile(path)
}

// LoadFile reads, validates and compiles the policy file at path.
func (l *Loader) LoadFile(path string) (*Policy, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, guarderrors.NewConfigError("unsupported policy file", err).
			WithFile(path).
			WithHint("use a .cue, .yaml, .yml or .toml file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}

	doc, err := l.Decode(data, f, path)
	if err != nil {
		return nil, err
	}
	return Compile(doc, path)
}

// Decode validates data against the schema and returns the document with
// defaults applied. filename is used in error positions only.
func (l *Loader) Decode(data []byte, f Format, filename string) (*Document, error) {
	if err := l.schema.Err(); err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}

	value, err := l.value(data, f, filename)
	if err != nil {
		return nil, err
	}

	guard := value.LookupPath(cue.ParsePath("guard"))
	if !guard.Exists() {
		guard = l.ctx.CompileString("{}")
	}

	unified := l.schema.LookupPath(cue.ParsePath("#Guard")).Unify(guard)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, l.configError("policy does not match schema", err, filename).
			WithHint("see `consoleguard init` for a valid starter file").
			WithExample(starterExample(f))
	}

	jsonBytes, err := unified.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal policy: %w", err)
	}

	doc := &Document{}
	if err := json.Unmarshal(jsonBytes, &doc.Guard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal policy: %w", err)
	}
	return doc, nil
}

// value turns the raw file into a CUE value.
func (l *Loader) value(data []byte, f Format, filename string) (cue.Value, error) {
	var raw map[string]any

	switch f {
	case FormatCUE:
		v := l.ctx.CompileBytes(data, cue.Filename(filename))
		if v.Err() != nil {
			return cue.Value{}, l.configError("failed to compile CUE", v.Err(), filename)
		}
		return v, nil
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cue.Value{}, guarderrors.NewConfigError("failed to parse YAML", err).WithFile(filename)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &raw); err != nil {
			cerr := guarderrors.NewConfigError("failed to parse TOML", err).WithFile(filename)
			var perr toml.ParseError
			if errors.As(err, &perr) {
				cerr.WithLocation(perr.Position.Line, 0)
			}
			return cue.Value{}, cerr
		}
	default:
		return cue.Value{}, fmt.Errorf("unsupported format %q", f)
	}

	if raw == nil {
		raw = map[string]any{}
	}
	v := l.ctx.Encode(raw)
	if v.Err() != nil {
		return cue.Value{}, l.configError("failed to convert policy", v.Err(), filename)
	}
	return v, nil
}

// starterExample renders the starter policy in f, or "" if it cannot be encoded.
func starterExample(f Format) string {
	b, err := Encode(Starter(), f)
	if err != nil {
		return ""
	}
	return strings.TrimRight(string(b), "\n")
}

// configError wraps a CUE error, taking the location of the first position
// inside the policy file.
func (l *Loader) configError(message string, err error, filename string) *guarderrors.ConfigError {
	cerr := guarderrors.NewConfigError(message, err).WithFile(filename)
	for _, e := range cueerrors.Errors(err) {
		for _, pos := range cueerrors.Positions(e) {
			if pos.IsValid() && pos.Filename() == filename {
				return cerr.WithLocation(pos.Line(), pos.Column())
			}
		}
	}
	return cerr
}
