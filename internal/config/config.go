// Package config loads consoleguard policy files.
//
// A policy file holds a single top-level guard block and may be written in
// CUE, YAML or TOML. Every format is decoded into a CUE value, unified with
// the embedded #Guard schema and validated before it is compiled into a
// Policy.
package config

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/BurntSushi/toml"
	"github.com/goccy/go-yaml"
)

// Format is a policy file encoding.
type Format string

const (
	FormatCUE  Format = "cue"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultFileName is the base name of a policy file without extension.
const DefaultFileName = "consoleguard"

// Formats returns the supported formats.
func Formats() []Format {
	return []Format{FormatCUE, FormatYAML, FormatTOML}
}

// ParseFormat converts s into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCUE, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format %q: must be one of cue, yaml, toml", s)
	}
}

// DetectFormat chooses the format from the file extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot detect format of %s: no file extension", path)
	}
	return ParseFormat(ext)
}

// FileName returns the default policy file name for f.
func FileName(f Format) string {
	return DefaultFileName + "." + string(f)
}

// Document is the decoded form of a policy file.
type Document struct {
	Guard Guard `json:"guard" yaml:"guard" toml:"guard"`
}

// Guard is the guard block. Omitted fields are filled from the schema
// defaults during loading.
type Guard struct {
	Action                  string          `json:"action" yaml:"action" toml:"action"`
	Channels                map[string]bool `json:"channels" yaml:"channels" toml:"channels"`
	PrintUnexpectedMessages bool            `json:"printUnexpectedMessages" yaml:"printUnexpectedMessages" toml:"printUnexpectedMessages"`
	IncludeStackTrace       bool            `json:"includeStackTrace" yaml:"includeStackTrace" toml:"includeStackTrace"`
	Header                  string          `json:"header,omitempty" yaml:"header,omitempty" toml:"header,omitempty"`
	Silence                 []Rule          `json:"silence" yaml:"silence" toml:"silence"`
	Allow                   []Rule          `json:"allow" yaml:"allow" toml:"allow"`
	Skip                    []SkipRule      `json:"skip" yaml:"skip" toml:"skip"`
}

// Rule matches intercepted calls. Empty fields match anything.
type Rule struct {
	Channel string `json:"channel,omitempty" yaml:"channel,omitempty" toml:"channel,omitempty"`
	Message string `json:"message,omitempty" yaml:"message,omitempty" toml:"message,omitempty"`
	Group   string `json:"group,omitempty" yaml:"group,omitempty" toml:"group,omitempty"`
	InGroup string `json:"inGroup,omitempty" yaml:"inGroup,omitempty" toml:"inGroup,omitempty"`
}

// SkipRule matches tests by name or file path. Empty fields match anything.
type SkipRule struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Path string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty"`
}

// Starter returns the guard block written by `consoleguard init`.
func Starter() Document {
	return Document{
		Guard: Guard{
			Action: "warn",
			Channels: map[string]bool{
				"assert": false,
				"debug":  false,
				"error":  true,
				"info":   false,
				"log":    true,
				"trace":  false,
				"warn":   true,
			},
			IncludeStackTrace: true,
			Silence:           []Rule{{Channel: "warn", Message: "^DEPRECATED"}},
			Allow:             []Rule{},
			Skip:              []SkipRule{},
		},
	}
}

// Encode renders doc in the given format.
func Encode(doc Document, f Format) ([]byte, error) {
	switch f {
	case FormatCUE:
		return doc.ToCue()
	case FormatYAML:
		b, err := yaml.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to encode yaml: %w", err)
		}
		return b, nil
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}
}

// ToCue generates CUE content from the document.
func (d Document) ToCue() ([]byte, error) {
	ctx := cuecontext.New()
	v := ctx.Encode(d)
	if v.Err() != nil {
		return nil, fmt.Errorf("failed to encode policy: %w", v.Err())
	}

	b, err := format.Node(v.Syntax())
	if err != nil {
		return nil, fmt.Errorf("failed to format policy: %w", err)
	}

	return append([]byte("package consoleguard\n\n"), b...), nil
}
