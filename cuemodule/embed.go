// Package cuemodule provides the embedded CUE schema for consoleguard policy
// files. Every supported format is unified with #Guard before it is used.
package cuemodule

import _ "embed"

//go:embed schema/schema.cue
var SchemaCUE string
