package console

import "os"

// Default is the process-wide table used by the package-level functions.
var Default = Native(os.Stdout, os.Stderr)

// Log prints to the log channel of Default.
func Log(args ...any) { Default.Log(args...) }

// Info prints to the info channel of Default.
func Info(args ...any) { Default.Info(args...) }

// Debug prints to the debug channel of Default.
func Debug(args ...any) { Default.Debug(args...) }

// Warn prints to the warn channel of Default.
func Warn(args ...any) { Default.Warn(args...) }

// Error prints to the error channel of Default.
func Error(args ...any) { Default.Error(args...) }

// Trace prints a message and the current stack to the trace channel of Default.
func Trace(args ...any) { Default.Trace(args...) }

// Assert prints args to the assert channel of Default when cond is falsy.
func Assert(cond any, args ...any) { Default.Assert(cond, args...) }

// Group opens a group on Default.
func Group(label ...any) { Default.Group(label...) }

// GroupCollapsed opens a collapsed group on Default.
func GroupCollapsed(label ...any) { Default.GroupCollapsed(label...) }

// GroupEnd closes the innermost group on Default.
func GroupEnd() { Default.GroupEnd() }
