// Package console models the diagnostic output surface as an explicit table
// of function slots. Application code logs through the package-level
// functions (console.Log, console.Warn, ...), which dispatch through Default.
// Test instrumentation swaps individual slots and restores them afterwards.
package console

import "fmt"

// Method identifies one diagnostic function slot.
type Method string

const (
	MethodAssert         Method = "assert"
	MethodDebug          Method = "debug"
	MethodError          Method = "error"
	MethodInfo           Method = "info"
	MethodLog            Method = "log"
	MethodTrace          Method = "trace"
	MethodWarn           Method = "warn"
	MethodGroup          Method = "group"
	MethodGroupCollapsed Method = "groupCollapsed"
	MethodGroupEnd       Method = "groupEnd"
)

// Methods returns the message channels in install order.
func Methods() []Method {
	return []Method{
		MethodAssert,
		MethodDebug,
		MethodError,
		MethodInfo,
		MethodLog,
		MethodWarn,
		MethodTrace,
	}
}

// GroupMethods returns the grouping channels.
func GroupMethods() []Method {
	return []Method{MethodGroup, MethodGroupCollapsed, MethodGroupEnd}
}

// IsGroup reports whether m is a grouping channel.
func (m Method) IsGroup() bool {
	switch m {
	case MethodGroup, MethodGroupCollapsed, MethodGroupEnd:
		return true
	default:
		return false
	}
}

// ParseMethod converts a channel name into a Method.
func ParseMethod(s string) (Method, error) {
	for _, m := range append(Methods(), GroupMethods()...) {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown console method %q", s)
}
