package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/terassyi/consoleguard/internal/stack"
)

const indentUnit = "  "

// native is the uninstrumented implementation behind Native.
type native struct {
	mu     sync.Mutex
	stdout io.Writer
	stderr io.Writer
	depth  int
}

// Native returns a table that prints to stdout and stderr. Messages logged
// inside a group are indented by two spaces per open group.
func Native(stdout, stderr io.Writer) *Table {
	n := &native{stdout: stdout, stderr: stderr}
	return NewTable(map[Method]Func{
		MethodLog:            n.printer(stdout),
		MethodInfo:           n.printer(stdout),
		MethodDebug:          n.printer(stdout),
		MethodWarn:           n.printer(stderr),
		MethodError:          n.printer(stderr),
		MethodTrace:          n.trace,
		MethodAssert:         n.assert,
		MethodGroup:          n.group,
		MethodGroupCollapsed: n.group,
		MethodGroupEnd:       n.groupEnd,
	})
}

func (n *native) printer(w io.Writer) Func {
	return func(args ...any) {
		n.write(w, Render(args...))
	}
}

func (n *native) write(w io.Writer, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	prefix := strings.Repeat(indentUnit, n.depth)
	for line := range strings.SplitSeq(msg, "\n") {
		fmt.Fprintln(w, prefix+line)
	}
}

func (n *native) trace(args ...any) {
	msg := "Trace"
	if len(args) > 0 {
		msg += ": " + Render(args...)
	}
	frames := stack.Capture(
		"github.com/terassyi/consoleguard/console.(*native)",
		"github.com/terassyi/consoleguard/console.(*Table)",
		"github.com/terassyi/consoleguard/console.Trace",
	)
	if len(frames) > 0 {
		msg += "\n" + stack.Format(frames)
	}
	n.write(n.stderr, msg)
}

func (n *native) assert(args ...any) {
	if len(args) > 0 && Truthy(args[0]) {
		return
	}
	msg := "Assertion failed"
	if len(args) > 1 {
		msg += ": " + Render(args[1:]...)
	}
	n.write(n.stderr, msg)
}

func (n *native) group(args ...any) {
	if len(args) > 0 {
		n.write(n.stdout, Render(args...))
	}

	n.mu.Lock()
	n.depth++
	n.mu.Unlock()
}

func (n *native) groupEnd(...any) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.depth > 0 {
		n.depth--
	}
}
