package guard

import (
	"slices"
	"strings"

	"github.com/terassyi/consoleguard/console"
	"github.com/terassyi/consoleguard/internal/stack"
)

// interceptionFrames are dropped from the top of captured stacks so the first
// frame is the code that called the diagnostic function.
var interceptionFrames = []string{
	"github.com/terassyi/consoleguard/guard.(*Engine)",
	"github.com/terassyi/consoleguard/console.(*Table)",
	"github.com/terassyi/consoleguard/console.Log",
	"github.com/terassyi/consoleguard/console.Info",
	"github.com/terassyi/consoleguard/console.Debug",
	"github.com/terassyi/consoleguard/console.Warn",
	"github.com/terassyi/consoleguard/console.Error",
	"github.com/terassyi/consoleguard/console.Trace",
	"github.com/terassyi/consoleguard/console.Assert",
	"github.com/terassyi/consoleguard/bridge.(*",
	"log/slog.",
	"github.com/sirupsen/logrus.",
	"go.uber.org/zap",
}

// CapturedCall is one unexpected diagnostic call.
type CapturedCall struct {
	// Message is the rendered call arguments.
	Message string
	// Stack is the formatted call stack, empty when it was unavailable.
	Stack string
	// Groups is the group lineage at call time, oldest first.
	Groups []string
}

// Text returns the group lineage and the message, one per line.
func (c CapturedCall) Text() string {
	return strings.Join(append(slices.Clone(c.Groups), c.Message), "\n")
}

// handle evaluates policy for one intercepted call, in order: silence, allow,
// print, record. passthrough holds the arguments exactly as the caller gave
// them.
func (e *Engine) handle(ch *channel, args, passthrough []any) {
	message := console.Render(args...)
	ctx := e.context()

	if e.cfg.SilenceMessage != nil && e.cfg.SilenceMessage(message, ch.method, ctx) {
		return
	}

	if e.cfg.AllowMessage != nil && e.cfg.AllowMessage(message, ch.method, ctx) {
		ch.original(passthrough...)
		return
	}

	if e.cfg.PrintUnexpectedMessages {
		ch.original(passthrough...)
	}

	e.record(ch, message, ctx.Groups)
}

// record appends a captured call to the channel buffer.
func (e *Engine) record(ch *channel, message string, groups []string) {
	call := CapturedCall{
		Message: message,
		Groups:  groups,
	}
	if frames := stack.Capture(interceptionFrames...); len(frames) > 0 {
		call.Stack = stack.Format(frames)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	ch.calls = append(ch.calls, call)
}

// context snapshots the group stack.
func (e *Engine) context() Context {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx := Context{Groups: slices.Clone(e.groups)}
	if ctx.Groups == nil {
		ctx.Groups = []string{}
	}
	if n := len(e.groups); n > 0 {
		ctx.Group = e.groups[n-1]
	}
	return ctx
}

func (e *Engine) pushGroup(label string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.groups = append(e.groups, label)
}

func (e *Engine) popGroup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n := len(e.groups); n > 0 {
		e.groups = e.groups[:n-1]
	}
}
