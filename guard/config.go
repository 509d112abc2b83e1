package guard

import (
	"fmt"
	"log/slog"
	"maps"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/terassyi/consoleguard/console"
)

// Action is what happens to unexpected calls when they are flushed.
type Action string

const (
	// ActionWarn re-emits unexpected calls as one warning per channel.
	ActionWarn Action = "warn"
	// ActionError fails the test with the unexpected calls as the message.
	ActionError Action = "error"
)

// ParseAction converts s into an Action.
func ParseAction(s string) (Action, error) {
	switch Action(s) {
	case ActionWarn, ActionError:
		return Action(s), nil
	default:
		return "", fmt.Errorf("unknown action %q: must be %q or %q", s, ActionWarn, ActionError)
	}
}

// Context describes the group nesting active when a call was made.
type Context struct {
	// Group is the innermost open group label, or "" outside any group.
	Group string
	// Groups is the lineage of open group labels, oldest first.
	Groups []string
}

// TestInfo identifies the running test.
type TestInfo struct {
	Name string
	Path string
}

// Predicate decides about one rendered message on one channel.
type Predicate func(message string, method console.Method, ctx Context) bool

// SkipFunc decides whether a test runs uninstrumented.
type SkipFunc func(info TestInfo) bool

// HeaderFunc renders the first paragraph of a flushed report. bold
// highlights a fragment of the header.
type HeaderFunc func(method console.Method, bold func(a ...any) string) string

// DefaultHeader explains which channel was called and how to expect it.
func DefaultHeader(method console.Method, bold func(a ...any) string) string {
	name := string(method)
	constant := "console.Method" + strings.ToUpper(name[:1]) + name[1:]
	return fmt.Sprintf("Expected test not to call %s.\n\n", bold("console."+name+"()")) +
		fmt.Sprintf("If the %s is expected, test for it explicitly by replacing the slot with %s "+
			"and asserting on the stub.", name, bold("table.Set("+constant+", stub)"))
}

// Config is the immutable snapshot an Engine runs with.
type Config struct {
	Action                  Action
	Channels                map[console.Method]bool
	Header                  HeaderFunc
	SkipTest                SkipFunc
	SilenceMessage          Predicate
	AllowMessage            Predicate
	PrintUnexpectedMessages bool
	IncludeStackTrace       bool
	Color                   bool
	Table                   *console.Table
	Logger                  *slog.Logger
}

// DefaultChannels returns the channels guarded when none are configured.
func DefaultChannels() []console.Method {
	return []console.Method{console.MethodError, console.MethodLog, console.MethodWarn}
}

// DefaultConfig returns the configuration used for omitted options.
func DefaultConfig() Config {
	channels := make(map[console.Method]bool)
	for _, m := range console.Methods() {
		channels[m] = false
	}
	for _, m := range DefaultChannels() {
		channels[m] = true
	}

	return Config{
		Action:            ActionWarn,
		Channels:          channels,
		Header:            DefaultHeader,
		IncludeStackTrace: true,
		Color:             isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()),
		Table:             console.Default,
		Logger:            slog.New(slog.DiscardHandler),
	}
}

// Enabled reports whether calls on m are guarded.
func (c Config) Enabled(m console.Method) bool {
	if m.IsGroup() {
		return true
	}
	return c.Channels[m]
}

func (c Config) clone() Config {
	c.Channels = maps.Clone(c.Channels)
	return c
}

// Option is a functional option for configuring an Engine.
type Option func(*Config)

// WithAction sets what happens to flushed calls.
func WithAction(action Action) Option {
	return func(c *Config) {
		if action != "" {
			c.Action = action
		}
	}
}

// WithChannel enables or disables one message channel. Group channels are
// always enabled and ignore this option.
func WithChannel(m console.Method, enabled bool) Option {
	return func(c *Config) {
		if m.IsGroup() {
			return
		}
		c.Channels[m] = enabled
	}
}

// WithChannels guards exactly the given message channels.
func WithChannels(ms ...console.Method) Option {
	return func(c *Config) {
		for _, m := range console.Methods() {
			c.Channels[m] = false
		}
		for _, m := range ms {
			if !m.IsGroup() {
				c.Channels[m] = true
			}
		}
	}
}

// WithHeader overrides the report header.
func WithHeader(h HeaderFunc) Option {
	return func(c *Config) {
		if h != nil {
			c.Header = h
		}
	}
}

// WithSkipTest runs matching tests uninstrumented.
func WithSkipTest(f SkipFunc) Option {
	return func(c *Config) {
		c.SkipTest = f
	}
}

// WithSilenceMessage drops matching calls entirely.
func WithSilenceMessage(p Predicate) Option {
	return func(c *Config) {
		c.SilenceMessage = p
	}
}

// WithAllowMessage lets matching calls through to the original function.
func WithAllowMessage(p Predicate) Option {
	return func(c *Config) {
		c.AllowMessage = p
	}
}

// WithPrintUnexpectedMessages also prints unexpected calls when they are recorded.
func WithPrintUnexpectedMessages(enabled bool) Option {
	return func(c *Config) {
		c.PrintUnexpectedMessages = enabled
	}
}

// WithStackTrace controls whether reports include call stacks.
func WithStackTrace(enabled bool) Option {
	return func(c *Config) {
		c.IncludeStackTrace = enabled
	}
}

// WithColor forces colored reports on or off.
func WithColor(enabled bool) Option {
	return func(c *Config) {
		c.Color = enabled
	}
}

// WithTable guards t instead of console.Default.
func WithTable(t *console.Table) Option {
	return func(c *Config) {
		if t != nil {
			c.Table = t
		}
	}
}

// WithLogger sets the logger for engine lifecycle events.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}
