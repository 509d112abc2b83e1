package guard

import (
	"strings"

	"github.com/fatih/color"

	"github.com/terassyi/consoleguard/console"
	guarderrors "github.com/terassyi/consoleguard/internal/errors"
)

// palette holds the report colors.
type palette struct {
	message *color.Color
	stack   *color.Color
	origin  *color.Color
	bold    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		message: color.New(color.FgRed),
		stack:   color.New(color.FgHiBlack),
		origin:  color.New(color.FgWhite),
		bold:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.message, p.stack, p.origin, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// flush drains the channel buffer and disposes of its calls according to the
// configured action. The buffer is empty afterwards whatever happens.
func (e *Engine) flush(ch *channel) error {
	e.mu.Lock()
	calls := ch.calls
	ch.calls = nil
	e.mu.Unlock()

	if len(calls) == 0 {
		return nil
	}

	payload := e.render(ch.method, calls)
	e.logger.Debug("flushing unexpected calls", "method", ch.method, "count", len(calls), "action", e.cfg.Action)

	if e.cfg.Action == ActionError {
		return guarderrors.NewPolicyViolationError(string(ch.method), len(calls), payload)
	}
	e.emitWarning(payload)
	return nil
}

// render builds the report: the header, then each call's lineage and message
// followed by its stack, separated by blank lines.
func (e *Engine) render(m console.Method, calls []CapturedCall) string {
	blocks := make([]string, 0, len(calls))
	for _, call := range calls {
		block := e.palette.message.Sprint(call.Text())
		if e.cfg.IncludeStackTrace && call.Stack != "" {
			block += "\n" + e.colorStack(call.Stack)
		}
		blocks = append(blocks, block)
	}

	header := e.cfg.Header(m, e.palette.bold.Sprint)
	return header + "\n\n" + strings.Join(blocks, "\n\n")
}

// colorStack dims every frame but the outermost one.
func (e *Engine) colorStack(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if i == len(lines)-1 {
			lines[i] = e.palette.origin.Sprint(line)
		} else {
			lines[i] = e.palette.stack.Sprint(line)
		}
	}
	return strings.Join(lines, "\n")
}

// emitWarning prints through the true original warn function when the warn
// channel is guarded, otherwise through the table's current warn slot.
func (e *Engine) emitWarning(payload string) {
	e.mu.Lock()
	var original console.Func
	if ch, ok := e.channels[console.MethodWarn]; ok && ch.installed {
		original = ch.original
	}
	e.mu.Unlock()

	if original != nil {
		original(payload)
		return
	}
	e.cfg.Table.Warn(payload)
}
