package guard

import "github.com/terassyi/consoleguard/console"

// channel is the per-method record: the original slot, the wrapper that
// replaces it, and the calls buffered for the running test.
type channel struct {
	method    console.Method
	original  console.Func
	wrapper   console.Func
	installed bool
	active    bool
	calls     []CapturedCall
}

// install swaps the wrapper in and remembers the original. It runs once per
// channel per engine. Must be called with e.mu held.
func (e *Engine) install(m console.Method) {
	if ch, ok := e.channels[m]; ok && ch.installed {
		return
	}

	ch := &channel{method: m}
	ch.wrapper = e.wrapperFor(ch)
	ch.original = e.cfg.Table.Set(m, ch.wrapper)
	ch.installed = true
	ch.active = true

	e.channels[m] = ch
	e.order = append(e.order, m)
}

// activate re-establishes the wrapper before a test.
// Must be called with e.mu held.
func (e *Engine) activate(ch *channel) {
	if !ch.installed {
		return
	}
	e.cfg.Table.Set(ch.method, ch.wrapper)
	ch.active = true
}

// restore puts the original back. A second restore is a no-op.
// Must be called with e.mu held.
func (e *Engine) restore(ch *channel) {
	if !ch.active {
		return
	}
	e.cfg.Table.Set(ch.method, ch.original)
	ch.active = false
}

// wrapperFor builds the instrumented function for ch.
func (e *Engine) wrapperFor(ch *channel) console.Func {
	switch ch.method {
	case console.MethodGroup, console.MethodGroupCollapsed:
		return func(args ...any) {
			e.pushGroup(console.Render(args...))
		}
	case console.MethodGroupEnd:
		return func(...any) {
			e.popGroup()
		}
	case console.MethodAssert:
		return func(args ...any) {
			if len(args) > 0 && console.Truthy(args[0]) {
				return
			}
			format := []any{""}
			if len(args) > 1 {
				format = args[1:]
			}
			e.handle(ch, format, args)
		}
	default:
		return func(args ...any) {
			e.handle(ch, args, args)
		}
	}
}
