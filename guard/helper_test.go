package guard

import (
	"slices"
	"sync"

	"github.com/terassyi/consoleguard/console"
)

// recorder is a console table backend that remembers every call.
type recorder struct {
	mu    sync.Mutex
	calls map[console.Method][][]any
}

func newRecorder() (*recorder, *console.Table) {
	r := &recorder{calls: make(map[console.Method][][]any)}
	slots := make(map[console.Method]console.Func)
	for _, m := range append(console.Methods(), console.GroupMethods()...) {
		slots[m] = func(args ...any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.calls[m] = append(r.calls[m], slices.Clone(args))
		}
	}
	return r, console.NewTable(slots)
}

func (r *recorder) get(m console.Method) [][]any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls[m])
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.calls)
}

func newTestEngine(table *console.Table, opts ...Option) *Engine {
	base := []Option{WithTable(table), WithColor(false)}
	return New(append(base, opts...)...)
}
