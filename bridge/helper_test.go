package bridge

import (
	"sync"

	"github.com/terassyi/consoleguard/console"
)

type call struct {
	method  console.Method
	message string
}

// recorder is a console table backend that remembers every call.
type recorder struct {
	mu    sync.Mutex
	calls []call
}

func newRecorder() (*recorder, *console.Table) {
	r := &recorder{}
	slots := make(map[console.Method]console.Func)
	for _, m := range console.Methods() {
		slots[m] = func(args ...any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.calls = append(r.calls, call{method: m, message: console.Render(args...)})
		}
	}
	return r, console.NewTable(slots)
}

func (r *recorder) get() []call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]call(nil), r.calls...)
}
