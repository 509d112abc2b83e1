package console

import "sync"

// Func is the uniform slot signature. For MethodAssert the first argument is
// the condition.
type Func func(args ...any)

func noop(...any) {}

// Table holds one Func per Method. Slot reads and writes are synchronized;
// the lock is never held while a slot runs.
type Table struct {
	mu    sync.RWMutex
	slots map[Method]Func
}

// NewTable creates a table from the given slots. Missing slots are no-ops.
func NewTable(slots map[Method]Func) *Table {
	t := &Table{slots: make(map[Method]Func)}
	for _, m := range append(Methods(), GroupMethods()...) {
		t.slots[m] = noop
	}
	for m, f := range slots {
		if f != nil {
			t.slots[m] = f
		}
	}
	return t
}

// Get returns the function currently installed for m.
func (t *Table) Get(m Method) Func {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if f, ok := t.slots[m]; ok {
		return f
	}
	return noop
}

// Set installs f for m and returns the previous function.
func (t *Table) Set(m Method, f Func) Func {
	if f == nil {
		f = noop
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	prev, ok := t.slots[m]
	if !ok {
		prev = noop
	}
	t.slots[m] = f
	return prev
}

// Call invokes the function currently installed for m.
func (t *Table) Call(m Method, args ...any) {
	t.Get(m)(args...)
}

func (t *Table) Log(args ...any)   { t.Call(MethodLog, args...) }
func (t *Table) Info(args ...any)  { t.Call(MethodInfo, args...) }
func (t *Table) Debug(args ...any) { t.Call(MethodDebug, args...) }
func (t *Table) Warn(args ...any)  { t.Call(MethodWarn, args...) }
func (t *Table) Error(args ...any) { t.Call(MethodError, args...) }
func (t *Table) Trace(args ...any) { t.Call(MethodTrace, args...) }

// Assert reports args when cond is falsy.
func (t *Table) Assert(cond any, args ...any) {
	t.Call(MethodAssert, append([]any{cond}, args...)...)
}

// Group opens a group labelled label.
func (t *Table) Group(label ...any) { t.Call(MethodGroup, label...) }

// GroupCollapsed opens a collapsed group labelled label.
func (t *Table) GroupCollapsed(label ...any) { t.Call(MethodGroupCollapsed, label...) }

// GroupEnd closes the innermost group.
func (t *Table) GroupEnd() { t.Call(MethodGroupEnd) }
