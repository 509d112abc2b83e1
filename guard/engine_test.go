package guard

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/terassyi/consoleguard/console"
	guarderrors "github.com/terassyi/consoleguard/internal/errors"
)

func TestEngine_WarnActionEmitsOneWarning(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table)

	e.BeforeEach(TestInfo{Name: "warns"})
	table.Log("hello")
	require.NoError(t, e.AfterEach())

	warnings := rec.get(console.MethodWarn)
	require.Len(t, warnings, 1)
	require.Len(t, warnings[0], 1)
	payload, ok := warnings[0][0].(string)
	require.True(t, ok)
	assert.Contains(t, payload, "hello")
	assert.Contains(t, payload, "Expected test not to call console.log().")
	assert.Empty(t, rec.get(console.MethodLog), "unexpected call must not reach the original")
}

func TestEngine_ErrorActionFailsTest(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError))

	e.BeforeEach(TestInfo{Name: "fails"})
	table.Error("boom")
	err := e.AfterEach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	var violation *guarderrors.PolicyViolationError
	require.True(t, stderrors.As(err, &violation))
	assert.Equal(t, "error", violation.Method)
	assert.Equal(t, 1, violation.Count)
	assert.Equal(t, violation.Payload, violation.Error())
	assert.Empty(t, rec.get(console.MethodWarn))
}

func TestEngine_ErrorActionJoinsChannels(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError))

	e.BeforeEach(TestInfo{Name: "joins"})
	table.Log("first")
	table.Error("second")
	err := e.AfterEach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")
	assert.True(t, stderrors.Is(err, &guarderrors.PolicyViolationError{Base: guarderrors.Error{Code: guarderrors.CodeUnexpectedCall}}))
}

func TestEngine_DisabledChannelIsUntouched(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithChannel(console.MethodLog, false))

	e.BeforeEach(TestInfo{Name: "disabled"})
	table.Log("passes")
	assert.Empty(t, e.Pending(console.MethodLog))
	require.NoError(t, e.AfterEach())

	assert.Equal(t, [][]any{{"passes"}}, rec.get(console.MethodLog))
	assert.Empty(t, rec.get(console.MethodWarn))
}

func TestEngine_Channels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opts    []Option
		guarded []console.Method
	}{
		{
			name:    "defaults",
			guarded: []console.Method{console.MethodError, console.MethodLog, console.MethodWarn},
		},
		{
			name:    "exact set",
			opts:    []Option{WithChannels(console.MethodDebug, console.MethodInfo)},
			guarded: []console.Method{console.MethodDebug, console.MethodInfo},
		},
		{
			name:    "enable one more",
			opts:    []Option{WithChannel(console.MethodTrace, true)},
			guarded: []console.Method{console.MethodError, console.MethodLog, console.MethodTrace, console.MethodWarn},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, table := newRecorder()
			e := newTestEngine(table, tt.opts...)
			e.BeforeEach(TestInfo{Name: tt.name})

			for _, m := range console.Methods() {
				if m == console.MethodAssert {
					table.Assert(false, "x")
					continue
				}
				table.Call(m, "x")
			}

			var got []console.Method
			for _, m := range console.Methods() {
				if len(e.Pending(m)) > 0 {
					got = append(got, m)
				}
			}
			assert.ElementsMatch(t, tt.guarded, got)
			e.Teardown()
		})
	}
}

func TestEngine_SilencedMessagesAreDropped(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError), WithPrintUnexpectedMessages(true),
		WithSilenceMessage(func(message string, _ console.Method, _ Context) bool {
			return strings.HasPrefix(message, "noise")
		}))

	e.BeforeEach(TestInfo{Name: "silence"})
	table.Log("noise: %d", 1)
	require.NoError(t, e.AfterEach())
	assert.Empty(t, rec.get(console.MethodLog))
}

func TestEngine_AllowedMessagesPassThrough(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError), WithPrintUnexpectedMessages(true),
		WithAllowMessage(func(message string, _ console.Method, _ Context) bool {
			return message == "hi there"
		}))

	e.BeforeEach(TestInfo{Name: "allow"})
	table.Log("hi %s", "there")
	require.NoError(t, e.AfterEach())
	assert.Equal(t, [][]any{{"hi %s", "there"}}, rec.get(console.MethodLog), "allowed call must print once with its own arguments")
}

func TestEngine_SilenceWinsOverAllow(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	always := func(string, console.Method, Context) bool { return true }
	e := newTestEngine(table, WithSilenceMessage(always), WithAllowMessage(always))

	e.BeforeEach(TestInfo{Name: "precedence"})
	table.Log("x")
	require.NoError(t, e.AfterEach())
	assert.Empty(t, rec.get(console.MethodLog))
}

func TestEngine_PrintUnexpectedMessages(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError), WithPrintUnexpectedMessages(true))

	e.BeforeEach(TestInfo{Name: "print"})
	table.Log("visible %d", 2)
	assert.Equal(t, [][]any{{"visible %d", 2}}, rec.get(console.MethodLog))

	err := e.AfterEach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "visible 2")
}

func TestEngine_PredicateContext(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()

	var mu sync.Mutex
	var seen []Context
	e := newTestEngine(table, WithSilenceMessage(func(_ string, _ console.Method, ctx Context) bool {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, ctx)
		return true
	}))

	e.BeforeEach(TestInfo{Name: "context"})
	table.Log("outside")
	table.Group("outer")
	table.GroupCollapsed("inner")
	table.Log("nested")
	table.GroupEnd()
	table.GroupEnd()
	require.NoError(t, e.AfterEach())

	require.Len(t, seen, 2)
	assert.Equal(t, Context{Group: "", Groups: []string{}}, seen[0])
	assert.Equal(t, Context{Group: "inner", Groups: []string{"outer", "inner"}}, seen[1])
}

func TestEngine_GroupLineage(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError))

	e.BeforeEach(TestInfo{Name: "lineage"})
	table.Group("g1")
	table.Log("x")
	table.GroupEnd()
	table.Log("y")

	calls := e.Pending(console.MethodLog)
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"g1"}, calls[0].Groups)
	assert.Equal(t, "g1\nx", calls[0].Text())
	assert.Empty(t, calls[1].Groups)
	assert.Equal(t, "y", calls[1].Text())

	err := e.AfterEach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "g1\nx")
}

func TestEngine_GroupStack(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := newTestEngine(table)
	e.BeforeEach(TestInfo{Name: "stack"})

	table.Group("a")
	table.Group("b")
	table.GroupEnd()
	assert.Equal(t, []string{"a"}, e.Groups())

	table.GroupEnd()
	table.GroupEnd()
	assert.Empty(t, e.Groups())

	table.Group()
	assert.Equal(t, []string{""}, e.Groups())
	require.NoError(t, e.AfterEach())

	e.BeforeEach(TestInfo{Name: "reset"})
	assert.Empty(t, e.Groups())
	e.Teardown()
}

func TestEngine_Assert(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithChannel(console.MethodAssert, true))

	e.BeforeEach(TestInfo{Name: "assert"})
	table.Assert(true, "never")
	assert.Empty(t, e.Pending(console.MethodAssert))

	table.Assert(false, "bad %s", "value")
	table.Assert(0)
	calls := e.Pending(console.MethodAssert)
	require.Len(t, calls, 2)
	assert.Equal(t, "bad value", calls[0].Message)
	assert.Empty(t, calls[1].Message)

	require.NoError(t, e.AfterEach())
	assert.Empty(t, rec.get(console.MethodAssert))
}

func TestEngine_AssertPassThroughKeepsCondition(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithChannel(console.MethodAssert, true),
		WithAllowMessage(func(string, console.Method, Context) bool { return true }))

	e.BeforeEach(TestInfo{Name: "assert pass"})
	table.Assert(false, "kept %d", 1)
	require.NoError(t, e.AfterEach())
	assert.Equal(t, [][]any{{false, "kept %d", 1}}, rec.get(console.MethodAssert))
}

func TestEngine_SkippedTestIsUninstrumented(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError),
		WithSkipTest(func(info TestInfo) bool { return strings.HasPrefix(info.Name, "legacy") }))

	e.BeforeEach(TestInfo{Name: "legacy noisy test"})
	table.Log("straight through")
	table.Error("also through")
	require.NoError(t, e.AfterEach())

	assert.Equal(t, [][]any{{"straight through"}}, rec.get(console.MethodLog))
	assert.Equal(t, [][]any{{"also through"}}, rec.get(console.MethodError))
	assert.Empty(t, rec.get(console.MethodWarn))
	assert.Empty(t, e.Pending(console.MethodLog))

	rec.reset()
	e.BeforeEach(TestInfo{Name: "guarded"})
	table.Log("caught")
	assert.Empty(t, rec.get(console.MethodLog))
	require.Error(t, e.AfterEach())
}

func TestEngine_NestedTests(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError), WithStackTrace(false))
	defer e.Teardown()

	e.BeforeEach(TestInfo{Name: "parent"})
	table.Group("outer")
	table.Log("parent before subtest")

	e.BeforeEach(TestInfo{Name: "parent/child"})
	assert.Empty(t, e.Groups())
	assert.Empty(t, e.Pending(console.MethodLog))
	table.Error("child call")
	childErr := e.AfterEach()
	require.Error(t, childErr)
	assert.Contains(t, childErr.Error(), "child call")
	assert.NotContains(t, childErr.Error(), "parent before subtest")

	assert.Equal(t, []string{"outer"}, e.Groups())
	table.Log("parent after subtest")
	calls := e.Pending(console.MethodLog)
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"outer"}, calls[1].Groups)

	parentErr := e.AfterEach()
	require.Error(t, parentErr)
	assert.Contains(t, parentErr.Error(), "parent before subtest")
	assert.Contains(t, parentErr.Error(), "parent after subtest")
	assert.NotContains(t, parentErr.Error(), "child call")

	table.Log("after parent")
	assert.Equal(t, [][]any{{"after parent"}}, rec.get(console.MethodLog))
}

func TestEngine_NestedSkippedTest(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError),
		WithSkipTest(func(info TestInfo) bool { return strings.HasSuffix(info.Name, "/legacy") }))
	defer e.Teardown()

	e.BeforeEach(TestInfo{Name: "parent"})
	table.Log("parent call")

	e.BeforeEach(TestInfo{Name: "parent/legacy"})
	table.Log("legacy call")
	require.NoError(t, e.AfterEach())
	assert.Equal(t, [][]any{{"legacy call"}}, rec.get(console.MethodLog))

	table.Log("parent again")
	assert.Len(t, e.Pending(console.MethodLog), 2)
	err := e.AfterEach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parent call")
	assert.Contains(t, err.Error(), "parent again")
}

func TestEngine_BeforeAllCatchesEarlyCalls(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError))

	table.Warn("during setup")
	err := e.BeforeAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "during setup")

	require.NoError(t, e.BeforeAll(), "buffer must be cleared by the first flush")
	e.Teardown()
}

func TestEngine_RestoreIsIdempotent(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table)

	e.BeforeEach(TestInfo{Name: "restore"})
	require.NoError(t, e.AfterEach())

	e.mu.Lock()
	ch := e.channels[console.MethodLog]
	e.restore(ch)
	e.restore(ch)
	e.mu.Unlock()

	table.Log("after")
	require.NoError(t, e.AfterEach())
	assert.Equal(t, [][]any{{"after"}}, rec.get(console.MethodLog))
	assert.Empty(t, e.Pending(console.MethodLog))
}

func TestEngine_Teardown(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table)

	e.Teardown()
	e.BeforeEach(TestInfo{Name: "after teardown"})
	table.Log("free")
	require.NoError(t, e.AfterEach())
	assert.Equal(t, [][]any{{"free"}}, rec.get(console.MethodLog))
}

func TestEngine_StackTrace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		enabled   bool
		wantStack bool
	}{
		{name: "included", enabled: true, wantStack: true},
		{name: "omitted", enabled: false, wantStack: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, table := newRecorder()
			e := newTestEngine(table, WithAction(ActionError), WithStackTrace(tt.enabled))

			e.BeforeEach(TestInfo{Name: tt.name})
			table.Log("where")
			calls := e.Pending(console.MethodLog)
			require.Len(t, calls, 1)
			assert.NotEmpty(t, calls[0].Stack)
			assert.NotContains(t, calls[0].Stack, "consoleguard/guard.(*Engine)")

			err := e.AfterEach()
			require.Error(t, err)
			assert.Equal(t, tt.wantStack, strings.Contains(err.Error(), "    at "))
		})
	}
}

func TestEngine_CustomHeader(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError), WithStackTrace(false),
		WithHeader(func(m console.Method, bold func(a ...any) string) string {
			return "no " + bold(string(m)) + " please"
		}))

	e.BeforeEach(TestInfo{Name: "header"})
	table.Log("one")
	table.Log("two")
	err := e.AfterEach()
	require.Error(t, err)
	assert.Equal(t, "no log please\n\none\n\ntwo", err.Error())
}

func TestEngine_ColoredPayload(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := New(WithTable(table), WithColor(true), WithAction(ActionError))

	e.BeforeEach(TestInfo{Name: "color"})
	table.Log("red")
	err := e.AfterEach()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "\x1b[31mred\x1b[0m")
	assert.Contains(t, err.Error(), "\x1b[1mconsole.log()\x1b[0m")
}

func TestEngine_WarningWithoutWarnChannel(t *testing.T) {
	t.Parallel()
	rec, table := newRecorder()
	e := newTestEngine(table, WithChannels(console.MethodLog))

	e.BeforeEach(TestInfo{Name: "no warn channel"})
	table.Log("routed")
	require.NoError(t, e.AfterEach())

	warnings := rec.get(console.MethodWarn)
	require.Len(t, warnings, 1)
	assert.Contains(t, fmt.Sprint(warnings[0]...), "routed")
}

func TestEngine_Config(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := newTestEngine(table, WithAction(ActionError))
	defer e.Teardown()

	cfg := e.Config()
	assert.Equal(t, ActionError, cfg.Action)
	assert.True(t, cfg.Enabled(console.MethodGroupEnd))
	assert.False(t, cfg.Enabled(console.MethodDebug))

	cfg.Channels[console.MethodDebug] = true
	assert.False(t, e.Config().Enabled(console.MethodDebug))
}

func TestEngine_ConcurrentCalls(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()
	e := newTestEngine(table, WithStackTrace(false))

	e.BeforeEach(TestInfo{Name: "concurrent"})
	const workers, perWorker = 8, 50
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range perWorker {
				table.Log("worker", i, j)
			}
		}()
	}
	wg.Wait()

	assert.Len(t, e.Pending(console.MethodLog), workers*perWorker)
	require.NoError(t, e.AfterEach())
	assert.Empty(t, e.Pending(console.MethodLog))
}

func TestParseAction(t *testing.T) {
	t.Parallel()

	got, err := ParseAction("error")
	require.NoError(t, err)
	assert.Equal(t, ActionError, got)

	_, err = ParseAction("panic")
	require.EqualError(t, err, `unknown action "panic": must be "warn" or "error"`)
}

func TestEngine_LogsLifecycle(t *testing.T) {
	t.Parallel()
	_, table := newRecorder()

	var buf syncBuffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := newTestEngine(table, WithLogger(logger))

	e.BeforeEach(TestInfo{Name: "logged"})
	table.Warn("w")
	require.NoError(t, e.AfterEach())
	e.Teardown()

	out := buf.String()
	assert.Contains(t, out, "channels installed")
	assert.Contains(t, out, "flushing unexpected calls")
	assert.Contains(t, out, "channels restored")
	assert.Contains(t, out, "channels uninstalled")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
