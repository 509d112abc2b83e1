package ginkgoguard_test

import (
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/terassyi/consoleguard/console"
	"github.com/terassyi/consoleguard/ginkgoguard"
	"github.com/terassyi/consoleguard/guard"
)

// recorder is a console table backend that remembers every call.
type recorder struct {
	mu    sync.Mutex
	calls map[console.Method][]string
}

func newRecorder() (*recorder, *console.Table) {
	r := &recorder{calls: make(map[console.Method][]string)}
	slots := make(map[console.Method]console.Func)
	for _, m := range console.Methods() {
		slots[m] = func(args ...any) {
			r.mu.Lock()
			defer r.mu.Unlock()
			r.calls[m] = append(r.calls[m], console.Render(args...))
		}
	}
	return r, console.NewTable(slots)
}

func (r *recorder) get(m console.Method) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls[m]...)
}

var _ = Describe("Configure", Ordered, func() {
	rec, table := newRecorder()

	var infos []guard.TestInfo
	engine := ginkgoguard.Configure(
		guard.WithTable(table),
		guard.WithColor(false),
		guard.WithStackTrace(false),
		guard.WithSkipTest(func(info guard.TestInfo) bool {
			infos = append(infos, info)
			return strings.Contains(info.Name, "legacy")
		}),
	)

	table.Log("while building the tree")

	It("flushes calls made while the suite was built", func() {
		warnings := rec.get(console.MethodWarn)
		Expect(warnings).To(HaveLen(1))
		Expect(warnings[0]).To(ContainSubstring("while building the tree"))
	})

	It("describes the running spec", func() {
		Expect(infos).NotTo(BeEmpty())
		last := infos[len(infos)-1]
		Expect(last.Name).To(Equal("Configure describes the running spec"))
		Expect(last.Path).To(HaveSuffix("ginkgoguard_test.go"))
	})

	It("intercepts guarded calls during a spec", func() {
		table.Log("from a spec")
		Expect(rec.get(console.MethodLog)).To(BeEmpty())
		Expect(engine.Pending(console.MethodLog)).To(HaveLen(1))
	})

	It("warned about the previous spec when it finished", func() {
		warnings := rec.get(console.MethodWarn)
		Expect(warnings).To(HaveLen(2))
		Expect(warnings[1]).To(ContainSubstring("from a spec"))
		Expect(engine.Pending(console.MethodLog)).To(BeEmpty())
	})

	It("lets unguarded channels through", func() {
		table.Info("informational")
		Expect(rec.get(console.MethodInfo)).To(Equal([]string{"informational"}))
	})

	It("runs legacy specs uninstrumented", func() {
		table.Log("straight to the original")
		Expect(rec.get(console.MethodLog)).To(Equal([]string{"straight to the original"}))
		Expect(engine.Pending(console.MethodLog)).To(BeEmpty())
	})

	It("guards again after a skipped spec", func() {
		table.Error("caught again")
		Expect(engine.Pending(console.MethodError)).To(HaveLen(1))
		Expect(rec.get(console.MethodError)).To(BeEmpty())
	})

	AfterAll(func() {
		engine.Teardown()
	})
})

var _ = Describe("Configure with the error action", Ordered, func() {
	rec, table := newRecorder()
	engine := ginkgoguard.Configure(
		guard.WithTable(table),
		guard.WithAction(guard.ActionError),
		guard.WithColor(false),
		guard.WithStackTrace(false),
	)

	table.Error("while building the tree")

	var mu sync.Mutex
	var failures, aborts []string
	capture := func(dst *[]string) func(string, ...int) {
		return func(message string, _ ...int) {
			mu.Lock()
			defer mu.Unlock()
			*dst = append(*dst, message)
		}
	}
	snapshot := func(src *[]string) []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), (*src)...)
	}

	var restore func()
	BeforeAll(func() {
		restore = ginkgoguard.SetFailHandlers(capture(&failures), capture(&aborts))
	})

	It("aborts the suite for calls made while it was built", func() {
		got := snapshot(&aborts)
		Expect(got).To(HaveLen(1))
		Expect(got[0]).To(ContainSubstring("while building the tree"))
		Expect(snapshot(&failures)).To(BeEmpty())
	})

	It("records an unexpected call without printing it", func() {
		table.Error("boom")
		Expect(rec.get(console.MethodError)).To(BeEmpty())
		Expect(snapshot(&failures)).To(BeEmpty())
	})

	It("failed the previous spec when it finished", func() {
		got := snapshot(&failures)
		Expect(got).To(HaveLen(1))
		Expect(got[0]).To(ContainSubstring("boom"))
		Expect(rec.get(console.MethodWarn)).To(BeEmpty())
	})

	It("passes a clean spec", func() {
		table.Info("not guarded")
	})

	AfterAll(func() {
		restore()
		engine.Teardown()
	})
})
