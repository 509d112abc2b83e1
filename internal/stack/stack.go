// Package stack captures call stacks for recorded diagnostic calls.
package stack

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const selfPrefix = "github.com/terassyi/consoleguard/internal/stack.Capture"

// Frame is a single call site.
type Frame struct {
	Function string
	File     string
	Line     int
}

// String renders the frame as "at function (file:line)".
func (f Frame) String() string {
	return fmt.Sprintf("at %s (%s:%d)", f.Function, f.File, f.Line)
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// Capture returns the current call stack, innermost first. Leading frames
// whose function name starts with one of skipPrefixes are dropped, so the
// first frame is the caller of the instrumented function. A nil result means
// the stack was unavailable.
func Capture(skipPrefixes ...string) []Frame {
	st, ok := errors.New("").(stackTracer)
	if !ok {
		return nil
	}

	prefixes := append([]string{selfPrefix}, skipPrefixes...)
	var frames []Frame
	leading := true
	for _, pc := range st.StackTrace() {
		f := toFrame(pc)
		if leading && hasAnyPrefix(f.Function, prefixes) {
			continue
		}
		leading = false
		if f.Function == "runtime.goexit" {
			continue
		}
		frames = append(frames, f)
	}
	return frames
}

// Format renders frames one per line, indented by four spaces.
func Format(frames []Frame) string {
	lines := make([]string, len(frames))
	for i, f := range frames {
		lines[i] = "    " + f.String()
	}
	return strings.Join(lines, "\n")
}

// toFrame decodes a pkg/errors frame. "%+s" yields "function\n\tfile".
func toFrame(pc errors.Frame) Frame {
	fn, file, _ := strings.Cut(fmt.Sprintf("%+s", pc), "\n\t")
	line, _ := strconv.Atoi(fmt.Sprintf("%d", pc))
	return Frame{Function: fn, File: file, Line: line}
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
