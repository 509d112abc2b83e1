package bridge

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/terassyi/consoleguard/console"
)

// LogrusHook is a logrus.Hook that forwards entries to a console table.
type LogrusHook struct {
	table  *console.Table
	levels []logrus.Level
}

// NewLogrusHook creates a hook writing to table. Without levels it fires for
// every level.
func NewLogrusHook(table *console.Table, levels ...logrus.Level) *LogrusHook {
	if len(levels) == 0 {
		levels = logrus.AllLevels
	}
	return &LogrusHook{
		table:  table,
		levels: levels,
	}
}

// Levels returns the levels the hook fires for.
func (h *LogrusHook) Levels() []logrus.Level {
	return h.levels
}

// Fire formats the entry with its fields sorted by key and calls the channel
// matching its level.
func (h *LogrusHook) Fire(entry *logrus.Entry) error {
	var b strings.Builder
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := entry.Data[k]
		if err, ok := v.(error); ok {
			v = err.Error()
		}
		fmt.Fprintf(&b, " %s=%q", k, fmt.Sprint(v))
	}

	h.table.Call(logrusMethod(entry.Level), b.String())
	return nil
}

func logrusMethod(level logrus.Level) console.Method {
	switch level {
	case logrus.TraceLevel:
		return console.MethodTrace
	case logrus.DebugLevel:
		return console.MethodDebug
	case logrus.InfoLevel:
		return console.MethodInfo
	case logrus.WarnLevel:
		return console.MethodWarn
	default:
		return console.MethodError
	}
}
