package bridge

import (
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/terassyi/consoleguard/console"
)

// zapCore is a zapcore.Core that forwards entries to a console table.
type zapCore struct {
	zapcore.LevelEnabler
	table *console.Table
	enc   zapcore.Encoder
}

// NewZapCore creates a core writing to table. Entries are rendered by a zap
// console encoder without time or level, since the channel carries the level.
func NewZapCore(table *console.Table, enabler zapcore.LevelEnabler) zapcore.Core {
	if enabler == nil {
		enabler = zapcore.DebugLevel
	}
	return &zapCore{
		LevelEnabler: enabler,
		table:        table,
		enc: zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			MessageKey:       "msg",
			NameKey:          "logger",
			EncodeName:       zapcore.FullNameEncoder,
			EncodeDuration:   zapcore.StringDurationEncoder,
			ConsoleSeparator: " ",
		}),
	}
}

func (c *zapCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &zapCore{
		LevelEnabler: c.LevelEnabler,
		table:        c.table,
		enc:          c.enc.Clone(),
	}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *zapCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *zapCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()

	c.table.Call(zapMethod(ent.Level), msg)
	return nil
}

func (c *zapCore) Sync() error {
	return nil
}

func zapMethod(level zapcore.Level) console.Method {
	switch {
	case level <= zapcore.DebugLevel:
		return console.MethodDebug
	case level == zapcore.InfoLevel:
		return console.MethodInfo
	case level == zapcore.WarnLevel:
		return console.MethodWarn
	default:
		return console.MethodError
	}
}
