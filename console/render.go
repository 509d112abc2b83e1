package console

import (
	"fmt"
	"reflect"
	"strings"
)

// Render formats args the way the native table prints them.
//
// A leading string is a format: every verb consumes one trailing argument and
// is rendered with fmt, "%%" is a literal percent, verbs without a remaining
// argument are kept verbatim and leftover arguments are appended separated by
// spaces. A lone string is returned unchanged. Without a leading string every
// argument is rendered with %v.
func Render(args ...any) string {
	if len(args) == 0 {
		return ""
	}

	format, ok := args[0].(string)
	if !ok {
		return join(args)
	}
	if len(args) == 1 {
		return format
	}

	rest := args[1:]
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}

		j := i + 1
		for j < len(format) && strings.IndexByte("+-# 0123456789.", format[j]) >= 0 {
			j++
		}
		if j >= len(format) {
			b.WriteString(format[i:])
			break
		}
		if format[j] == '%' && j == i+1 {
			b.WriteByte('%')
			i = j
			continue
		}
		if !isVerb(format[j]) {
			b.WriteByte('%')
			continue
		}

		verb := format[i : j+1]
		if len(rest) == 0 {
			b.WriteString(verb)
		} else {
			b.WriteString(fmt.Sprintf(verb, rest[0]))
			rest = rest[1:]
		}
		i = j
	}

	if len(rest) > 0 {
		b.WriteByte(' ')
		b.WriteString(join(rest))
	}
	return b.String()
}

func isVerb(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}

// Truthy reports whether v counts as a passing assertion condition.
// nil, false, numeric zero and the empty string are falsy.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x != ""
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() != 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return rv.Uint() != 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() != 0
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return !rv.IsNil()
	default:
		return true
	}
}
