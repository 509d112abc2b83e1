package config

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/terassyi/consoleguard/console"
	guarderrors "github.com/terassyi/consoleguard/internal/errors"
)

// ChannelPlaceholder is expanded to the channel name in custom headers.
const ChannelPlaceholder = "{channel}"

// Policy is a validated policy file with its rules compiled.
type Policy struct {
	// File is the path the policy was loaded from.
	File string
	// Document is the decoded document with defaults applied.
	Document Document

	silence []matcher
	allow   []matcher
	skip    []skipMatcher
}

type matcher struct {
	channel console.Method
	message *regexp.Regexp
	group   *regexp.Regexp
	inGroup string
	hasIn   bool
}

type skipMatcher struct {
	name *regexp.Regexp
	path *regexp.Regexp
}

// Compile compiles the rules of doc. file names the source in errors.
func Compile(doc *Document, file string) (*Policy, error) {
	p := &Policy{File: file, Document: *doc}

	var err error
	if p.silence, err = compileRules(file, "silence", doc.Guard.Silence); err != nil {
		return nil, err
	}
	if p.allow, err = compileRules(file, "allow", doc.Guard.Allow); err != nil {
		return nil, err
	}
	for i, r := range doc.Guard.Skip {
		var s skipMatcher
		if s.name, err = compilePattern(file, fmt.Sprintf("guard.skip[%d].name", i), r.Name); err != nil {
			return nil, err
		}
		if s.path, err = compilePattern(file, fmt.Sprintf("guard.skip[%d].path", i), r.Path); err != nil {
			return nil, err
		}
		p.skip = append(p.skip, s)
	}
	return p, nil
}

func compileRules(file, list string, rules []Rule) ([]matcher, error) {
	matchers := make([]matcher, 0, len(rules))
	for i, r := range rules {
		field := fmt.Sprintf("guard.%s[%d]", list, i)

		m := matcher{inGroup: r.InGroup, hasIn: r.InGroup != ""}
		if r.Channel != "" {
			method, err := console.ParseMethod(r.Channel)
			if err != nil || method.IsGroup() {
				return nil, guarderrors.NewValidationError(file, field+".channel", "a message channel", r.Channel)
			}
			m.channel = method
		}

		var err error
		if m.message, err = compilePattern(file, field+".message", r.Message); err != nil {
			return nil, err
		}
		if m.group, err = compilePattern(file, field+".group", r.Group); err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	return matchers, nil
}

func compilePattern(file, field, pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		verr := guarderrors.NewValidationError(file, field, "a regular expression", pattern)
		verr.Base.Cause = err
		return nil, verr
	}
	return re, nil
}

func (m matcher) match(message string, method console.Method, group string, groups []string) bool {
	if m.channel != "" && m.channel != method {
		return false
	}
	if m.message != nil && !m.message.MatchString(message) {
		return false
	}
	if m.group != nil && !m.group.MatchString(group) {
		return false
	}
	if m.hasIn && !slices.Contains(groups, m.inGroup) {
		return false
	}
	return true
}

func matchAny(ms []matcher, message string, method console.Method, group string, groups []string) bool {
	for _, m := range ms {
		if m.match(message, method, group, groups) {
			return true
		}
	}
	return false
}

// Silenced reports whether any silence rule matches the call.
func (p *Policy) Silenced(message string, method console.Method, group string, groups []string) bool {
	return matchAny(p.silence, message, method, group, groups)
}

// Allowed reports whether any allow rule matches the call.
func (p *Policy) Allowed(message string, method console.Method, group string, groups []string) bool {
	return matchAny(p.allow, message, method, group, groups)
}

// Skipped reports whether any skip rule matches the test.
func (p *Policy) Skipped(name, path string) bool {
	for _, s := range p.skip {
		if s.name != nil && !s.name.MatchString(name) {
			continue
		}
		if s.path != nil && !s.path.MatchString(path) {
			continue
		}
		return true
	}
	return false
}

// HasSilence reports whether the policy has silence rules.
func (p *Policy) HasSilence() bool { return len(p.silence) > 0 }

// HasAllow reports whether the policy has allow rules.
func (p *Policy) HasAllow() bool { return len(p.allow) > 0 }

// HasSkip reports whether the policy has skip rules.
func (p *Policy) HasSkip() bool { return len(p.skip) > 0 }

// Header expands the custom header for method. It returns "" when the
// policy keeps the default header.
func (p *Policy) Header(method console.Method) string {
	if p.Document.Guard.Header == "" {
		return ""
	}
	return strings.ReplaceAll(p.Document.Guard.Header, ChannelPlaceholder, string(method))
}

// Channel reports whether the policy guards method.
func (p *Policy) Channel(method console.Method) bool {
	return p.Document.Guard.Channels[string(method)]
}
