package guard

import (
	"github.com/terassyi/consoleguard/console"
	"github.com/terassyi/consoleguard/internal/config"
)

// LoadFile loads a CUE, YAML or TOML policy file and returns the options it
// describes. Options given after these to New override them.
func LoadFile(path string) ([]Option, error) {
	p, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return policyOptions(p)
}

func policyOptions(p *config.Policy) ([]Option, error) {
	g := p.Document.Guard

	action, err := ParseAction(g.Action)
	if err != nil {
		return nil, err
	}

	opts := []Option{
		WithAction(action),
		WithPrintUnexpectedMessages(g.PrintUnexpectedMessages),
		WithStackTrace(g.IncludeStackTrace),
	}
	for _, m := range console.Methods() {
		opts = append(opts, WithChannel(m, p.Channel(m)))
	}

	if g.Header != "" {
		opts = append(opts, WithHeader(func(m console.Method, _ func(a ...any) string) string {
			return p.Header(m)
		}))
	}
	if p.HasSilence() {
		opts = append(opts, WithSilenceMessage(func(message string, m console.Method, ctx Context) bool {
			return p.Silenced(message, m, ctx.Group, ctx.Groups)
		}))
	}
	if p.HasAllow() {
		opts = append(opts, WithAllowMessage(func(message string, m console.Method, ctx Context) bool {
			return p.Allowed(message, m, ctx.Group, ctx.Groups)
		}))
	}
	if p.HasSkip() {
		opts = append(opts, WithSkipTest(func(info TestInfo) bool {
			return p.Skipped(info.Name, info.Path)
		}))
	}
	return opts, nil
}
