// Package template implements the {{var}} substitution engine used by every
// templated piece of text in dagbuild: task sources and identifiers alike.
//
// It deliberately does not wrap text/template. text/template has no way to
// report which variables were missing after a strict render without a
// custom FuncMap trick, and dagbuild needs the full list of missing names
// (not just the first) to surface in render errors. A single regexp pass
// covers the grammar in spec section 6: {{expr}} where expr is a dotted
// access into the params bag.
package template

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dagbuild/dagbuild/params"
)

var placeholderRe = regexp.MustCompile(`\{\{\s*([A-Za-z_][\w.]*)\s*\}\}`)

// Funcs holds small pure string helpers by name, named after
// internal/webhook/template.go's templateFuncs. Render does not call them:
// the placeholder grammar has no syntax for applying a helper.
var Funcs = map[string]func(string) string{
	"quote": func(s string) string { return `"` + s + `"` },
}

// RenderFailed is returned by Render in strict mode when one or more
// placeholders could not be resolved against the params bag.
type RenderFailed struct {
	Missing []string
}

func (e *RenderFailed) Error() string {
	return fmt.Sprintf("render failed: missing variables: %s", strings.Join(e.Missing, ", "))
}

// ErrAlreadyRendered is returned when a non-literal Template is rendered a
// second time with a params bag whose Digest differs from the first
// render's. Spec section 9 leaves this open; dagbuild treats it as
// forbidden rather than a silent no-op.
type ErrAlreadyRendered struct {
	Raw string
}

func (e *ErrAlreadyRendered) Error() string {
	return fmt.Sprintf("template already rendered with different params: %q", e.Raw)
}

// Template wraps a source string containing zero or more {{expr}}
// placeholders.
type Template struct {
	raw        string
	names      []string
	rendered   *string
	renderedBy string // snapshot of params used for the first render, for idempotence checks
}

// New parses raw and, if it is a literal (no placeholders), renders it
// immediately against an empty params bag — render is idempotent for
// literals by construction.
func New(raw string) *Template {
	t := &Template{raw: raw}
	for _, m := range placeholderRe.FindAllStringSubmatch(raw, -1) {
		t.names = append(t.names, m[1])
	}
	if t.Literal() {
		rendered := raw
		t.rendered = &rendered
	}
	return t
}

// Raw returns the unrendered source text.
func (t *Template) Raw() string { return t.raw }

// Literal reports whether the template contains no placeholders.
func (t *Template) Literal() bool { return len(t.names) == 0 }

// Names returns the distinct placeholder names referenced by the template,
// in first-seen order.
func (t *Template) Names() []string {
	seen := make(map[string]bool, len(t.names))
	out := make([]string, 0, len(t.names))
	for _, n := range t.names {
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// Rendered returns the last rendered value, or false if Render has not
// been called (and the template is not a literal).
func (t *Template) Rendered() (string, bool) {
	if t.rendered == nil {
		return "", false
	}
	return *t.rendered, true
}

// Render substitutes every {{expr}} against p. In strict mode, any
// placeholder p.Get cannot resolve is collected into a RenderFailed. In lax
// mode, unresolved placeholders are left verbatim.
//
// Calling Render a second time on a non-literal template is idempotent
// only if p reports the same digest as the first call; otherwise it
// returns ErrAlreadyRendered.
func (t *Template) Render(p *params.Bag, strict bool) (string, error) {
	digest := p.Digest()
	if t.rendered != nil {
		if t.Literal() || t.renderedBy == digest {
			return *t.rendered, nil
		}
		return "", &ErrAlreadyRendered{Raw: t.raw}
	}

	var missing []string
	out := placeholderRe.ReplaceAllStringFunc(t.raw, func(match string) string {
		sub := placeholderRe.FindStringSubmatch(match)
		name := sub[1]
		val, ok := p.Get(name)
		if !ok {
			missing = append(missing, name)
			return match
		}
		return fmt.Sprintf("%v", val)
	})

	if strict && len(missing) > 0 {
		return "", &RenderFailed{Missing: missing}
	}

	t.rendered = &out
	t.renderedBy = digest
	return out, nil
}
