// Package source implements Placeholder/Source: a strategy wrapping a
// piece of executable content (shell command, SQL, a Go callable) together
// with the metadata Task and CodeDiffer need from it, per spec section 4.2.
package source

import (
	"errors"
	"fmt"

	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/template"
)

// ErrNotRendered is returned by Rendered when a templated source has not
// been rendered yet.
var ErrNotRendered = errors.New("source: not rendered")

// Language tags a Source for CodeDiffer normalization and Client
// dispatch.
type Language string

const (
	LangShell   Language = "shell"
	LangSQL     Language = "sql"
	LangGo      Language = "go"
	LangGeneric Language = "generic"
)

// Source is the contract every task source variant implements.
type Source interface {
	NeedsRender() bool
	Raw() string
	Rendered() (string, error)
	Language() Language
	Doc() string
	DocShort() string
	Loc() string
}

// Warning is a non-fatal observation raised during render-time validation,
// e.g. a SQLScript that creates a relation not matching its product.
// Spec section 4.2 and section 9 are explicit that this is never upgraded
// to an error.
type Warning struct {
	Source  string
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Source, w.Message)
}

// Command is a templated shell command run directly by a shell Client
// (BashCommand's source).
type Command struct {
	tmpl     *template.Template
	doc      string
	location string
}

// NewCommand wraps a shell command template.
func NewCommand(cmd, doc, loc string) *Command {
	return &Command{tmpl: template.New(cmd), doc: doc, location: loc}
}

func (c *Command) NeedsRender() bool { return true }
func (c *Command) Raw() string       { return c.tmpl.Raw() }
func (c *Command) Rendered() (string, error) {
	v, ok := c.tmpl.Rendered()
	if !ok {
		return "", ErrNotRendered
	}
	return v, nil
}
func (c *Command) Render(p *params.Bag, strict bool) (string, error) {
	return c.tmpl.Render(p, strict)
}
func (c *Command) Language() Language { return LangShell }
func (c *Command) Doc() string        { return c.doc }
func (c *Command) DocShort() string   { return firstLine(c.doc) }
func (c *Command) Loc() string        { return c.location }

// ShellScript is a templated shell script file's contents, run via a shell
// Client.
type ShellScript struct {
	Command
}

// NewShellScript wraps a shell script body template.
func NewShellScript(body, doc, loc string) *ShellScript {
	return &ShellScript{Command: Command{tmpl: template.New(body), doc: doc, location: loc}}
}

// Generic is literal text: no render, no validation, used by language
// "generic" tasks.
type Generic struct {
	text     string
	doc      string
	location string
}

// NewGeneric wraps literal content.
func NewGeneric(text, doc, loc string) *Generic {
	return &Generic{text: text, doc: doc, location: loc}
}

func (g *Generic) NeedsRender() bool         { return false }
func (g *Generic) Raw() string               { return g.text }
func (g *Generic) Rendered() (string, error) { return g.text, nil }
func (g *Generic) Language() Language        { return LangGeneric }
func (g *Generic) Doc() string               { return g.doc }
func (g *Generic) DocShort() string          { return firstLine(g.doc) }
func (g *Generic) Loc() string               { return g.location }

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' {
			return s[:i]
		}
	}
	return s
}
