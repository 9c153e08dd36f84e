// Package identifier implements the unique, possibly templated name of a
// Product: a file path, a relation's (schema, name, kind) triple, or a bare
// generic string, per spec section 3.
package identifier

import (
	"errors"
	"fmt"

	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/template"
)

// Kind identifies which concrete Identifier a Product carries. It doubles
// as the Product.Kind used to key the DAG's client registry (spec section
// 4.8, "client registry").
type Kind string

const (
	KindFile     Kind = "file"
	KindRelation Kind = "relation"
	KindGeneric  Kind = "generic"
)

// RelationKind distinguishes a relation identifier's persistence kind.
type RelationKind string

const (
	Table RelationKind = "table"
	View  RelationKind = "view"
)

// ErrNotRendered is returned by Rendered when Render has not yet been
// called.
var ErrNotRendered = errors.New("identifier: not rendered")

// ErrRelationNameTooLong is returned by Render when a relation's rendered
// name exceeds the 63-character limit shared by most relational backends.
type ErrRelationNameTooLong struct {
	Name string
}

func (e *ErrRelationNameTooLong) Error() string {
	return fmt.Sprintf("identifier: relation name %q exceeds 63 characters", e.Name)
}

// Identifier is the common contract for File, Relation, and Generic
// identifiers.
type Identifier interface {
	// Render resolves every placeholder in the identifier exactly once;
	// a second call is a no-op that reports ok=false.
	Render(p *params.Bag) (ok bool, err error)
	// Rendered returns the identifier's final literal form. It returns
	// ErrNotRendered if Render has not succeeded yet.
	Rendered() (string, error)
	Kind() Kind
}

// File is a filesystem path identifier, possibly templated (e.g.
// "data/{{upstream.raw}}/clean.csv").
type File struct {
	path     *template.Template
	rendered bool
}

// NewFile wraps a path template.
func NewFile(path string) *File {
	return &File{path: template.New(path)}
}

func (f *File) Render(p *params.Bag) (bool, error) {
	if f.rendered {
		return false, nil
	}
	if _, err := f.path.Render(p, true); err != nil {
		return false, err
	}
	f.rendered = true
	return true, nil
}

func (f *File) Rendered() (string, error) {
	if !f.rendered {
		return "", ErrNotRendered
	}
	v, ok := f.path.Rendered()
	if !ok {
		return "", ErrNotRendered
	}
	return v, nil
}

func (f *File) Kind() Kind { return KindFile }

// Relation is a relational-database product identifier: schema, name
// (possibly templated), and kind (table or view).
type Relation struct {
	Schema   string
	name     *template.Template
	RelKind  RelationKind
	rendered bool
	final    string
}

// NewRelation wraps a relation name template under a fixed schema and kind.
func NewRelation(schema, name string, kind RelationKind) *Relation {
	return &Relation{Schema: schema, name: template.New(name), RelKind: kind}
}

func (r *Relation) Render(p *params.Bag) (bool, error) {
	if r.rendered {
		return false, nil
	}
	rendered, err := r.name.Render(p, true)
	if err != nil {
		return false, err
	}
	if len(rendered) > 63 {
		return false, &ErrRelationNameTooLong{Name: rendered}
	}
	r.rendered = true
	r.final = rendered
	return true, nil
}

func (r *Relation) Rendered() (string, error) {
	if !r.rendered {
		return "", ErrNotRendered
	}
	return fmt.Sprintf("%q.%q", r.Schema, r.final), nil
}

// Name returns the rendered bare relation name (without schema quoting).
func (r *Relation) Name() (string, error) {
	if !r.rendered {
		return "", ErrNotRendered
	}
	return r.final, nil
}

func (r *Relation) Kind() Kind { return KindRelation }

// Generic is a bare, possibly templated string identifier with no further
// validation.
type Generic struct {
	value    *template.Template
	rendered bool
}

// NewGeneric wraps a generic value template.
func NewGeneric(value string) *Generic {
	return &Generic{value: template.New(value)}
}

func (g *Generic) Render(p *params.Bag) (bool, error) {
	if g.rendered {
		return false, nil
	}
	if _, err := g.value.Render(p, true); err != nil {
		return false, err
	}
	g.rendered = true
	return true, nil
}

func (g *Generic) Rendered() (string, error) {
	if !g.rendered {
		return "", ErrNotRendered
	}
	v, ok := g.value.Rendered()
	if !ok {
		return "", ErrNotRendered
	}
	return v, nil
}

func (g *Generic) Kind() Kind { return KindGeneric }
