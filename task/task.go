// Package task implements Task and its concrete variants (BashCommand,
// Callable, SQLScript, ShellScript, Group), per spec section 4.6: a unit
// of work binding a Source to a Product, an upstream set, and params.
package task

import (
	"context"
	"fmt"
	"time"

	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/source"
)

// Task is the contract the DAG drives: render once, decide outdatedness,
// execute at most once per build.
type Task interface {
	Name() string
	Product() product.Product
	Upstream() map[string]Task
	Source() source.Source
	Language() source.Language

	// Render resolves this task's identifier and source templates against
	// userParams plus the rendered identifiers of every upstream task. It
	// is a no-op (ok=false) if already rendered.
	Render(ctx context.Context, userParams map[string]any) (ok bool, err error)
	Rendered() bool

	// Execute runs the task's execution protocol (spec section 4.6):
	// skip if not outdated, else run and save metadata on success. It
	// reports whether the task actually ran.
	Execute(ctx context.Context, differ codediff.Differ) (ran bool, err error)

	// Warnings returns and clears any warnings accumulated since
	// construction (unused params, SQL relation mismatches).
	Warnings() []source.Warning
}

// Run is the function a concrete task type supplies to actually produce
// its product, invoked only when the task is outdated.
type Run func(ctx context.Context, p *params.Bag) error

// Base implements the bookkeeping shared by every concrete Task: params
// assembly, render sequencing, and the skip/run/save-metadata protocol.
// Concrete types embed Base and supply a Run closure plus their Source.
type Base struct {
	name     string
	src      source.Source
	prod     product.Product
	upstream map[string]Task
	user     map[string]any
	run      Run

	rendered       bool
	renderedSource string
	bag            *params.Bag
	warnings       []source.Warning
}

// NewBase wires a Task's identity, source, product, upstream set, and run
// function together. It does not set the product's owning-task
// back-reference: render calls prod.SetTask with the outer Task value, so
// a product has no Task() until its task first renders.
func NewBase(name string, src source.Source, prod product.Product, upstream map[string]Task, userParams map[string]any, run Run) Base {
	if upstream == nil {
		upstream = map[string]Task{}
	}
	if userParams == nil {
		userParams = map[string]any{}
	}
	return Base{
		name:     name,
		src:      src,
		prod:     prod,
		upstream: upstream,
		user:     userParams,
		run:      run,
	}
}

func (b *Base) Name() string              { return b.name }
func (b *Base) Product() product.Product   { return b.prod }
func (b *Base) Upstream() map[string]Task  { return b.upstream }
func (b *Base) Source() source.Source      { return b.src }
func (b *Base) Language() source.Language  { return b.src.Language() }
func (b *Base) Rendered() bool             { return b.rendered }

// UpstreamProducts implements product.TaskRef, letting product.Outdated
// walk the dependency graph without importing package task (which would
// create an import cycle: task depends on product already).
func (b *Base) UpstreamProducts() map[string]product.Product {
	out := make(map[string]product.Product, len(b.upstream))
	for name, t := range b.upstream {
		out[name] = t.Product()
	}
	return out
}

// Warnings returns and clears accumulated warnings.
func (b *Base) Warnings() []source.Warning {
	w := b.warnings
	b.warnings = nil
	return w
}

func (b *Base) addWarning(w source.Warning) { b.warnings = append(b.warnings, w) }

// render assembles the task's params bag and resolves its identifier and
// source templates. self is the outer Task value, registered as this
// task's own product's TaskRef.
func (b *Base) render(ctx context.Context, userParams map[string]any, self product.TaskRef) (bool, error) {
	if b.rendered {
		return false, nil
	}

	merged := make(map[string]any, len(b.user)+len(userParams)+2)
	for k, v := range userParams {
		merged[k] = v
	}
	for k, v := range b.user {
		merged[k] = v
	}

	upstreamVals := make(map[string]any, len(b.upstream))
	for name, t := range b.upstream {
		if !t.Rendered() {
			return false, fmt.Errorf("task %q: upstream task %q has not been rendered (render tasks in topological order)", b.name, name)
		}
		v, err := t.Product().Identifier().Rendered()
		if err != nil {
			return false, err
		}
		upstreamVals[name] = v
		// Also exposed at the top level so "{{taskname}}" resolves
		// directly, matching the end-to-end chain scenario's grammar.
		merged[name] = v
	}
	merged["upstream"] = upstreamVals

	b.prod.SetTask(self)

	bag := params.New(merged)
	if _, err := b.prod.Identifier().Render(bag); err != nil {
		return false, err
	}
	productVal, err := b.prod.Identifier().Rendered()
	if err != nil {
		return false, err
	}
	merged["product"] = productVal

	full := params.New(merged)
	rendered, err := renderSource(b.src, full)
	if err != nil {
		return false, err
	}

	b.renderedSource = rendered
	b.bag = full
	b.rendered = true

	for _, unused := range full.Close() {
		_, inTask := b.user[unused]
		_, inCall := userParams[unused]
		if !inTask && !inCall {
			continue
		}
		b.addWarning(source.Warning{Source: b.name, Message: fmt.Sprintf("param %q declared but never used", unused)})
	}
	return true, nil
}

// renderSource renders src in strict mode if it supports rendering
// (Command and its embedders); sources with NeedsRender()==false (Generic,
// Callable) are returned as-is.
func renderSource(src source.Source, bag *params.Bag) (string, error) {
	type renderer interface {
		Render(p *params.Bag, strict bool) (string, error)
	}
	if !src.NeedsRender() {
		return src.Rendered()
	}
	r, ok := src.(renderer)
	if !ok {
		return src.Rendered()
	}
	return r.Render(bag, true)
}

// execute runs the skip/run/save-metadata protocol described in spec
// section 4.6. now is injected so tests can control timestamps.
func (b *Base) execute(ctx context.Context, differ codediff.Differ, now func() time.Time) (bool, error) {
	if !b.rendered {
		return false, fmt.Errorf("task %q: Execute called before Render", b.name)
	}

	outdated, err := product.Outdated(ctx, differ, b.prod, b.src.Language(), b.renderedSource)
	if err != nil {
		return false, err
	}
	if !outdated {
		return false, nil
	}

	if err := b.run(ctx, b.bag); err != nil {
		return false, err
	}

	// Validation callables attached to the product (spec section 3's
	// "checks"/"tests" Data Model attributes) run right after a
	// successful Run and before metadata is saved, checks before tests;
	// either failing fails Execute the same way a failing Run does.
	for _, check := range b.prod.Checks() {
		if err := check(ctx); err != nil {
			return false, err
		}
	}
	for _, test := range b.prod.Tests() {
		if err := test(ctx); err != nil {
			return false, err
		}
	}

	ts := float64(now().UnixNano()) / 1e9
	code := b.renderedSource
	if err := b.prod.SaveMetadata(ctx, product.Metadata{Timestamp: &ts, StoredSourceCode: &code}); err != nil {
		return false, err
	}
	b.prod.InvalidateCache()
	return true, nil
}
