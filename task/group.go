package task

import (
	"context"
	"errors"

	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/source"
)

// Group is a composite Task that lets a DAG treat several member tasks as
// one build unit (spec section 2's TaskGroup): task.NewGroup("clean", a,
// b, c) renders and executes every member, its upstream set is the union
// of its members' upstream sets, and its combined product is a MetaProduct
// over its members' products. Adding a Group to a DAG gives its members no
// new upstream: each keeps the upstream set it was constructed with.
type Group struct {
	name    string
	members []Task
	prod    *product.Meta
}

// NewGroup wraps members as a single Task. Members must already have been
// constructed with whatever upstream set the group as a whole depends on;
// Group itself does not rewrite member upstream sets.
func NewGroup(name string, members ...Task) *Group {
	prods := make([]product.Product, len(members))
	for i, m := range members {
		prods[i] = m.Product()
	}
	g := &Group{name: name, members: members, prod: product.NewMeta(prods...)}
	g.prod.SetTask(g)
	return g
}

func (g *Group) Name() string            { return g.name }
func (g *Group) Product() product.Product { return g.prod }

func (g *Group) Upstream() map[string]Task {
	out := map[string]Task{}
	for _, m := range g.members {
		for name, up := range m.Upstream() {
			out[name] = up
		}
	}
	return out
}

// UpstreamProducts implements product.TaskRef for the group's own Meta
// product, mirroring Base.UpstreamProducts.
func (g *Group) UpstreamProducts() map[string]product.Product {
	out := make(map[string]product.Product, len(g.members))
	for name, t := range g.Upstream() {
		out[name] = t.Product()
	}
	return out
}

func (g *Group) Source() source.Source { return g.members[0].Source() }
func (g *Group) Language() source.Language { return g.members[0].Language() }

func (g *Group) Render(ctx context.Context, userParams map[string]any) (bool, error) {
	rendered := false
	for _, m := range g.members {
		ok, err := m.Render(ctx, userParams)
		if err != nil {
			return rendered, err
		}
		rendered = rendered || ok
	}
	return rendered, nil
}

func (g *Group) Rendered() bool {
	for _, m := range g.members {
		if !m.Rendered() {
			return false
		}
	}
	return true
}

// Execute runs every member independently, per the DAG's best-effort
// failure mode (spec section 4.8): one member's failure does not stop
// its siblings. All member errors are joined and returned together.
func (g *Group) Execute(ctx context.Context, differ codediff.Differ) (bool, error) {
	ran := false
	var errs []error
	for _, m := range g.members {
		didRun, err := m.Execute(ctx, differ)
		ran = ran || didRun
		if err != nil {
			errs = append(errs, err)
		}
	}
	return ran, errors.Join(errs...)
}

func (g *Group) Warnings() []source.Warning {
	var all []source.Warning
	for _, m := range g.members {
		all = append(all, m.Warnings()...)
	}
	return all
}
