package task

import (
	"context"
	"time"

	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/source"
)

// Callable runs a host-process Go function with the task's resolved
// params, the Go analogue of PythonCallableSource.
type Callable struct {
	Base
	callable *source.Callable
}

// NewCallable declares a task that invokes fn once outdated. fn's
// fingerprint (see source.WithFingerprint) stands in for Python's
// extracted source text in CodeDiffer comparisons.
func NewCallable(name string, fn *source.Callable, prod product.Product, upstream map[string]Task, userParams map[string]any) *Callable {
	t := &Callable{callable: fn}
	run := func(ctx context.Context, bag *params.Bag) error {
		return fn.Invoke(ctx, bag)
	}
	t.Base = NewBase(name, fn, prod, upstream, userParams, run)
	return t
}

func (t *Callable) Render(ctx context.Context, userParams map[string]any) (bool, error) {
	return t.render(ctx, userParams, t)
}

func (t *Callable) Execute(ctx context.Context, differ codediff.Differ) (bool, error) {
	return t.execute(ctx, differ, time.Now)
}
