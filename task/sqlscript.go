package task

import (
	"context"
	"time"

	"github.com/dagbuild/dagbuild/client"
	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/identifier"
	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/source"
)

// SQLScript runs a templated SQL script via a SQL Client. A transaction
// begins implicitly before the script executes and is committed on
// success or rolled back on failure (spec section 5).
type SQLScript struct {
	Base
	script *source.SQLScript
	rel    *identifier.Relation
}

// NewSQLScript declares a task that runs body through sql once outdated.
// rel is the same relation identifier backing prod (typically a
// product.Relation), used only to validate the script declares a matching
// CREATE TABLE/VIEW — a warning, never an error (spec section 4.2/9).
func NewSQLScript(name, body, doc, loc string, rel *identifier.Relation, prod product.Product, upstream map[string]Task, userParams map[string]any, sql client.SQL) *SQLScript {
	s := source.NewSQLScript(body, doc, loc)
	t := &SQLScript{script: s, rel: rel}
	run := func(ctx context.Context, bag *params.Bag) error {
		rendered, err := s.Rendered()
		if err != nil {
			return err
		}
		if err := sql.Execute(ctx, rendered); err != nil {
			_ = sql.Rollback(ctx)
			return err
		}
		return sql.Commit(ctx)
	}
	t.Base = NewBase(name, s, prod, upstream, userParams, run)
	return t
}

func (t *SQLScript) Render(ctx context.Context, userParams map[string]any) (bool, error) {
	ok, err := t.render(ctx, userParams, t)
	if err != nil || !ok {
		return ok, err
	}
	for _, w := range t.script.ValidateAgainst(t.rel) {
		t.addWarning(w)
	}
	return true, nil
}

func (t *SQLScript) Execute(ctx context.Context, differ codediff.Differ) (bool, error) {
	return t.execute(ctx, differ, time.Now)
}
