package task

import (
	"context"
	"time"

	"github.com/dagbuild/dagbuild/client"
	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/params"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/source"
)

// ShellScript runs a templated shell script body via a shell Client, as
// opposed to BashCommand's single inline command.
type ShellScript struct {
	Base
	script *source.ShellScript
}

// NewShellScript declares a task that runs body through shell once
// outdated.
func NewShellScript(name, body, doc, loc string, prod product.Product, upstream map[string]Task, userParams map[string]any, shell client.Shell, cwd string, env []string) *ShellScript {
	s := source.NewShellScript(body, doc, loc)
	t := &ShellScript{script: s}
	run := func(ctx context.Context, bag *params.Bag) error {
		rendered, err := s.Rendered()
		if err != nil {
			return err
		}
		_, err = shell.Run(ctx, rendered, cwd, env)
		return err
	}
	t.Base = NewBase(name, s, prod, upstream, userParams, run)
	return t
}

func (t *ShellScript) Render(ctx context.Context, userParams map[string]any) (bool, error) {
	return t.render(ctx, userParams, t)
}

func (t *ShellScript) Execute(ctx context.Context, differ codediff.Differ) (bool, error) {
	return t.execute(ctx, differ, time.Now)
}
