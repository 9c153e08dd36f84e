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

// BashCommand runs a templated shell command via a shell Client.
type BashCommand struct {
	Base
	cmd *source.Command
}

// NewBashCommand declares a task that runs cmd through shell once
// outdated.
func NewBashCommand(name, cmd, doc, loc string, prod product.Product, upstream map[string]Task, userParams map[string]any, shell client.Shell, cwd string, env []string) *BashCommand {
	c := source.NewCommand(cmd, doc, loc)
	t := &BashCommand{cmd: c}
	run := func(ctx context.Context, bag *params.Bag) error {
		rendered, err := c.Rendered()
		if err != nil {
			return err
		}
		_, err = shell.Run(ctx, rendered, cwd, env)
		return err
	}
	t.Base = NewBase(name, c, prod, upstream, userParams, run)
	return t
}

func (t *BashCommand) Render(ctx context.Context, userParams map[string]any) (bool, error) {
	return t.render(ctx, userParams, t)
}

func (t *BashCommand) Execute(ctx context.Context, differ codediff.Differ) (bool, error) {
	return t.execute(ctx, differ, time.Now)
}
