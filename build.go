package dagbuild

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// BuildStats reports the outcome of one Build call.
type BuildStats struct {
	RunID   string
	Ran     []string
	Skipped []string
	Failed  []string
}

// Build walks the DAG in topological order, running each task whose
// product is outdated and skipping the rest (spec section 4.8). By
// default tasks run strictly sequentially; WithParallel(n) lets tasks on
// independent branches run concurrently, bounded at n in flight. If any
// task has not been rendered yet, Build first calls Render with no user
// params.
//
// On a task failure, its entire downstream is skipped (not run); sibling
// branches with no dependency on the failed task continue to completion.
// Build returns *BuildErrors collecting every failure once the reachable
// portion of the graph has finished, alongside the BuildStats describing
// what happened to every task.
func (d *DAG) Build(ctx context.Context, opts ...Option) (BuildStats, error) {
	cfg := newBuildConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	for _, name := range d.order {
		if !d.tasks[name].Rendered() {
			if err := d.Render(ctx, nil); err != nil {
				return BuildStats{}, err
			}
			break
		}
	}

	order, err := d.edges.topoSort(d.order)
	if err != nil {
		return BuildStats{}, err
	}

	stats := BuildStats{RunID: uuid.NewString()}
	blocked := map[string]bool{}
	var buildErrs []*TaskRunError
	var mu sync.Mutex

	runOne := func(name string) error {
		mu.Lock()
		isBlocked := blocked[name]
		mu.Unlock()
		if isBlocked {
			mu.Lock()
			stats.Skipped = append(stats.Skipped, name)
			mu.Unlock()
			return nil
		}

		t := d.tasks[name]
		d.hooks.OnTaskStart(name)
		ran, err := t.Execute(ctx, d.differ)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			stats.Failed = append(stats.Failed, name)
			buildErrs = append(buildErrs, &TaskRunError{Task: name, Cause: err})
			for _, dep := range d.edges.findDependents(name) {
				blocked[dep] = true
			}
			d.hooks.OnTaskFailure(name, err)
			return err
		}
		if ran {
			stats.Ran = append(stats.Ran, name)
			d.hooks.OnTaskSuccess(name)
		} else {
			stats.Skipped = append(stats.Skipped, name)
			d.hooks.OnTaskSkip(name)
		}
		return nil
	}

	if cfg.parallel <= 1 {
		for _, name := range order {
			if err := runOne(name); err != nil && cfg.errorMode == FailFast {
				break
			}
		}
	} else if err := d.buildParallel(ctx, order, cfg, runOne); err != nil && cfg.errorMode == FailFast {
		// errgroup already stopped remaining goroutines via ctx
		_ = err
	}

	if len(buildErrs) > 0 {
		return stats, &BuildErrors{Errors: buildErrs}
	}
	return stats, nil
}

// buildParallel runs tasks level by level: within one topological level
// (tasks whose upstream have all finished), up to cfg.parallel run
// concurrently via errgroup, grounded on the teacher's ParallelExecutor
// shape (flow.go) though re-implemented without its generic executor
// machinery, since dagbuild's graph is keyed by task name at runtime
// rather than by a compile-time typed dependency.
func (d *DAG) buildParallel(ctx context.Context, order []string, cfg *buildConfig, runOne func(string) error) error {
	done := map[string]bool{}
	remaining := append([]string(nil), order...)

	for len(remaining) > 0 {
		var level []string
		var next []string
		for _, name := range remaining {
			ready := true
			for _, up := range d.edges.directUpstream(name) {
				if !done[up] {
					ready = false
					break
				}
			}
			if ready {
				level = append(level, name)
			} else {
				next = append(next, name)
			}
		}
		if len(level) == 0 {
			// No progress possible; stop here, leaving the remaining tasks
			// unrun, to avoid an infinite loop (topoSort already rejected
			// real cycles).
			break
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.parallel)
		for _, name := range level {
			name := name
			g.Go(func() error {
				if cfg.errorMode == FailFast && gctx.Err() != nil {
					return gctx.Err()
				}
				return runOne(name)
			})
		}
		groupErr := g.Wait()
		for _, name := range level {
			done[name] = true
		}
		remaining = next

		if groupErr != nil && cfg.errorMode == FailFast {
			return groupErr
		}
	}
	return nil
}
