package dagbuild

import "context"

// Render resolves every task's identifier and source templates in
// topological order, so each task's source can reference the already
// -rendered identifiers of its upstream tasks (spec section 4.8's
// "two-phase" data flow). userParams are merged into every task's own
// params; task-specific params set at construction take precedence.
//
// Render is idempotent: a task that has already rendered is left as it is
// on later calls, whatever userParams they pass. A later call with
// different params therefore neither re-renders any task nor returns an
// error.
func (d *DAG) Render(ctx context.Context, userParams map[string]any) error {
	order, err := d.edges.topoSort(d.order)
	if err != nil {
		return err
	}
	for _, name := range order {
		t := d.tasks[name]
		if _, err := t.Render(ctx, userParams); err != nil {
			return err
		}
		for _, w := range t.Warnings() {
			d.hooks.OnWarning(name, w)
		}
	}
	return nil
}
