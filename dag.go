package dagbuild

import (
	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/hooks"
	"github.com/dagbuild/dagbuild/identifier"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/task"
)

// DAG is a named collection of Tasks with the edges implied by their
// upstream sets, a per-kind client registry, and a CodeDiffer.
type DAG struct {
	tasks   map[string]task.Task
	order   []string // insertion order, preserved for deterministic iteration
	edges   *adjacency
	clients map[identifier.Kind]any
	differ  codediff.Differ
	hooks   hooks.Multi
}

// New creates an empty DAG using the default CodeDiffer.
func New() *DAG {
	return &DAG{
		tasks:   make(map[string]task.Task),
		edges:   newAdjacency(),
		clients: make(map[identifier.Kind]any),
		differ:  codediff.New(),
	}
}

// AddHook registers a Hook to observe this DAG's Render and Build calls.
func (d *DAG) AddHook(h hooks.Hook) {
	d.hooks = append(d.hooks, h)
}

// WithDiffer overrides the DAG's CodeDiffer; mainly useful in tests that
// want to force a particular code-outdated decision.
func (d *DAG) WithDiffer(differ codediff.Differ) *DAG {
	d.differ = differ
	return d
}

// SetClient registers a backend handle under kind in the DAG's client
// registry (spec section 4.8's "client registry"); Client looks it up.
// The task constructors in package task do not read the registry: each
// takes its client as an argument (e.g. client.FS for identifier.KindFile,
// a client.SQL implementing client.Commenter for identifier.KindRelation).
func (d *DAG) SetClient(kind identifier.Kind, c any) {
	d.clients[kind] = c
}

// Client returns the backend registered for kind, if any.
func (d *DAG) Client(kind identifier.Kind) (any, bool) {
	c, ok := d.clients[kind]
	return c, ok
}

// AddTask registers t, wiring edges from t's own Upstream() set. It
// returns DuplicateTask if t's name is already taken, UnknownUpstream if
// an upstream name is not yet in the DAG (tasks must be added in
// dependency order), or CycleDetected if doing so would make the DAG
// cyclic.
func (d *DAG) AddTask(t task.Task) error {
	name := t.Name()
	if _, exists := d.tasks[name]; exists {
		return &DuplicateTask{Name: name}
	}
	for upName := range t.Upstream() {
		if _, ok := d.tasks[upName]; !ok {
			return &UnknownUpstream{Task: name, Upstream: upName}
		}
	}

	d.tasks[name] = t
	d.order = append(d.order, name)
	for upName := range t.Upstream() {
		d.edges.addEdge(name, upName)
	}

	if _, err := d.edges.topoSort(d.order); err != nil {
		// Roll back: AddTask must leave the DAG unchanged on failure.
		delete(d.tasks, name)
		d.order = d.order[:len(d.order)-1]
		return err
	}
	return nil
}

// Task returns the task registered under name, if any.
func (d *DAG) Task(name string) (task.Task, bool) {
	t, ok := d.tasks[name]
	return t, ok
}

// Tasks returns every registered task in insertion order.
func (d *DAG) Tasks() []task.Task {
	out := make([]task.Task, len(d.order))
	for i, name := range d.order {
		out[i] = d.tasks[name]
	}
	return out
}

// Sequence is the Go-idiomatic substitute for the `a >> b >> c` operator
// sugar some task-graph DSLs use: it adds each task in order, wiring ts[i]
// as upstream of ts[i+1] is the CALLER's job (tasks already carry their
// upstream set at construction) — Sequence only adds them to the DAG in
// the right order so earlier tasks exist before later ones reference
// them.
func Sequence(d *DAG, ts ...task.Task) error {
	for _, t := range ts {
		if err := d.AddTask(t); err != nil {
			return err
		}
	}
	return nil
}

// Fan adds root followed by each of children, for the common "one
// upstream, several parallel consumers" shape.
func Fan(d *DAG, root task.Task, children ...task.Task) error {
	if err := d.AddTask(root); err != nil {
		return err
	}
	for _, c := range children {
		if err := d.AddTask(c); err != nil {
			return err
		}
	}
	return nil
}

// terminals returns the names of tasks with no downstream dependents.
func (d *DAG) terminals() []string {
	var out []string
	for _, name := range d.order {
		if len(d.edges.directDependents(name)) == 0 {
			out = append(out, name)
		}
	}
	return out
}

// AsProduct exposes every terminal task's product as a single MetaProduct,
// letting one DAG serve as an upstream dependency of a task in another DAG
// through the ordinary product.Product contract (spec section 4.8,
// "DAG-as-product").
func (d *DAG) AsProduct() *product.Meta {
	var prods []product.Product
	for _, name := range d.terminals() {
		prods = append(prods, d.tasks[name].Product())
	}
	return product.NewMeta(prods...)
}
