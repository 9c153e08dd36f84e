package hooks

import (
	"log/slog"
)

// GraphFunc renders a DAG's current dependency tree as text; a *DAG
// satisfies this via its Explain method (bound with nil status, or a
// status map the caller keeps updating — GraphDebug does not know about
// BuildStats directly, to avoid importing the root package and creating
// a cycle).
type GraphFunc func() string

// GraphDebug logs the dependency tree when a task fails, the Go
// counterpart of the teacher's GraphDebugExtension
// (extensions/graph_debug.go): that extension rendered the resolution
// graph with treedrawer on every resolve error; GraphDebug renders
// dagbuild's task graph the same way, through the Graph callback rather
// than scope introspection, since dagbuild has no scope concept.
type GraphDebug struct {
	Base
	Graph  GraphFunc
	logger *slog.Logger
}

// NewGraphDebug wraps graph. A nil logger uses slog.Default().
func NewGraphDebug(graph GraphFunc, logger *slog.Logger) *GraphDebug {
	if logger == nil {
		logger = slog.Default()
	}
	return &GraphDebug{Graph: graph, logger: logger}
}

func (g *GraphDebug) OnTaskFailure(name string, err error) {
	tree := ""
	if g.Graph != nil {
		tree = g.Graph()
	}
	g.logger.Error("task failed", "task", name, "error", err, "dependency_graph", tree)
}
