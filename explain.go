package dagbuild

import (
	"sort"

	"github.com/m1gwings/treedrawer/tree"
)

// Explain renders the DAG's dependency structure as an ASCII tree,
// grounded on the teacher's extensions/graph_debug.go
// (GraphDebugExtension.tryFormatHorizontalTree / buildTree), retargeted
// from executor-resolution state to task names and an optional status
// label per task (e.g. "ran", "skipped", "failed") supplied by the
// caller, typically straight from a BuildStats.
func (d *DAG) Explain(status map[string]string) string {
	roots := d.roots()
	if len(roots) == 0 {
		return "(empty graph)"
	}

	var root *tree.Tree
	if len(roots) == 1 {
		root = d.buildTree(roots[0], status, map[string]bool{})
	} else {
		root = tree.NewTree(tree.NodeString("DAG"))
		for _, r := range roots {
			child := d.buildTree(r, status, map[string]bool{})
			if child != nil {
				addTreeAsChild(root, child)
			}
		}
	}
	if root == nil {
		return "(empty graph)"
	}
	return root.String()
}

// roots returns tasks with no upstream, sorted by name for deterministic
// output.
func (d *DAG) roots() []string {
	var out []string
	for _, name := range d.order {
		if len(d.edges.directUpstream(name)) == 0 {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

func (d *DAG) buildTree(name string, status map[string]string, visited map[string]bool) *tree.Tree {
	if visited[name] {
		return nil
	}
	visited[name] = true

	label := name
	if s, ok := status[name]; ok && s != "" {
		label = label + " [" + s + "]"
	}
	node := tree.NewTree(tree.NodeString(label))

	children := d.edges.directDependents(name)
	sort.Strings(children)
	for _, child := range children {
		childTree := d.buildTree(child, status, visited)
		if childTree != nil {
			addTreeAsChild(node, childTree)
		}
	}
	return node
}

// addTreeAsChild copies child's subtree under parent; treedrawer has no
// "attach an existing subtree" method, only AddChild(value), so the copy
// has to walk child's own children explicitly.
func addTreeAsChild(parent, child *tree.Tree) {
	newChild := parent.AddChild(child.Val())
	for _, grandchild := range child.Children() {
		addTreeAsChild(newChild, grandchild)
	}
}

// statusFromStats builds the status map Explain expects from a
// BuildStats, for the common case of explaining right after a Build.
func statusFromStats(stats BuildStats) map[string]string {
	out := make(map[string]string, len(stats.Ran)+len(stats.Skipped)+len(stats.Failed))
	for _, n := range stats.Ran {
		out[n] = "ran"
	}
	for _, n := range stats.Skipped {
		out[n] = "skipped"
	}
	for _, n := range stats.Failed {
		out[n] = "failed"
	}
	return out
}

// ExplainBuild is a convenience wrapper around Explain(statusFromStats(stats)).
func (d *DAG) ExplainBuild(stats BuildStats) string {
	return d.Explain(statusFromStats(stats))
}
