package dagbuild_test

import (
	"path/filepath"
	"testing"

	"github.com/dagbuild/dagbuild"
	"github.com/dagbuild/dagbuild/clients"
	"github.com/dagbuild/dagbuild/identifier"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/task"
)

func bashTask(t *testing.T, dir, name, cmd string, upstream map[string]task.Task) task.Task {
	t.Helper()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	prod := product.NewFile(identifier.NewFile(filepath.Join(dir, name+".txt")), fs)
	return task.NewBashCommand(name, cmd, "", "dagbuild_test.go", prod, upstream, nil, shell, dir, nil)
}

func TestAddTaskRejectsDuplicateName(t *testing.T) {
	dir := t.TempDir()
	d := dagbuild.New()
	ta := bashTask(t, dir, "ta", "echo a > {{product}}", nil)
	if err := d.AddTask(ta); err != nil {
		t.Fatalf("AddTask(ta): %v", err)
	}
	dup := bashTask(t, dir, "ta", "echo a > {{product}}", nil)
	err := d.AddTask(dup)
	if _, ok := err.(*dagbuild.DuplicateTask); !ok {
		t.Fatalf("AddTask(dup) = %v, want *DuplicateTask", err)
	}
}

func TestAddTaskRejectsUnknownUpstream(t *testing.T) {
	dir := t.TempDir()
	d := dagbuild.New()
	ta := bashTask(t, dir, "ta", "echo a > {{product}}", nil)
	tb := bashTask(t, dir, "tb", "cat {{missing}} > {{product}}", map[string]task.Task{"missing": ta})
	err := d.AddTask(tb)
	if _, ok := err.(*dagbuild.UnknownUpstream); !ok {
		t.Fatalf("AddTask(tb) = %v, want *UnknownUpstream", err)
	}
}

func TestSequenceWiresTasksInOrder(t *testing.T) {
	dir := t.TempDir()
	d := dagbuild.New()

	ta := bashTask(t, dir, "ta", "echo a > {{product}}", nil)
	tb := bashTask(t, dir, "tb", "cat {{ta}} > {{product}}", map[string]task.Task{"ta": ta})
	tc := bashTask(t, dir, "tc", "cat {{tb}} > {{product}}", map[string]task.Task{"tb": tb})

	if err := dagbuild.Sequence(d, ta, tb, tc); err != nil {
		t.Fatalf("Sequence: %v", err)
	}
	if len(d.Tasks()) != 3 {
		t.Fatalf("Tasks() = %d entries, want 3", len(d.Tasks()))
	}
	if _, ok := d.Task("tb"); !ok {
		t.Fatalf("Task(%q) not found after Sequence", "tb")
	}
}

func TestFanWiresOneUpstreamToSeveralChildren(t *testing.T) {
	dir := t.TempDir()
	d := dagbuild.New()

	root := bashTask(t, dir, "root", "echo r > {{product}}", nil)
	c1 := bashTask(t, dir, "c1", "cat {{root}} > {{product}}", map[string]task.Task{"root": root})
	c2 := bashTask(t, dir, "c2", "cat {{root}} > {{product}}", map[string]task.Task{"root": root})

	if err := dagbuild.Fan(d, root, c1, c2); err != nil {
		t.Fatalf("Fan: %v", err)
	}
	if len(d.Tasks()) != 3 {
		t.Fatalf("Tasks() = %d entries, want 3", len(d.Tasks()))
	}
}

func TestAsProductAggregatesTerminalTasks(t *testing.T) {
	dir := t.TempDir()
	d := dagbuild.New()

	root := bashTask(t, dir, "root", "echo r > {{product}}", nil)
	leaf1 := bashTask(t, dir, "leaf1", "cat {{root}} > {{product}}", map[string]task.Task{"root": root})
	leaf2 := bashTask(t, dir, "leaf2", "cat {{root}} > {{product}}", map[string]task.Task{"root": root})
	if err := dagbuild.Fan(d, root, leaf1, leaf2); err != nil {
		t.Fatalf("Fan: %v", err)
	}

	meta := d.AsProduct()
	if len(meta.Members()) != 2 {
		t.Fatalf("AsProduct() has %d members, want 2 (only the terminal tasks)", len(meta.Members()))
	}
}
