package task_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/dagbuild/dagbuild/client"
	"github.com/dagbuild/dagbuild/clients"
	"github.com/dagbuild/dagbuild/codediff"
	"github.com/dagbuild/dagbuild/identifier"
	"github.com/dagbuild/dagbuild/product"
	"github.com/dagbuild/dagbuild/task"
)

func newFileProduct(t *testing.T, dir, name string, fs client.FS) product.Product {
	t.Helper()
	return product.NewFile(identifier.NewFile(filepath.Join(dir, name)), fs)
}

func TestRenderExposesUpstreamFlattenedAndNested(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", newFileProduct(t, dir, "a.txt", fs), nil, nil, shell, dir, nil)
	if _, err := ta.Render(ctx, nil); err != nil {
		t.Fatalf("ta.Render: %v", err)
	}
	if _, err := ta.Execute(ctx, codediff.New()); err != nil {
		t.Fatalf("ta.Execute: %v", err)
	}

	tb := task.NewBashCommand("tb", "cat {{ta}} {{upstream.ta}} > {{product}}", "", "t",
		newFileProduct(t, dir, "b.txt", fs),
		map[string]task.Task{"ta": ta}, nil, shell, dir, nil)
	if _, err := tb.Render(ctx, nil); err != nil {
		t.Fatalf("tb.Render: %v", err)
	}
	if _, err := tb.Execute(ctx, codediff.New()); err != nil {
		t.Fatalf("tb.Execute: %v", err)
	}
}

func TestRenderFailsIfUpstreamNotRendered(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", newFileProduct(t, dir, "a.txt", fs), nil, nil, shell, dir, nil)
	tb := task.NewBashCommand("tb", "cat {{ta}} > {{product}}", "", "t",
		newFileProduct(t, dir, "b.txt", fs),
		map[string]task.Task{"ta": ta}, nil, shell, dir, nil)

	if _, err := tb.Render(ctx, nil); err == nil {
		t.Fatal("tb.Render should fail when ta has not been rendered yet")
	}
}

func TestExecuteSkipsOnceNotOutdated(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()
	differ := codediff.New()

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", newFileProduct(t, dir, "a.txt", fs), nil, nil, shell, dir, nil)
	if _, err := ta.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	ran, err := ta.Execute(ctx, differ)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if !ran {
		t.Fatal("first Execute should run (product did not exist yet)")
	}

	// A second task instance with the IDENTICAL rendered command, wired to
	// the same product file, should now observe itself as not outdated.
	tb := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", newFileProduct(t, dir, "a.txt", fs), nil, nil, shell, dir, nil)
	if _, err := tb.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	ran, err = tb.Execute(ctx, differ)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if ran {
		t.Error("second Execute with unchanged code and data should be skipped")
	}
}

func TestExecuteRerunsWhenRenderedSourceChanges(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()
	differ := codediff.New()

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", newFileProduct(t, dir, "a.txt", fs), nil, nil, shell, dir, nil)
	if _, err := ta.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := ta.Execute(ctx, differ); err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	changed := task.NewBashCommand("ta", "echo b > {{product}}", "", "t", newFileProduct(t, dir, "a.txt", fs), nil, nil, shell, dir, nil)
	if _, err := changed.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	ran, err := changed.Execute(ctx, differ)
	if err != nil {
		t.Fatalf("Execute after command change: %v", err)
	}
	if !ran {
		t.Error("Execute should rerun when the rendered command text changed")
	}
}

func TestRenderWarnsOnUnusedParam(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t",
		newFileProduct(t, dir, "a.txt", fs), nil,
		map[string]any{"unused_param": "x"}, shell, dir, nil)

	if _, err := ta.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	warnings := ta.Warnings()
	found := false
	for _, w := range warnings {
		if w.Message != "" {
			found = true
		}
	}
	if !found {
		t.Error("declaring an unused param should produce at least one warning")
	}
}

func TestExecuteRunsChecksThenTestsAfterASuccessfulRun(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()

	var order []string
	prod := newFileProduct(t, dir, "a.txt", fs)
	prod.AddCheck(func(ctx context.Context) error { order = append(order, "check"); return nil })
	prod.AddTest(func(ctx context.Context) error { order = append(order, "test"); return nil })

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", prod, nil, nil, shell, dir, nil)
	if _, err := ta.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	ran, err := ta.Execute(ctx, codediff.New())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ran {
		t.Fatal("Execute should run (product did not exist yet)")
	}
	if len(order) != 2 || order[0] != "check" || order[1] != "test" {
		t.Fatalf("expected checks to run before tests, got %v", order)
	}
}

func TestExecuteFailsWhenACheckFails(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()

	testRan := false
	prod := newFileProduct(t, dir, "a.txt", fs)
	prod.AddCheck(func(ctx context.Context) error { return errors.New("check failed") })
	prod.AddTest(func(ctx context.Context) error { testRan = true; return nil })

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", prod, nil, nil, shell, dir, nil)
	if _, err := ta.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := ta.Execute(ctx, codediff.New()); err == nil {
		t.Fatal("Execute should fail when a check returns an error")
	}
	if testRan {
		t.Error("a failing check should prevent tests from running")
	}
	if md, err := prod.FetchMetadata(ctx); err != nil || md.Timestamp != nil {
		t.Error("metadata should not be saved when a check fails")
	}
}

func TestExecuteFailsWhenATestFails(t *testing.T) {
	dir := t.TempDir()
	fs := clients.NewLocalFS()
	shell := clients.NewLocalShell()
	ctx := context.Background()

	prod := newFileProduct(t, dir, "a.txt", fs)
	prod.AddTest(func(ctx context.Context) error { return errors.New("test failed") })

	ta := task.NewBashCommand("ta", "echo a > {{product}}", "", "t", prod, nil, nil, shell, dir, nil)
	if _, err := ta.Render(ctx, nil); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := ta.Execute(ctx, codediff.New()); err == nil {
		t.Fatal("Execute should fail when a test returns an error")
	}
	if md, err := prod.FetchMetadata(ctx); err != nil || md.Timestamp != nil {
		t.Error("metadata should not be saved when a test fails")
	}
}
