// Package dagbuild is a build-oriented DAG task orchestrator for data
// pipelines: declare Tasks that each produce a Product, wire them into a
// DAG by their upstream sets, then Render and Build it.
//
// # Overview
//
// A Task binds a piece of executable source (a shell command, a SQL
// script, a Go callable) to the Product it produces and the upstream
// Tasks it reads from. Render resolves every {{placeholder}} in
// topological order, so a task's source can reference its upstream's
// already-rendered product identifiers. Build then walks the DAG in the
// same order, running each task whose product is outdated and skipping
// the rest.
//
//	d := dagbuild.New()
//	d.SetClient(identifier.KindFile, clients.NewLocalFS())
//
//	ta := task.NewBashCommand("ta", "echo a > a.txt", "", "pipeline.go:1",
//		product.NewFile(identifier.NewFile("a.txt"), fs), nil, nil, shell, "", nil)
//	tb := task.NewBashCommand("tb", "cat {{ta}} > b.txt", "", "pipeline.go:2",
//		product.NewFile(identifier.NewFile("b.txt"), fs),
//		map[string]task.Task{"ta": ta}, nil, shell, "", nil)
//
//	dagbuild.Sequence(d, ta, tb)
//	d.Render(ctx, nil)
//	stats, err := d.Build(ctx)
//
// # Outdatedness
//
// A product is outdated if it does not exist, if any upstream product has
// a later timestamp (or is itself outdated), or if its stored source code
// no longer matches the task's current rendered source under the
// package codediff's per-language normalization. See package product.
//
// # Packages
//
// template and params implement the {{expr}} substitution grammar and its
// observed parameter bag. source and identifier wrap a task's executable
// content and its product's persistent name. product implements the
// metadata protocol across file and relational backends, plus the
// MetaProduct facade for tasks with more than one output. client declares
// the external-system contracts; clients provides local filesystem,
// sqlite, and shell implementations. task assembles all of the above into
// the concrete task kinds the root package's DAG drives.
package dagbuild
